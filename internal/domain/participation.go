package domain

import "time"

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestConfirmed RequestStatus = "CONFIRMED"
	RequestCanceled  RequestStatus = "CANCELED"
)

type ParticipationRequest struct {
	ID          int64
	EventID     int64
	RequesterID int64
	Status      RequestStatus
	Created     time.Time
}

// NewParticipationRequest applies the admission rules for a published event.
// confirmed is the number of requests already CONFIRMED for the event.
func NewParticipationRequest(ev *Event, requesterID int64, confirmed int, now time.Time) (*ParticipationRequest, error) {
	if ev.State != StatePublished {
		return nil, ErrInvalidRequest("only published events accept participation requests")
	}
	if ev.Initiator.ID == requesterID {
		return nil, ErrInvalidRequest("initiator cannot request participation in own event")
	}
	if ev.ParticipantLimit > 0 && confirmed >= ev.ParticipantLimit {
		return nil, ErrInvalidRequest("participant limit reached")
	}

	status := RequestPending
	if !ev.RequestModeration || ev.ParticipantLimit == 0 {
		status = RequestConfirmed
	}
	return &ParticipationRequest{
		EventID:     ev.ID,
		RequesterID: requesterID,
		Status:      status,
		Created:     now.UTC(),
	}, nil
}

func (r *ParticipationRequest) Cancel() {
	r.Status = RequestCanceled
}
