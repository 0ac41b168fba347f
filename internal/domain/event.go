package domain

import (
	"strings"
	"time"
)

const (
	// Minimum distance between "now" and the event date on update.
	OwnerLeadTime = 2 * time.Hour
	AdminLeadTime = 1 * time.Hour
)

type Location struct {
	Lat float64
	Lon float64
}

type Event struct {
	ID                int64
	Initiator         UserShort
	Category          Category
	Title             string
	Annotation        string
	Description       string
	Location          Location
	Paid              bool
	ParticipantLimit  int // 0 = unlimited
	RequestModeration bool
	CreatedOn         time.Time

	EventDate   time.Time
	State       EventState
	PublishedOn *time.Time
}

type NewEventInput struct {
	Title             string
	Annotation        string
	Description       string
	EventDate         time.Time
	Location          Location
	Paid              bool
	ParticipantLimit  int
	RequestModeration bool
}

// NewPending builds an event awaiting moderation. The event date is not
// checked against now here; the lead-time rules apply to updates only.
func NewPending(initiator UserShort, category Category, in NewEventInput, now time.Time) (*Event, error) {
	title := strings.TrimSpace(in.Title)
	annotation := strings.TrimSpace(in.Annotation)
	description := strings.TrimSpace(in.Description)

	if initiator.ID <= 0 {
		return nil, ErrInvalidRequest("initiator is required")
	}
	if category.ID <= 0 {
		return nil, ErrInvalidRequest("category is required")
	}
	if title == "" || len(title) > 120 {
		return nil, ErrInvalidRequest("title is required and must be <= 120 chars")
	}
	if annotation == "" || len(annotation) > 2000 {
		return nil, ErrInvalidRequest("annotation is required and must be <= 2000 chars")
	}
	if description == "" || len(description) > 7000 {
		return nil, ErrInvalidRequest("description is required and must be <= 7000 chars")
	}
	if in.EventDate.IsZero() {
		return nil, ErrInvalidRequest("eventDate is required")
	}
	if in.ParticipantLimit < 0 {
		return nil, ErrInvalidRequest("participantLimit must be >= 0 (0 means unlimited)")
	}

	return &Event{
		Initiator:         initiator,
		Category:          category,
		Title:             title,
		Annotation:        annotation,
		Description:       description,
		Location:          in.Location,
		Paid:              in.Paid,
		ParticipantLimit:  in.ParticipantLimit,
		RequestModeration: in.RequestModeration,
		CreatedOn:         now.UTC(),
		EventDate:         in.EventDate.UTC(),
		State:             StatePending,
	}, nil
}

func checkLeadTime(eventDate, now time.Time, lead time.Duration) error {
	threshold := now.Add(lead)
	if !eventDate.After(threshold) {
		return ErrInvalidRequestMeta("event date is too close", map[string]string{
			"eventDate": "must be later than " + threshold.UTC().Format(time.RFC3339),
		})
	}
	return nil
}

// ApplyOwnerUpdate moves a PENDING or CANCELED event on behalf of its initiator.
func (e *Event) ApplyOwnerUpdate(action OwnerAction, eventDate, now time.Time) error {
	if e.State == StatePublished {
		return ErrInvalidRequest("only pending or canceled events can be changed")
	}
	if err := checkLeadTime(eventDate, now, OwnerLeadTime); err != nil {
		return err
	}

	switch action {
	case ActionSendToReview:
		e.State = StatePending
	case ActionCancelReview:
		e.State = StateCanceled
	default:
		return ErrInvalidRequest("unknown state action")
	}
	e.EventDate = eventDate.UTC()
	return nil
}

// ApplyAdminUpdate moderates a PENDING event.
func (e *Event) ApplyAdminUpdate(action AdminAction, eventDate, now time.Time) error {
	if e.State != StatePending {
		return ErrInvalidRequest("event is not awaiting moderation")
	}
	if err := checkLeadTime(eventDate, now, AdminLeadTime); err != nil {
		return err
	}

	switch action {
	case ActionPublish:
		t := now.UTC()
		e.State = StatePublished
		e.PublishedOn = &t
	case ActionReject:
		e.State = StateCanceled
	default:
		return ErrInvalidRequest("unknown state action")
	}
	e.EventDate = eventDate.UTC()
	return nil
}
