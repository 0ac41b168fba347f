package dto

import (
	"time"

	"github.com/baechuer/ewm-service/internal/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}

// ParseDateTime reads a DateTimeLayout value as UTC.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, s, time.UTC)
}

func ToEventShort(e *domain.Event, views int64) EventShort {
	return EventShort{
		ID:         e.ID,
		Title:      e.Title,
		Annotation: e.Annotation,
		Category:   CategoryDto{ID: e.Category.ID, Name: e.Category.Name},
		EventDate:  formatTime(e.EventDate),
		Initiator:  UserShortDto{ID: e.Initiator.ID, Name: e.Initiator.Name},
		Paid:       e.Paid,
		Views:      views,
	}
}

func ToEventFull(e *domain.Event, views int64) EventFull {
	out := EventFull{
		EventShort:        ToEventShort(e, views),
		Description:       e.Description,
		State:             string(e.State),
		CreatedOn:         formatTime(e.CreatedOn),
		Location:          Location{Lat: e.Location.Lat, Lon: e.Location.Lon},
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
	}
	if e.PublishedOn != nil {
		s := formatTime(*e.PublishedOn)
		out.PublishedOn = &s
	}
	return out
}

// ToNewEventInput assumes req passed validation.
func ToNewEventInput(req NewEventReq) (domain.NewEventInput, error) {
	date, err := ParseDateTime(req.EventDate)
	if err != nil {
		return domain.NewEventInput{}, domain.ErrInvalidRequestMeta("invalid json body", map[string]string{
			"eventDate": "must be " + DateTimeLayout,
		})
	}
	in := domain.NewEventInput{
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		EventDate:         date,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: true,
	}
	if req.Location != nil && req.Location.Lat != nil && req.Location.Lon != nil {
		in.Location = domain.Location{Lat: *req.Location.Lat, Lon: *req.Location.Lon}
	}
	if req.RequestModeration != nil {
		in.RequestModeration = *req.RequestModeration
	}
	return in, nil
}

func ToRequestDto(r *domain.ParticipationRequest) RequestDto {
	return RequestDto{
		ID:        r.ID,
		Event:     r.EventID,
		Requester: r.RequesterID,
		Status:    string(r.Status),
		Created:   formatTime(r.Created),
	}
}
