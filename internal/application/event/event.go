package event

import (
	"time"

	"github.com/baechuer/ewm-service/internal/domain"
)

const (
	EventVersion  = 1
	EventProducer = "ewm-service"
)

// Routing keys of the domain events written to the outbox.
const (
	RKSubmitted = "event.submitted"
	RKCanceled  = "event.canceled"
	RKPublished = "event.published"
	RKRejected  = "event.rejected"
)

// DomainEventEnvelope is the stable contract for every domain event this
// service emits. trace_id carries the originating request id when known.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// EventStateChangedPayload is shared by all lifecycle routing keys.
type EventStateChangedPayload struct {
	EventID     int64      `json:"event_id"`
	InitiatorID int64      `json:"initiator_id"`
	CategoryID  int64      `json:"category_id"`
	Title       string     `json:"title"`
	EventDate   time.Time  `json:"event_date"`
	State       string     `json:"state"`
	PublishedOn *time.Time `json:"published_on,omitempty"`
	Action      string     `json:"action"`
	ActorRole   string     `json:"actor_role"`
}

func stateChangedPayload(ev *domain.Event, action, role string) EventStateChangedPayload {
	return EventStateChangedPayload{
		EventID:     ev.ID,
		InitiatorID: ev.Initiator.ID,
		CategoryID:  ev.Category.ID,
		Title:       ev.Title,
		EventDate:   ev.EventDate,
		State:       string(ev.State),
		PublishedOn: ev.PublishedOn,
		Action:      action,
		ActorRole:   role,
	}
}
