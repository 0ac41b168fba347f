package participation

import (
	"context"
	"time"

	"github.com/baechuer/ewm-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

// RequestRepo stores participation requests.
type RequestRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.ParticipationRequest, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error
	ListByRequester(ctx context.Context, requesterID int64) ([]*domain.ParticipationRequest, error)
	WithTx(ctx context.Context, fn func(tr TxRequestRepo) error) error
}

// TxRequestRepo is the admission view of the store. GetEventForUpdate
// locks the event row so concurrent admissions to one event serialize.
// Create reports a second request for the same event and requester as
// domain.CodeNameConflict.
type TxRequestRepo interface {
	GetEventForUpdate(ctx context.Context, id int64) (*domain.Event, error)
	CountConfirmed(ctx context.Context, eventID int64) (int, error)
	Create(ctx context.Context, r *domain.ParticipationRequest) error
}

type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (domain.User, error)
}
