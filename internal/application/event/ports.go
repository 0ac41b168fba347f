package event

import (
	"context"
	"errors"
	"time"

	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/baechuer/ewm-service/internal/query"
)

type Clock interface {
	Now() time.Time
}

type EventRepo interface {
	Create(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Event, error)

	ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Event, error)
	Scan(ctx context.Context, f query.Filter, s query.Sort, offset, limit int) ([]*domain.Event, error)

	WithTx(ctx context.Context, fn func(tr TxEventRepo) error) error
}

// TxEventRepo is the view of the store inside a lifecycle transaction.
type TxEventRepo interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Event, error)
	Update(ctx context.Context, e *domain.Event) error
	InsertOutbox(ctx context.Context, msg OutboxMessage) error
}

type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (domain.User, error)
}

type CategoryDirectory interface {
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
}

// ErrStatsDecode marks a statistics response that could not be read.
// Gateways wrap it; every other gateway error is treated as unavailability.
var ErrStatsDecode = errors.New("stats: undecodable response")

type StatsGateway interface {
	ViewStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStat, error)
	Hit(ctx context.Context, h domain.Hit) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error
}

type OutboxMessage struct {
	MessageID  string
	RoutingKey string
	Body       []byte
	CreatedAt  time.Time
}
