package event

import (
	"context"

	"github.com/baechuer/ewm-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

type AddEventCmd struct {
	OwnerID    int64
	CategoryID int64
	domain.NewEventInput
}

// AddEvent stores a new PENDING event. The event date is not checked
// against the clock at creation.
func (s *Service) AddEvent(ctx context.Context, cmd AddEventCmd) (*domain.Event, error) {
	owner, err := s.users.GetUser(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	cat, err := s.categories.GetCategory(ctx, cmd.CategoryID)
	if err != nil {
		return nil, err
	}

	e, err := domain.NewPending(owner.Short(), cat, cmd.NewEventInput, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	zlog.Info().Int64("event_id", e.ID).Int64("owner_id", owner.ID).Msg("event added")
	return e, nil
}
