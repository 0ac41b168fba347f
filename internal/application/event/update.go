package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/baechuer/ewm-service/internal/domain"
	appCtx "github.com/baechuer/ewm-service/internal/pkg/context"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

type UserUpdateCmd struct {
	OwnerID   int64
	EventID   int64
	Action    domain.OwnerAction
	EventDate time.Time
}

// UserUpdateEvent applies an initiator's transition under a row lock. An
// event owned by someone else reads as not found.
func (s *Service) UserUpdateEvent(ctx context.Context, cmd UserUpdateCmd) (*domain.Event, error) {
	if _, err := s.users.GetUser(ctx, cmd.OwnerID); err != nil {
		return nil, err
	}

	var out *domain.Event
	err := s.repo.WithTx(ctx, func(r TxEventRepo) error {
		ev, err := r.GetByIDForUpdate(ctx, cmd.EventID)
		if err != nil {
			return err
		}
		if ev.Initiator.ID != cmd.OwnerID {
			return domain.ErrNotFound("event not found")
		}

		now := s.clock.Now().UTC()
		if err := ev.ApplyOwnerUpdate(cmd.Action, cmd.EventDate, now); err != nil {
			return err
		}
		if err := r.Update(ctx, ev); err != nil {
			return err
		}

		rk := RKSubmitted
		if cmd.Action == domain.ActionCancelReview {
			rk = RKCanceled
		}
		if err := writeOutbox(ctx, r, ev, rk, cmd.Action.String(), "user", now); err != nil {
			return err
		}
		out = ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	zlog.Info().
		Int64("event_id", out.ID).
		Str("action", cmd.Action.String()).
		Str("state", string(out.State)).
		Msg("event updated by owner")
	return out, nil
}

type AdminUpdateCmd struct {
	EventID   int64
	Action    domain.AdminAction
	EventDate time.Time
}

func (s *Service) AdminUpdateEvent(ctx context.Context, cmd AdminUpdateCmd) (*domain.Event, error) {
	var out *domain.Event
	err := s.repo.WithTx(ctx, func(r TxEventRepo) error {
		ev, err := r.GetByIDForUpdate(ctx, cmd.EventID)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		if err := ev.ApplyAdminUpdate(cmd.Action, cmd.EventDate, now); err != nil {
			return err
		}
		if err := r.Update(ctx, ev); err != nil {
			return err
		}

		rk := RKPublished
		if cmd.Action == domain.ActionReject {
			rk = RKRejected
		}
		if err := writeOutbox(ctx, r, ev, rk, cmd.Action.String(), "admin", now); err != nil {
			return err
		}
		out = ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	zlog.Info().
		Int64("event_id", out.ID).
		Str("action", cmd.Action.String()).
		Str("state", string(out.State)).
		Msg("event moderated")
	return out, nil
}

// writeOutbox stores the domain event in the same transaction as the
// state change it describes.
func writeOutbox(ctx context.Context, r TxEventRepo, ev *domain.Event, rk, action, role string, now time.Time) error {
	messageID := uuid.NewString()
	env := DomainEventEnvelope[EventStateChangedPayload]{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  messageID,
		TraceID:    appCtx.GetRequestID(ctx),
		OccurredAt: now,
		Payload:    stateChangedPayload(ev, action, role),
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.InsertOutbox(ctx, OutboxMessage{
		MessageID:  messageID,
		RoutingKey: rk,
		Body:       body,
		CreatedAt:  now,
	})
}
