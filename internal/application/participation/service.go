package participation

import (
	"context"

	"github.com/baechuer/ewm-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

type Service struct {
	repo  RequestRepo
	users UserDirectory
	clock Clock
}

func New(repo RequestRepo, users UserDirectory, clock Clock) *Service {
	return &Service{repo: repo, users: users, clock: clock}
}

func (s *Service) AddRequest(ctx context.Context, userID, eventID int64) (*domain.ParticipationRequest, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	var req *domain.ParticipationRequest
	err := s.repo.WithTx(ctx, func(tr TxRequestRepo) error {
		ev, err := tr.GetEventForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		confirmed, err := tr.CountConfirmed(ctx, eventID)
		if err != nil {
			return err
		}
		req, err = domain.NewParticipationRequest(ev, userID, confirmed, s.clock.Now())
		if err != nil {
			return err
		}
		return tr.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	zlog.Info().
		Int64("request_id", req.ID).
		Int64("event_id", eventID).
		Int64("user_id", userID).
		Str("status", string(req.Status)).
		Msg("participation requested")
	return req, nil
}

// CancelRequest cancels the user's own request. Requests of other users
// read as not found.
func (s *Service) CancelRequest(ctx context.Context, userID, requestID int64) (*domain.ParticipationRequest, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequesterID != userID {
		return nil, domain.ErrNotFound("request not found")
	}

	req.Cancel()
	if err := s.repo.UpdateStatus(ctx, req.ID, req.Status); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Service) FindUserRequests(ctx context.Context, userID int64) ([]*domain.ParticipationRequest, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByRequester(ctx, userID)
}
