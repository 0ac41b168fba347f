package event

import (
	"context"

	"github.com/baechuer/ewm-service/internal/domain"
)

func (s *Service) FindUserEventByID(ctx context.Context, ownerID, eventID int64) (EventView, error) {
	e, err := s.repo.GetByIDAndOwner(ctx, eventID, ownerID)
	if err != nil {
		return EventView{}, err
	}
	return s.oneWithViews(ctx, e)
}

// GetPublishedEvent returns a PUBLISHED event. Any other state reads as
// not found.
func (s *Service) GetPublishedEvent(ctx context.Context, id int64, clientIP string) (EventView, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return EventView{}, err
	}
	if e.State != domain.StatePublished {
		return EventView{}, domain.ErrNotFound("event not found")
	}

	s.recordHit(ctx, domain.EventURI(id), clientIP)
	return s.oneWithViews(ctx, e)
}
