package event

import (
	"context"
	"time"

	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/baechuer/ewm-service/internal/query"
)

// FindEventsOfUser lists the owner's events in storage order.
func (s *Service) FindEventsOfUser(ctx context.Context, ownerID int64, p Page) ([]EventView, error) {
	offset, limit, err := p.offsetLimit()
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	evs, err := s.repo.ListByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.withViews(ctx, evs)
}

// AdminFilter holds the optional criteria of the moderation listing. Empty
// slices and nil bounds are ignored; the rest are AND-combined.
type AdminFilter struct {
	Users      []int64
	States     []string
	Categories []int64
	RangeStart *time.Time
	RangeEnd   *time.Time
	Page       Page
}

func (f AdminFilter) build() (query.Filter, error) {
	var out query.Filter
	if len(f.Users) > 0 {
		out = out.And(query.InNumbers(query.FieldInitiator, f.Users))
	}
	if len(f.States) > 0 {
		states, err := domain.ParseStates(f.States)
		if err != nil {
			return nil, err
		}
		raw := make([]string, len(states))
		for i, st := range states {
			raw[i] = string(st)
		}
		out = out.And(query.InStrings(query.FieldState, raw))
	}
	if len(f.Categories) > 0 {
		out = out.And(query.InNumbers(query.FieldCategory, f.Categories))
	}
	if f.RangeStart != nil {
		out = out.And(query.Gt(query.FieldEventDate, f.RangeStart.UTC()))
	}
	if f.RangeEnd != nil {
		out = out.And(query.Lt(query.FieldEventDate, f.RangeEnd.UTC()))
	}
	return out, nil
}

var storageOrder = query.Sort{{Field: query.FieldID}}

func (s *Service) FindEventsByAdmin(ctx context.Context, f AdminFilter) ([]EventView, error) {
	offset, limit, err := f.Page.offsetLimit()
	if err != nil {
		return nil, err
	}
	filter, err := f.build()
	if err != nil {
		return nil, err
	}
	evs, err := s.repo.Scan(ctx, filter, storageOrder, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.withViews(ctx, evs)
}
