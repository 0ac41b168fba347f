package event

import (
	"context"

	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/baechuer/ewm-service/internal/query"
	zlog "github.com/rs/zerolog/log"
)

const listURI = "/events"

type PublicQuery struct {
	Filter   string
	Sort     []string
	Page     Page
	ClientIP string
}

// FindPublishedEvents scans PUBLISHED events with the caller's filter and
// ordering. Without a sort the storage order applies.
func (s *Service) FindPublishedEvents(ctx context.Context, q PublicQuery) ([]EventView, error) {
	offset, limit, err := q.Page.offsetLimit()
	if err != nil {
		return nil, err
	}
	filter, err := query.ParseFilter(q.Filter)
	if err != nil {
		return nil, err
	}
	order, err := query.ParseSort(q.Sort)
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		order = storageOrder
	}

	filter = filter.And(query.Eq(query.FieldState, string(domain.StatePublished)))
	evs, err := s.repo.Scan(ctx, filter, order, offset, limit)
	if err != nil {
		return nil, err
	}

	s.recordHit(ctx, listURI, q.ClientIP)
	return s.withViews(ctx, evs)
}

// recordHit is best-effort; failures are logged only.
func (s *Service) recordHit(ctx context.Context, uri, ip string) {
	h := domain.Hit{
		App:       s.app,
		URI:       uri,
		IP:        ip,
		Timestamp: s.clock.Now().UTC(),
	}
	if err := s.stats.Hit(ctx, h); err != nil {
		zlog.Warn().Err(err).Str("uri", uri).Msg("record hit failed")
	}
}
