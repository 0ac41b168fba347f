package event

import (
	"context"
	"errors"
	"time"

	"github.com/baechuer/ewm-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// statsWindow is how far back view counts are summed.
const statsWindow = 100 * 24 * time.Hour

// EventView pairs a stored event with its current view count.
type EventView struct {
	Event *domain.Event
	Views int64
}

// viewCounts asks the gateway for the hits of every id. Ids the gateway
// does not mention count 0. An unreachable gateway yields all zeros; a
// response that cannot be decoded fails the request.
func (s *Service) viewCounts(ctx context.Context, ids []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	uris := make([]string, 0, len(ids))
	byURI := make(map[string]int64, len(ids))
	for _, id := range ids {
		out[id] = 0
		u := domain.EventURI(id)
		if _, dup := byURI[u]; dup {
			continue
		}
		byURI[u] = id
		uris = append(uris, u)
	}

	now := s.clock.Now().UTC()
	stats, err := s.stats.ViewStats(ctx, now.Add(-statsWindow), now, uris, false)
	if err != nil {
		if errors.Is(err, ErrStatsDecode) {
			zlog.Error().Err(err).Int("uris", len(uris)).Msg("view stats decode failed")
			return nil, domain.ErrInternal("view statistics unavailable")
		}
		zlog.Warn().Err(err).Int("uris", len(uris)).Msg("view stats unavailable, defaulting to 0")
		return out, nil
	}

	for _, st := range stats {
		if id, ok := byURI[st.URI]; ok {
			out[id] = st.Hits
		}
	}
	return out, nil
}

func (s *Service) withViews(ctx context.Context, evs []*domain.Event) ([]EventView, error) {
	ids := make([]int64, len(evs))
	for i, e := range evs {
		ids[i] = e.ID
	}
	views, err := s.viewCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]EventView, len(evs))
	for i, e := range evs {
		out[i] = EventView{Event: e, Views: views[e.ID]}
	}
	return out, nil
}

func (s *Service) oneWithViews(ctx context.Context, e *domain.Event) (EventView, error) {
	vs, err := s.withViews(ctx, []*domain.Event{e})
	if err != nil {
		return EventView{}, err
	}
	return vs[0], nil
}
