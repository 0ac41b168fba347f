package event

import (
	"context"
	"time"

	"github.com/baechuer/ewm-service/internal/domain"
)

// NoopStats is used when no statistics service is configured.
type NoopStats struct{}

func (NoopStats) ViewStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStat, error) {
	return nil, nil
}

func (NoopStats) Hit(ctx context.Context, h domain.Hit) error { return nil }
