package event

import (
	"strings"

	"github.com/baechuer/ewm-service/internal/domain"
)

const (
	DefaultPageSize = 10
	maxPageSize     = 1000
)

type Service struct {
	repo       EventRepo
	users      UserDirectory
	categories CategoryDirectory
	stats      StatsGateway
	clock      Clock

	// app is the name hits are recorded under.
	app string
}

func New(
	repo EventRepo,
	users UserDirectory,
	categories CategoryDirectory,
	stats StatsGateway,
	clock Clock,
	app string,
) *Service {
	if stats == nil {
		stats = NoopStats{}
	}
	app = strings.TrimSpace(app)
	if app == "" {
		app = "ewm-main-service"
	}
	return &Service{
		repo:       repo,
		users:      users,
		categories: categories,
		stats:      stats,
		clock:      clock,
		app:        app,
	}
}

// Page is the from/size window of a listing. From is rounded down to a
// multiple of Size.
type Page struct {
	From int
	Size int
}

func (p Page) offsetLimit() (int, int, error) {
	if p.From < 0 {
		return 0, 0, domain.ErrInvalidRequestMeta("invalid query param", map[string]string{
			"from": "must be >= 0",
		})
	}
	if p.Size <= 0 {
		return 0, 0, domain.ErrInvalidRequestMeta("invalid query param", map[string]string{
			"size": "must be > 0",
		})
	}
	size := p.Size
	if size > maxPageSize {
		size = maxPageSize
	}
	return (p.From / size) * size, size, nil
}
