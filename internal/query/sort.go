package query

import (
	"regexp"
	"strings"

	"github.com/baechuer/ewm-service/internal/domain"
)

var sortPattern = regexp.MustCompile(`^\w+(\.\w+){0,2},(?i:asc|desc)$`)

type Order struct {
	Field string
	Desc  bool
}

// Sort is applied left to right. An empty Sort leaves the storage order.
type Sort []Order

// ParseSort reads "field,asc|desc" directives.
//
// Query strings like ?sort=eventDate&sort=desc arrive split in two; a
// two-element list whose comma-join is a valid directive is read as one.
func ParseSort(raw []string) (Sort, error) {
	if len(raw) == 2 {
		joined := strings.TrimSpace(raw[0]) + "," + strings.TrimSpace(raw[1])
		if sortPattern.MatchString(joined) {
			raw = []string{joined}
		}
	}

	var out Sort
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !sortPattern.MatchString(r) {
			return nil, domain.ErrInvalidRequestMeta("invalid sort directive", map[string]string{
				"sort": r,
			})
		}
		field, dir, _ := strings.Cut(r, ",")
		if _, ok := fields[field]; !ok {
			return nil, domain.ErrInvalidRequestMeta("unknown sort field", map[string]string{
				"sort": field,
			})
		}
		out = append(out, Order{Field: field, Desc: strings.EqualFold(dir, "desc")})
	}
	return out, nil
}
