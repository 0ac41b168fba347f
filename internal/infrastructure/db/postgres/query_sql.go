package postgres

import (
	"fmt"
	"strings"

	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/baechuer/ewm-service/internal/query"
	"github.com/lib/pq"
)

// columns maps filter and sort field paths to the joined event select.
var columns = map[string]string{
	"id":               "e.id",
	"participantLimit": "e.participant_limit",
	"category":         "e.category_id",
	"category.id":      "e.category_id",
	"initiator":        "e.initiator_id",
	"initiator.id":     "e.initiator_id",
	"title":            "e.title",
	"annotation":       "e.annotation",
	"description":      "e.description",
	"state":            "e.state",
	"category.name":    "c.name",
	"initiator.name":   "u.name",
	"eventDate":        "e.event_date",
	"createdOn":        "e.created_on",
	"publishedOn":      "e.published_on",
}

var comparators = map[query.Op]string{
	query.OpEq: "=",
	query.OpLt: "<",
	query.OpLe: "<=",
	query.OpGt: ">",
	query.OpGe: ">=",
}

func column(field string) (string, error) {
	col, ok := columns[field]
	if !ok {
		return "", domain.ErrInvalidRequestMeta("unknown field", map[string]string{"field": field})
	}
	return col, nil
}

// buildWhere renders f as a WHERE clause with placeholders numbered from
// argStart. An empty filter renders as "".
func buildWhere(f query.Filter, argStart int) (string, []any, error) {
	if len(f) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(f))
	args := make([]any, 0, len(f))
	n := argStart

	for _, c := range f {
		col, err := column(c.Field)
		if err != nil {
			return "", nil, err
		}

		switch c.Op {
		case query.OpLike:
			clauses = append(clauses, fmt.Sprintf("CAST(%s AS TEXT) LIKE $%d", col, n))
			args = append(args, "%"+fmt.Sprint(c.Value)+"%")

		case query.OpIn:
			switch v := c.Value.(type) {
			case []int64:
				args = append(args, pq.Array(v))
			case []string:
				args = append(args, pq.Array(v))
			default:
				return "", nil, fmt.Errorf("in: unsupported value type %T for %s", c.Value, c.Field)
			}
			clauses = append(clauses, fmt.Sprintf("%s = ANY($%d)", col, n))

		default:
			cmp, ok := comparators[c.Op]
			if !ok {
				return "", nil, fmt.Errorf("unsupported op %q for %s", c.Op, c.Field)
			}
			clauses = append(clauses, fmt.Sprintf("%s %s $%d", col, cmp, n))
			args = append(args, c.Value)
		}
		n++
	}

	return "WHERE " + strings.Join(clauses, " AND ") + "\n", args, nil
}

// buildOrderBy renders s. The event id is always the final tiebreaker so
// pages are stable.
func buildOrderBy(s query.Sort) (string, error) {
	parts := make([]string, 0, len(s)+1)
	hasID := false
	for _, o := range s {
		col, err := column(o.Field)
		if err != nil {
			return "", err
		}
		if col == "e.id" {
			hasID = true
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	if !hasID {
		parts = append(parts, "e.id ASC")
	}
	return "ORDER BY " + strings.Join(parts, ", ") + "\n", nil
}

func limitOffset(argStart int) string {
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", argStart, argStart+1)
}
