// Package query parses the free-form filter and sort parameters of the event
// listing endpoints into typed trees. Translation to SQL lives with the store.
package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/ewm-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

type FieldType int

const (
	TypeNumber FieldType = iota + 1
	TypeString
	TypeDate
)

// Op is a comparison operation. OpIn is only produced by code, never parsed.
type Op string

const (
	OpEq   Op = "eq"
	OpLike Op = "like"
	OpLt   Op = "lt"
	OpLe   Op = "le"
	OpGt   Op = "gt"
	OpGe   Op = "ge"
	OpIn   Op = "in"
)

var parsedOps = map[string]Op{
	"eq":   OpEq,
	"like": OpLike,
	"lt":   OpLt,
	"le":   OpLe,
	"gt":   OpGt,
	"ge":   OpGe,
}

func (o Op) ordering() bool {
	return o == OpLt || o == OpLe || o == OpGt || o == OpGe
}

// Field paths a filter or sort may reference. category and initiator
// alone address the related entity's id.
var fields = map[string]FieldType{
	"id":               TypeNumber,
	"participantLimit": TypeNumber,
	"category":         TypeNumber,
	"category.id":      TypeNumber,
	"initiator":        TypeNumber,
	"initiator.id":     TypeNumber,

	"title":          TypeString,
	"annotation":     TypeString,
	"description":    TypeString,
	"state":          TypeString,
	"category.name":  TypeString,
	"initiator.name": TypeString,

	"eventDate":   TypeDate,
	"createdOn":   TypeDate,
	"publishedOn": TypeDate,
}

// Field names used by the service when it builds filters itself.
const (
	FieldID        = "id"
	FieldState     = "state"
	FieldEventDate = "eventDate"
	FieldCategory  = "category.id"
	FieldInitiator = "initiator.id"
)

func LookupField(path string) (FieldType, bool) {
	t, ok := fields[path]
	return t, ok
}

// Criterion is one predicate. Value is int64, string or time.Time for the
// scalar ops and []int64 or []string for OpIn.
type Criterion struct {
	Field string
	Op    Op
	Value any
}

// Filter is a conjunction of criteria. The empty filter matches everything.
type Filter []Criterion

func (f Filter) And(c ...Criterion) Filter {
	out := make(Filter, 0, len(f)+len(c))
	out = append(out, f...)
	return append(out, c...)
}

func Eq(field string, v any) Criterion { return Criterion{Field: field, Op: OpEq, Value: v} }
func Gt(field string, v any) Criterion { return Criterion{Field: field, Op: OpGt, Value: v} }
func Lt(field string, v any) Criterion { return Criterion{Field: field, Op: OpLt, Value: v} }

func InNumbers(field string, v []int64) Criterion {
	return Criterion{Field: field, Op: OpIn, Value: v}
}

func InStrings(field string, v []string) Criterion {
	return Criterion{Field: field, Op: OpIn, Value: v}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseFilter reads comma-separated "field op value" triples.
//
// Parts that are not exactly three tokens are dropped. Ops match
// lower-case only. A later triple for the same field replaces an earlier
// one, and a later triple with an unknown op clears it. The result keeps
// the order in which fields first appeared.
func ParseFilter(raw string) (Filter, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var slots []*Criterion
	pos := map[string]int{}
	set := func(field string, c *Criterion) {
		if i, seen := pos[field]; seen {
			slots[i] = c
			return
		}
		pos[field] = len(slots)
		slots = append(slots, c)
	}

	for _, part := range strings.Split(raw, ",") {
		tokens := strings.Fields(strings.TrimSpace(part))
		if len(tokens) != 3 {
			if len(tokens) > 0 {
				zlog.Debug().Str("part", part).Msg("filter part dropped: expected field op value")
			}
			continue
		}
		field, rawOp, rawVal := tokens[0], tokens[1], tokens[2]

		op, ok := parsedOps[rawOp]
		if !ok {
			zlog.Debug().Str("part", part).Str("op", rawOp).Msg("filter part dropped: unknown op")
			set(field, nil)
			continue
		}

		c, err := newCriterion(field, op, rawVal)
		if err != nil {
			return nil, err
		}
		set(field, &c)
	}

	var out Filter
	for _, c := range slots {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func newCriterion(field string, op Op, raw string) (Criterion, error) {
	typ, ok := fields[field]
	if !ok {
		return Criterion{}, domain.ErrInvalidRequestMeta("unknown filter field", map[string]string{
			"field": field,
		})
	}

	if op == OpLike {
		return Criterion{Field: field, Op: op, Value: raw}, nil
	}

	switch typ {
	case TypeNumber:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Criterion{}, domain.ErrInvalidRequestMeta("invalid filter value", map[string]string{
				field: "must be an integer",
			})
		}
		return Criterion{Field: field, Op: op, Value: n}, nil

	case TypeDate:
		t, ok := parseDate(raw)
		if !ok {
			return Criterion{}, domain.ErrInvalidRequestMeta("invalid filter value", map[string]string{
				field: "must be a date (2006-01-02, 2006-01-02 15:04:05 or RFC3339)",
			})
		}
		return Criterion{Field: field, Op: op, Value: t}, nil

	default:
		if op.ordering() {
			return Criterion{}, domain.ErrInvalidRequestMeta("operation not supported on text field", map[string]string{
				field: string(op),
			})
		}
		return Criterion{Field: field, Op: op, Value: raw}, nil
	}
}
