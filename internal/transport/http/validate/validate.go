package validate

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/baechuer/ewm-service/internal/domain"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Report json names in error meta.
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// Body decodes and validates a JSON request body into dst.
func Body(r *http.Request, dst any) error {
	if err := DecodeJSON(r, dst); err != nil {
		return domain.ErrInvalidRequestMeta("invalid json body", map[string]string{
			"body": "malformed JSON or invalid fields",
		})
	}
	return Struct(dst)
}

// Struct runs the validate tags of s and reports failing fields in Meta.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return domain.ErrInvalidRequest(err.Error())
	}
	meta := make(map[string]string, len(ves))
	for _, fe := range ves {
		meta[fe.Field()] = describe(fe)
	}
	return domain.ErrInvalidRequestMeta("validation failed", meta)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " long"
	case "max":
		return "must be at most " + fe.Param() + " long"
	case "gt":
		return "must be > " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must match " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// PathID reads a positive int64 chi URL parameter.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidRequestMeta("invalid path param", map[string]string{
			name: "must be a positive integer",
		})
	}
	return id, nil
}

// QueryInt returns def when the parameter is absent.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidRequestMeta("invalid query param", map[string]string{
			name: "must be an integer",
		})
	}
	return n, nil
}

// QueryList collects a parameter given repeatedly (?a=1&a=2) or as a
// comma-separated value (?a=1,2). Blank items are skipped.
func QueryList(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func QueryInt64List(r *http.Request, name string) ([]int64, error) {
	raw := QueryList(r, name)
	out := make([]int64, 0, len(raw))
	for _, s := range raw {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, domain.ErrInvalidRequestMeta("invalid query param", map[string]string{
				name: "must be a list of integers",
			})
		}
		out = append(out, n)
	}
	return out, nil
}

// QueryTime parses an optional timestamp in layout. Absent yields nil.
func QueryTime(r *http.Request, name, layout string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(layout, raw, time.UTC)
	if err != nil {
		return nil, domain.ErrInvalidRequestMeta("invalid query param", map[string]string{
			name: "must match " + layout,
		})
	}
	return &t, nil
}
