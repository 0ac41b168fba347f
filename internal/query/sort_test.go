package query

import (
	"testing"

	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want Sort
	}{
		{"single_desc", []string{"eventDate,desc"}, Sort{{Field: "eventDate", Desc: true}}},
		{"case_insensitive_direction", []string{"id,ASC"}, Sort{{Field: "id"}}},
		{"split_pair_is_joined", []string{"eventDate", "desc"}, Sort{{Field: "eventDate", Desc: true}}},
		{"dotted_field", []string{"category.name,asc"}, Sort{{Field: "category.name"}}},
		{"blank_is_skipped", []string{" ", "id,desc"}, Sort{{Field: "id", Desc: true}}},
		{"empty_is_unsorted", nil, nil},
		{"many", []string{"state,asc", "id,desc", "title,asc"}, Sort{
			{Field: "state"}, {Field: "id", Desc: true}, {Field: "title"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSort(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("bad_format_fails", func(t *testing.T) {
		_, err := ParseSort([]string{"bad format"})
		assert.Equal(t, domain.CodeInvalidRequest, domain.CodeOf(err))
	})

	t.Run("unknown_field_fails", func(t *testing.T) {
		_, err := ParseSort([]string{"views,desc"})
		assert.Equal(t, domain.CodeInvalidRequest, domain.CodeOf(err))
	})

	t.Run("too_deep_path_fails", func(t *testing.T) {
		_, err := ParseSort([]string{"a.b.c.d,asc"})
		assert.Error(t, err)
	})
}
