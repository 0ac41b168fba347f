package dto

import (
	"testing"
	"time"

	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() *domain.Event {
	return &domain.Event{
		ID:                7,
		Initiator:         domain.UserShort{ID: 1, Name: "Ann"},
		Category:          domain.Category{ID: 2, Name: "Concerts"},
		Title:             "Jazz night",
		Annotation:        "An evening of standards",
		Description:       "Quartet plays the classics",
		Location:          domain.Location{Lat: 55.75, Lon: 37.62},
		Paid:              true,
		ParticipantLimit:  50,
		RequestModeration: true,
		CreatedOn:         time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		EventDate:         time.Date(2025, 12, 25, 19, 30, 0, 0, time.UTC),
		State:             domain.StatePending,
	}
}

func TestToEventShort(t *testing.T) {
	got := ToEventShort(sampleEvent(), 12)

	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "2025-12-25 19:30:00", got.EventDate)
	assert.Equal(t, CategoryDto{ID: 2, Name: "Concerts"}, got.Category)
	assert.Equal(t, UserShortDto{ID: 1, Name: "Ann"}, got.Initiator)
	assert.Equal(t, int64(12), got.Views)
}

func TestToEventFull(t *testing.T) {
	t.Run("pending_has_no_published_on", func(t *testing.T) {
		got := ToEventFull(sampleEvent(), 0)
		assert.Equal(t, "PENDING", got.State)
		assert.Equal(t, "2025-01-02 03:04:05", got.CreatedOn)
		assert.Nil(t, got.PublishedOn)
		assert.Equal(t, Location{Lat: 55.75, Lon: 37.62}, got.Location)
	})

	t.Run("published_reports_published_on", func(t *testing.T) {
		e := sampleEvent()
		pub := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		e.State = domain.StatePublished
		e.PublishedOn = &pub

		got := ToEventFull(e, 3)
		require.NotNil(t, got.PublishedOn)
		assert.Equal(t, "2025-06-01 12:00:00", *got.PublishedOn)
		assert.Equal(t, int64(3), got.Views)
	})
}

func TestToNewEventInput(t *testing.T) {
	lat, lon := 1.5, -2.5

	t.Run("moderation_defaults_to_true", func(t *testing.T) {
		in, err := ToNewEventInput(NewEventReq{
			Title:     "Title",
			EventDate: "2025-12-25 19:30:00",
			Location:  &LocationDto{Lat: &lat, Lon: &lon},
		})
		require.NoError(t, err)
		assert.True(t, in.RequestModeration)
		assert.Equal(t, time.Date(2025, 12, 25, 19, 30, 0, 0, time.UTC), in.EventDate)
		assert.Equal(t, domain.Location{Lat: 1.5, Lon: -2.5}, in.Location)
	})

	t.Run("explicit_moderation_is_kept", func(t *testing.T) {
		off := false
		in, err := ToNewEventInput(NewEventReq{EventDate: "2025-12-25 19:30:00", RequestModeration: &off})
		require.NoError(t, err)
		assert.False(t, in.RequestModeration)
	})

	t.Run("bad_date_is_invalid_request", func(t *testing.T) {
		_, err := ToNewEventInput(NewEventReq{EventDate: "25/12/2025"})
		assert.Equal(t, domain.CodeInvalidRequest, domain.CodeOf(err))
	})
}

func TestToRequestDto(t *testing.T) {
	got := ToRequestDto(&domain.ParticipationRequest{
		ID: 4, EventID: 7, RequesterID: 9,
		Status:  domain.RequestConfirmed,
		Created: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, RequestDto{ID: 4, Event: 7, Requester: 9, Status: "CONFIRMED", Created: "2025-03-01 08:00:00"}, got)
}
