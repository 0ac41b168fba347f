package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/ewm-service/internal/application/event"
	"github.com/baechuer/ewm-service/internal/application/participation"
	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/baechuer/ewm-service/internal/query"
)

var testNow = time.Date(2025, 12, 25, 10, 0, 0, 0, time.UTC)

type stubClock struct{}

func (stubClock) Now() time.Time { return testNow }

// memEvents keeps events in insertion order. Scan ignores the filter and
// returns PUBLISHED events only, which is all the handlers need.
type memEvents struct {
	byID   map[int64]*domain.Event
	nextID int64
	scans  []query.Filter
}

func newMemEvents() *memEvents { return &memEvents{byID: map[int64]*domain.Event{}, nextID: 1} }

func (m *memEvents) put(e *domain.Event) {
	cp := *e
	m.byID[e.ID] = &cp
	if e.ID >= m.nextID {
		m.nextID = e.ID + 1
	}
}

func (m *memEvents) ordered() []*domain.Event {
	var out []*domain.Event
	for id := int64(1); id < m.nextID; id++ {
		if e, ok := m.byID[id]; ok {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}

func (m *memEvents) Create(ctx context.Context, e *domain.Event) error {
	e.ID = m.nextID
	m.put(e)
	return nil
}

func (m *memEvents) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound("event not found")
	}
	cp := *e
	return &cp, nil
}

func (m *memEvents) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Event, error) {
	e, err := m.GetByID(ctx, id)
	if err != nil || e.Initiator.ID != ownerID {
		return nil, domain.ErrNotFound("event not found")
	}
	return e, nil
}

func (m *memEvents) ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range m.ordered() {
		if e.Initiator.ID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEvents) Scan(ctx context.Context, f query.Filter, s query.Sort, offset, limit int) ([]*domain.Event, error) {
	m.scans = append(m.scans, f)
	var out []*domain.Event
	for _, e := range m.ordered() {
		if e.State == domain.StatePublished {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEvents) WithTx(ctx context.Context, fn func(tr event.TxEventRepo) error) error {
	return fn(memEventsTx{m})
}

type memEventsTx struct{ m *memEvents }

func (t memEventsTx) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Event, error) {
	return t.m.GetByID(ctx, id)
}

func (t memEventsTx) Update(ctx context.Context, e *domain.Event) error {
	t.m.put(e)
	return nil
}

func (t memEventsTx) InsertOutbox(ctx context.Context, msg event.OutboxMessage) error { return nil }

type stubUsers struct{}

func (stubUsers) GetUser(ctx context.Context, id int64) (domain.User, error) {
	if id > 100 {
		return domain.User{}, domain.ErrNotFound("user not found")
	}
	return domain.User{ID: id, Name: "user"}, nil
}

type stubCategories struct{}

func (stubCategories) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	if id != 5 {
		return domain.Category{}, domain.ErrNotFound("category not found")
	}
	return domain.Category{ID: 5, Name: "concerts"}, nil
}

type stubStats struct {
	views map[string]int64
	hits  []domain.Hit
}

func (s *stubStats) ViewStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStat, error) {
	var out []domain.ViewStat
	for _, u := range uris {
		if n, ok := s.views[u]; ok {
			out = append(out, domain.ViewStat{URI: u, Hits: n})
		}
	}
	return out, nil
}

func (s *stubStats) Hit(ctx context.Context, h domain.Hit) error {
	s.hits = append(s.hits, h)
	return nil
}

type memRequests struct {
	events *memEvents
	byID   map[int64]*domain.ParticipationRequest
	nextID int64
}

func newMemRequests(events *memEvents) *memRequests {
	return &memRequests{events: events, byID: map[int64]*domain.ParticipationRequest{}, nextID: 1}
}

func (m *memRequests) WithTx(ctx context.Context, fn func(tr participation.TxRequestRepo) error) error {
	return fn(m)
}

func (m *memRequests) GetEventForUpdate(ctx context.Context, id int64) (*domain.Event, error) {
	return m.events.GetByID(ctx, id)
}

func (m *memRequests) Create(ctx context.Context, r *domain.ParticipationRequest) error {
	for _, ex := range m.byID {
		if ex.EventID == r.EventID && ex.RequesterID == r.RequesterID {
			return domain.ErrNameConflict("request already exists")
		}
	}
	r.ID = m.nextID
	m.nextID++
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *memRequests) GetByID(ctx context.Context, id int64) (*domain.ParticipationRequest, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound("request not found")
	}
	cp := *r
	return &cp, nil
}

func (m *memRequests) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	m.byID[id].Status = status
	return nil
}

func (m *memRequests) ListByRequester(ctx context.Context, requesterID int64) ([]*domain.ParticipationRequest, error) {
	var out []*domain.ParticipationRequest
	for id := int64(1); id < m.nextID; id++ {
		if r, ok := m.byID[id]; ok && r.RequesterID == requesterID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRequests) CountConfirmed(ctx context.Context, eventID int64) (int, error) {
	n := 0
	for _, r := range m.byID {
		if r.EventID == eventID && r.Status == domain.RequestConfirmed {
			n++
		}
	}
	return n, nil
}

type env struct {
	events   *memEvents
	requests *memRequests
	stats    *stubStats
	router   chi.Router
}

func newEnv() *env {
	events := newMemEvents()
	requests := newMemRequests(events)
	stats := &stubStats{views: map[string]int64{}}

	evSvc := event.New(events, stubUsers{}, stubCategories{}, stats, stubClock{}, "ewm-test")
	reqSvc := participation.New(requests, stubUsers{}, stubClock{})

	h := NewEventsHandler(evSvc)
	rh := NewRequestsHandler(reqSvc)

	r := chi.NewRouter()
	r.Post("/users/{userId}/events", h.Create)
	r.Get("/users/{userId}/events", h.ListMine)
	r.Get("/users/{userId}/events/{eventId}", h.GetMine)
	r.Patch("/users/{userId}/events/{eventId}", h.UpdateMine)
	r.Get("/admin/events", h.AdminList)
	r.Patch("/admin/events/{eventId}", h.AdminUpdate)
	r.Get("/events", h.ListPublic)
	r.Get("/events/{eventId}", h.GetPublic)
	r.Post("/users/{userId}/requests", rh.Create)
	r.Get("/users/{userId}/requests", rh.List)
	r.Patch("/users/{userId}/requests/{requestId}/cancel", rh.Cancel)

	return &env{events: events, requests: requests, stats: stats, router: r}
}

func (e *env) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "203.0.113.9:5555"
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *env) seed(id, owner int64, state domain.EventState) {
	ev := &domain.Event{
		ID:                id,
		Initiator:         domain.UserShort{ID: owner, Name: "user"},
		Category:          domain.Category{ID: 5, Name: "concerts"},
		Title:             "Jazz night",
		Annotation:        "An evening of standards",
		Description:       "Quartet plays the classics",
		ParticipantLimit:  0,
		RequestModeration: true,
		CreatedOn:         testNow.Add(-time.Hour),
		EventDate:         testNow.Add(48 * time.Hour),
		State:             state,
	}
	if state == domain.StatePublished {
		p := testNow.Add(-time.Minute)
		ev.PublishedOn = &p
	}
	e.events.put(ev)
}
