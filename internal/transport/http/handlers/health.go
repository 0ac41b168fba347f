package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/ewm-service/internal/transport/http/response"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger is satisfied by the redis client.
type CachePinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache CachePinger
}

// NewHealthHandler takes the database to probe on /readyz; nil skips it.
func NewHealthHandler(db Pinger) *HealthHandler { return &HealthHandler{db: db} }

// WithCache adds redis to the readiness probe.
func (h *HealthHandler) WithCache(c CachePinger) *HealthHandler {
	h.cache = c
	return h
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.Data(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			response.Fail(w, http.StatusServiceUnavailable, "unavailable", "database unreachable",
				nil, response.RequestIDFromRequest(r))
			return
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			response.Fail(w, http.StatusServiceUnavailable, "unavailable", "redis unreachable",
				nil, response.RequestIDFromRequest(r))
			return
		}
	}
	response.Data(w, http.StatusOK, map[string]string{"status": "ready"})
}
