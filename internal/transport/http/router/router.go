package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/baechuer/ewm-service/internal/config"
	"github.com/baechuer/ewm-service/internal/metrics"
	"github.com/baechuer/ewm-service/internal/transport/http/handlers"
	authmw "github.com/baechuer/ewm-service/internal/transport/http/middleware"
	"github.com/baechuer/ewm-service/internal/transport/http/response"
)

// New builds the HTTP surface. auth may be nil, which leaves /admin open.
func New(
	h *handlers.EventsHandler,
	rh *handlers.RequestsHandler,
	z *handlers.HealthHandler,
	auth *authmw.AuthMiddleware,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(authmw.RequestID)
	r.Use(authmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(authmw.AccessLog)
	r.Use(metrics.Middleware)

	if cfg.RLEnabled {
		r.Use(httprate.Limit(
			cfg.RLLimit,
			cfg.RLWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				response.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests",
					nil, response.RequestIDFromRequest(r))
			}),
		))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotFound, "not_found", "route not found", nil, response.RequestIDFromRequest(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil, response.RequestIDFromRequest(r))
	})

	r.Get("/healthz", z.Healthz)
	r.Get("/readyz", z.Readyz)
	r.Handle("/metrics", metrics.MetricsHandler())

	// Public
	r.Get("/events", h.ListPublic)
	r.Get("/events/{eventId}", h.GetPublic)

	// Private
	r.Route("/users/{userId}", func(r chi.Router) {
		r.Post("/events", h.Create)
		r.Get("/events", h.ListMine)
		r.Get("/events/{eventId}", h.GetMine)
		r.Patch("/events/{eventId}", h.UpdateMine)

		r.Post("/requests", rh.Create)
		r.Get("/requests", rh.List)
		r.Patch("/requests/{requestId}/cancel", rh.Cancel)
	})

	// Admin
	r.Route("/admin", func(r chi.Router) {
		if auth != nil {
			r.Use(auth.Require)
			r.Use(authmw.RequireRole(authmw.RoleAdmin))
		}
		r.Get("/events", h.AdminList)
		r.Patch("/events/{eventId}", h.AdminUpdate)
	})

	return r
}
