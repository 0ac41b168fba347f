package handlers

import (
	"net"
	"net/http"

	"github.com/baechuer/ewm-service/internal/application/event"
	"github.com/baechuer/ewm-service/internal/transport/http/dto"
	"github.com/baechuer/ewm-service/internal/transport/http/response"
	"github.com/baechuer/ewm-service/internal/transport/http/validate"
)

// ListPublic handles GET /events?filter=&sort=&from=&size=.
func (h *EventsHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	items, err := h.svc.FindPublishedEvents(r.Context(), event.PublicQuery{
		Filter:   r.URL.Query().Get("filter"),
		Sort:     r.URL.Query()["sort"],
		Page:     page,
		ClientIP: clientIP(r),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, toShorts(items))
}

// GetPublic handles GET /events/{eventId}.
func (h *EventsHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	id, err := validate.PathID(r, "eventId")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	v, err := h.svc.GetPublishedEvent(r.Context(), id, clientIP(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToEventFull(v.Event, v.Views))
}

// clientIP strips the port from RemoteAddr. chi's RealIP middleware has
// already applied X-Forwarded-For / X-Real-IP when present.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
