package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/baechuer/ewm-service/internal/application/participation"
	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/baechuer/ewm-service/internal/transport/http/dto"
	"github.com/baechuer/ewm-service/internal/transport/http/response"
	"github.com/baechuer/ewm-service/internal/transport/http/validate"
)

type RequestsHandler struct {
	svc *participation.Service
}

func NewRequestsHandler(svc *participation.Service) *RequestsHandler {
	return &RequestsHandler{svc: svc}
}

// Create handles POST /users/{userId}/requests?eventId=.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := validate.PathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	eventID, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("eventId")), 10, 64)
	if err != nil || eventID <= 0 {
		response.Err(w, r, domain.ErrInvalidRequestMeta("invalid query param", map[string]string{
			"eventId": "must be a positive integer",
		}))
		return
	}

	req, err := h.svc.AddRequest(r.Context(), userID, eventID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.ToRequestDto(req))
}

// Cancel handles PATCH /users/{userId}/requests/{requestId}/cancel.
func (h *RequestsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := validate.PathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	requestID, err := validate.PathID(r, "requestId")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	req, err := h.svc.CancelRequest(r.Context(), userID, requestID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToRequestDto(req))
}

// List handles GET /users/{userId}/requests.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := validate.PathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	reqs, err := h.svc.FindUserRequests(r.Context(), userID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	out := make([]dto.RequestDto, 0, len(reqs))
	for _, rq := range reqs {
		out = append(out, dto.ToRequestDto(rq))
	}
	response.Data(w, http.StatusOK, out)
}
