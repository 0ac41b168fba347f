package handlers

import (
	"net/http"

	"github.com/baechuer/ewm-service/internal/application/event"
	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/baechuer/ewm-service/internal/transport/http/dto"
	"github.com/baechuer/ewm-service/internal/transport/http/response"
	"github.com/baechuer/ewm-service/internal/transport/http/validate"
)

type EventsHandler struct {
	svc *event.Service
}

func NewEventsHandler(svc *event.Service) *EventsHandler {
	return &EventsHandler{svc: svc}
}

// Create handles POST /users/{userId}/events.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := validate.PathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var req dto.NewEventReq
	if err := validate.Body(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}
	in, err := dto.ToNewEventInput(req)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	ev, err := h.svc.AddEvent(r.Context(), event.AddEventCmd{
		OwnerID:       userID,
		CategoryID:    req.Category,
		NewEventInput: in,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.ToEventFull(ev, 0))
}

// ListMine handles GET /users/{userId}/events.
func (h *EventsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := validate.PathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	page, err := pageParams(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	items, err := h.svc.FindEventsOfUser(r.Context(), userID, page)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, toShorts(items))
}

// GetMine handles GET /users/{userId}/events/{eventId}.
func (h *EventsHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, err := validate.PathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	eventID, err := validate.PathID(r, "eventId")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	v, err := h.svc.FindUserEventByID(r.Context(), userID, eventID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToEventFull(v.Event, v.Views))
}

// UpdateMine handles PATCH /users/{userId}/events/{eventId}.
func (h *EventsHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	userID, err := validate.PathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	eventID, err := validate.PathID(r, "eventId")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var req dto.UpdateUserReq
	if err := validate.Body(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}
	action, err := domain.ParseOwnerAction(req.StateAction)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	date, err := dto.ParseDateTime(req.EventDate)
	if err != nil {
		response.Err(w, r, domain.ErrInvalidRequestMeta("invalid json body", map[string]string{
			"eventDate": "must be " + dto.DateTimeLayout,
		}))
		return
	}

	ev, err := h.svc.UserUpdateEvent(r.Context(), event.UserUpdateCmd{
		OwnerID:   userID,
		EventID:   eventID,
		Action:    action,
		EventDate: date,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToEventFull(ev, 0))
}

func pageParams(r *http.Request) (event.Page, error) {
	from, err := validate.QueryInt(r, "from", 0)
	if err != nil {
		return event.Page{}, err
	}
	size, err := validate.QueryInt(r, "size", event.DefaultPageSize)
	if err != nil {
		return event.Page{}, err
	}
	return event.Page{From: from, Size: size}, nil
}

func toShorts(items []event.EventView) []dto.EventShort {
	out := make([]dto.EventShort, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToEventShort(it.Event, it.Views))
	}
	return out
}

func toFulls(items []event.EventView) []dto.EventFull {
	out := make([]dto.EventFull, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToEventFull(it.Event, it.Views))
	}
	return out
}
