package handlers

import (
	"net/http"

	"github.com/baechuer/ewm-service/internal/application/event"
	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/baechuer/ewm-service/internal/transport/http/dto"
	"github.com/baechuer/ewm-service/internal/transport/http/response"
	"github.com/baechuer/ewm-service/internal/transport/http/validate"
)

// AdminList handles GET /admin/events.
func (h *EventsHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	users, err := validate.QueryInt64List(r, "users")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	categories, err := validate.QueryInt64List(r, "categories")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	start, err := validate.QueryTime(r, "rangeStart", dto.DateTimeLayout)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	end, err := validate.QueryTime(r, "rangeEnd", dto.DateTimeLayout)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	page, err := pageParams(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	items, err := h.svc.FindEventsByAdmin(r.Context(), event.AdminFilter{
		Users:      users,
		States:     validate.QueryList(r, "states"),
		Categories: categories,
		RangeStart: start,
		RangeEnd:   end,
		Page:       page,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, toFulls(items))
}

// AdminUpdate handles PATCH /admin/events/{eventId}.
func (h *EventsHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	eventID, err := validate.PathID(r, "eventId")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var req dto.UpdateAdminReq
	if err := validate.Body(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}
	action, err := domain.ParseAdminAction(req.StateAction)
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

	ev, err := h.svc.AdminUpdateEvent(r.Context(), event.AdminUpdateCmd{
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
