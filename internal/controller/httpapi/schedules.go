package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/go-chi/chi/v5"
)

type createScheduleRequest struct {
	OwnerID     int64               `json:"owner_id" validate:"required,gt=0"`
	Name        string              `json:"name" validate:"required,max=200"`
	Timezone    string              `json:"timezone" validate:"required,timezone"`
	WeeklyHours model.WeeklyHours   `json:"weekly_hours" validate:"required"`
	Override    model.DateOverrides `json:"override"`
	IsDefault   bool                `json:"is_default"`
}

type updateScheduleRequest struct {
	Name        *string             `json:"name" validate:"omitempty,min=1,max=200"`
	Timezone    *string             `json:"timezone" validate:"omitempty,timezone"`
	WeeklyHours model.WeeklyHours   `json:"weekly_hours"`
	Override    model.DateOverrides `json:"override"`
}

type overrideRequest struct {
	Times       []model.TimeSlot `json:"times"`
	Unavailable bool             `json:"unavailable"`
}

type duplicateRequest struct {
	OwnerID int64 `json:"owner_id" validate:"gte=0"`
}

func (h *Handler) scheduleRoutes(r chi.Router) {
	r.Post("/", h.createSchedule)
	r.Get("/", h.listSchedules)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.getSchedule)
		r.Patch("/", h.updateSchedule)
		r.Delete("/", h.deleteSchedule)
		r.Post("/default", h.setDefaultSchedule)
		r.Post("/duplicate", h.duplicateSchedule)
		r.Put("/overrides/{date}", h.setOverride)
		r.Delete("/overrides/{date}", h.clearOverride)
	})
}

func (h *Handler) createSchedule(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	created, err := h.schedules.Create(r.Context(), &model.Schedule{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Timezone:    req.Timezone,
		WeeklyHours: req.WeeklyHours,
		Override:    req.Override,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listSchedules(w http.ResponseWriter, r *http.Request) {
	ownerID, err := queryInt64(r, "owner_id", true)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	schedules, err := h.schedules.ListForUser(r.Context(), ownerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if schedules == nil {
		schedules = []*model.Schedule{}
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (h *Handler) getSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	schedule, err := h.schedules.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (h *Handler) updateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req updateScheduleRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.schedules.Update(r.Context(), id, service.ScheduleUpdate{
		Name:        req.Name,
		Timezone:    req.Timezone,
		WeeklyHours: req.WeeklyHours,
		Override:    req.Override,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cascade := r.URL.Query().Get("cascade") == "true"

	if err := h.schedules.Delete(r.Context(), id, cascade); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setDefaultSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.schedules.SetDefault(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) duplicateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req duplicateRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	cp, err := h.schedules.Duplicate(r.Context(), id, req.OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cp)
}

func (h *Handler) setOverride(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req overrideRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	date := chi.URLParam(r, "date")

	var updated *model.Schedule
	if req.Unavailable {
		updated, err = h.schedules.MarkUnavailable(r.Context(), id, date)
	} else {
		updated, err = h.schedules.SetOverride(r.Context(), id, date, req.Times)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) clearOverride(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.schedules.ClearOverride(r.Context(), id, chi.URLParam(r, "date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
