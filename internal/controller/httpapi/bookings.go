package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type commitRequest struct {
	EventID       int64     `json:"event_id" validate:"required,gt=0"`
	HostID        int64     `json:"host_id" validate:"gte=0"`
	Start         time.Time `json:"start" validate:"required"`
	Duration      int       `json:"duration" validate:"gte=0,lte=1440"`
	AttendeeName  string    `json:"attendee_name" validate:"required,max=200"`
	AttendeeEmail string    `json:"attendee_email" validate:"omitempty,email"`
	Timezone      string    `json:"timezone" validate:"omitempty,timezone"`
}

func (h *Handler) bookingRoutes(r chi.Router) {
	r.Post("/", h.commitBooking)
	r.Get("/", h.listBookings)
	r.Get("/{id}", h.getBooking)
	r.Post("/{id}/cancel", h.cancelBooking)
}

func (h *Handler) commitBooking(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	booking, err := h.bookings.Commit(r.Context(), service.CommitRequest{
		EventID:        req.EventID,
		HostID:         req.HostID,
		Start:          req.Start,
		Duration:       req.Duration,
		AttendeeName:   req.AttendeeName,
		AttendeeEmail:  req.AttendeeEmail,
		ViewerTimezone: req.Timezone,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request) {
	hostID, err := queryInt64(r, "host_id", true)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	from, err := queryTime(r, "from")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	bookings, err := h.bookings.ListForHost(r.Context(), hostID, from, to)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	booking, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	booking, err := h.bookings.Cancel(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func bookingID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, &service.ValidationError{Field: "id", Reason: "must be a UUID"}
	}
	return id, nil
}
