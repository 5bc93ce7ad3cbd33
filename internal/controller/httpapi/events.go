package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/go-chi/chi/v5"
)

type createEventRequest struct {
	HostID          int64                     `json:"host_id" validate:"required,gt=0"`
	Title           string                    `json:"title" validate:"required,max=200"`
	Kind            model.EventKind           `json:"kind" validate:"omitempty,oneof=host team"`
	Hosts           []int64                   `json:"hosts" validate:"omitempty,dive,gt=0"`
	Duration        int                       `json:"duration" validate:"required,gt=0,lte=1440"`
	DurationOptions []int                     `json:"duration_options" validate:"omitempty,dive,gt=0,lte=1440"`
	ReserveTimes    bool                      `json:"reserve_times"`
	Availability    model.AvailabilityBinding `json:"availability"`
	Range           model.AvailabilityRange   `json:"range"`
	Limits          model.EventLimits         `json:"limits"`
}

// slotView слот в часовом поясе зрителя
type slotView struct {
	Start    string `json:"start_datetime"`
	End      string `json:"end_datetime"`
	Duration int    `json:"duration"`
}

func (h *Handler) eventRoutes(r chi.Router) {
	r.Post("/", h.createEvent)
	r.Get("/", h.listEvents)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.getEvent)
		r.Put("/availability", h.updateEventAvailability)
		r.Put("/limits", h.updateEventLimits)
		r.Put("/range", h.updateEventRange)
		r.Get("/slots", h.eventSlots)
	})
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	created, err := h.events.Create(r.Context(), &model.Event{
		HostID:          req.HostID,
		Title:           req.Title,
		Kind:            req.Kind,
		Hosts:           req.Hosts,
		Duration:        req.Duration,
		DurationOptions: req.DurationOptions,
		ReserveTimes:    req.ReserveTimes,
		Availability:    req.Availability,
		Range:           req.Range,
		Limits:          req.Limits,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	hostID, err := queryInt64(r, "host_id", true)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	events, err := h.events.ListForHost(r.Context(), hostID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if events == nil {
		events = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handler) updateEventAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var binding model.AvailabilityBinding
	if err := decode(r, &binding); err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.events.UpdateAvailability(r.Context(), id, binding)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) updateEventLimits(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var limits model.EventLimits
	if err := decode(r, &limits); err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.events.UpdateLimits(r.Context(), id, limits)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) updateEventRange(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var rng model.AvailabilityRange
	if err := decode(r, &rng); err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.events.UpdateRange(r.Context(), id, rng)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) eventSlots(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	hostID, err := queryInt64(r, "host_id", false)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	durations, err := queryDurations(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	tz := q.Get("timezone")
	loc, err := availability.LoadLocation(tz)
	if err != nil {
		h.fail(w, r, &service.ValidationError{Field: "timezone", Reason: "unknown timezone"})
		return
	}

	slots, err := h.slots.Slots(r.Context(), service.SlotsRequest{
		EventID:        id,
		HostID:         hostID,
		ViewerTimezone: tz,
		Durations:      durations,
		Date:           q.Get("date"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out := make([]slotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotView{
			Start:    s.Start.In(loc).Format(timeLayout),
			End:      s.End.In(loc).Format(timeLayout),
			Duration: s.Duration,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

// queryDurations принимает duration=30&duration=60 и duration=30,60
func queryDurations(r *http.Request) ([]int, error) {
	var out []int
	for _, raw := range r.URL.Query()["duration"] {
		for _, part := range strings.Split(raw, ",") {
			if part == "" {
				continue
			}
			d, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || d <= 0 {
				return nil, &service.ValidationError{Field: "duration", Reason: "must be positive minutes"}
			}
			out = append(out, d)
		}
	}
	return out, nil
}
