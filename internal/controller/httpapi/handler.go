package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScheduleService interface {
	Create(ctx context.Context, in *model.Schedule) (*model.Schedule, error)
	Get(ctx context.Context, id int64) (*model.Schedule, error)
	ListForUser(ctx context.Context, ownerID int64) ([]*model.Schedule, error)
	Update(ctx context.Context, id int64, upd service.ScheduleUpdate) (*model.Schedule, error)
	SetDefault(ctx context.Context, id int64) (*model.Schedule, error)
	SetOverride(ctx context.Context, id int64, date string, slots []model.TimeSlot) (*model.Schedule, error)
	MarkUnavailable(ctx context.Context, id int64, date string) (*model.Schedule, error)
	ClearOverride(ctx context.Context, id int64, date string) (*model.Schedule, error)
	Duplicate(ctx context.Context, id, newOwnerID int64) (*model.Schedule, error)
	Delete(ctx context.Context, id int64, cascade bool) error
}

type EventService interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	Get(ctx context.Context, id int64) (*model.Event, error)
	ListForHost(ctx context.Context, hostID int64) ([]*model.Event, error)
	UpdateAvailability(ctx context.Context, id int64, binding model.AvailabilityBinding) (*model.Event, error)
	UpdateLimits(ctx context.Context, id int64, limits model.EventLimits) (*model.Event, error)
	UpdateRange(ctx context.Context, id int64, rng model.AvailabilityRange) (*model.Event, error)
}

type SlotService interface {
	Slots(ctx context.Context, req service.SlotsRequest) ([]model.Slot, error)
}

type BookingService interface {
	Commit(ctx context.Context, req service.CommitRequest) (*model.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListForHost(ctx context.Context, hostID int64, from, to time.Time) ([]model.Booking, error)
}

type UserService interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	SetTimezone(ctx context.Context, id int64, tz string) (*model.User, error)
}

// Handler HTTP-обработчики поверх сервисов
type Handler struct {
	schedules ScheduleService
	events    EventService
	slots     SlotService
	bookings  BookingService
	users     UserService
	log       *zap.Logger
}

func NewHandler(
	schedules ScheduleService,
	events EventService,
	slots SlotService,
	bookings BookingService,
	users UserService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		schedules: schedules,
		events:    events,
		slots:     slots,
		bookings:  bookings,
		users:     users,
		log:       logger,
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(h.log.With(zap.String("path", r.URL.Path)), w, err)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &service.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

func queryInt64(r *http.Request, name string, required bool) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return 0, &service.ValidationError{Field: name, Reason: "is required"}
		}
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, &service.ValidationError{Field: name, Reason: "must be a non-negative integer"}
	}
	return v, nil
}

func queryTime(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, &service.ValidationError{Field: name, Reason: "must be RFC3339"}
	}
	return t, nil
}
