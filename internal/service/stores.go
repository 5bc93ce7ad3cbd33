package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/Freeeeeet/availability_engine/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = repository.ErrNotFound
	ErrInvalidInput    = errors.New("invalid input")
	ErrSlotTaken       = repository.ErrSlotTaken
	ErrSlotUnavailable = errors.New("slot is not available")
)

// ValidationError описывает некорректное поле запроса
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type ScheduleStore interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	GetByID(ctx context.Context, id int64) (*model.Schedule, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*model.Schedule, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*model.Schedule, error)
	Update(ctx context.Context, schedule *model.Schedule) error
	Delete(ctx context.Context, id int64) error
	ClearDefault(ctx context.Context, ownerID, exceptID int64) error
}

type EventStore interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	ListByHost(ctx context.Context, hostID int64) ([]*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	ListReferencingSchedule(ctx context.Context, scheduleID int64) ([]*model.Event, error)
}

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListByHost(ctx context.Context, hostID int64, from, to time.Time) ([]model.Booking, error)
	ListByEvent(ctx context.Context, eventID int64, from, to time.Time) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error
	CompleteEndedBefore(ctx context.Context, t time.Time) (int64, error)
	LockHost(ctx context.Context, hostID int64) error
}

// Transactor выполняет fn в одной транзакции БД
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotKey однозначно описывает запрос слотов для кеша
type SlotKey struct {
	EventID   int64
	HostID    int64
	Date      string
	Timezone  string
	Durations []int
}

// SlotCache кеширует результаты движка. Ошибки кеша не должны ломать запрос,
// поэтому Get/Set их не возвращают.
type SlotCache interface {
	Get(ctx context.Context, key SlotKey) ([]model.Slot, bool)
	Set(ctx context.Context, key SlotKey, slots []model.Slot)
	InvalidateEvent(ctx context.Context, eventID int64)
}

// NoopSlotCache используется, когда Redis не настроен
type NoopSlotCache struct{}

func (NoopSlotCache) Get(context.Context, SlotKey) ([]model.Slot, bool) { return nil, false }
func (NoopSlotCache) Set(context.Context, SlotKey, []model.Slot)        {}
func (NoopSlotCache) InvalidateEvent(context.Context, int64)            {}
