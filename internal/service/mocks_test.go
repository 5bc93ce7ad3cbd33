package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserStore) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockScheduleStore struct {
	mock.Mock
}

func (m *MockScheduleStore) Create(ctx context.Context, schedule *model.Schedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleStore) GetByID(ctx context.Context, id int64) (*model.Schedule, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Schedule)
	return s, args.Error(1)
}

func (m *MockScheduleStore) GetByIDs(ctx context.Context, ids []int64) ([]*model.Schedule, error) {
	args := m.Called(ctx, ids)
	s, _ := args.Get(0).([]*model.Schedule)
	return s, args.Error(1)
}

func (m *MockScheduleStore) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Schedule, error) {
	args := m.Called(ctx, ownerID)
	s, _ := args.Get(0).([]*model.Schedule)
	return s, args.Error(1)
}

func (m *MockScheduleStore) Update(ctx context.Context, schedule *model.Schedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockScheduleStore) ClearDefault(ctx context.Context, ownerID, exceptID int64) error {
	args := m.Called(ctx, ownerID, exceptID)
	return args.Error(0)
}

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Create(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventStore) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*model.Event)
	return e, args.Error(1)
}

func (m *MockEventStore) ListByHost(ctx context.Context, hostID int64) ([]*model.Event, error) {
	args := m.Called(ctx, hostID)
	e, _ := args.Get(0).([]*model.Event)
	return e, args.Error(1)
}

func (m *MockEventStore) Update(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventStore) ListReferencingSchedule(ctx context.Context, scheduleID int64) ([]*model.Event, error) {
	args := m.Called(ctx, scheduleID)
	e, _ := args.Get(0).([]*model.Event)
	return e, args.Error(1)
}

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) Create(ctx context.Context, booking *model.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *MockBookingStore) ListByHost(ctx context.Context, hostID int64, from, to time.Time) ([]model.Booking, error) {
	args := m.Called(ctx, hostID, from, to)
	b, _ := args.Get(0).([]model.Booking)
	return b, args.Error(1)
}

func (m *MockBookingStore) ListByEvent(ctx context.Context, eventID int64, from, to time.Time) ([]model.Booking, error) {
	args := m.Called(ctx, eventID, from, to)
	b, _ := args.Get(0).([]model.Booking)
	return b, args.Error(1)
}

func (m *MockBookingStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBookingStore) CompleteEndedBefore(ctx context.Context, t time.Time) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingStore) LockHost(ctx context.Context, hostID int64) error {
	args := m.Called(ctx, hostID)
	return args.Error(0)
}

// inlineTx выполняет fn сразу, без БД
type inlineTx struct{}

func (inlineTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memoryCache простая реализация SlotCache для тестов
type memoryCache struct {
	mu          sync.Mutex
	entries     map[string][]model.Slot
	invalidated []int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]model.Slot{}}
}

func (c *memoryCache) key(k SlotKey) string { return fmt.Sprintf("%+v", k) }

func (c *memoryCache) Get(_ context.Context, k SlotKey) ([]model.Slot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[c.key(k)]
	return s, ok
}

func (c *memoryCache) Set(_ context.Context, k SlotKey, slots []model.Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(k)] = slots
}

func (c *memoryCache) InvalidateEvent(_ context.Context, eventID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, eventID)
	c.entries = map[string][]model.Slot{}
}

func mondaySchedule() *model.Schedule {
	wh := model.NewWeeklyHours()
	wh[model.Monday] = model.DayHours{Times: []model.TimeSlot{{Start: "09:00", End: "17:00"}}}
	return &model.Schedule{
		ID:          1,
		OwnerID:     10,
		Name:        "Working hours",
		Timezone:    "UTC",
		WeeklyHours: wh,
		Override:    model.DateOverrides{},
		IsDefault:   true,
	}
}

func introEvent() *model.Event {
	return &model.Event{
		ID:       5,
		HostID:   10,
		Title:    "Intro call",
		Kind:     model.EventKindHost,
		Duration: 30,
		Availability: model.AvailabilityBinding{
			AvailabilitySource: model.AvailabilitySource{Type: model.SourceExisting, ScheduleID: 1},
		},
		Range:  model.AvailabilityRange{Type: model.RangeDays, Days: 7},
		Limits: model.EventLimits{General: model.GeneralLimits{TimeSlot: 30}},
		Status: model.EventStatusActive,
	}
}
