package httpapi

import (
	"context"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockScheduleService struct {
	mock.Mock
}

func (m *MockScheduleService) Create(ctx context.Context, in *model.Schedule) (*model.Schedule, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(*model.Schedule)
	return s, args.Error(1)
}

func (m *MockScheduleService) Get(ctx context.Context, id int64) (*model.Schedule, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Schedule)
	return s, args.Error(1)
}

func (m *MockScheduleService) ListForUser(ctx context.Context, ownerID int64) ([]*model.Schedule, error) {
	args := m.Called(ctx, ownerID)
	s, _ := args.Get(0).([]*model.Schedule)
	return s, args.Error(1)
}

func (m *MockScheduleService) Update(ctx context.Context, id int64, upd service.ScheduleUpdate) (*model.Schedule, error) {
	args := m.Called(ctx, id, upd)
	s, _ := args.Get(0).(*model.Schedule)
	return s, args.Error(1)
}

func (m *MockScheduleService) SetDefault(ctx context.Context, id int64) (*model.Schedule, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Schedule)
	return s, args.Error(1)
}

func (m *MockScheduleService) SetOverride(ctx context.Context, id int64, date string, slots []model.TimeSlot) (*model.Schedule, error) {
	args := m.Called(ctx, id, date, slots)
	s, _ := args.Get(0).(*model.Schedule)
	return s, args.Error(1)
}

func (m *MockScheduleService) MarkUnavailable(ctx context.Context, id int64, date string) (*model.Schedule, error) {
	args := m.Called(ctx, id, date)
	s, _ := args.Get(0).(*model.Schedule)
	return s, args.Error(1)
}

func (m *MockScheduleService) ClearOverride(ctx context.Context, id int64, date string) (*model.Schedule, error) {
	args := m.Called(ctx, id, date)
	s, _ := args.Get(0).(*model.Schedule)
	return s, args.Error(1)
}

func (m *MockScheduleService) Duplicate(ctx context.Context, id, newOwnerID int64) (*model.Schedule, error) {
	args := m.Called(ctx, id, newOwnerID)
	s, _ := args.Get(0).(*model.Schedule)
	return s, args.Error(1)
}

func (m *MockScheduleService) Delete(ctx context.Context, id int64, cascade bool) error {
	args := m.Called(ctx, id, cascade)
	return args.Error(0)
}

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	args := m.Called(ctx, event)
	e, _ := args.Get(0).(*model.Event)
	return e, args.Error(1)
}

func (m *MockEventService) Get(ctx context.Context, id int64) (*model.Event, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*model.Event)
	return e, args.Error(1)
}

func (m *MockEventService) ListForHost(ctx context.Context, hostID int64) ([]*model.Event, error) {
	args := m.Called(ctx, hostID)
	e, _ := args.Get(0).([]*model.Event)
	return e, args.Error(1)
}

func (m *MockEventService) UpdateAvailability(ctx context.Context, id int64, binding model.AvailabilityBinding) (*model.Event, error) {
	args := m.Called(ctx, id, binding)
	e, _ := args.Get(0).(*model.Event)
	return e, args.Error(1)
}

func (m *MockEventService) UpdateLimits(ctx context.Context, id int64, limits model.EventLimits) (*model.Event, error) {
	args := m.Called(ctx, id, limits)
	e, _ := args.Get(0).(*model.Event)
	return e, args.Error(1)
}

func (m *MockEventService) UpdateRange(ctx context.Context, id int64, rng model.AvailabilityRange) (*model.Event, error) {
	args := m.Called(ctx, id, rng)
	e, _ := args.Get(0).(*model.Event)
	return e, args.Error(1)
}

type MockSlotService struct {
	mock.Mock
}

func (m *MockSlotService) Slots(ctx context.Context, req service.SlotsRequest) ([]model.Slot, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).([]model.Slot)
	return s, args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Commit(ctx context.Context, req service.CommitRequest) (*model.Booking, error) {
	args := m.Called(ctx, req)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *MockBookingService) ListForHost(ctx context.Context, hostID int64, from, to time.Time) ([]model.Booking, error) {
	args := m.Called(ctx, hostID, from, to)
	b, _ := args.Get(0).([]model.Booking)
	return b, args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserService) SetTimezone(ctx context.Context, id int64, tz string) (*model.User, error) {
	args := m.Called(ctx, id, tz)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}
