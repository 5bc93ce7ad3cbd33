package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newScheduleService() (*ScheduleService, *MockScheduleStore, *MockEventStore, *memoryCache) {
	schedules := new(MockScheduleStore)
	events := new(MockEventStore)
	cache := newMemoryCache()
	return NewScheduleService(schedules, events, inlineTx{}, cache, zap.NewNop()), schedules, events, cache
}

func TestScheduleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("First Schedule Becomes Default", func(t *testing.T) {
		svc, schedules, _, _ := newScheduleService()
		in := mondaySchedule()
		in.ID = 0
		in.IsDefault = false

		schedules.On("ListByOwner", mock.Anything, int64(10)).Return([]*model.Schedule{}, nil)
		schedules.On("ClearDefault", mock.Anything, int64(10), int64(0)).Return(nil)
		schedules.On("Create", mock.Anything, mock.MatchedBy(func(s *model.Schedule) bool { return s.IsDefault })).
			Run(func(args mock.Arguments) { args.Get(1).(*model.Schedule).ID = 3 }).
			Return(nil)

		created, err := svc.Create(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, int64(3), created.ID)
		assert.True(t, created.IsDefault)
		schedules.AssertExpectations(t)
	})

	t.Run("Second Schedule Keeps Existing Default", func(t *testing.T) {
		svc, schedules, _, _ := newScheduleService()
		in := mondaySchedule()
		in.ID = 0
		in.IsDefault = false

		schedules.On("ListByOwner", mock.Anything, int64(10)).Return([]*model.Schedule{mondaySchedule()}, nil)
		schedules.On("Create", mock.Anything, mock.AnythingOfType("*model.Schedule")).Return(nil)

		created, err := svc.Create(ctx, in)

		require.NoError(t, err)
		assert.False(t, created.IsDefault)
		schedules.AssertNotCalled(t, "ClearDefault", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Invalid Schedule Is Rejected", func(t *testing.T) {
		svc, schedules, _, _ := newScheduleService()
		in := mondaySchedule()
		delete(in.WeeklyHours, model.Sunday)

		_, err := svc.Create(ctx, in)

		assert.ErrorIs(t, err, availability.ErrInvalidSchedule)
		schedules.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestScheduleService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid Update Leaves Stored Schedule Untouched", func(t *testing.T) {
		svc, schedules, _, _ := newScheduleService()
		stored := mondaySchedule()
		schedules.On("GetByID", mock.Anything, int64(1)).Return(stored, nil)

		broken := model.NewWeeklyHours()
		broken[model.Monday] = model.DayHours{Times: []model.TimeSlot{{Start: "18:00", End: "09:00"}}}
		name := "Renamed"

		_, err := svc.Update(ctx, 1, ScheduleUpdate{Name: &name, WeeklyHours: broken})

		assert.ErrorIs(t, err, availability.ErrInvalidSchedule)
		assert.Equal(t, "Working hours", stored.Name)
		assert.Equal(t, "09:00", stored.WeeklyHours[model.Monday].Times[0].Start)
		schedules.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Partial Update Invalidates Referencing Events", func(t *testing.T) {
		svc, schedules, events, cache := newScheduleService()
		schedules.On("GetByID", mock.Anything, int64(1)).Return(mondaySchedule(), nil)
		schedules.On("Update", mock.Anything, mock.MatchedBy(func(s *model.Schedule) bool {
			return s.Timezone == "Europe/Moscow" && s.Name == "Working hours"
		})).Return(nil)
		events.On("ListReferencingSchedule", mock.Anything, int64(1)).Return([]*model.Event{introEvent()}, nil)
		tz := "Europe/Moscow"

		updated, err := svc.Update(ctx, 1, ScheduleUpdate{Timezone: &tz})

		require.NoError(t, err)
		assert.Equal(t, "Europe/Moscow", updated.Timezone)
		assert.Equal(t, []int64{5}, cache.invalidated)
		schedules.AssertExpectations(t)
	})

	t.Run("Missing Schedule", func(t *testing.T) {
		svc, schedules, _, _ := newScheduleService()
		schedules.On("GetByID", mock.Anything, int64(9)).Return(nil, nil)

		_, err := svc.Update(ctx, 9, ScheduleUpdate{})

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestScheduleService_Overrides(t *testing.T) {
	ctx := context.Background()

	t.Run("Mark Unavailable Writes Sentinel", func(t *testing.T) {
		svc, schedules, events, _ := newScheduleService()
		schedules.On("GetByID", mock.Anything, int64(1)).Return(mondaySchedule(), nil)
		schedules.On("Update", mock.Anything, mock.AnythingOfType("*model.Schedule")).Return(nil)
		events.On("ListReferencingSchedule", mock.Anything, int64(1)).Return([]*model.Event{}, nil)

		updated, err := svc.MarkUnavailable(ctx, 1, "2024-06-10")

		require.NoError(t, err)
		assert.Equal(t, []model.TimeSlot{{Start: "22:00", End: "22:00"}}, updated.Override["2024-06-10"])
		monday, _ := availability.ParseDate("2024-06-10")
		assert.Empty(t, availability.AvailableOn(updated, monday))
	})

	t.Run("Set Override With Bad Date", func(t *testing.T) {
		svc, schedules, _, _ := newScheduleService()

		_, err := svc.SetOverride(ctx, 1, "10/06/2024", nil)

		assert.ErrorIs(t, err, availability.ErrInvalidSchedule)
		schedules.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Clear Override", func(t *testing.T) {
		svc, schedules, events, _ := newScheduleService()
		stored := mondaySchedule()
		stored.Override["2024-06-10"] = []model.TimeSlot{}
		schedules.On("GetByID", mock.Anything, int64(1)).Return(stored, nil)
		schedules.On("Update", mock.Anything, mock.AnythingOfType("*model.Schedule")).Return(nil)
		events.On("ListReferencingSchedule", mock.Anything, int64(1)).Return([]*model.Event{}, nil)

		updated, err := svc.ClearOverride(ctx, 1, "2024-06-10")

		require.NoError(t, err)
		assert.NotContains(t, updated.Override, "2024-06-10")
	})
}

func TestScheduleService_SetDefault(t *testing.T) {
	svc, schedules, _, _ := newScheduleService()
	other := mondaySchedule()
	other.ID = 2
	other.IsDefault = false
	schedules.On("GetByID", mock.Anything, int64(2)).Return(other, nil)
	schedules.On("ClearDefault", mock.Anything, int64(10), int64(2)).Return(nil)
	schedules.On("Update", mock.Anything, mock.MatchedBy(func(s *model.Schedule) bool { return s.ID == 2 && s.IsDefault })).Return(nil)

	updated, err := svc.SetDefault(context.Background(), 2)

	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	schedules.AssertExpectations(t)
}

func TestScheduleService_Duplicate(t *testing.T) {
	svc, schedules, _, _ := newScheduleService()
	schedules.On("GetByID", mock.Anything, int64(1)).Return(mondaySchedule(), nil)
	schedules.On("ListByOwner", mock.Anything, int64(20)).Return([]*model.Schedule{mondaySchedule()}, nil)
	schedules.On("Create", mock.Anything, mock.AnythingOfType("*model.Schedule")).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Schedule).ID = 8 }).
		Return(nil)

	cp, err := svc.Duplicate(context.Background(), 1, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(8), cp.ID)
	assert.Equal(t, int64(20), cp.OwnerID)
	assert.Equal(t, "Working hours (copy)", cp.Name)
	assert.False(t, cp.IsDefault)
	assert.Equal(t, mondaySchedule().WeeklyHours, cp.WeeklyHours)
}

func TestScheduleService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Referenced Without Cascade", func(t *testing.T) {
		svc, schedules, events, _ := newScheduleService()
		schedules.On("GetByID", mock.Anything, int64(1)).Return(mondaySchedule(), nil)
		events.On("ListReferencingSchedule", mock.Anything, int64(1)).Return([]*model.Event{introEvent()}, nil)

		err := svc.Delete(ctx, 1, false)

		var conflict *availability.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []int64{5}, conflict.EventIDs)
		assert.ErrorIs(t, err, availability.ErrConflict)
		schedules.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Cascade Inlines Hours Into Events", func(t *testing.T) {
		svc, schedules, events, cache := newScheduleService()
		stored := mondaySchedule()
		stored.IsDefault = false
		schedules.On("GetByID", mock.Anything, int64(1)).Return(stored, nil)
		events.On("ListReferencingSchedule", mock.Anything, int64(1)).Return([]*model.Event{introEvent()}, nil)
		events.On("Update", mock.Anything, mock.MatchedBy(func(e *model.Event) bool {
			src := e.Availability.AvailabilitySource
			return e.ID == 5 &&
				src.Type == model.SourceCustom &&
				src.ScheduleID == 0 &&
				src.Timezone == "UTC" &&
				len(src.WeeklyHours[model.Monday].Times) == 1
		})).Return(nil)
		schedules.On("Delete", mock.Anything, int64(1)).Return(nil)

		err := svc.Delete(ctx, 1, true)

		require.NoError(t, err)
		assert.Equal(t, []int64{5}, cache.invalidated)
		events.AssertExpectations(t)
		schedules.AssertExpectations(t)
	})

	t.Run("Deleting Default Promotes Oldest", func(t *testing.T) {
		svc, schedules, events, _ := newScheduleService()
		second := mondaySchedule()
		second.ID = 4
		second.IsDefault = false
		third := mondaySchedule()
		third.ID = 6
		third.IsDefault = false
		schedules.On("GetByID", mock.Anything, int64(1)).Return(mondaySchedule(), nil)
		events.On("ListReferencingSchedule", mock.Anything, int64(1)).Return([]*model.Event{}, nil)
		schedules.On("Delete", mock.Anything, int64(1)).Return(nil)
		schedules.On("ListByOwner", mock.Anything, int64(10)).Return([]*model.Schedule{third, second}, nil)
		schedules.On("Update", mock.Anything, mock.MatchedBy(func(s *model.Schedule) bool { return s.ID == 4 && s.IsDefault })).Return(nil)

		require.NoError(t, svc.Delete(ctx, 1, false))
		schedules.AssertExpectations(t)
	})
}
