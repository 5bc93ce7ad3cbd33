package availability

import (
	"testing"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestResolve(t *testing.T) {
	now := time.Date(2024, 6, 9, 12, 0, 0, 0, time.UTC) // воскресенье
	week := model.AvailabilityRange{Type: model.RangeDays, Days: 7}

	t.Run("Existing Schedule", func(t *testing.T) {
		binding := model.AvailabilityBinding{AvailabilitySource: model.AvailabilitySource{Type: model.SourceExisting, ScheduleID: 1}}

		res, err := Resolve(binding, week, NewScheduleSet(mondayNineToFive()), ResolveOptions{Now: now})

		require.NoError(t, err)
		require.Len(t, res.Days, 7)
		assert.Equal(t, "2024-06-09", DateKey(res.Days[0].Date))
		assert.Empty(t, res.Days[0].Slots)
		assert.Equal(t, []model.TimeSlot{{Start: "09:00", End: "17:00"}}, res.Days[1].Slots)
		assert.Equal(t, time.UTC, res.Location)
	})

	t.Run("Missing Schedule", func(t *testing.T) {
		binding := model.AvailabilityBinding{AvailabilitySource: model.AvailabilitySource{Type: model.SourceExisting, ScheduleID: 99}}

		_, err := Resolve(binding, week, NewScheduleSet(mondayNineToFive()), ResolveOptions{Now: now})

		var noAvail *NoAvailabilityError
		require.ErrorAs(t, err, &noAvail)
		assert.Equal(t, int64(99), noAvail.ScheduleID)
		assert.ErrorIs(t, err, ErrNoAvailability)
	})

	t.Run("Custom Hours", func(t *testing.T) {
		wh := model.NewWeeklyHours()
		wh[model.Tuesday] = model.DayHours{Times: []model.TimeSlot{{Start: "10:00", End: "12:00"}}}
		binding := model.AvailabilityBinding{AvailabilitySource: model.AvailabilitySource{
			Type:        model.SourceCustom,
			WeeklyHours: wh,
			Timezone:    "Europe/Moscow",
		}}

		res, err := Resolve(binding, week, nil, ResolveOptions{Now: now})

		require.NoError(t, err)
		assert.Equal(t, "Europe/Moscow", res.Location.String())
		assert.Equal(t, []model.TimeSlot{{Start: "10:00", End: "12:00"}}, res.Days[2].Slots)
	})

	t.Run("Team Common Uses Shared Schedule", func(t *testing.T) {
		binding := model.AvailabilityBinding{
			AvailabilitySource: model.AvailabilitySource{Type: model.SourceExisting, ScheduleID: 1},
			IsCommon:           boolPtr(true),
		}

		res, err := Resolve(binding, week, NewScheduleSet(mondayNineToFive()), ResolveOptions{Now: now, HostID: 77})

		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Schedule.ID)
	})

	t.Run("Team Per Host", func(t *testing.T) {
		other := mondayNineToFive()
		other.ID = 2
		other.WeeklyHours[model.Monday] = model.DayHours{Times: []model.TimeSlot{{Start: "12:00", End: "13:00"}}}
		binding := model.AvailabilityBinding{
			IsCommon: boolPtr(false),
			UsersAvailability: map[int64]model.AvailabilitySource{
				5: {Type: model.SourceExisting, ScheduleID: 1},
				6: {Type: model.SourceExisting, ScheduleID: 2},
			},
		}
		set := NewScheduleSet(mondayNineToFive(), other)

		res, err := Resolve(binding, week, set, ResolveOptions{Now: now, HostID: 6})
		require.NoError(t, err)
		assert.Equal(t, []model.TimeSlot{{Start: "12:00", End: "13:00"}}, res.Days[1].Slots)

		_, err = Resolve(binding, week, set, ResolveOptions{Now: now, HostID: 7})
		assert.ErrorIs(t, err, ErrNoAvailability)

		_, err = Resolve(binding, week, set, ResolveOptions{Now: now})
		assert.ErrorIs(t, err, ErrNoAvailability)
	})

	t.Run("Invalid Stored Schedule", func(t *testing.T) {
		broken := mondayNineToFive()
		delete(broken.WeeklyHours, model.Sunday)
		binding := model.AvailabilityBinding{AvailabilitySource: model.AvailabilitySource{Type: model.SourceExisting, ScheduleID: 1}}

		_, err := Resolve(binding, week, NewScheduleSet(broken), ResolveOptions{Now: now})
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})

	t.Run("Timezone Lock Decides Today", func(t *testing.T) {
		// 23:30 UTC в воскресенье, а в Токио уже понедельник
		late := time.Date(2024, 6, 9, 23, 30, 0, 0, time.UTC)
		binding := model.AvailabilityBinding{AvailabilitySource: model.AvailabilitySource{Type: model.SourceExisting, ScheduleID: 1}}

		res, err := Resolve(binding, week, NewScheduleSet(mondayNineToFive()), ResolveOptions{
			Now:            late,
			ViewerTimezone: "America/New_York",
			TimezoneLock:   model.TimezoneLock{Enable: true, Timezone: "Asia/Tokyo"},
		})

		require.NoError(t, err)
		assert.Equal(t, "2024-06-10", DateKey(res.Days[0].Date))
		assert.Equal(t, "Asia/Tokyo", res.Reference.String())
	})

	t.Run("Viewer Timezone Decides Today", func(t *testing.T) {
		late := time.Date(2024, 6, 10, 2, 0, 0, 0, time.UTC)
		binding := model.AvailabilityBinding{AvailabilitySource: model.AvailabilitySource{Type: model.SourceExisting, ScheduleID: 1}}

		res, err := Resolve(binding, week, NewScheduleSet(mondayNineToFive()), ResolveOptions{
			Now:            late,
			ViewerTimezone: "America/New_York",
		})

		require.NoError(t, err)
		assert.Equal(t, "2024-06-09", DateKey(res.Days[0].Date))
	})
}

func TestExpandRange(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Days Is Half Open", func(t *testing.T) {
		dates, err := ExpandRange(model.AvailabilityRange{Type: model.RangeDays, Days: 3}, today)
		require.NoError(t, err)
		require.Len(t, dates, 3)
		assert.Equal(t, "2024-06-12", DateKey(dates[2]))
	})

	t.Run("Date Range Is Inclusive", func(t *testing.T) {
		dates, err := ExpandRange(model.AvailabilityRange{Type: model.RangeDateRange, StartDate: "2024-06-11", EndDate: "2024-06-13"}, today)
		require.NoError(t, err)
		require.Len(t, dates, 3)
		assert.Equal(t, "2024-06-11", DateKey(dates[0]))
		assert.Equal(t, "2024-06-13", DateKey(dates[2]))
	})

	t.Run("Past Dates Are Dropped", func(t *testing.T) {
		dates, err := ExpandRange(model.AvailabilityRange{Type: model.RangeDateRange, StartDate: "2024-06-01", EndDate: "2024-06-11"}, today)
		require.NoError(t, err)
		require.Len(t, dates, 2)
		assert.Equal(t, "2024-06-10", DateKey(dates[0]))
	})

	t.Run("Entirely Past", func(t *testing.T) {
		_, err := ExpandRange(model.AvailabilityRange{Type: model.RangeDateRange, StartDate: "2024-06-01", EndDate: "2024-06-09"}, today)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("End Before Start", func(t *testing.T) {
		_, err := ExpandRange(model.AvailabilityRange{Type: model.RangeDateRange, StartDate: "2024-06-20", EndDate: "2024-06-19"}, today)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("Both Shapes", func(t *testing.T) {
		_, err := ExpandRange(model.AvailabilityRange{Type: model.RangeDays, Days: 3, StartDate: "2024-06-20"}, today)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("Zero Days", func(t *testing.T) {
		_, err := ExpandRange(model.AvailabilityRange{Type: model.RangeDays}, today)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("Unknown Type", func(t *testing.T) {
		_, err := ExpandRange(model.AvailabilityRange{Type: "weeks", Days: 2}, today)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}
