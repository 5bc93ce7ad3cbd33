package common

import (
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screenEvent() *model.Event {
	return &model.Event{ID: 5, HostID: 10, Title: "Intro <1:1>", Duration: 30, Status: model.EventStatusActive}
}

func TestBuildDatesScreen(t *testing.T) {
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	var slots []model.Slot
	for day := 0; day < 20; day++ {
		s := start.AddDate(0, 0, day)
		slots = append(slots, slotAt(s, 30), slotAt(s.Add(time.Hour), 30))
	}
	days := GroupByDate(slots, time.UTC)

	t.Run("First Page", func(t *testing.T) {
		text, kb := BuildDatesScreen(screenEvent(), days, 0, time.UTC)

		assert.Contains(t, text, "Intro &lt;1:1&gt;")
		assert.Equal(t, "Пн 10.06 (2)", kb.InlineKeyboard[0][0].Text)
		assert.Equal(t, callbacktypes.DayData(5, "2024-06-10"), kb.InlineKeyboard[0][0].CallbackData)
		// 14 дат по 2 в ряд, пагинация, неделя, меню
		require.Len(t, kb.InlineKeyboard, 7+3)
		assert.Equal(t, callbacktypes.EventData(5, 1), kb.InlineKeyboard[7][1].CallbackData)
	})

	t.Run("Last Page", func(t *testing.T) {
		_, kb := BuildDatesScreen(screenEvent(), days, 5, time.UTC)

		assert.Equal(t, callbacktypes.DayData(5, "2024-06-24"), kb.InlineKeyboard[0][0].CallbackData)
	})

	t.Run("No Days", func(t *testing.T) {
		text, kb := BuildDatesScreen(screenEvent(), nil, 0, time.UTC)

		assert.Contains(t, text, "Свободного времени пока нет")
		assert.Len(t, kb.InlineKeyboard, 1)
	})
}

func TestBuildDaySlotsScreen(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	ten := time.Date(2024, 6, 10, 7, 0, 0, 0, time.UTC)
	day := GroupByDate([]model.Slot{slotAt(ten, 30), slotAt(ten, 60)}, moscow)[0]

	t.Run("Single Duration", func(t *testing.T) {
		_, kb := BuildDaySlotsScreen(screenEvent(), day, moscow)

		assert.Equal(t, "10:00", kb.InlineKeyboard[0][0].Text)
		assert.Equal(t, callbacktypes.BookData(5, ten, 30), kb.InlineKeyboard[0][0].CallbackData)
		assert.Equal(t, callbacktypes.EventData(5, 0), kb.InlineKeyboard[len(kb.InlineKeyboard)-1][0].CallbackData)
	})

	t.Run("Duration Options Are Labelled", func(t *testing.T) {
		e := screenEvent()
		e.DurationOptions = []int{30, 60}

		text, kb := BuildDaySlotsScreen(e, day, moscow)

		assert.Contains(t, text, "2 слота")
		assert.Equal(t, "10:00 · 1 ч", kb.InlineKeyboard[0][1].Text)
	})
}

func TestBuildBookingsListScreen(t *testing.T) {
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	scheduled := model.Booking{ID: uuid.New(), EventID: 5, AttendeeName: "Ann", Start: start, End: start.Add(30 * time.Minute), Status: model.BookingStatusScheduled}
	pending := model.Booking{ID: uuid.New(), EventID: 5, AttendeeName: "Bob", Start: start.Add(time.Hour), End: start.Add(90 * time.Minute), Status: model.BookingStatusPending}

	text, kb := BuildBookingsListScreen([]model.Booking{scheduled, pending}, map[int64]string{5: "Intro"}, time.UTC)

	assert.Contains(t, text, "2 записи")
	assert.Equal(t, 2, strings.Count(text, "Intro"))
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, callbacktypes.CancelBookingData(scheduled.ID), kb.InlineKeyboard[0][0].CallbackData)

	empty, _ := BuildBookingsListScreen(nil, nil, time.UTC)
	assert.Contains(t, empty, "Предстоящих записей пока нет")
}

func TestBuildSchedulesListScreen(t *testing.T) {
	hours := model.NewWeeklyHours()
	hours[model.Monday] = model.DayHours{Times: []model.TimeSlot{{Start: "09:00", End: "12:00"}, {Start: "13:00", End: "17:00"}}}

	text := BuildSchedulesListScreen([]*model.Schedule{{
		ID: 1, Name: "Work", Timezone: "Europe/Moscow", WeeklyHours: hours, IsDefault: true,
		Override: model.DateOverrides{"2024-06-12": nil},
	}})

	assert.Contains(t, text, "Work</b> ⭐️")
	assert.Contains(t, text, "Пн: 09:00-12:00, 13:00-17:00")
	assert.Contains(t, text, "Вт: выходной")
	assert.Contains(t, text, "Исключений по датам: 1")
}

func TestErrorMessage(t *testing.T) {
	assert.Contains(t, ErrorMessage(ErrUserNotFound), "/start")
	assert.Equal(t, "❌ Произошла ошибка", ErrorMessage(assert.AnError))
}
