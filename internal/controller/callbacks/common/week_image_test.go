package common

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWeekImage(t *testing.T) {
	moscow := time.FixedZone("Europe/Moscow", 3*60*60)
	weekStart := time.Date(2024, 6, 10, 0, 0, 0, 0, moscow)
	ten := time.Date(2024, 6, 10, 7, 0, 0, 0, time.UTC) // 10:00 по Москве

	data := WeekImageData{
		Title:     "Intro",
		WeekStart: weekStart,
		Slots: []model.Slot{
			{Start: ten, End: ten.Add(30 * time.Minute), Duration: 30},
			{Start: ten.Add(24 * time.Hour), End: ten.Add(24*time.Hour + 30*time.Minute), Duration: 30},
		},
		Bookings: []model.Booking{{
			ID: uuid.New(), AttendeeName: "Анна Каренина-Вронская",
			Start: ten.Add(time.Hour), End: ten.Add(2 * time.Hour), Status: model.BookingStatusScheduled,
		}},
		Now: ten.Add(30 * time.Minute),
	}

	raw, err := GenerateWeekImage(data)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestGenerateWeekImage_Empty(t *testing.T) {
	raw, err := GenerateWeekImage(WeekImageData{
		WeekStart: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestToBlocks(t *testing.T) {
	weekStart := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	in := weekStart.Add(9 * time.Hour)
	out := weekStart.AddDate(0, 0, 7).Add(9 * time.Hour)

	blocks := toBlocks(WeekImageData{
		WeekStart: weekStart,
		Slots: []model.Slot{
			{Start: in, End: in.Add(time.Hour)},
			{Start: out, End: out.Add(time.Hour)},
		},
		Bookings: []model.Booking{
			{Start: in.Add(time.Hour), End: in.Add(2 * time.Hour), Status: model.BookingStatusScheduled, AttendeeName: "Ann"},
			{Start: in.Add(3 * time.Hour), End: in.Add(4 * time.Hour), Status: model.BookingStatusCancelled},
		},
	}, time.UTC)

	require.Len(t, blocks, 2)
	assert.False(t, blocks[0].booked)
	assert.True(t, blocks[1].booked)
	assert.Equal(t, "Ann", blocks[1].label)
}

func TestCalculateHourRange(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Padded Around Blocks", func(t *testing.T) {
		hours := calculateHourRange(groupBlocksByDay([]block{
			{start: day.Add(9 * time.Hour), end: day.Add(10*time.Hour + 30*time.Minute)},
			{start: day.AddDate(0, 0, 1).Add(14 * time.Hour), end: day.AddDate(0, 0, 1).Add(17 * time.Hour)},
		}))

		assert.Equal(t, hourRange{start: 8, end: 18, total: 10}, hours)
	})

	t.Run("Defaults When Empty", func(t *testing.T) {
		hours := calculateHourRange(map[string][]block{})

		assert.Equal(t, defaultMinHour-hourPaddingTop, hours.start)
		assert.Equal(t, defaultMaxHour+hourPaddingBot, hours.end)
	})

	t.Run("Crossing Midnight Clamps To Day End", func(t *testing.T) {
		hours := calculateHourRange(groupBlocksByDay([]block{
			{start: day.Add(23 * time.Hour), end: day.Add(25 * time.Hour)},
		}))

		assert.Equal(t, 22, hours.start)
		assert.Equal(t, 24, hours.end)
	})
}
