package callbacktypes

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackData(t *testing.T) {
	start := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

	t.Run("Book Round Trip", func(t *testing.T) {
		d := ParseData(BookData(5, start, 30))

		assert.Equal(t, PrefixBook, d.Prefix)
		eventID, err := d.Int64(0)
		require.NoError(t, err)
		unix, err := d.Int64(1)
		require.NoError(t, err)
		duration, err := d.IntOr(2, 0)
		require.NoError(t, err)

		assert.Equal(t, int64(5), eventID)
		assert.True(t, time.Unix(unix, 0).Equal(start))
		assert.Equal(t, 30, duration)
	})

	t.Run("Optional Page", func(t *testing.T) {
		assert.Equal(t, "event:5", EventData(5, 0))
		assert.Equal(t, "event:5:2", EventData(5, 2))

		page, err := ParseData("event:5").IntOr(1, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, page)
	})

	t.Run("Day Keeps Date", func(t *testing.T) {
		d := ParseData(DayData(5, "2024-06-10"))

		date, err := d.String(1)
		require.NoError(t, err)
		assert.Equal(t, "2024-06-10", date)
	})

	t.Run("Cancel Fits Telegram Limit", func(t *testing.T) {
		id := uuid.New()
		raw := ConfirmCancelData(id)

		assert.LessOrEqual(t, len(raw), 64)
		parsed, err := ParseData(raw).UUID(0)
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("Missing Argument", func(t *testing.T) {
		_, err := ParseData("day:5").String(1)
		assert.Error(t, err)

		_, err = ParseData("book").Int64(0)
		assert.Error(t, err)
	})
}
