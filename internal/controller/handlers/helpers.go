package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/model"
)

// bookingsHorizon насколько вперёд показываются записи в /mybookings
const bookingsHorizon = 60 * 24 * time.Hour

// commandArg возвращает аргумент команды: "/book 5" -> "5", "/start event_5" -> "event_5"
func commandArg(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// parseEventArg разбирает id события из "5" или "event_5"
func parseEventArg(arg string) (int64, bool) {
	arg = strings.TrimPrefix(arg, "event_")
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// userLocation часовой пояс пользователя; UTC, если не задан или неизвестен
func userLocation(u *model.User) *time.Location {
	if u == nil {
		return time.UTC
	}
	return locationOf(u.Timezone)
}

func locationOf(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := availability.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// activeBookings оставляет только записи, которые ещё можно отменить
func activeBookings(bookings []model.Booking) []model.Booking {
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == model.BookingStatusScheduled || b.Status == model.BookingStatusPending {
			out = append(out, b)
		}
	}
	return out
}

// eventTitles индекс id события -> название
func eventTitles(events []*model.Event) map[int64]string {
	titles := make(map[int64]string, len(events))
	for _, e := range events {
		titles[e.ID] = e.Title
	}
	return titles
}
