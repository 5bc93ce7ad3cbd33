package availability

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
)

const minutesPerDay = 24 * 60

// parseClock converts "HH:mm" into minutes since midnight. "24:00" is accepted
// so a window can run to the end of the day.
func parseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("time %q is not HH:mm", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("time %q: bad hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return 0, fmt.Errorf("time %q: bad minute", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

// ParseDate parses a YYYY-MM-DD key into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(model.DateLayout, s)
}

// DateKey formats the calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(model.DateLayout)
}

// civilDate returns the calendar date of t as seen in loc, as midnight UTC.
func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// atClock places minutes-since-midnight on the calendar date in loc.
func atClock(date time.Time, minutes int, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)
}

// sortTimeSlots orders slots by start time without mutating the input.
func sortTimeSlots(in []model.TimeSlot) []model.TimeSlot {
	out := make([]model.TimeSlot, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		a, errA := parseClock(out[i].Start)
		b, errB := parseClock(out[j].Start)
		if errA != nil || errB != nil {
			return out[i].Start < out[j].Start
		}
		return a < b
	})
	return out
}

// LoadLocation resolves an IANA zone name; empty means UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
