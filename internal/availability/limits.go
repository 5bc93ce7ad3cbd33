package availability

import (
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
)

// LimitsEnforcer drops candidates that would push a bucket over a frequency or
// duration cap. It performs no I/O: bookings are passed in by the caller.
type LimitsEnforcer struct {
	Location    *time.Location
	StartOfWeek time.Weekday
}

// bucketCounter accumulates active bookings per bucket of one limit.
type bucketCounter struct {
	limit   model.Limit
	count   map[int64]int
	minutes map[int64]int
}

// Filter keeps the slots for which one more booking satisfies every enabled
// limit. Frequency caps count bookings, duration caps sum minutes; both are
// AND-ed across all configured limits.
func (e LimitsEnforcer) Filter(slots []model.Slot, bookings []model.Booking, limits model.EventLimits) []model.Slot {
	freq := e.counters(limits.Frequency, bookings)
	dur := e.counters(limits.Duration, bookings)
	if len(freq) == 0 && len(dur) == 0 {
		return slots
	}

	out := make([]model.Slot, 0, len(slots))
	for _, s := range slots {
		if e.admits(s, freq, dur) {
			out = append(out, s)
		}
	}
	return out
}

func (e LimitsEnforcer) admits(s model.Slot, freq, dur []bucketCounter) bool {
	for _, c := range freq {
		if c.count[e.bucket(s.Start, c.limit.Unit)]+1 > c.limit.Limit {
			return false
		}
	}
	for _, c := range dur {
		if c.minutes[e.bucket(s.Start, c.limit.Unit)]+s.Duration > c.limit.Limit {
			return false
		}
	}
	return true
}

func (e LimitsEnforcer) counters(set model.LimitSet, bookings []model.Booking) []bucketCounter {
	if !set.Enable {
		return nil
	}
	var out []bucketCounter
	for _, l := range set.Limits {
		if !l.Unit.Valid() {
			continue
		}
		c := bucketCounter{limit: l, count: make(map[int64]int), minutes: make(map[int64]int)}
		for i := range bookings {
			b := &bookings[i]
			if !b.IsActive() {
				continue
			}
			key := e.bucket(b.Start, l.Unit)
			c.count[key]++
			c.minutes[key] += b.Minutes()
		}
		out = append(out, c)
	}
	return out
}

// bucket returns the start of the unit bucket containing t, as a unix key.
func (e LimitsEnforcer) bucket(t time.Time, unit model.LimitUnit) int64 {
	return BucketStart(t, unit, e.location(), e.StartOfWeek).Unix()
}

func (e LimitsEnforcer) location() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// BucketStart truncates t to its minute, hour, day, week or month in loc.
// Weeks begin on startOfWeek.
func BucketStart(t time.Time, unit model.LimitUnit, loc *time.Location, startOfWeek time.Weekday) time.Time {
	lt := t.In(loc)
	y, m, d := lt.Date()
	switch unit {
	case model.UnitMinutes:
		return time.Date(y, m, d, lt.Hour(), lt.Minute(), 0, 0, loc)
	case model.UnitHours:
		return time.Date(y, m, d, lt.Hour(), 0, 0, 0, loc)
	case model.UnitWeeks:
		back := (int(lt.Weekday()) - int(startOfWeek) + 7) % 7
		return time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	case model.UnitMonths:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}
