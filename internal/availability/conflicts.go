package availability

import (
	"sort"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FilterConflicts removes slots overlapping an active booking. With
// reserveTimes false the slots are returned untouched and the race is settled
// when the booking is committed.
func FilterConflicts(slots []model.Slot, bookings []model.Booking, reserveTimes bool) []model.Slot {
	if !reserveTimes {
		return slots
	}

	busy := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			busy = append(busy, b)
		}
	}
	if len(busy) == 0 {
		return slots
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	out := make([]model.Slot, 0, len(slots))
	for _, s := range slots {
		if !conflicts(s, busy) {
			out = append(out, s)
		}
	}
	return out
}

// conflicts scans bookings sorted by start; those starting at or after the
// slot end cannot overlap.
func conflicts(s model.Slot, busy []model.Booking) bool {
	for _, b := range busy {
		if !b.Start.Before(s.End) {
			return false
		}
		if Overlaps(s.Start, s.End, b.Start, b.End) {
			return true
		}
	}
	return false
}
