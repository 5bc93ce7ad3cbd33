package availability

import (
	"sort"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
)

// GeneratorParams are the event rules that shape slot generation. Minutes unless noted.
type GeneratorParams struct {
	Durations     []int
	BufferBefore  int
	BufferAfter   int
	Interval      int // 0 means step by duration
	MinimumNotice time.Duration
}

// ParamsFromEvent builds generator params for the given durations (event
// durations when empty).
func ParamsFromEvent(e *model.Event, durations []int) GeneratorParams {
	if len(durations) == 0 {
		durations = e.Durations()
	}
	g := e.Limits.General
	return GeneratorParams{
		Durations:     durations,
		BufferBefore:  g.BufferBefore,
		BufferAfter:   g.BufferAfter,
		Interval:      g.TimeSlot,
		MinimumNotice: NoticeDuration(g.MinimumNotice, g.MinimumNoticeUnit),
	}
}

// UnitMinutes converts one unit into minutes. Months count as 30 days.
func UnitMinutes(unit model.LimitUnit) int {
	switch unit {
	case model.UnitHours:
		return 60
	case model.UnitDays:
		return minutesPerDay
	case model.UnitWeeks:
		return 7 * minutesPerDay
	case model.UnitMonths:
		return 30 * minutesPerDay
	default:
		return 1
	}
}

// NoticeDuration converts a notice amount in unit into a duration.
func NoticeDuration(amount int, unit model.LimitUnit) time.Duration {
	if amount <= 0 {
		return 0
	}
	return time.Duration(amount*UnitMinutes(unit)) * time.Minute
}

// GenerateDay slices the raw windows of one date into bookable slots.
// Each window is shrunk by the buffers and walked from its start in steps of
// Interval (or the duration). A candidate survives when it fits before the
// window end and does not start before now + MinimumNotice.
func GenerateDay(day DayWindows, loc *time.Location, p GeneratorParams, now time.Time) []model.Slot {
	earliest := now.Add(p.MinimumNotice)
	var out []model.Slot

	for _, ts := range day.Slots {
		startMin, err := parseClock(ts.Start)
		if err != nil {
			continue
		}
		endMin, err := parseClock(ts.End)
		if err != nil {
			continue
		}
		winStart := atClock(day.Date, startMin, loc).Add(time.Duration(p.BufferBefore) * time.Minute)
		winEnd := atClock(day.Date, endMin, loc).Add(-time.Duration(p.BufferAfter) * time.Minute)
		if !winEnd.After(winStart) {
			continue
		}

		for _, duration := range p.Durations {
			if duration <= 0 {
				continue
			}
			length := time.Duration(duration) * time.Minute
			step := length
			if p.Interval > 0 {
				step = time.Duration(p.Interval) * time.Minute
			}
			for c := winStart; !c.Add(length).After(winEnd); c = c.Add(step) {
				if c.Before(earliest) {
					continue
				}
				out = append(out, model.Slot{Start: c, End: c.Add(length), Duration: duration})
			}
		}
	}

	return SortSlots(out)
}

// Generate runs GenerateDay over every date of the resolution sequentially.
func Generate(res *Resolution, p GeneratorParams, now time.Time) []model.Slot {
	var out []model.Slot
	for _, day := range res.Days {
		out = append(out, GenerateDay(day, res.Location, p, now)...)
	}
	return SortSlots(out)
}

// SortSlots orders slots by start then duration and drops exact duplicates,
// which overlapping windows of one day would otherwise produce.
func SortSlots(slots []model.Slot) []model.Slot {
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].Start.Equal(slots[j].Start) {
			return slots[i].Start.Before(slots[j].Start)
		}
		return slots[i].Duration < slots[j].Duration
	})

	out := slots[:0]
	for i, s := range slots {
		if i > 0 && s.Start.Equal(out[len(out)-1].Start) && s.Duration == out[len(out)-1].Duration {
			continue
		}
		out = append(out, s)
	}
	return out
}
