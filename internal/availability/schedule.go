package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
)

// Validate checks that every weekday is present, every non-sentinel slot has
// start < end and the timezone is a known IANA zone.
func Validate(s *model.Schedule) error {
	if s == nil {
		return &InvalidScheduleError{Field: "schedule", Reason: "is nil"}
	}
	if s.Timezone == "" || s.Timezone == "Local" {
		return &InvalidScheduleError{Field: "timezone", Reason: "is required"}
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return &InvalidScheduleError{Field: "timezone", Reason: fmt.Sprintf("unknown zone %q", s.Timezone)}
	}

	for _, day := range model.Weekdays {
		hours, ok := s.WeeklyHours[day]
		if !ok {
			return &InvalidScheduleError{Field: "weekly_hours." + day, Reason: "is missing"}
		}
		if err := validateSlots("weekly_hours."+day, hours.Times); err != nil {
			return err
		}
	}
	for key := range s.WeeklyHours {
		if !isWeekday(key) {
			return &InvalidScheduleError{Field: "weekly_hours." + key, Reason: "unknown weekday"}
		}
	}

	keys := make([]string, 0, len(s.Override))
	for key := range s.Override {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := ParseDate(key); err != nil {
			return &InvalidScheduleError{Field: "override." + key, Reason: "date is not YYYY-MM-DD"}
		}
		if err := validateSlots("override."+key, s.Override[key]); err != nil {
			return err
		}
	}
	return nil
}

func validateSlots(field string, slots []model.TimeSlot) error {
	for i, ts := range slots {
		start, err := parseClock(ts.Start)
		if err != nil {
			return &InvalidScheduleError{Field: fmt.Sprintf("%s[%d].start", field, i), Reason: err.Error()}
		}
		end, err := parseClock(ts.End)
		if err != nil {
			return &InvalidScheduleError{Field: fmt.Sprintf("%s[%d].end", field, i), Reason: err.Error()}
		}
		if ts.IsSentinel() {
			continue
		}
		if start >= end {
			return &InvalidScheduleError{Field: fmt.Sprintf("%s[%d]", field, i), Reason: fmt.Sprintf("start %s is not before end %s", ts.Start, ts.End)}
		}
	}
	return nil
}

func isWeekday(key string) bool {
	for _, d := range model.Weekdays {
		if d == key {
			return true
		}
	}
	return false
}

// AvailableOn returns the ordered slots of the calendar date. An override entry
// replaces weekly hours entirely, an empty one meaning unavailable. Off weekdays
// yield nothing. Sentinel slots are never returned.
func AvailableOn(s *model.Schedule, date time.Time) []model.TimeSlot {
	if s == nil {
		return nil
	}
	if slots, ok := s.Override[DateKey(date)]; ok {
		return bookable(slots)
	}
	hours, ok := s.WeeklyHours[model.WeekdayKey(date.Weekday())]
	if !ok || hours.Off {
		return []model.TimeSlot{}
	}
	return bookable(hours.Times)
}

func bookable(slots []model.TimeSlot) []model.TimeSlot {
	out := make([]model.TimeSlot, 0, len(slots))
	for _, ts := range slots {
		if ts.IsSentinel() {
			continue
		}
		out = append(out, ts)
	}
	return sortTimeSlots(out)
}

// ApplyOverride sets or replaces the override of one date. Weekly hours are untouched.
func ApplyOverride(s *model.Schedule, date time.Time, slots []model.TimeSlot) {
	if s.Override == nil {
		s.Override = make(model.DateOverrides)
	}
	cp := make([]model.TimeSlot, len(slots))
	copy(cp, slots)
	s.Override[DateKey(date)] = cp
}

// MarkUnavailable writes the unavailable sentinel for the date.
func MarkUnavailable(s *model.Schedule, date time.Time) {
	ApplyOverride(s, date, []model.TimeSlot{{Start: model.UnavailableSentinel, End: model.UnavailableSentinel}})
}

// ClearOverride removes the override of the date so weekly hours apply again.
func ClearOverride(s *model.Schedule, date time.Time) {
	delete(s.Override, DateKey(date))
}

// CloneOption changes a field of the copy produced by Clone.
type CloneOption func(*model.Schedule)

func WithOwner(ownerID int64) CloneOption {
	return func(s *model.Schedule) { s.OwnerID = ownerID }
}

func WithName(name string) CloneOption {
	return func(s *model.Schedule) { s.Name = name }
}

func WithTimezone(tz string) CloneOption {
	return func(s *model.Schedule) { s.Timezone = tz }
}

func WithDefault(isDefault bool) CloneOption {
	return func(s *model.Schedule) { s.IsDefault = isDefault }
}

// Clone returns a deep copy of s with opts applied. The copy shares no maps or
// slices with the original.
func Clone(s *model.Schedule, opts ...CloneOption) *model.Schedule {
	if s == nil {
		return nil
	}
	cp := *s
	cp.WeeklyHours = CloneWeeklyHours(s.WeeklyHours)
	cp.Override = CloneOverrides(s.Override)
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

func CloneWeeklyHours(wh model.WeeklyHours) model.WeeklyHours {
	if wh == nil {
		return nil
	}
	out := make(model.WeeklyHours, len(wh))
	for day, hours := range wh {
		times := make([]model.TimeSlot, len(hours.Times))
		copy(times, hours.Times)
		out[day] = model.DayHours{Off: hours.Off, Times: times}
	}
	return out
}

func CloneOverrides(o model.DateOverrides) model.DateOverrides {
	if o == nil {
		return nil
	}
	out := make(model.DateOverrides, len(o))
	for date, slots := range o {
		cp := make([]model.TimeSlot, len(slots))
		copy(cp, slots)
		out[date] = cp
	}
	return out
}
