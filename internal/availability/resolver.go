package availability

import (
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
)

// ScheduleLookup finds stored schedules already loaded by the caller.
type ScheduleLookup interface {
	Schedule(id int64) (*model.Schedule, bool)
}

// ScheduleSet is a map-backed ScheduleLookup.
type ScheduleSet map[int64]*model.Schedule

func NewScheduleSet(schedules ...*model.Schedule) ScheduleSet {
	set := make(ScheduleSet, len(schedules))
	for _, s := range schedules {
		if s != nil {
			set[s.ID] = s
		}
	}
	return set
}

func (s ScheduleSet) Schedule(id int64) (*model.Schedule, bool) {
	sch, ok := s[id]
	return sch, ok
}

// ResolveOptions carries the per-request inputs of Resolve.
type ResolveOptions struct {
	HostID         int64
	Now            time.Time
	ViewerTimezone string
	TimezoneLock   model.TimezoneLock
}

// DayWindows holds the raw slots of one calendar date.
type DayWindows struct {
	Date  time.Time
	Slots []model.TimeSlot
}

// Resolution is the per-date availability of one binding over a range.
type Resolution struct {
	Schedule *model.Schedule
	// Location anchors the schedule's wall-clock slots.
	Location *time.Location
	// Reference decides "today" and limit buckets.
	Reference *time.Location
	Days      []DayWindows
}

// Resolve picks the schedule the binding points at and expands the range into
// per-date raw slots. Team events with per-host availability resolve only
// opts.HostID; merging hosts is left to the caller.
func Resolve(binding model.AvailabilityBinding, rng model.AvailabilityRange, lookup ScheduleLookup, opts ResolveOptions) (*Resolution, error) {
	src, err := sourceFor(binding, opts.HostID)
	if err != nil {
		return nil, err
	}
	schedule, err := scheduleFor(src, lookup)
	if err != nil {
		return nil, err
	}
	if err := Validate(schedule); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(schedule.Timezone)
	if err != nil {
		return nil, &InvalidScheduleError{Field: "timezone", Reason: err.Error()}
	}
	ref, err := referenceLocation(opts, loc)
	if err != nil {
		return nil, err
	}

	dates, err := ExpandRange(rng, civilDate(opts.Now, ref))
	if err != nil {
		return nil, err
	}

	days := make([]DayWindows, 0, len(dates))
	for _, d := range dates {
		days = append(days, DayWindows{Date: d, Slots: AvailableOn(schedule, d)})
	}

	return &Resolution{
		Schedule:  schedule,
		Location:  loc,
		Reference: ref,
		Days:      days,
	}, nil
}

func sourceFor(binding model.AvailabilityBinding, hostID int64) (model.AvailabilitySource, error) {
	if !binding.IsTeamPerHost() {
		return binding.AvailabilitySource, nil
	}
	if hostID == 0 {
		return model.AvailabilitySource{}, &NoAvailabilityError{Reason: "team event with per-host availability needs a host"}
	}
	src, ok := binding.UsersAvailability[hostID]
	if !ok {
		return model.AvailabilitySource{}, &NoAvailabilityError{HostID: hostID}
	}
	return src, nil
}

func scheduleFor(src model.AvailabilitySource, lookup ScheduleLookup) (*model.Schedule, error) {
	switch src.Type {
	case model.SourceExisting:
		if lookup == nil {
			return nil, &NoAvailabilityError{ScheduleID: src.ScheduleID}
		}
		s, ok := lookup.Schedule(src.ScheduleID)
		if !ok || s == nil {
			return nil, &NoAvailabilityError{ScheduleID: src.ScheduleID}
		}
		return s, nil
	case model.SourceCustom:
		tz := src.Timezone
		if tz == "" {
			tz = "UTC"
		}
		return &model.Schedule{
			Name:        "custom",
			Timezone:    tz,
			WeeklyHours: src.WeeklyHours,
			Override:    src.Override,
		}, nil
	default:
		return nil, &InvalidScheduleError{Field: "availability.type", Reason: "must be existing or custom"}
	}
}

// referenceLocation is the lock timezone when enabled, else the viewer's, else
// the schedule's own.
func referenceLocation(opts ResolveOptions, scheduleLoc *time.Location) (*time.Location, error) {
	if opts.TimezoneLock.Enable {
		loc, err := time.LoadLocation(opts.TimezoneLock.Timezone)
		if err != nil || opts.TimezoneLock.Timezone == "" {
			return nil, &InvalidScheduleError{Field: "timezone_lock.timezone", Reason: "unknown zone " + opts.TimezoneLock.Timezone}
		}
		return loc, nil
	}
	if opts.ViewerTimezone != "" {
		if loc, err := time.LoadLocation(opts.ViewerTimezone); err == nil {
			return loc, nil
		}
	}
	return scheduleLoc, nil
}

// ExpandRange lists the calendar dates of rng that are not before today.
// "days" covers [today, today+days); "date_range" is inclusive on both ends.
func ExpandRange(rng model.AvailabilityRange, today time.Time) ([]time.Time, error) {
	if err := ValidateRange(rng); err != nil {
		return nil, err
	}

	var from, to time.Time
	switch rng.Type {
	case model.RangeDays:
		from = today
		to = today.AddDate(0, 0, rng.Days-1)
	case model.RangeDateRange:
		from, _ = ParseDate(rng.StartDate)
		to, _ = ParseDate(rng.EndDate)
		if to.Before(today) {
			return nil, &RangeError{Reason: "range is entirely in the past"}
		}
		if from.Before(today) {
			from = today
		}
	}

	dates := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates, nil
}

// ValidateRange checks that exactly the shape selected by Type is populated.
func ValidateRange(rng model.AvailabilityRange) error {
	switch rng.Type {
	case model.RangeDays:
		if rng.StartDate != "" || rng.EndDate != "" {
			return &RangeError{Reason: "days range must not carry dates"}
		}
		if rng.Days <= 0 {
			return &RangeError{Reason: "days must be positive"}
		}
	case model.RangeDateRange:
		if rng.Days != 0 {
			return &RangeError{Reason: "date_range must not carry days"}
		}
		from, err := ParseDate(rng.StartDate)
		if err != nil {
			return &RangeError{Reason: "start_date is not YYYY-MM-DD"}
		}
		to, err := ParseDate(rng.EndDate)
		if err != nil {
			return &RangeError{Reason: "end_date is not YYYY-MM-DD"}
		}
		if to.Before(from) {
			return &RangeError{Reason: "end_date is before start_date"}
		}
	default:
		return &RangeError{Reason: "type must be days or date_range"}
	}
	return nil
}
