package model

import "time"

// SourceType describes where an event takes its hours from.
type SourceType string

const (
	SourceExisting SourceType = "existing" // stored Schedule referenced by id
	SourceCustom   SourceType = "custom"   // hours inlined into the event
)

// AvailabilitySource is either a reference to a stored Schedule or inlined hours.
type AvailabilitySource struct {
	Type        SourceType    `json:"type"`
	ScheduleID  int64         `json:"schedule_id,omitempty"`
	WeeklyHours WeeklyHours   `json:"weekly_hours,omitempty"`
	Override    DateOverrides `json:"override,omitempty"`
	Timezone    string        `json:"timezone,omitempty"`
}

// AvailabilityBinding describes how an event sources its availability.
// IsCommon is nil for host events; team events set it.
type AvailabilityBinding struct {
	AvailabilitySource
	IsCommon            *bool                        `json:"is_common,omitempty"`
	UsersAvailability   map[int64]AvailabilitySource `json:"users_availability,omitempty"`
	PropagateToSchedule bool                         `json:"propagate_to_schedule,omitempty"`
}

// IsTeamPerHost reports whether each host resolves its own availability.
func (b AvailabilityBinding) IsTeamPerHost() bool {
	return b.IsCommon != nil && !*b.IsCommon
}

// ReferencedScheduleIDs returns every stored schedule id the binding points at.
func (b AvailabilityBinding) ReferencedScheduleIDs() []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	add := func(src AvailabilitySource) {
		if src.Type != SourceExisting || src.ScheduleID == 0 {
			return
		}
		if _, ok := seen[src.ScheduleID]; ok {
			return
		}
		seen[src.ScheduleID] = struct{}{}
		ids = append(ids, src.ScheduleID)
	}

	if b.IsTeamPerHost() {
		for _, src := range b.UsersAvailability {
			add(src)
		}
	} else {
		add(b.AvailabilitySource)
	}
	return ids
}

// RangeType selects the shape of AvailabilityRange.
type RangeType string

const (
	RangeDays      RangeType = "days"
	RangeDateRange RangeType = "date_range"
)

// AvailabilityRange is a rolling N-day window or a fixed date window.
type AvailabilityRange struct {
	Type      RangeType `json:"type"`
	Days      int       `json:"days,omitempty"`
	StartDate string    `json:"start_date,omitempty"`
	EndDate   string    `json:"end_date,omitempty"`
}

// LimitUnit is the unit of notice periods and limit buckets.
type LimitUnit string

const (
	UnitMinutes LimitUnit = "minutes"
	UnitHours   LimitUnit = "hours"
	UnitDays    LimitUnit = "days"
	UnitWeeks   LimitUnit = "weeks"
	UnitMonths  LimitUnit = "months"
)

// Valid reports whether u is a known unit.
func (u LimitUnit) Valid() bool {
	switch u {
	case UnitMinutes, UnitHours, UnitDays, UnitWeeks, UnitMonths:
		return true
	}
	return false
}

// Limit caps bookings (or booked minutes) per unit bucket.
type Limit struct {
	Limit int       `json:"limit"`
	Unit  LimitUnit `json:"unit"`
}

// LimitSet is one dimension of limits (frequency or duration).
type LimitSet struct {
	Enable bool    `json:"enable"`
	Limits []Limit `json:"limits"`
}

// GeneralLimits holds buffers, notice and slot interval; all minutes unless noted.
type GeneralLimits struct {
	BufferBefore      int       `json:"buffer_before"`
	BufferAfter       int       `json:"buffer_after"`
	MinimumNotice     int       `json:"minimum_notices"`
	MinimumNoticeUnit LimitUnit `json:"minimum_notice_unit"`
	TimeSlot          int       `json:"time_slot"`
}

// TimezoneLock pins the event to a timezone regardless of the viewer.
type TimezoneLock struct {
	Enable   bool   `json:"enable"`
	Timezone string `json:"timezone"`
}

// EventLimits groups every scheduling rule of an event.
type EventLimits struct {
	General      GeneralLimits `json:"general"`
	Frequency    LimitSet      `json:"frequency"`
	Duration     LimitSet      `json:"duration"`
	TimezoneLock TimezoneLock  `json:"timezone_lock"`
}

// EventKind distinguishes single-host and team events.
type EventKind string

const (
	EventKindHost EventKind = "host"
	EventKindTeam EventKind = "team"
)

// EventStatus is the publication status of an event.
type EventStatus string

const (
	EventStatusActive   EventStatus = "active"
	EventStatusDisabled EventStatus = "disabled"
)

// Event is a bookable meeting type.
type Event struct {
	ID              int64               `json:"id"`
	HostID          int64               `json:"host_id"`
	Title           string              `json:"title"`
	Kind            EventKind           `json:"kind"`
	Hosts           []int64             `json:"hosts,omitempty"`
	Duration        int                 `json:"duration"`                   // минуты
	DurationOptions []int               `json:"duration_options,omitempty"` // длительности на выбор участника
	ReserveTimes    bool                `json:"reserve_times"`
	Availability    AvailabilityBinding `json:"availability"`
	Range           AvailabilityRange   `json:"range"`
	Limits          EventLimits         `json:"limits"`
	Status          EventStatus         `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// Durations returns the durations attendees may pick, falling back to Duration.
func (e *Event) Durations() []int {
	if len(e.DurationOptions) > 0 {
		return e.DurationOptions
	}
	return []int{e.Duration}
}

// AllowsDuration reports whether d is one of the event's durations.
func (e *Event) AllowsDuration(d int) bool {
	for _, v := range e.Durations() {
		if v == d {
			return true
		}
	}
	return false
}

// HasHost reports whether userID hosts the event.
func (e *Event) HasHost(userID int64) bool {
	if e.HostID == userID {
		return true
	}
	for _, h := range e.Hosts {
		if h == userID {
			return true
		}
	}
	return false
}
