package model

import "time"

// Weekday keys used in WeeklyHours
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// DateLayout is the key format of DateOverrides
const DateLayout = "2006-01-02"

// UnavailableSentinel is written into an override to mark the whole date as unavailable.
const UnavailableSentinel = "22:00"

// Weekdays lists the weekly hours keys in calendar order starting from Monday.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayKey maps time.Weekday to its WeeklyHours key.
func WeekdayKey(d time.Weekday) string {
	switch d {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// TimeSlot is a wall-clock interval in the schedule's timezone ("HH:mm").
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsSentinel reports whether the slot is the "unavailable" marker (start == end).
func (t TimeSlot) IsSentinel() bool {
	return t.Start == t.End
}

// DayHours holds the recurring hours of one weekday.
type DayHours struct {
	Off   bool       `json:"off"`
	Times []TimeSlot `json:"times"`
}

// WeeklyHours maps weekday name to its hours.
type WeeklyHours map[string]DayHours

// DateOverrides maps YYYY-MM-DD to the slots replacing weekly hours for that date.
// An empty slice means the whole date is unavailable.
type DateOverrides map[string][]TimeSlot

// Schedule is a stored availability template owned by a user.
type Schedule struct {
	ID          int64         `json:"id"`
	OwnerID     int64         `json:"owner_id"`
	Name        string        `json:"name"`
	Timezone    string        `json:"timezone"`
	WeeklyHours WeeklyHours   `json:"weekly_hours"`
	Override    DateOverrides `json:"override"`
	IsDefault   bool          `json:"is_default"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewWeeklyHours returns weekly hours with every weekday present and marked off.
func NewWeeklyHours() WeeklyHours {
	wh := make(WeeklyHours, len(Weekdays))
	for _, d := range Weekdays {
		wh[d] = DayHours{Off: true, Times: []TimeSlot{}}
	}
	return wh
}
