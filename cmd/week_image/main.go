// Command week_image рендерит недельную картинку свободных слотов по yaml-фикстуре
// без базы и бота. Удобно для проверки вёрстки.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type fixture struct {
	Title          string         `yaml:"title"`
	Now            time.Time      `yaml:"now"`
	ViewerTimezone string         `yaml:"viewer_timezone"`
	Schedule       scheduleConfig `yaml:"schedule"`
	Event          eventConfig    `yaml:"event"`
	Bookings       []bookingEntry `yaml:"bookings"`
}

type scheduleConfig struct {
	Timezone    string              `yaml:"timezone"`
	WeeklyHours map[string][]string `yaml:"weekly_hours"`
	Overrides   map[string][]string `yaml:"overrides"`
}

type eventConfig struct {
	Duration      int    `yaml:"duration"`
	Durations     []int  `yaml:"durations"`
	ReserveTimes  bool   `yaml:"reserve_times"`
	RangeDays     int    `yaml:"range_days"`
	BufferBefore  int    `yaml:"buffer_before"`
	BufferAfter   int    `yaml:"buffer_after"`
	NoticeMinutes int    `yaml:"notice_minutes"`
	TimeSlot      int    `yaml:"time_slot"`
	PerDay        int    `yaml:"per_day"`
	LockTimezone  string `yaml:"lock_timezone"`
}

type bookingEntry struct {
	Start    time.Time `yaml:"start"`
	Duration int       `yaml:"duration"`
	Attendee string    `yaml:"attendee"`
}

func main() {
	in := flag.String("in", "cmd/week_image/testdata/week.yaml", "yaml fixture")
	out := flag.String("out", "week.png", "output png")
	flag.Parse()

	raw, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("Failed to read fixture: %v", err)
	}

	var f fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		log.Fatalf("Failed to parse fixture: %v", err)
	}
	if f.Now.IsZero() {
		f.Now = time.Now()
	}

	schedule, err := f.Schedule.toModel()
	if err != nil {
		log.Fatalf("Invalid schedule: %v", err)
	}
	event := f.Event.toModel(f.Title, schedule.ID)
	bookings := toBookings(f.Bookings, event)

	engine := availability.NewEngine(time.Monday, 4)
	slots, err := engine.Slots(availability.Query{
		Event:          event,
		HostID:         event.HostID,
		Schedules:      availability.NewScheduleSet(schedule),
		Bookings:       bookings,
		Now:            f.Now,
		ViewerTimezone: f.ViewerTimezone,
	})
	if err != nil {
		log.Fatalf("Failed to compute slots: %v", err)
	}

	loc := time.UTC
	if f.ViewerTimezone != "" {
		if loc, err = availability.LoadLocation(f.ViewerTimezone); err != nil {
			log.Fatalf("Invalid viewer timezone: %v", err)
		}
	}
	now := f.Now.In(loc)
	weekStart := common.WeekStartOf(now, time.Monday)

	png, err := common.GenerateWeekImage(common.WeekImageData{
		Title:     event.Title,
		WeekStart: weekStart,
		Slots:     common.SlotsBetween(slots, weekStart, weekStart.AddDate(0, 0, 7)),
		Bookings:  bookings,
		Now:       now,
	})
	if err != nil {
		log.Fatalf("Failed to generate image: %v", err)
	}

	if err := os.WriteFile(*out, png, 0o644); err != nil {
		log.Fatalf("Failed to write image: %v", err)
	}

	fmt.Printf("✅ %s: %d slots, %d bookings, week of %s\n",
		*out, len(slots), len(bookings), weekStart.Format(model.DateLayout))
}

func (c scheduleConfig) toModel() (*model.Schedule, error) {
	s := &model.Schedule{
		ID:          1,
		OwnerID:     1,
		Name:        "Fixture",
		Timezone:    c.Timezone,
		WeeklyHours: model.NewWeeklyHours(),
		Override:    model.DateOverrides{},
		IsDefault:   true,
	}
	if s.Timezone == "" {
		s.Timezone = "UTC"
	}

	for day, ranges := range c.WeeklyHours {
		times, err := parseRanges(ranges)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
		s.WeeklyHours[strings.ToLower(day)] = model.DayHours{Off: len(times) == 0, Times: times}
	}
	for date, ranges := range c.Overrides {
		times, err := parseRanges(ranges)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", date, err)
		}
		s.Override[date] = times
	}

	return s, availability.Validate(s)
}

// parseRanges разбирает строки вида "09:00-12:00"
func parseRanges(ranges []string) ([]model.TimeSlot, error) {
	times := make([]model.TimeSlot, 0, len(ranges))
	for _, r := range ranges {
		start, end, ok := strings.Cut(r, "-")
		if !ok {
			return nil, fmt.Errorf("range %q must be HH:mm-HH:mm", r)
		}
		times = append(times, model.TimeSlot{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)})
	}
	return times, nil
}

func (c eventConfig) toModel(title string, scheduleID int64) *model.Event {
	e := &model.Event{
		ID:              1,
		HostID:          1,
		Title:           title,
		Kind:            model.EventKindHost,
		Duration:        c.Duration,
		DurationOptions: c.Durations,
		ReserveTimes:    c.ReserveTimes,
		Availability: model.AvailabilityBinding{
			AvailabilitySource: model.AvailabilitySource{Type: model.SourceExisting, ScheduleID: scheduleID},
		},
		Range: model.AvailabilityRange{Type: model.RangeDays, Days: c.RangeDays},
		Limits: model.EventLimits{
			General: model.GeneralLimits{
				BufferBefore:      c.BufferBefore,
				BufferAfter:       c.BufferAfter,
				MinimumNotice:     c.NoticeMinutes,
				MinimumNoticeUnit: model.UnitMinutes,
				TimeSlot:          c.TimeSlot,
			},
		},
		Status: model.EventStatusActive,
	}
	if e.Duration == 0 {
		e.Duration = 30
	}
	if e.Range.Days == 0 {
		e.Range.Days = 14
	}
	if c.PerDay > 0 {
		e.Limits.Frequency = model.LimitSet{Enable: true, Limits: []model.Limit{{Limit: c.PerDay, Unit: model.UnitDays}}}
	}
	if c.LockTimezone != "" {
		e.Limits.TimezoneLock = model.TimezoneLock{Enable: true, Timezone: c.LockTimezone}
	}
	return e
}

func toBookings(entries []bookingEntry, event *model.Event) []model.Booking {
	bookings := make([]model.Booking, 0, len(entries))
	for _, b := range entries {
		d := b.Duration
		if d == 0 {
			d = event.Duration
		}
		bookings = append(bookings, model.Booking{
			ID:           uuid.New(),
			EventID:      event.ID,
			HostID:       event.HostID,
			AttendeeName: b.Attendee,
			Start:        b.Start,
			End:          b.Start.Add(time.Duration(d) * time.Minute),
			Status:       model.BookingStatusScheduled,
		})
	}
	return bookings
}
