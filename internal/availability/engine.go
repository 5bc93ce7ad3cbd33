// Package availability turns schedules, event rules and existing bookings into
// bookable slots. Everything here is pure: callers load schedules and bookings
// and pin "now", so identical inputs always give identical output.
package availability

import (
	"fmt"
	"runtime"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"golang.org/x/sync/errgroup"
)

// Engine runs Resolver → Slot Generator → Limits Enforcer → Conflict Filter.
type Engine struct {
	StartOfWeek time.Weekday
	Workers     int
}

func NewEngine(startOfWeek time.Weekday, workers int) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{StartOfWeek: startOfWeek, Workers: workers}
}

// Query is one availability request with all its inputs already loaded.
type Query struct {
	Event          *model.Event
	HostID         int64
	Schedules      ScheduleLookup
	Bookings       []model.Booking // host bookings around the range
	Now            time.Time
	ViewerTimezone string
	Durations      []int
}

// Resolve runs only the resolver stage; callers use it to learn the booking
// window before fetching bookings.
func (e *Engine) Resolve(q Query) (*Resolution, error) {
	if q.Event == nil {
		return nil, fmt.Errorf("availability query without event")
	}
	return Resolve(q.Event.Availability, q.Event.Range, q.Schedules, ResolveOptions{
		HostID:         q.HostID,
		Now:            q.Now,
		ViewerTimezone: q.ViewerTimezone,
		TimezoneLock:   q.Event.Limits.TimezoneLock,
	})
}

// Slots resolves and then runs the remaining stages.
func (e *Engine) Slots(q Query) ([]model.Slot, error) {
	res, err := e.Resolve(q)
	if err != nil {
		return nil, err
	}
	return e.SlotsFor(res, q)
}

// SlotsFor generates slots for an existing resolution. Dates are generated in
// parallel and merged back in chronological order.
func (e *Engine) SlotsFor(res *Resolution, q Query) ([]model.Slot, error) {
	durations, err := e.durations(q)
	if err != nil {
		return nil, err
	}
	params := ParamsFromEvent(q.Event, durations)

	perDay := make([][]model.Slot, len(res.Days))
	var g errgroup.Group
	g.SetLimit(e.workers())
	for i := range res.Days {
		g.Go(func() error {
			perDay[i] = GenerateDay(res.Days[i], res.Location, params, q.Now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var slots []model.Slot
	for _, day := range perDay {
		slots = append(slots, day...)
	}
	slots = SortSlots(slots)

	enforcer := LimitsEnforcer{Location: res.Reference, StartOfWeek: e.StartOfWeek}
	slots = enforcer.Filter(slots, eventBookings(q), q.Event.Limits)
	slots = FilterConflicts(slots, q.Bookings, q.Event.ReserveTimes)

	if slots == nil {
		slots = []model.Slot{}
	}
	return slots, nil
}

func (e *Engine) durations(q Query) ([]int, error) {
	if len(q.Durations) == 0 {
		return q.Event.Durations(), nil
	}
	for _, d := range q.Durations {
		if !q.Event.AllowsDuration(d) {
			return nil, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, d)
		}
	}
	return q.Durations, nil
}

// eventBookings keeps the bookings of the queried event. Limits are per event,
// while conflicts consider every booking of the host.
func eventBookings(q Query) []model.Booking {
	out := make([]model.Booking, 0, len(q.Bookings))
	for _, b := range q.Bookings {
		if b.EventID == q.Event.ID {
			out = append(out, b)
		}
	}
	return out
}

func (e *Engine) workers() int {
	if e.Workers <= 0 {
		return 1
	}
	return e.Workers
}

// BookingWindow returns the interval whose bookings can affect the resolution:
// whole months around the resolved dates padded by a week, so every day, week
// and month bucket of a candidate is fully counted.
func BookingWindow(res *Resolution) (time.Time, time.Time) {
	if res == nil || len(res.Days) == 0 {
		return time.Time{}, time.Time{}
	}
	loc := res.Reference
	if loc == nil {
		loc = time.UTC
	}
	first := res.Days[0].Date
	last := res.Days[len(res.Days)-1].Date

	from := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 0, -7)
	to := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 7)
	return from, to
}
