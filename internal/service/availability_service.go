package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/metrics"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"go.uber.org/zap"
)

// SlotsRequest запрос свободных слотов события
type SlotsRequest struct {
	EventID        int64
	HostID         int64 // 0: владелец события
	ViewerTimezone string
	Durations      []int
	Date           string // YYYY-MM-DD, пусто: весь диапазон
}

// AvailabilityService загружает данные для движка и кеширует результат
type AvailabilityService struct {
	events    EventStore
	schedules ScheduleStore
	bookings  BookingStore
	engine    *availability.Engine
	clock     availability.Clock
	cache     SlotCache
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewAvailabilityService(
	events EventStore,
	schedules ScheduleStore,
	bookings BookingStore,
	engine *availability.Engine,
	clock availability.Clock,
	cache SlotCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		events:    events,
		schedules: schedules,
		bookings:  bookings,
		engine:    engine,
		clock:     clock,
		cache:     cache,
		metrics:   m,
		logger:    logger,
	}
}

// Slots возвращает свободные слоты; пустой результат это пустой срез, не ошибка
func (s *AvailabilityService) Slots(ctx context.Context, req SlotsRequest) ([]model.Slot, error) {
	key := SlotKey{
		EventID:   req.EventID,
		HostID:    req.HostID,
		Date:      req.Date,
		Timezone:  req.ViewerTimezone,
		Durations: req.Durations,
	}
	if slots, ok := s.cache.Get(ctx, key); ok {
		s.metrics.SlotQueries.WithLabelValues(metrics.ResultCacheHit).Inc()
		return slots, nil
	}

	var keep func(availability.DayWindows) bool
	if req.Date != "" {
		if _, err := availability.ParseDate(req.Date); err != nil {
			return nil, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
		}
		keep = func(d availability.DayWindows) bool { return availability.DateKey(d.Date) == req.Date }
	}

	started := time.Now()
	slots, err := s.compute(ctx, req, keep)
	if err != nil {
		s.metrics.SlotQueries.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}
	s.metrics.SlotQueries.WithLabelValues(metrics.ResultOK).Inc()
	s.metrics.SlotQueryDuration.Observe(time.Since(started).Seconds())
	s.metrics.SlotsReturned.Observe(float64(len(slots)))

	s.cache.Set(ctx, key, slots)

	s.logger.Debug("Slots computed",
		zap.Int64("event_id", req.EventID),
		zap.Int64("host_id", req.HostID),
		zap.String("date", req.Date),
		zap.Int("slots", len(slots)),
		zap.Duration("took", time.Since(started)),
	)
	return slots, nil
}

// SlotsAround пересчитывает слоты в окрестности момента at, мимо кеша.
// Используется при коммите бронирования.
func (s *AvailabilityService) SlotsAround(ctx context.Context, req SlotsRequest, at time.Time) ([]model.Slot, error) {
	near := map[string]bool{}
	for _, shift := range []int{-1, 0, 1} {
		near[availability.DateKey(at.UTC().AddDate(0, 0, shift))] = true
	}
	return s.compute(ctx, req, func(d availability.DayWindows) bool {
		return near[availability.DateKey(d.Date)]
	})
}

func (s *AvailabilityService) compute(ctx context.Context, req SlotsRequest, keep func(availability.DayWindows) bool) ([]model.Slot, error) {
	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", req.EventID, ErrNotFound)
	}
	if event.Status != model.EventStatusActive {
		return nil, &availability.NoAvailabilityError{Reason: fmt.Sprintf("event %d is %s", event.ID, event.Status)}
	}

	hostID := req.HostID
	if hostID == 0 && !event.Availability.IsTeamPerHost() {
		hostID = event.HostID
	}
	if hostID != 0 && !event.HasHost(hostID) {
		return nil, &ValidationError{Field: "host_id", Reason: "is not a host of the event"}
	}

	schedules, err := s.schedules.GetByIDs(ctx, event.Availability.ReferencedScheduleIDs())
	if err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}

	q := availability.Query{
		Event:          event,
		HostID:         hostID,
		Schedules:      availability.NewScheduleSet(schedules...),
		Now:            s.clock.Now(),
		ViewerTimezone: req.ViewerTimezone,
		Durations:      req.Durations,
	}

	res, err := s.engine.Resolve(q)
	if err != nil {
		return nil, err
	}
	if keep != nil {
		days := res.Days[:0:0]
		for _, d := range res.Days {
			if keep(d) {
				days = append(days, d)
			}
		}
		res.Days = days
	}
	if !hasWindows(res.Days) {
		return []model.Slot{}, nil
	}

	from, to := availability.BookingWindow(res)
	q.Bookings, err = s.bookings.ListByHost(ctx, hostID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	return s.engine.SlotsFor(res, q)
}

func hasWindows(days []availability.DayWindows) bool {
	for _, d := range days {
		if len(d.Slots) > 0 {
			return true
		}
	}
	return false
}
