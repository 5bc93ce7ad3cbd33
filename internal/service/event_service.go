package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"go.uber.org/zap"
)

// defaultRangeDays окно бронирования для событий, созданных без range
const defaultRangeDays = 60

type EventService struct {
	events    EventStore
	schedules ScheduleStore
	tx        Transactor
	cache     SlotCache
	logger    *zap.Logger
}

func NewEventService(
	events EventStore,
	schedules ScheduleStore,
	tx Transactor,
	cache SlotCache,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		events:    events,
		schedules: schedules,
		tx:        tx,
		cache:     cache,
		logger:    logger,
	}
}

// Create валидирует и сохраняет событие. Пустой binding привязывается к
// default-расписанию хоста.
func (s *EventService) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	if event.Kind == "" {
		event.Kind = model.EventKindHost
	}
	if event.Status == "" {
		event.Status = model.EventStatusActive
	}
	if event.Range.Type == "" {
		event.Range = model.AvailabilityRange{Type: model.RangeDays, Days: defaultRangeDays}
	}

	if event.Availability.Type == "" && !event.Availability.IsTeamPerHost() {
		def, err := s.defaultSchedule(ctx, event.HostID)
		if err != nil {
			return nil, err
		}
		event.Availability.AvailabilitySource = model.AvailabilitySource{Type: model.SourceExisting, ScheduleID: def.ID}
	}

	if err := s.validate(ctx, event); err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("Event created",
		zap.Int64("event_id", event.ID),
		zap.Int64("host_id", event.HostID),
		zap.String("kind", string(event.Kind)),
	)
	return event, nil
}

// Get получает событие или ErrNotFound
func (s *EventService) Get(ctx context.Context, id int64) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return event, nil
}

// ListForHost возвращает события хоста
func (s *EventService) ListForHost(ctx context.Context, hostID int64) ([]*model.Event, error) {
	return s.events.ListByHost(ctx, hostID)
}

// UpdateAvailability меняет источник часов события. Для existing с
// PropagateToSchedule присланные часы записываются в само расписание, а
// событие продолжает на него ссылаться.
func (s *EventService) UpdateAvailability(ctx context.Context, id int64, binding model.AvailabilityBinding) (*model.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	propagate := binding.PropagateToSchedule &&
		binding.Type == model.SourceExisting &&
		!binding.IsTeamPerHost() &&
		binding.WeeklyHours != nil

	var updated *model.Schedule
	if propagate {
		updated, err = s.propagated(ctx, event, binding)
		if err != nil {
			return nil, err
		}
		binding.AvailabilitySource = model.AvailabilitySource{Type: model.SourceExisting, ScheduleID: updated.ID}
	}
	binding.PropagateToSchedule = false

	next := *event
	next.Availability = binding
	if err := s.validateBinding(ctx, &next); err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if updated != nil {
			if err := s.schedules.Update(ctx, updated); err != nil {
				return err
			}
		}
		return s.events.Update(ctx, &next)
	})
	if err != nil {
		return nil, fmt.Errorf("update event availability: %w", err)
	}

	s.cache.InvalidateEvent(ctx, id)
	if updated != nil {
		s.invalidateSchedule(ctx, updated.ID)
	}

	s.logger.Info("Event availability updated",
		zap.Int64("event_id", id),
		zap.String("source", string(binding.Type)),
		zap.Bool("propagated", updated != nil),
	)
	return &next, nil
}

// UpdateLimits заменяет правила события
func (s *EventService) UpdateLimits(ctx context.Context, id int64, limits model.EventLimits) (*model.Event, error) {
	if err := ValidateLimits(limits); err != nil {
		return nil, err
	}
	return s.save(ctx, id, func(e *model.Event) { e.Limits = limits })
}

// UpdateRange заменяет окно бронирования
func (s *EventService) UpdateRange(ctx context.Context, id int64, rng model.AvailabilityRange) (*model.Event, error) {
	if err := availability.ValidateRange(rng); err != nil {
		return nil, err
	}
	return s.save(ctx, id, func(e *model.Event) { e.Range = rng })
}

func (s *EventService) save(ctx context.Context, id int64, change func(e *model.Event)) (*model.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	change(event)

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.cache.InvalidateEvent(ctx, id)

	s.logger.Info("Event updated", zap.Int64("event_id", id))
	return event, nil
}

// propagated возвращает копию привязанного расписания с новыми часами
func (s *EventService) propagated(ctx context.Context, event *model.Event, binding model.AvailabilityBinding) (*model.Schedule, error) {
	schedule, err := s.schedules.GetByID(ctx, binding.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, &availability.NoAvailabilityError{ScheduleID: binding.ScheduleID}
	}
	if schedule.OwnerID != event.HostID {
		return nil, &ValidationError{Field: "availability.schedule_id", Reason: "schedule belongs to another user"}
	}

	next := availability.Clone(schedule)
	next.WeeklyHours = availability.CloneWeeklyHours(binding.WeeklyHours)
	if binding.Override != nil {
		next.Override = availability.CloneOverrides(binding.Override)
	}
	if binding.Timezone != "" {
		next.Timezone = binding.Timezone
	}
	if err := availability.Validate(next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *EventService) invalidateSchedule(ctx context.Context, scheduleID int64) {
	refs, err := s.events.ListReferencingSchedule(ctx, scheduleID)
	if err != nil {
		s.logger.Warn("Failed to list events for cache invalidation", zap.Error(err))
		return
	}
	for _, e := range refs {
		s.cache.InvalidateEvent(ctx, e.ID)
	}
}

func (s *EventService) defaultSchedule(ctx context.Context, hostID int64) (*model.Schedule, error) {
	schedules, err := s.schedules.ListByOwner(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("list host schedules: %w", err)
	}
	for _, sch := range schedules {
		if sch.IsDefault {
			return sch, nil
		}
	}
	return nil, &availability.NoAvailabilityError{HostID: hostID, Reason: "host has no default schedule"}
}

func (s *EventService) validate(ctx context.Context, e *model.Event) error {
	if e.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if e.HostID == 0 {
		return &ValidationError{Field: "host_id", Reason: "is required"}
	}
	if e.Duration <= 0 {
		return &ValidationError{Field: "duration", Reason: "must be positive"}
	}
	for _, d := range e.DurationOptions {
		if d <= 0 {
			return &ValidationError{Field: "duration_options", Reason: "must be positive"}
		}
	}
	switch e.Kind {
	case model.EventKindHost, model.EventKindTeam:
	default:
		return &ValidationError{Field: "kind", Reason: "must be host or team"}
	}
	if e.Kind == model.EventKindTeam && e.Availability.IsCommon == nil {
		return &ValidationError{Field: "availability.is_common", Reason: "is required for team events"}
	}
	if err := availability.ValidateRange(e.Range); err != nil {
		return err
	}
	if err := ValidateLimits(e.Limits); err != nil {
		return err
	}
	return s.validateBinding(ctx, e)
}

// validateBinding проверяет, что каждый источник событий разрешается
func (s *EventService) validateBinding(ctx context.Context, e *model.Event) error {
	b := e.Availability
	if !b.IsTeamPerHost() {
		return s.validateSource(ctx, "availability", b.AvailabilitySource)
	}

	if len(b.UsersAvailability) == 0 {
		return &ValidationError{Field: "availability.users_availability", Reason: "is required when is_common is false"}
	}
	for host, src := range b.UsersAvailability {
		if !e.HasHost(host) {
			return &ValidationError{Field: fmt.Sprintf("availability.users_availability.%d", host), Reason: "is not a host of the event"}
		}
		if err := s.validateSource(ctx, fmt.Sprintf("availability.users_availability.%d", host), src); err != nil {
			return err
		}
	}
	return nil
}

func (s *EventService) validateSource(ctx context.Context, field string, src model.AvailabilitySource) error {
	switch src.Type {
	case model.SourceExisting:
		schedule, err := s.schedules.GetByID(ctx, src.ScheduleID)
		if err != nil {
			return fmt.Errorf("get schedule: %w", err)
		}
		if schedule == nil {
			return &availability.NoAvailabilityError{ScheduleID: src.ScheduleID}
		}
		return nil
	case model.SourceCustom:
		tz := src.Timezone
		if tz == "" {
			tz = "UTC"
		}
		return availability.Validate(&model.Schedule{
			Timezone:    tz,
			WeeklyHours: src.WeeklyHours,
			Override:    src.Override,
		})
	default:
		return &ValidationError{Field: field + ".type", Reason: "must be existing or custom"}
	}
}

// ValidateLimits проверяет единицы и значения; каждая единица допускается
// в наборе не больше одного раза.
func ValidateLimits(l model.EventLimits) error {
	g := l.General
	if g.BufferBefore < 0 || g.BufferAfter < 0 {
		return &ValidationError{Field: "limits.general", Reason: "buffers must not be negative"}
	}
	if g.TimeSlot < 0 {
		return &ValidationError{Field: "limits.general.time_slot", Reason: "must not be negative"}
	}
	if g.MinimumNotice < 0 {
		return &ValidationError{Field: "limits.general.minimum_notices", Reason: "must not be negative"}
	}
	if g.MinimumNotice > 0 && g.MinimumNoticeUnit != "" && !g.MinimumNoticeUnit.Valid() {
		return &ValidationError{Field: "limits.general.minimum_notice_unit", Reason: "unknown unit"}
	}

	if err := validateLimitSet("limits.frequency", l.Frequency); err != nil {
		return err
	}
	if err := validateLimitSet("limits.duration", l.Duration); err != nil {
		return err
	}

	if l.TimezoneLock.Enable {
		if _, err := availability.LoadLocation(l.TimezoneLock.Timezone); err != nil || l.TimezoneLock.Timezone == "" {
			return &ValidationError{Field: "limits.timezone_lock.timezone", Reason: "unknown timezone"}
		}
	}
	return nil
}

func validateLimitSet(field string, set model.LimitSet) error {
	seen := make(map[model.LimitUnit]bool, len(set.Limits))
	for _, l := range set.Limits {
		if !l.Unit.Valid() {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("unknown unit %q", l.Unit)}
		}
		if seen[l.Unit] {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("unit %q used more than once", l.Unit)}
		}
		seen[l.Unit] = true
		if l.Limit <= 0 {
			return &ValidationError{Field: field, Reason: "limit must be positive"}
		}
	}
	return nil
}
