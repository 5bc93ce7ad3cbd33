package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"go.uber.org/zap"
)

type ScheduleService struct {
	schedules ScheduleStore
	events    EventStore
	tx        Transactor
	cache     SlotCache
	logger    *zap.Logger
}

func NewScheduleService(
	schedules ScheduleStore,
	events EventStore,
	tx Transactor,
	cache SlotCache,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		events:    events,
		tx:        tx,
		cache:     cache,
		logger:    logger,
	}
}

// ScheduleUpdate частичное обновление; nil поля не меняются
type ScheduleUpdate struct {
	Name        *string
	Timezone    *string
	WeeklyHours model.WeeklyHours
	Override    model.DateOverrides
}

// Create валидирует и сохраняет расписание. Первое расписание владельца
// всегда становится default.
func (s *ScheduleService) Create(ctx context.Context, in *model.Schedule) (*model.Schedule, error) {
	schedule := availability.Clone(in)
	if schedule.Override == nil {
		schedule.Override = model.DateOverrides{}
	}

	if err := availability.Validate(schedule); err != nil {
		return nil, err
	}

	existing, err := s.schedules.ListByOwner(ctx, schedule.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("list owner schedules: %w", err)
	}
	if len(existing) == 0 {
		schedule.IsDefault = true
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if schedule.IsDefault {
			if err := s.schedules.ClearDefault(ctx, schedule.OwnerID, 0); err != nil {
				return err
			}
		}
		return s.schedules.Create(ctx, schedule)
	})
	if err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.logger.Info("Schedule created",
		zap.Int64("schedule_id", schedule.ID),
		zap.Int64("owner_id", schedule.OwnerID),
		zap.Bool("is_default", schedule.IsDefault),
	)

	return schedule, nil
}

// Get получает расписание или ErrNotFound
func (s *ScheduleService) Get(ctx context.Context, id int64) (*model.Schedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %d: %w", id, ErrNotFound)
	}
	return schedule, nil
}

// ListForUser возвращает расписания владельца
func (s *ScheduleService) ListForUser(ctx context.Context, ownerID int64) ([]*model.Schedule, error) {
	return s.schedules.ListByOwner(ctx, ownerID)
}

// Update применяет изменения к копии и сохраняет только валидный результат
func (s *ScheduleService) Update(ctx context.Context, id int64, upd ScheduleUpdate) (*model.Schedule, error) {
	return s.mutate(ctx, id, func(next *model.Schedule) error {
		if upd.Name != nil {
			if *upd.Name == "" {
				return &ValidationError{Field: "name", Reason: "must not be empty"}
			}
			next.Name = *upd.Name
		}
		if upd.Timezone != nil {
			next.Timezone = *upd.Timezone
		}
		if upd.WeeklyHours != nil {
			next.WeeklyHours = availability.CloneWeeklyHours(upd.WeeklyHours)
		}
		if upd.Override != nil {
			next.Override = availability.CloneOverrides(upd.Override)
		}
		return nil
	})
}

// SetDefault делает расписание default и снимает флаг с остальных
func (s *ScheduleService) SetDefault(ctx context.Context, id int64) (*model.Schedule, error) {
	schedule, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.IsDefault {
		return schedule, nil
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.schedules.ClearDefault(ctx, schedule.OwnerID, schedule.ID); err != nil {
			return err
		}
		schedule.IsDefault = true
		return s.schedules.Update(ctx, schedule)
	})
	if err != nil {
		return nil, fmt.Errorf("set default schedule: %w", err)
	}

	s.logger.Info("Default schedule changed",
		zap.Int64("schedule_id", schedule.ID),
		zap.Int64("owner_id", schedule.OwnerID),
	)
	return schedule, nil
}

// SetOverride заменяет часы на конкретную дату
func (s *ScheduleService) SetOverride(ctx context.Context, id int64, date string, slots []model.TimeSlot) (*model.Schedule, error) {
	d, err := parseOverrideDate(date)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []model.TimeSlot{}
	}
	return s.mutate(ctx, id, func(next *model.Schedule) error {
		availability.ApplyOverride(next, d, slots)
		return nil
	})
}

// MarkUnavailable закрывает дату целиком
func (s *ScheduleService) MarkUnavailable(ctx context.Context, id int64, date string) (*model.Schedule, error) {
	d, err := parseOverrideDate(date)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(next *model.Schedule) error {
		availability.MarkUnavailable(next, d)
		return nil
	})
}

// ClearOverride возвращает дате недельные часы
func (s *ScheduleService) ClearOverride(ctx context.Context, id int64, date string) (*model.Schedule, error) {
	d, err := parseOverrideDate(date)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(next *model.Schedule) error {
		availability.ClearOverride(next, d)
		return nil
	})
}

// Duplicate копирует расписание; newOwnerID == 0 оставляет владельца
func (s *ScheduleService) Duplicate(ctx context.Context, id, newOwnerID int64) (*model.Schedule, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if newOwnerID == 0 {
		newOwnerID = src.OwnerID
	}

	cp := availability.Clone(src,
		availability.WithOwner(newOwnerID),
		availability.WithName(src.Name+" (copy)"),
		availability.WithDefault(false),
	)
	cp.ID = 0

	return s.Create(ctx, cp)
}

// Delete удаляет расписание. Если на него ссылаются события, без cascade
// возвращается ConflictError; с cascade часы встраиваются в каждое событие
// как custom, всё в одной транзакции.
func (s *ScheduleService) Delete(ctx context.Context, id int64, cascade bool) error {
	schedule, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	refs, err := s.events.ListReferencingSchedule(ctx, id)
	if err != nil {
		return fmt.Errorf("list referencing events: %w", err)
	}

	if len(refs) > 0 && !cascade {
		ids := make([]int64, 0, len(refs))
		for _, e := range refs {
			ids = append(ids, e.ID)
		}
		return &availability.ConflictError{ScheduleID: id, EventIDs: ids}
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, e := range refs {
			e.Availability = inlineSchedule(e.Availability, schedule)
			if err := s.events.Update(ctx, e); err != nil {
				return err
			}
		}

		if err := s.schedules.Delete(ctx, id); err != nil {
			return err
		}

		if !schedule.IsDefault {
			return nil
		}
		return s.promoteDefault(ctx, schedule.OwnerID)
	})
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}

	for _, e := range refs {
		s.cache.InvalidateEvent(ctx, e.ID)
	}

	s.logger.Info("Schedule deleted",
		zap.Int64("schedule_id", id),
		zap.Int("inlined_events", len(refs)),
	)
	return nil
}

// promoteDefault назначает default самое старое из оставшихся расписаний
func (s *ScheduleService) promoteDefault(ctx context.Context, ownerID int64) error {
	rest, err := s.schedules.ListByOwner(ctx, ownerID)
	if err != nil || len(rest) == 0 {
		return err
	}
	oldest := rest[0]
	for _, r := range rest[1:] {
		if r.ID < oldest.ID {
			oldest = r
		}
	}
	oldest.IsDefault = true
	return s.schedules.Update(ctx, oldest)
}

// mutate меняет копию расписания, валидирует её и только потом сохраняет
func (s *ScheduleService) mutate(ctx context.Context, id int64, change func(next *model.Schedule) error) (*model.Schedule, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := availability.Clone(current)
	if next.Override == nil {
		next.Override = model.DateOverrides{}
	}
	if err := change(next); err != nil {
		return nil, err
	}
	if err := availability.Validate(next); err != nil {
		return nil, err
	}

	if err := s.schedules.Update(ctx, next); err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}

	s.invalidateReferencing(ctx, id)

	s.logger.Info("Schedule updated", zap.Int64("schedule_id", id))
	return next, nil
}

func (s *ScheduleService) invalidateReferencing(ctx context.Context, scheduleID int64) {
	refs, err := s.events.ListReferencingSchedule(ctx, scheduleID)
	if err != nil {
		s.logger.Warn("Failed to list events for cache invalidation",
			zap.Int64("schedule_id", scheduleID),
			zap.Error(err),
		)
		return
	}
	for _, e := range refs {
		s.cache.InvalidateEvent(ctx, e.ID)
	}
}

// inlineSchedule заменяет ссылки на schedule его копией в виде custom источника
func inlineSchedule(b model.AvailabilityBinding, schedule *model.Schedule) model.AvailabilityBinding {
	inline := func(src model.AvailabilitySource) model.AvailabilitySource {
		if src.Type != model.SourceExisting || src.ScheduleID != schedule.ID {
			return src
		}
		return model.AvailabilitySource{
			Type:        model.SourceCustom,
			WeeklyHours: availability.CloneWeeklyHours(schedule.WeeklyHours),
			Override:    availability.CloneOverrides(schedule.Override),
			Timezone:    schedule.Timezone,
		}
	}

	b.AvailabilitySource = inline(b.AvailabilitySource)
	if len(b.UsersAvailability) > 0 {
		users := make(map[int64]model.AvailabilitySource, len(b.UsersAvailability))
		for host, src := range b.UsersAvailability {
			users[host] = inline(src)
		}
		b.UsersAvailability = users
	}
	b.PropagateToSchedule = false
	return b
}

func parseOverrideDate(date string) (time.Time, error) {
	d, err := availability.ParseDate(date)
	if err != nil {
		return time.Time{}, &availability.InvalidScheduleError{Field: "override." + date, Reason: "date must be YYYY-MM-DD"}
	}
	return d, nil
}
