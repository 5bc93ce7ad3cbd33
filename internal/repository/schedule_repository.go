package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/Freeeeeet/availability_engine/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const scheduleColumns = `id, owner_id, name, timezone, weekly_hours, override, is_default, created_at, updated_at`

// ScheduleRepository хранит расписания; weekly_hours и override лежат в JSONB
type ScheduleRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewScheduleRepository создаёт новый репозиторий
func NewScheduleRepository(pool *pgxpool.Pool, logger *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт новое расписание
func (r *ScheduleRepository) Create(ctx context.Context, schedule *model.Schedule) error {
	query := `
		INSERT INTO schedules (owner_id, name, timezone, weekly_hours, override, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx,
		query,
		schedule.OwnerID,
		schedule.Name,
		schedule.Timezone,
		schedule.WeeklyHours,
		overridesOrEmpty(schedule.Override),
		schedule.IsDefault,
	).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}

	return nil
}

// GetByID получает расписание по ID
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	schedule, err := scanSchedule(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get schedule by id: %w", err)
	}

	return schedule, nil
}

// GetByIDs получает расписания по списку ID; отсутствующие просто не попадают в ответ
func (r *ScheduleRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Schedule, error) {
	if len(ids) == 0 {
		return []*model.Schedule{}, nil
	}

	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ANY($1) ORDER BY id`

	return r.list(ctx, "get schedules by ids", query, ids)
}

// ListByOwner получает все расписания владельца, default первым
func (r *ScheduleRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE owner_id = $1 ORDER BY is_default DESC, id`

	return r.list(ctx, "list schedules by owner", query, ownerID)
}

// Update сохраняет все изменяемые поля расписания
func (r *ScheduleRepository) Update(ctx context.Context, schedule *model.Schedule) error {
	query := `
		UPDATE schedules
		SET name = $1, timezone = $2, weekly_hours = $3, override = $4, is_default = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx,
		query,
		schedule.Name,
		schedule.Timezone,
		schedule.WeeklyHours,
		overridesOrEmpty(schedule.Override),
		schedule.IsDefault,
		schedule.ID,
	).Scan(&schedule.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update schedule %d: %w", schedule.ID, ErrNotFound)
		}
		return fmt.Errorf("update schedule: %w", err)
	}

	return nil
}

// Delete удаляет расписание
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete schedule %d: %w", id, ErrNotFound)
	}

	r.logger.Debug("Schedule deleted", zap.Int64("schedule_id", id))
	return nil
}

// ClearDefault снимает флаг default со всех расписаний владельца, кроме exceptID
func (r *ScheduleRepository) ClearDefault(ctx context.Context, ownerID, exceptID int64) error {
	query := `
		UPDATE schedules
		SET is_default = false, updated_at = NOW()
		WHERE owner_id = $1 AND id <> $2 AND is_default = true
	`

	affected, err := r.ExecAffected(ctx, query, ownerID, exceptID)
	if err != nil {
		return fmt.Errorf("clear default schedule: %w", err)
	}

	r.logger.Debug("Default schedule cleared",
		zap.Int64("owner_id", ownerID),
		zap.Int64("kept_schedule_id", exceptID),
		zap.Int64("affected", affected),
	)
	return nil
}

func (r *ScheduleRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Schedule, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	schedules := []*model.Schedule{}
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}

	return schedules, nil
}

func scanSchedule(row pgx.Row) (*model.Schedule, error) {
	s := &model.Schedule{}
	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.Name,
		&s.Timezone,
		&s.WeeklyHours,
		&s.Override,
		&s.IsDefault,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if s.Override == nil {
		s.Override = model.DateOverrides{}
	}
	return s, nil
}

// overridesOrEmpty не даёт записать JSON null в NOT NULL колонку
func overridesOrEmpty(o model.DateOverrides) model.DateOverrides {
	if o == nil {
		return model.DateOverrides{}
	}
	return o
}
