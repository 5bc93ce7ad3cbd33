package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/Freeeeeet/availability_engine/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, host_id, title, kind, hosts, duration, duration_options, reserve_times,
	availability, availability_range, limits, status, created_at, updated_at`

// EventRepository хранит события. schedule_ids дублирует ссылки из availability,
// чтобы находить события по расписанию без разбора JSONB.
type EventRepository struct {
	*base.Repository
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новое событие
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO events (host_id, title, kind, hosts, duration, duration_options, reserve_times,
			availability, availability_range, limits, status, schedule_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		event.HostID,
		event.Title,
		event.Kind,
		int64sOrEmpty(event.Hosts),
		event.Duration,
		intsOrEmpty(event.DurationOptions),
		event.ReserveTimes,
		event.Availability,
		event.Range,
		event.Limits,
		event.Status,
		int64sOrEmpty(event.Availability.ReferencedScheduleIDs()),
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

// GetByID получает событие по ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}

	return event, nil
}

// ListByHost получает события, где пользователь владелец или один из хостов
func (r *EventRepository) ListByHost(ctx context.Context, hostID int64) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE host_id = $1 OR $1 = ANY(hosts)
		ORDER BY created_at DESC
	`

	return r.list(ctx, "list events by host", query, hostID)
}

// ListReferencingSchedule получает события, ссылающиеся на расписание
func (r *EventRepository) ListReferencingSchedule(ctx context.Context, scheduleID int64) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE $1 = ANY(schedule_ids)
		ORDER BY id
	`

	return r.list(ctx, "list events by schedule", query, scheduleID)
}

// Update сохраняет событие целиком и пересчитывает schedule_ids
func (r *EventRepository) Update(ctx context.Context, event *model.Event) error {
	query := `
		UPDATE events
		SET title = $1, kind = $2, hosts = $3, duration = $4, duration_options = $5, reserve_times = $6,
			availability = $7, availability_range = $8, limits = $9, status = $10, schedule_ids = $11,
			updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		event.Title,
		event.Kind,
		int64sOrEmpty(event.Hosts),
		event.Duration,
		intsOrEmpty(event.DurationOptions),
		event.ReserveTimes,
		event.Availability,
		event.Range,
		event.Limits,
		event.Status,
		int64sOrEmpty(event.Availability.ReferencedScheduleIDs()),
		event.ID,
	).Scan(&event.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update event %d: %w", event.ID, ErrNotFound)
		}
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}

func (r *EventRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Event, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	events := []*model.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	e := &model.Event{}
	err := row.Scan(
		&e.ID,
		&e.HostID,
		&e.Title,
		&e.Kind,
		&e.Hosts,
		&e.Duration,
		&e.DurationOptions,
		&e.ReserveTimes,
		&e.Availability,
		&e.Range,
		&e.Limits,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func int64sOrEmpty(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}

func intsOrEmpty(v []int) []int32 {
	out := make([]int32, len(v))
	for i, x := range v {
		out[i] = int32(x)
	}
	return out
}
