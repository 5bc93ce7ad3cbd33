package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/Freeeeeet/availability_engine/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, event_id, host_id, attendee_name, attendee_email, start_time, end_time, status, created_at, updated_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новое бронирование. Частичный уникальный индекс по
// (host_id, start_time) для активных статусов превращается в ErrSlotTaken.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	query := `
		INSERT INTO bookings (id, event_id, host_id, attendee_name, attendee_email, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.ID,
		booking.EventID,
		booking.HostID,
		booking.AttendeeName,
		booking.AttendeeEmail,
		booking.Start,
		booking.End,
		booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// ListByHost получает бронирования хоста, пересекающиеся с [from, to)
func (r *BookingRepository) ListByHost(ctx context.Context, hostID int64, from, to time.Time) ([]model.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE host_id = $1 AND start_time < $3 AND end_time > $2
		ORDER BY start_time
	`

	return r.list(ctx, "list bookings by host", query, hostID, from, to)
}

// ListByEvent получает бронирования события, пересекающиеся с [from, to)
func (r *BookingRepository) ListByEvent(ctx context.Context, eventID int64, from, to time.Time) ([]model.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE event_id = $1 AND start_time < $3 AND end_time > $2
		ORDER BY start_time
	`

	return r.list(ctx, "list bookings by event", query, eventID, from, to)
}

// UpdateStatus обновляет статус бронирования
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("update booking status: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update booking %s: %w", id, ErrNotFound)
	}

	return nil
}

// LockHost берёт advisory lock хоста до конца транзакции, чтобы коммиты
// бронирований одного хоста шли последовательно. Вне транзакции бесполезен.
func (r *BookingRepository) LockHost(ctx context.Context, hostID int64) error {
	if _, err := r.Conn(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, hostID); err != nil {
		return fmt.Errorf("lock host %d: %w", hostID, err)
	}
	return nil
}

// CompleteEndedBefore переводит прошедшие scheduled бронирования в completed
func (r *BookingRepository) CompleteEndedBefore(ctx context.Context, t time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND end_time <= $3
	`

	affected, err := r.ExecAffected(ctx, query, model.BookingStatusCompleted, model.BookingStatusScheduled, t)
	if err != nil {
		return 0, fmt.Errorf("complete ended bookings: %w", err)
	}

	return affected, nil
}

func (r *BookingRepository) list(ctx context.Context, op, query string, args ...any) ([]model.Booking, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	bookings := []model.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.EventID,
		&b.HostID,
		&b.AttendeeName,
		&b.AttendeeEmail,
		&b.Start,
		&b.End,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
