package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/metrics"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommitRequest выбор участника: событие, хост, начало и длительность
type CommitRequest struct {
	EventID        int64
	HostID         int64
	Start          time.Time
	Duration       int // 0: длительность события
	AttendeeName   string
	AttendeeEmail  string
	ViewerTimezone string
}

type BookingService struct {
	bookings     BookingStore
	availability *AvailabilityService
	tx           Transactor
	cache        SlotCache
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewBookingService(
	bookings BookingStore,
	availability *AvailabilityService,
	tx Transactor,
	cache SlotCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:     bookings,
		availability: availability,
		tx:           tx,
		cache:        cache,
		metrics:      m,
		logger:       logger,
	}
}

// Commit бронирует слот. Доступность пересчитывается под блокировкой хоста,
// выбранный слот обязан в ней присутствовать; гонку на одинаковом начале
// дополнительно ловит уникальный индекс.
func (s *BookingService) Commit(ctx context.Context, req CommitRequest) (*model.Booking, error) {
	if req.Start.IsZero() {
		return nil, &ValidationError{Field: "start", Reason: "is required"}
	}
	if req.Duration < 0 {
		return nil, &ValidationError{Field: "duration", Reason: "must not be negative"}
	}

	var booking *model.Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		slot, hostID, err := s.pick(ctx, req)
		if err != nil {
			return err
		}

		booking = &model.Booking{
			ID:            uuid.New(),
			EventID:       req.EventID,
			HostID:        hostID,
			AttendeeName:  req.AttendeeName,
			AttendeeEmail: req.AttendeeEmail,
			Start:         slot.Start,
			End:           slot.End,
			Status:        model.BookingStatusScheduled,
		}
		return s.bookings.Create(ctx, booking)
	})
	if err != nil {
		s.metrics.BookingCommits.WithLabelValues(commitResult(err)).Inc()
		if errors.Is(err, ErrSlotTaken) {
			s.logger.Info("Slot already taken",
				zap.Int64("event_id", req.EventID),
				zap.Time("start", req.Start),
			)
		}
		return nil, err
	}

	s.metrics.BookingCommits.WithLabelValues(metrics.ResultCommitted).Inc()
	s.cache.InvalidateEvent(ctx, req.EventID)

	s.logger.Info("Booking committed",
		zap.String("booking_id", booking.ID.String()),
		zap.Int64("event_id", booking.EventID),
		zap.Int64("host_id", booking.HostID),
		zap.Time("start", booking.Start),
		zap.Int("duration", booking.Minutes()),
	)
	return booking, nil
}

// pick блокирует хоста и ищет запрошенный слот в свежем расчёте
func (s *BookingService) pick(ctx context.Context, req CommitRequest) (model.Slot, int64, error) {
	event, err := s.availability.events.GetByID(ctx, req.EventID)
	if err != nil {
		return model.Slot{}, 0, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return model.Slot{}, 0, fmt.Errorf("event %d: %w", req.EventID, ErrNotFound)
	}

	hostID := req.HostID
	if hostID == 0 {
		if event.Availability.IsTeamPerHost() {
			return model.Slot{}, 0, &ValidationError{Field: "host_id", Reason: "is required for per-host team events"}
		}
		hostID = event.HostID
	}

	duration := req.Duration
	if duration == 0 {
		duration = event.Duration
	}

	if err := s.bookings.LockHost(ctx, hostID); err != nil {
		return model.Slot{}, 0, err
	}

	slots, err := s.availability.SlotsAround(ctx, SlotsRequest{
		EventID:        req.EventID,
		HostID:         hostID,
		ViewerTimezone: req.ViewerTimezone,
		Durations:      []int{duration},
	}, req.Start)
	if err != nil {
		return model.Slot{}, 0, err
	}

	for _, slot := range slots {
		if slot.Start.Equal(req.Start) && slot.Duration == duration {
			return slot, hostID, nil
		}
	}
	return model.Slot{}, 0, ErrSlotUnavailable
}

// Cancel отменяет бронирование; повторная отмена ничего не делает
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingStatusCancelled || booking.Status == model.BookingStatusRejected {
		return booking, nil
	}

	if err := s.bookings.UpdateStatus(ctx, id, model.BookingStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	booking.Status = model.BookingStatusCancelled
	s.cache.InvalidateEvent(ctx, booking.EventID)

	s.logger.Info("Booking cancelled",
		zap.String("booking_id", id.String()),
		zap.Int64("event_id", booking.EventID),
	)
	return booking, nil
}

// Get получает бронирование или ErrNotFound
func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return booking, nil
}

// ListForHost возвращает бронирования хоста, пересекающиеся с [from, to)
func (s *BookingService) ListForHost(ctx context.Context, hostID int64, from, to time.Time) ([]model.Booking, error) {
	if !to.After(from) {
		return nil, &ValidationError{Field: "to", Reason: "must be after from"}
	}
	return s.bookings.ListByHost(ctx, hostID, from, to)
}

// CompleteEnded переводит закончившиеся бронирования в completed
func (s *BookingService) CompleteEnded(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.bookings.CompleteEndedBefore(ctx, now)
	if err != nil {
		return 0, err
	}
	s.metrics.BookingsCompleted.Add(float64(n))
	return n, nil
}

func commitResult(err error) string {
	switch {
	case errors.Is(err, ErrSlotTaken):
		return metrics.ResultTaken
	case errors.Is(err, ErrSlotUnavailable),
		errors.Is(err, availability.ErrNoAvailability),
		errors.Is(err, availability.ErrInvalidRange):
		return metrics.ResultUnavailable
	default:
		return metrics.ResultError
	}
}
