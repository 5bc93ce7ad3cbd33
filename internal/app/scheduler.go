package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BookingCompleter закрывает прошедшие бронирования
type BookingCompleter interface {
	CompleteEnded(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	bookings BookingCompleter
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(bookings BookingCompleter, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		bookings: bookings,
		interval: interval,
		now:      time.Now,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.runCompletionTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runCompletionTask периодически переводит закончившиеся бронирования в completed
func (s *Scheduler) runCompletionTask(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.completeBookings(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.completeBookings(ctx)
		case <-s.stopChan:
			s.logger.Info("Booking completion task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Booking completion task cancelled")
			return
		}
	}
}

func (s *Scheduler) completeBookings(ctx context.Context) {
	n, err := s.bookings.CompleteEnded(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to complete bookings", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Bookings completed", zap.Int64("count", n))
	}
}
