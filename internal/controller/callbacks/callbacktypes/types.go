package callbacktypes

import (
	"context"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService         *service.UserService
	EventService        *service.EventService
	ScheduleService     *service.ScheduleService
	AvailabilityService *service.AvailabilityService
	BookingService      *service.BookingService
	Clock               availability.Clock
	WeekStart           time.Weekday
	Logger              *zap.Logger

	// Функции-хэндлеры из основного контроллера
	HandleEvents     func(ctx context.Context, b *bot.Bot, update *models.Update)
	HandleMyBookings func(ctx context.Context, b *bot.Bot, update *models.Update)
}
