package handlers

import (
	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService         *service.UserService
	eventService        *service.EventService
	scheduleService     *service.ScheduleService
	availabilityService *service.AvailabilityService
	bookingService      *service.BookingService
	clock               availability.Clock
	logger              *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	eventService *service.EventService,
	scheduleService *service.ScheduleService,
	availabilityService *service.AvailabilityService,
	bookingService *service.BookingService,
	clock availability.Clock,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:         userService,
		eventService:        eventService,
		scheduleService:     scheduleService,
		availabilityService: availabilityService,
		bookingService:      bookingService,
		clock:               clock,
		logger:              logger,
	}
}
