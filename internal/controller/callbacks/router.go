package callbacks

import (
	"context"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/booking"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// RouteFunc обработчик одного типа callback
type RouteFunc func(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler)

// Handler обертка для callbacktypes.Handler с маршрутизацией
type Handler struct {
	*callbacktypes.Handler
	routes map[string]RouteFunc
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	userService *service.UserService,
	eventService *service.EventService,
	scheduleService *service.ScheduleService,
	availabilityService *service.AvailabilityService,
	bookingService *service.BookingService,
	clock availability.Clock,
	weekStart time.Weekday,
	logger *zap.Logger,
	handleEvents func(ctx context.Context, b *bot.Bot, update *models.Update),
	handleMyBookings func(ctx context.Context, b *bot.Bot, update *models.Update),
) *Handler {
	h := &Handler{
		Handler: &callbacktypes.Handler{
			UserService:         userService,
			EventService:        eventService,
			ScheduleService:     scheduleService,
			AvailabilityService: availabilityService,
			BookingService:      bookingService,
			Clock:               clock,
			WeekStart:           weekStart,
			Logger:              logger,
			HandleEvents:        handleEvents,
			HandleMyBookings:    handleMyBookings,
		},
	}

	h.routes = map[string]RouteFunc{
		callbacktypes.Noop:                common.HandleNoop,
		callbacktypes.BackToMain:          common.HandleBackToMain,
		callbacktypes.MyEvents:            common.HandleShowEvents,
		callbacktypes.MyBookings:          common.HandleShowBookings,
		callbacktypes.PrefixEvent:         booking.HandleEvent,
		callbacktypes.PrefixDay:           booking.HandleDay,
		callbacktypes.PrefixBook:          booking.HandleBook,
		callbacktypes.PrefixWeek:          booking.HandleWeek,
		callbacktypes.PrefixCancelBooking: booking.HandleCancelBooking,
		callbacktypes.PrefixConfirmCancel: booking.HandleConfirmCancel,
	}

	return h
}

// HandleCallbackQuery маршрутизирует callback по префиксу data
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	data := callbacktypes.ParseData(callback.Data)

	h.Logger.Debug("Callback received",
		zap.Int64("telegram_id", callback.From.ID),
		zap.String("data", callback.Data))

	route, ok := h.routes[data.Prefix]
	if !ok {
		h.Logger.Warn("Unknown callback", zap.String("data", callback.Data))
		common.AnswerCallback(ctx, b, callback.ID, "❓ Неизвестная команда")
		return
	}

	route(ctx, b, callback, h.Handler)
}

// Known сообщает, есть ли обработчик для префикса
func (h *Handler) Known(prefix string) bool {
	_, ok := h.routes[prefix]
	return ok
}
