package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks"
	"github.com/Freeeeeet/availability_engine/internal/controller/handlers"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// BotServices сервисы, которыми пользуется бот
type BotServices struct {
	Users        *service.UserService
	Events       *service.EventService
	Schedules    *service.ScheduleService
	Availability *service.AvailabilityService
	Bookings     *service.BookingService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	services BotServices,
	clock availability.Clock,
	weekStart time.Weekday,
	logger *zap.Logger,
) *BotController {
	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		services.Users,
		services.Events,
		services.Schedules,
		services.Availability,
		services.Bookings,
		clock,
		logger,
	)

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(
		services.Users,
		services.Events,
		services.Schedules,
		services.Availability,
		services.Bookings,
		clock,
		weekStart,
		logger,
		cmdHandlers.HandleEvents,
		cmdHandlers.HandleMyBookings,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// /start с аргументом приходит как "/start event_5"
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/events", bot.MatchTypeExact, c.handlers.HandleEvents)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/schedules", bot.MatchTypeExact, c.handlers.HandleSchedules)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypePrefix, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/timezone", bot.MatchTypePrefix, c.handlers.HandleTimezone)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "events", Description: "📅 Мои события"},
		{Command: "schedules", Description: "🗓 Мои расписания"},
		{Command: "mybookings", Description: "📋 Записи ко мне"},
		{Command: "book", Description: "➕ Записаться на событие по id"},
		{Command: "timezone", Description: "🌍 Часовой пояс"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота; блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
