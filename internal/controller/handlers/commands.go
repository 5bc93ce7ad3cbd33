package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start; "/start event_<id>" сразу открывает запись на событие
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From

	registeredUser, err := h.userService.RegisterUser(
		ctx,
		from.ID,
		from.Username,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	if eventID, ok := parseEventArg(commandArg(update.Message.Text)); ok {
		h.showEventDates(ctx, b, update.Message.Chat.ID, registeredUser.Timezone, eventID)
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Здесь можно посмотреть свободное время и записаться на встречу.\n"+
			"Ваш id хоста: <code>%d</code>\n"+
			"Часовой пояс: %s\n\n%s",
		html.EscapeString(registeredUser.FirstName),
		registeredUser.ID,
		html.EscapeString(registeredUser.Timezone),
		common.MainMenuText,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"/start - Начать работу с ботом\n" +
		"/events - Мои события и их свободное время\n" +
		"/schedules - Мои расписания\n" +
		"/mybookings - Записи ко мне\n" +
		"/book &lt;id&gt; - Записаться на событие\n" +
		"/timezone &lt;Europe/Moscow&gt; - Сменить часовой пояс\n" +
		"/help - Показать эту справку\n\n" +
		"Время слотов показывается в вашем часовом поясе."

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleBook обрабатывает команду /book <id>
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	eventID, ok := parseEventArg(commandArg(update.Message.Text))
	if !ok {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Укажите id события: /book 5")
		return
	}

	h.showEventDates(ctx, b, update.Message.Chat.ID, user.Timezone, eventID)
}

// HandleTimezone обрабатывает команду /timezone <IANA>
func (h *Handlers) HandleTimezone(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	tz := commandArg(update.Message.Text)
	if tz == "" {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("🌍 Текущий часовой пояс: %s\n\nСменить: /timezone Europe/Moscow", html.EscapeString(user.Timezone)), nil)
		return
	}

	updated, err := h.userService.SetTimezone(ctx, user.ID, tz)
	if err != nil {
		h.logger.Warn("Failed to set timezone", zap.Int64("user_id", user.ID), zap.String("timezone", tz), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Неизвестный часовой пояс. Пример: Europe/Moscow")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("✅ Часовой пояс: %s", formatting.FormatZone(h.clock.Now().In(userLocation(updated)))), nil)
}

// showEventDates отправляет экран выбора даты для события
func (h *Handlers) showEventDates(ctx context.Context, b *bot.Bot, chatID int64, viewerTZ string, eventID int64) {
	event, err := h.eventService.Get(ctx, eventID)
	if err != nil {
		h.logger.Warn("Event lookup failed", zap.Int64("event_id", eventID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(common.ErrEventNotFound))
		return
	}

	slots, err := h.availabilityService.Slots(ctx, service.SlotsRequest{
		EventID:        event.ID,
		ViewerTimezone: viewerTZ,
		HostID:         common.BookableHost(event),
	})
	if err != nil {
		h.logger.Warn("Slots lookup failed", zap.Int64("event_id", eventID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	loc := locationOf(viewerTZ)
	text, kb := common.BuildDatesScreen(event, common.GroupByDate(slots, loc), 0, loc)
	h.sendMessage(ctx, b, chatID, text, kb)
}
