package handlers

import (
	"context"

	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleEvents обрабатывает команду /events
func (h *Handlers) HandleEvents(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	events, err := h.eventService.ListForHost(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list events", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить события.")
		return
	}

	text, kb := common.BuildEventsListScreen(events)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleSchedules обрабатывает команду /schedules
func (h *Handlers) HandleSchedules(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	schedules, err := h.scheduleService.ListForUser(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list schedules", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить расписания.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, common.BuildSchedulesListScreen(schedules), nil)
}

// HandleMyBookings обрабатывает команду /mybookings: предстоящие записи к хосту
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	now := h.clock.Now()
	bookings, err := h.bookingService.ListForHost(ctx, user.ID, now, now.Add(bookingsHorizon))
	if err != nil {
		h.logger.Error("Failed to list bookings", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить записи.")
		return
	}
	bookings = activeBookings(bookings)

	events, err := h.eventService.ListForHost(ctx, user.ID)
	if err != nil {
		h.logger.Warn("Failed to load event titles", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	text, kb := common.BuildBookingsListScreen(bookings, eventTitles(events), userLocation(user))
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}
