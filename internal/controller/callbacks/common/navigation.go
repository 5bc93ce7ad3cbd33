package common

import (
	"context"

	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleBackToMain возвращает пользователя к главному меню
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := NewHandlerContext(ctx, b, callback, h)
	if hc.Message == nil {
		hc.Answer("❌ Ошибка")
		return
	}

	// Сообщение с картинкой не редактируется текстом, поэтому пересоздаём
	_ = hc.DeleteMessage()
	_ = hc.SendMessage(MainMenuText, nil)
	hc.Answer("")
}

// HandleNoop отвечает на нажатие информационной кнопки
func HandleNoop(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, _ *callbacktypes.Handler) {
	AnswerCallback(ctx, b, callback.ID, "")
}

// HandleShowEvents показывает список событий из inline кнопки
func HandleShowEvents(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := NewHandlerContext(ctx, b, callback, h)
	hc.Answer("")
	if h.HandleEvents != nil && hc.Message != nil {
		h.HandleEvents(ctx, b, fakeMessageUpdate(callback, hc.Message))
	}
}

// HandleShowBookings показывает записи к хосту из inline кнопки
func HandleShowBookings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := NewHandlerContext(ctx, b, callback, h)
	hc.Answer("")
	if h.HandleMyBookings != nil && hc.Message != nil {
		h.HandleMyBookings(ctx, b, fakeMessageUpdate(callback, hc.Message))
	}
}

// fakeMessageUpdate подменяет callback на сообщение от нажавшего пользователя,
// чтобы переиспользовать обработчики команд
func fakeMessageUpdate(callback *models.CallbackQuery, msg *models.Message) *models.Update {
	from := callback.From
	return &models.Update{
		Message: &models.Message{
			ID:   msg.ID,
			Chat: msg.Chat,
			From: &from,
		},
	}
}
