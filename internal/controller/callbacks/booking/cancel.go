package booking

import (
	"context"

	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCancelBooking спрашивает подтверждение отмены: cancel_booking:<uuid>
func HandleCancelBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		booking, err := hostBooking(hc)
		if err != nil {
			common.HandleError(hc, err, "get booking")
			return
		}

		text, kb := common.BuildConfirmCancelScreen(booking, hc.Location())
		if err := hc.Show(text, kb); err != nil {
			hc.Handler.Logger.Error("Failed to show cancel confirmation", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleConfirmCancel отменяет запись: confirm_cancel:<uuid>
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		booking, err := hostBooking(hc)
		if err != nil {
			common.HandleError(hc, err, "get booking")
			return
		}

		if _, err := hc.Handler.BookingService.Cancel(hc.Ctx, booking.ID); err != nil {
			common.HandleError(hc, err, "cancel booking")
			return
		}

		kb := keyboard.NewBuilder().
			Row(keyboard.Button("📋 Записи ко мне", callbacktypes.MyBookings)).
			AddBackToMainButton().
			Build()
		if err := hc.Show("✅ Запись отменена. Время снова доступно для записи.", kb); err != nil {
			hc.Handler.Logger.Error("Failed to show cancel result", zap.Error(err))
		}
		common.LogAndAnswer(hc, "Booking cancelled from bot", "Отменено",
			zap.String("booking_id", booking.ID.String()))
	})
}

// hostBooking загружает запись из callback и проверяет, что пользователь её хост
func hostBooking(hc *common.HandlerContext) (*model.Booking, error) {
	id, err := hc.Data.UUID(0)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}

	booking, err := hc.Handler.BookingService.Get(hc.Ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.HostID != hc.User.ID {
		return nil, common.ErrNotBookingHost
	}
	return booking, nil
}
