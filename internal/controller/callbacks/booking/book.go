package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBook бронирует выбранный слот: book:<id>:<unix>:<duration>
func HandleBook(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		eventID, err := hc.Data.Int64(0)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse book callback")
			return
		}
		unix, err := hc.Data.Int64(1)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse book callback")
			return
		}
		duration, err := hc.Data.IntOr(2, 0)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse book callback")
			return
		}

		event, err := hc.Handler.EventService.Get(hc.Ctx, eventID)
		if err != nil {
			common.HandleError(hc, err, "get event")
			return
		}

		start := time.Unix(unix, 0).UTC()
		booking, err := hc.Handler.BookingService.Commit(hc.Ctx, service.CommitRequest{
			EventID:        event.ID,
			HostID:         common.BookableHost(event),
			Start:          start,
			Duration:       duration,
			AttendeeName:   attendeeName(hc.User),
			ViewerTimezone: hc.Timezone(),
		})
		if errors.Is(err, service.ErrSlotTaken) || errors.Is(err, service.ErrSlotUnavailable) {
			// Слот ушёл, пока пользователь выбирал: показываем день заново
			hc.AnswerAlert(common.ErrorMessage(err))
			showDay(hc, event.ID, start.In(hc.Location()).Format("2006-01-02"))
			return
		}
		if err != nil {
			common.HandleError(hc, err, "commit booking")
			return
		}

		text, kb := common.BuildBookingSuccessScreen(booking, event, hc.Location())
		if err := hc.Show(text, kb); err != nil {
			hc.Handler.Logger.Error("Failed to show booking", zap.Error(err))
		}
		common.LogAndAnswer(hc, "Booking committed from bot", "✅ Записано",
			zap.String("booking_id", booking.ID.String()),
			zap.Int64("event_id", event.ID))
	})
}
