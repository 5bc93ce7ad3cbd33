package booking

import (
	"context"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleWeek отправляет картинку недели со свободным временем: week:<id>[:<offset>]
func HandleWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		eventID, err := hc.Data.Int64(0)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse week callback")
			return
		}
		offset, err := hc.Data.IntOr(1, 0)
		if err != nil || offset < 0 {
			common.HandleError(hc, common.ErrInvalidFormat, "parse week callback")
			return
		}

		event, slots, err := loadSlots(hc, eventID)
		if err != nil {
			common.HandleError(hc, err, "load slots")
			return
		}

		now := hc.Now()
		weekStart := common.WeekStartOf(now, hc.Handler.WeekStart).AddDate(0, 0, 7*offset)
		weekEnd := weekStart.AddDate(0, 0, 7)
		weekSlots := common.SlotsBetween(slots, weekStart, weekEnd)

		// Занятое время с именами видит только хост
		var bookings []model.Booking
		if event.HasHost(hc.User.ID) {
			bookings, err = hc.Handler.BookingService.ListForHost(hc.Ctx, hc.User.ID, weekStart, weekEnd)
			if err != nil {
				common.HandleError(hc, err, "list bookings")
				return
			}
		}

		started := time.Now()
		png, err := common.GenerateWeekImage(common.WeekImageData{
			Title:     event.Title,
			WeekStart: weekStart,
			Slots:     weekSlots,
			Bookings:  bookings,
			Now:       now,
		})
		if err != nil {
			common.HandleError(hc, err, "render week")
			return
		}
		hc.Handler.Logger.Debug("Week image rendered",
			zap.Int64("event_id", event.ID),
			zap.Int("slots", len(weekSlots)),
			zap.Int("bookings", len(bookings)),
			zap.Duration("took", time.Since(started)))

		kb := keyboard.NewBuilder().
			Row(keyboard.WeekPagination(event.ID, offset)...).
			Row(keyboard.Button("📅 Выбрать время", callbacktypes.EventData(event.ID, 0))).
			AddBackToMainButton().
			Build()

		if err := hc.SendPhoto(png, common.BuildWeekCaption(event, weekStart, len(weekSlots)), kb); err != nil {
			common.HandleError(hc, err, "send week image")
			return
		}
		hc.Answer("")
	})
}
