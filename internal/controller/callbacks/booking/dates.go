package booking

import (
	"context"

	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleEvent показывает даты со свободным временем: event:<id>[:<page>]
func HandleEvent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		eventID, err := hc.Data.Int64(0)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse event callback")
			return
		}
		page, err := hc.Data.IntOr(1, 0)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse event callback")
			return
		}

		ShowDates(hc, eventID, page)
	})
}

// ShowDates отрисовывает экран выбора даты
func ShowDates(hc *common.HandlerContext, eventID int64, page int) {
	event, slots, err := loadSlots(hc, eventID)
	if err != nil {
		common.HandleError(hc, err, "load slots")
		return
	}

	loc := hc.Location()
	text, kb := common.BuildDatesScreen(event, common.GroupByDate(slots, loc), page, loc)
	if err := hc.Show(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show dates",
			zap.Int64("event_id", eventID),
			zap.Error(err))
	}
	hc.Answer("")
}

// HandleDay показывает свободное время на дату: day:<id>:<YYYY-MM-DD>
func HandleDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		eventID, err := hc.Data.Int64(0)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse day callback")
			return
		}
		date, err := hc.Data.String(1)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse day callback")
			return
		}

		showDay(hc, eventID, date)
	})
}

func showDay(hc *common.HandlerContext, eventID int64, date string) {
	event, slots, err := loadSlots(hc, eventID)
	if err != nil {
		common.HandleError(hc, err, "load slots")
		return
	}

	loc := hc.Location()
	days := common.GroupByDate(slots, loc)
	day, ok := common.FindDay(days, date)
	if !ok {
		hc.AnswerAlert(common.ErrorMessage(common.ErrDayNotAvailable))
		text, kb := common.BuildDatesScreen(event, days, 0, loc)
		_ = hc.Show(text, kb)
		return
	}

	text, kb := common.BuildDaySlotsScreen(event, day, loc)
	if err := hc.Show(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show day",
			zap.Int64("event_id", eventID),
			zap.String("date", date),
			zap.Error(err))
	}
	hc.Answer("")
}
