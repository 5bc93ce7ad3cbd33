package formatting

import "github.com/Freeeeeet/availability_engine/internal/model"

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetBookingStatusDisplay возвращает emoji и текст для статуса бронирования
func GetBookingStatusDisplay(status model.BookingStatus) StatusDisplay {
	displays := map[model.BookingStatus]StatusDisplay{
		model.BookingStatusScheduled: {"✅", "Запланирована"},
		model.BookingStatusPending:   {"⏳", "Ожидает одобрения"},
		model.BookingStatusCompleted: {"✔️", "Завершена"},
		model.BookingStatusCancelled: {"❌", "Отменена"},
		model.BookingStatusRejected:  {"🚫", "Отклонена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetEventStatusDisplay возвращает emoji и текст для статуса события
func GetEventStatusDisplay(status model.EventStatus) StatusDisplay {
	switch status {
	case model.EventStatusActive:
		return StatusDisplay{"🟢", "Активно"}
	case model.EventStatusDisabled:
		return StatusDisplay{"⚫️", "Отключено"}
	default:
		return StatusDisplay{"❓", "Неизвестно"}
	}
}
