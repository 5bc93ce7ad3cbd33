package common

import (
	"errors"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrNoMessage       = errors.New("no message in callback")
	ErrInvalidFormat   = errors.New("invalid callback format")
	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotBookingHost  = errors.New("user is not the host of this booking")
	ErrDayNotAvailable = errors.New("day has no free slots")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrEventNotFound):
		return "❌ Событие не найдено"
	case errors.Is(err, ErrBookingNotFound):
		return "❌ Бронирование не найдено"
	case errors.Is(err, ErrNotBookingHost):
		return "❌ У вас нет доступа к этой записи"
	case errors.Is(err, ErrDayNotAvailable):
		return "😔 На этот день свободного времени больше нет"
	case errors.Is(err, service.ErrSlotTaken):
		return "😔 Это время только что заняли. Выберите другое"
	case errors.Is(err, service.ErrSlotUnavailable):
		return "😔 Это время больше недоступно. Выберите другое"
	case errors.Is(err, availability.ErrInvalidDuration):
		return "❌ Такая длительность недоступна"
	case errors.Is(err, availability.ErrNoAvailability):
		return "📭 У события нет доступного времени"
	case errors.Is(err, service.ErrNotFound):
		return "❌ Не найдено"
	case errors.Is(err, service.ErrInvalidInput):
		return "❌ Некорректные данные"
	default:
		return "❌ Произошла ошибка"
	}
}
