package keyboard

import (
	"fmt"

	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot/models"
)

// PaginationButtons создаёт ряд кнопок пагинации
// page - текущая страница (0-based), pageData строит callback для страницы
func PaginationButtons(page, totalPages int, pageData func(page int) string) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton

	if page > 0 {
		buttons = append(buttons, Button("⬅️", pageData(page-1)))
	}

	buttons = append(buttons, Button(
		fmt.Sprintf("📄 %d/%d", page+1, totalPages),
		callbacktypes.Noop,
	))

	if page < totalPages-1 {
		buttons = append(buttons, Button("➡️", pageData(page+1)))
	}

	return buttons
}

// AddPagination добавляет пагинацию к builder
func (b *Builder) AddPagination(page, totalPages int, pageData func(page int) string) *Builder {
	return b.Row(PaginationButtons(page, totalPages, pageData)...)
}

// WeekPagination создаёт пагинацию по неделям
func WeekPagination(eventID int64, offset int) []models.InlineKeyboardButton {
	buttons := make([]models.InlineKeyboardButton, 0, 2)
	if offset > 0 {
		buttons = append(buttons, Button("◀️ Предыдущая неделя", callbacktypes.WeekData(eventID, offset-1)))
	}
	buttons = append(buttons, Button("▶️ Следующая неделя", callbacktypes.WeekData(eventID, offset+1)))
	return buttons
}

// Page возвращает границы страницы [from, to) и число страниц; page приводится к допустимому
func Page(total, page, pageSize int) (from, to, pages, current int) {
	pages = (total + pageSize - 1) / pageSize
	if pages == 0 {
		return 0, 0, 0, 0
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	from = page * pageSize
	to = from + pageSize
	if to > total {
		to = total
	}
	return from, to, pages, page
}
