package common

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/availability_engine/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/go-telegram/bot/models"
)

const (
	datesPageSize = 14
	datesPerRow   = 2
	slotsPerRow   = 4
)

// MainMenuText текст главного меню
const MainMenuText = "📋 Главное меню\n\n" +
	"Доступные команды:\n" +
	"/events - Мои события\n" +
	"/schedules - Мои расписания\n" +
	"/mybookings - Записи ко мне\n" +
	"/book &lt;id&gt; - Записаться на событие\n" +
	"/help - Справка"

// BuildEventsListScreen формирует экран списка событий хоста
func BuildEventsListScreen(events []*model.Event) (string, *models.InlineKeyboardMarkup) {
	if len(events) == 0 {
		return "📭 У вас пока нет событий.\n\nСоздайте событие через API: POST /api/v1/events",
			keyboard.NewBuilder().AddBackToMainButton().Build()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Ваши события (%d %s):\n\n", len(events), formatting.PluralizeEvents(len(events)))

	kb := keyboard.NewBuilder()
	for i, e := range events {
		status := formatting.GetEventStatusDisplay(e.Status)
		fmt.Fprintf(&sb, "%d. %s <b>%s</b> #%d\n   ⏱ %s\n",
			i+1, status.Emoji, html.EscapeString(e.Title), e.ID, durationsText(e.Durations()))

		kb.Row(
			keyboard.Button("📅 "+e.Title, callbacktypes.EventData(e.ID, 0)),
			keyboard.Button("🗓 Неделя", callbacktypes.WeekData(e.ID, 0)),
		)
	}
	sb.WriteString("\n💡 Ссылка для участников: /book &lt;id события&gt;")

	return sb.String(), kb.AddBackToMainButton().Build()
}

// BuildSchedulesListScreen формирует экран списка расписаний
func BuildSchedulesListScreen(schedules []*model.Schedule) string {
	if len(schedules) == 0 {
		return "📭 У вас пока нет расписаний.\n\nСоздайте расписание через API: POST /api/v1/schedules"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 Ваши расписания (%d %s):\n\n", len(schedules), formatting.PluralizeSchedules(len(schedules)))
	for _, s := range schedules {
		mark := ""
		if s.IsDefault {
			mark = " ⭐️"
		}
		fmt.Fprintf(&sb, "<b>%s</b>%s #%d\n🌍 %s\n", html.EscapeString(s.Name), mark, s.ID, html.EscapeString(s.Timezone))
		for _, day := range model.Weekdays {
			fmt.Fprintf(&sb, "   %s\n", weeklyLine(day, s.WeeklyHours[day]))
		}
		if n := len(s.Override); n > 0 {
			fmt.Fprintf(&sb, "   ✏️ Исключений по датам: %d\n", n)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func weeklyLine(day string, hours model.DayHours) string {
	name := weekdayShort[day]
	if hours.Off || len(hours.Times) == 0 {
		return name + ": выходной"
	}
	parts := make([]string, 0, len(hours.Times))
	for _, t := range hours.Times {
		parts = append(parts, t.Start+"-"+t.End)
	}
	return name + ": " + strings.Join(parts, ", ")
}

var weekdayShort = map[string]string{
	model.Monday:    "Пн",
	model.Tuesday:   "Вт",
	model.Wednesday: "Ср",
	model.Thursday:  "Чт",
	model.Friday:    "Пт",
	model.Saturday:  "Сб",
	model.Sunday:    "Вс",
}

// BuildDatesScreen формирует экран выбора даты с пагинацией
func BuildDatesScreen(event *model.Event, days []DaySlots, page int, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	if len(days) == 0 {
		text := fmt.Sprintf("📭 <b>%s</b>\n\nСвободного времени пока нет.", html.EscapeString(event.Title))
		return text, kb.AddBackToMainButton().Build()
	}

	from, to, pages, page := keyboard.Page(len(days), page, datesPageSize)

	buttons := make([]models.InlineKeyboardButton, 0, to-from)
	for _, d := range days[from:to] {
		label := fmt.Sprintf("%s (%d)", formatting.FormatDateWithWeekday(d.Date), len(d.Slots))
		buttons = append(buttons, keyboard.Button(label, callbacktypes.DayData(event.ID, d.Key)))
	}
	kb.Grid(datesPerRow, buttons...)
	kb.AddPagination(page, pages, func(p int) string { return callbacktypes.EventData(event.ID, p) })
	kb.Row(keyboard.Button("🗓 Неделя картинкой", callbacktypes.WeekData(event.ID, 0)))
	kb.AddBackToMainButton()

	text := fmt.Sprintf(
		"📅 <b>%s</b>\n⏱ %s\n🌍 %s\n\nВыберите дату:",
		html.EscapeString(event.Title),
		durationsText(event.Durations()),
		formatting.FormatZone(days[0].Date.In(loc)),
	)
	return text, kb.Build()
}

// BuildDaySlotsScreen формирует экран выбора времени на день
func BuildDaySlotsScreen(event *model.Event, day DaySlots, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	multi := len(event.Durations()) > 1

	buttons := make([]models.InlineKeyboardButton, 0, len(day.Slots))
	for _, s := range day.Slots {
		label := formatting.FormatTime(s.Start.In(loc))
		if multi {
			label += " · " + formatting.FormatDuration(s.Duration)
		}
		buttons = append(buttons, keyboard.Button(label, callbacktypes.BookData(event.ID, s.Start, s.Duration)))
	}

	perRow := slotsPerRow
	if multi {
		perRow = 2
	}
	kb := keyboard.NewBuilder().
		Grid(perRow, buttons...).
		AddBackButton(callbacktypes.EventData(event.ID, 0))

	text := fmt.Sprintf(
		"📅 <b>%s</b>\n%s %s\n\n%d %s. Выберите время:",
		html.EscapeString(event.Title),
		formatting.GetWeekdayName(int(day.Date.Weekday())),
		formatting.FormatDate(day.Date),
		len(day.Slots),
		formatting.PluralizeSlots(len(day.Slots)),
	)
	return text, kb.Build()
}

// BuildBookingSuccessScreen формирует экран успешного бронирования
func BuildBookingSuccessScreen(booking *model.Booking, event *model.Event, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	status := formatting.GetBookingStatusDisplay(booking.Status)
	start := booking.Start.In(loc)

	text := fmt.Sprintf(
		"✅ Запись успешно создана!\n\n"+
			"📝 %s\n"+
			"📅 %s %s\n"+
			"🕐 %s (%s)\n"+
			"📊 Статус: %s %s\n\n"+
			"<code>%s</code>",
		html.EscapeString(event.Title),
		formatting.GetWeekdayName(int(start.Weekday())),
		formatting.FormatDate(start),
		formatting.FormatTimeRange(start, booking.End.In(loc)),
		formatting.FormatDuration(booking.Minutes()),
		status.Emoji,
		status.Text,
		booking.ID,
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("➕ Записаться ещё", callbacktypes.EventData(event.ID, 0))).
		AddBackToMainButton()

	return text, kb.Build()
}

// BuildBookingsListScreen формирует список записей к хосту
func BuildBookingsListScreen(bookings []model.Booking, titles map[int64]string, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	if len(bookings) == 0 {
		return BuildEmptyBookingsScreen()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Записи к вам (%d %s):\n\n", len(bookings), formatting.PluralizeBookings(len(bookings)))

	kb := keyboard.NewBuilder()
	for _, b := range bookings {
		status := formatting.GetBookingStatusDisplay(b.Status)
		start := b.Start.In(loc)
		fmt.Fprintf(&sb, "%s %s %s\n   📝 %s\n   👤 %s\n\n",
			status.Emoji,
			formatting.FormatDateWithWeekday(start),
			formatting.FormatTimeRange(start, b.End.In(loc)),
			html.EscapeString(titles[b.EventID]),
			html.EscapeString(b.AttendeeName),
		)
		if b.Status == model.BookingStatusScheduled {
			kb.Row(keyboard.Button(
				fmt.Sprintf("❌ Отменить %s %s", formatting.FormatDateWithWeekday(start), formatting.FormatTime(start)),
				callbacktypes.CancelBookingData(b.ID),
			))
		}
	}

	return sb.String(), kb.AddBackToMainButton().Build()
}

// BuildConfirmCancelScreen формирует экран подтверждения отмены
func BuildConfirmCancelScreen(booking *model.Booking, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	start := booking.Start.In(loc)
	text := fmt.Sprintf(
		"⚠️ Отменить запись?\n\n📅 %s %s\n👤 %s",
		formatting.FormatDateWithWeekday(start),
		formatting.FormatTimeRange(start, booking.End.In(loc)),
		html.EscapeString(booking.AttendeeName),
	)
	kb := keyboard.NewBuilder().
		AddConfirmCancel(callbacktypes.ConfirmCancelData(booking.ID), callbacktypes.MyBookings)
	return text, kb.Build()
}

// BuildEmptyBookingsScreen формирует экран для пустого списка бронирований
func BuildEmptyBookingsScreen() (string, *models.InlineKeyboardMarkup) {
	text := "📅 Предстоящих записей пока нет."
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📅 Мои события", callbacktypes.MyEvents)).
		AddBackToMainButton()
	return text, kb.Build()
}

// BuildWeekCaption подпись к картинке недели
func BuildWeekCaption(event *model.Event, weekStart time.Time, free int) string {
	weekEnd := weekStart.AddDate(0, 0, 6)
	return fmt.Sprintf(
		"🗓 <b>%s</b>\n%s - %s\n🟢 Свободно: %d %s",
		html.EscapeString(event.Title),
		formatting.FormatDate(weekStart),
		formatting.FormatDate(weekEnd),
		free,
		formatting.PluralizeSlots(free),
	)
}

func durationsText(durations []int) string {
	parts := make([]string, 0, len(durations))
	for _, d := range durations {
		parts = append(parts, formatting.FormatDuration(d))
	}
	return strings.Join(parts, " / ")
}
