package formatting

// pluralize выбирает форму слова для числа: one (1 слот), few (2 слота), many (5 слотов)
func pluralize(count int, one, few, many string) string {
	if count < 0 {
		count = -count
	}
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeSchedules возвращает правильное склонение слова "расписание"
func PluralizeSchedules(count int) string {
	return pluralize(count, "расписание", "расписания", "расписаний")
}

// PluralizeSlots возвращает правильное склонение слова "слот"
func PluralizeSlots(count int) string {
	return pluralize(count, "слот", "слота", "слотов")
}

// PluralizeBookings возвращает правильное склонение слова "запись"
func PluralizeBookings(count int) string {
	return pluralize(count, "запись", "записи", "записей")
}

// PluralizeEvents возвращает правильное склонение слова "событие"
func PluralizeEvents(count int) string {
	return pluralize(count, "событие", "события", "событий")
}
