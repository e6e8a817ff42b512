package formatting

// pluralize выбирает форму слова для числа: one (1, 21), few (2-4, 22-24), many (остальные)
func pluralize(count int, one, few, many string) string {
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizePeople возвращает правильное склонение слова "человек"
func PluralizePeople(count int) string {
	return pluralize(count, "человек", "человека", "человек")
}

// PluralizeRooms возвращает правильное склонение слова "аудитория"
func PluralizeRooms(count int) string {
	return pluralize(count, "аудитория", "аудитории", "аудиторий")
}

// PluralizeEntries возвращает правильное склонение слова "занятие"
func PluralizeEntries(count int) string {
	return pluralize(count, "занятие", "занятия", "занятий")
}

// PluralizeSeats возвращает правильное склонение слова "место"
func PluralizeSeats(count int) string {
	return pluralize(count, "место", "места", "мест")
}
