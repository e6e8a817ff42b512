// Package recurrence решает, применима ли запись расписания к конкретной дате.
package recurrence

import (
	"time"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

// Applies сообщает, проходит ли занятие в указанную дату.
// День недели должен совпадать всегда; дальше решает правило повторения.
func Applies(entry *model.ScheduleEntry, date time.Time) bool {
	if entry.Weekday != model.WeekdayOf(date) {
		return false
	}
	return Matches(entry.Recurrence, model.DayMonthOf(date))
}

// Matches проверяет правило повторения без учёта дня недели
func Matches(rec model.Recurrence, day model.DayMonth) bool {
	switch rec.Kind {
	case model.RecurrenceInRange:
		return InRange(rec.From, rec.To, day)
	case model.RecurrenceOnDates:
		for _, d := range rec.Dates {
			if d == day {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// InRange проверяет попадание даты в диапазон включительно, сравнивая только день и месяц.
// Диапазон, конец которого раньше начала, переходит через Новый год.
func InRange(from, to, day model.DayMonth) bool {
	if !to.Before(from) {
		return !day.Before(from) && !to.Before(day)
	}
	return !day.Before(from) || !to.Before(day)
}

// PastWindow сколько дней назад дата без года считается прошедшей.
// Более ранние даты относятся к следующему году: 10.01, увиденная в декабре, ещё впереди.
const PastWindow = 183

// IsPast сообщает, что дата day уже прошла относительно today с учётом PastWindow.
// Сегодняшняя дата не считается прошедшей.
func IsPast(day, today model.DayMonth) bool {
	back := dayOfYear(today) - dayOfYear(day)
	if back < 0 {
		back += 366
	}
	return back > 0 && back <= PastWindow
}

// dayOfYear номер дня в високосном году, чтобы 29.02 имела место
func dayOfYear(d model.DayMonth) int {
	return time.Date(2024, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).YearDay()
}

// IsStale сообщает, что все даты разовой записи уже прошли.
// Некорректные даты (00.00, 31.02) не учитываются, чтобы запись не устаревала случайно.
// Используется только при поиске, на расчёт занятости не влияет.
func IsStale(entry *model.ScheduleEntry, today time.Time) bool {
	if entry.Recurrence.Kind != model.RecurrenceOnDates {
		return false
	}

	now := model.DayMonthOf(today)
	valid := 0
	for _, d := range entry.Recurrence.Dates {
		if !d.Valid() {
			continue
		}
		valid++
		if !IsPast(d, now) {
			return false
		}
	}
	return valid > 0
}

// MayApplyFrom сообщает, может ли правило сработать в дату from или позже.
// Прошедшие даты определяются так же, как в IsStale. Нужна для проверки бессрочных вставок.
func MayApplyFrom(rec model.Recurrence, from model.DayMonth) bool {
	switch rec.Kind {
	case model.RecurrenceOnDates:
		for _, d := range rec.Dates {
			if d.Valid() && !IsPast(d, from) {
				return true
			}
		}
		return false
	case model.RecurrenceInRange:
		if InRange(rec.From, rec.To, from) {
			return true
		}
		return !IsPast(rec.To, from)
	default:
		return true
	}
}
