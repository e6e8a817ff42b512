package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

// FormatDate форматирует дату без года
func FormatDate(t time.Time) string {
	return t.Format("02.01")
}

// FormatDateWithWeekday форматирует дату с кратким днём недели: "14.03 (вт)"
func FormatDateWithWeekday(t time.Time) string {
	return fmt.Sprintf("%s (%s)", FormatDate(t), GetWeekdayShort(model.WeekdayOf(t)))
}

// FormatTimeRange форматирует интервал занятия
func FormatTimeRange(start, finish model.ClockTime) string {
	return fmt.Sprintf("%s-%s", start, finish)
}

// GetWeekdayName возвращает название дня недели (понедельник = 1)
func GetWeekdayName(weekday int) string {
	if weekday >= 1 && weekday <= 7 {
		return model.WeekdayName[weekday]
	}
	return "Неизвестно"
}

// GetWeekdayShort возвращает краткое название дня недели (понедельник = 1)
func GetWeekdayShort(weekday int) string {
	if weekday >= 1 && weekday <= 7 {
		return model.WeekdayShort[weekday]
	}
	return "?"
}
