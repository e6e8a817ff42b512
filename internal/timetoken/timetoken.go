// Package timetoken извлекает даты из свободного текста описания занятия
// и разбирает структурированные поля времени.
//
// Описание может содержать одну или несколько дат "DD.MM" (занятие только
// в эти дни) либо один диапазон "DD.MM-DD.MM" (занятие каждую неделю внутри
// диапазона). Описание без дат означает еженедельное занятие.
package timetoken

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

var (
	datePattern  = regexp.MustCompile(`\d{2}\.\d{2}`)
	rangePattern = regexp.MustCompile(`(\d{2}\.\d{2})\s*-\s*(\d{2}\.\d{2})`)
	clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	timePattern  = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)
)

// Range диапазон дат включительно
type Range struct {
	From model.DayMonth
	To   model.DayMonth
}

// Tokens даты, найденные в описании
type Tokens struct {
	Dates []model.DayMonth
	Range *Range
}

// ParseError ошибка разбора времени или даты
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: malformed value %q", e.Field, e.Value)
}

// Parse находит токены дат в описании. Диапазон имеет приоритет:
// если он найден, одиночные даты не учитываются.
func Parse(description string) Tokens {
	if m := rangePattern.FindStringSubmatch(description); m != nil {
		return Tokens{Range: &Range{From: mustDayMonth(m[1]), To: mustDayMonth(m[2])}}
	}

	var tokens Tokens
	for _, raw := range datePattern.FindAllString(description, -1) {
		tokens.Dates = append(tokens.Dates, mustDayMonth(raw))
	}
	return tokens
}

// Recurrence превращает токены описания в правило повторения
func Recurrence(description string) model.Recurrence {
	tokens := Parse(description)
	switch {
	case tokens.Range != nil:
		return model.Recurrence{Kind: model.RecurrenceInRange, From: tokens.Range.From, To: tokens.Range.To}
	case len(tokens.Dates) > 0:
		return model.Recurrence{Kind: model.RecurrenceOnDates, Dates: tokens.Dates}
	default:
		return model.Weekly()
	}
}

// Strip удаляет из описания все токены дат и лишние пробелы
func Strip(description string) string {
	stripped := rangePattern.ReplaceAllString(description, " ")
	stripped = datePattern.ReplaceAllString(stripped, " ")
	return strings.Join(strings.Fields(stripped), " ")
}

// ParseClock разбирает время "HH:MM"
func ParseClock(s string) (model.ClockTime, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, &ParseError{Field: "time", Value: s}
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, &ParseError{Field: "time", Value: s}
	}
	return model.NewClockTime(hour, minute), nil
}

// ParseDayMonth разбирает дату "DD.MM" и требует её корректности
func ParseDayMonth(s string) (model.DayMonth, error) {
	s = strings.TrimSpace(s)
	if !datePattern.MatchString(s) || len(s) != 5 {
		return model.DayMonth{}, &ParseError{Field: "date", Value: s}
	}
	d := mustDayMonth(s)
	if !d.Valid() {
		return model.DayMonth{}, &ParseError{Field: "date", Value: s}
	}
	return d, nil
}

// FindClockTimes возвращает все корректные "HH:MM" из произвольного текста
func FindClockTimes(text string) []model.ClockTime {
	var out []model.ClockTime
	for _, raw := range timePattern.FindAllString(text, -1) {
		if t, err := ParseClock(raw); err == nil {
			out = append(out, t)
		}
	}
	return out
}

// mustDayMonth разбирает строку, уже совпавшую с datePattern
func mustDayMonth(s string) model.DayMonth {
	day, _ := strconv.Atoi(s[0:2])
	month, _ := strconv.Atoi(s[3:5])
	return model.DayMonth{Day: day, Month: month}
}

// Token разбирает одиночный токен "DD.MM" без проверки корректности даты.
// Нужен для чтения уже сохранённых правил повторения, где могут быть и 00.00.
func Token(s string) (model.DayMonth, bool) {
	if len(s) != 5 || !datePattern.MatchString(s) {
		return model.DayMonth{}, false
	}
	return mustDayMonth(s), true
}
