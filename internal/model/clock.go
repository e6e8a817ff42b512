package model

import "fmt"

// ClockTime время суток в минутах от полуночи (00:00 = 0, 23:59 = 1439)
type ClockTime int

// EndOfDay последняя минута суток
const EndOfDay ClockTime = 23*60 + 59

// NewClockTime собирает время из часов и минут
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

func (t ClockTime) Hour() int   { return int(t) / 60 }
func (t ClockTime) Minute() int { return int(t) % 60 }

// String возвращает время в формате HH:MM
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Valid проверяет что время лежит внутри суток
func (t ClockTime) Valid() bool {
	return t >= 0 && t <= EndOfDay
}

// DayMonth дата без года в формате DD.MM, как она записана в описании занятия
type DayMonth struct {
	Day   int `json:"day"`
	Month int `json:"month"`
}

// daysInMonth для високосного года: 29.02 считается корректной датой
var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Valid сообщает, существует ли такая дата хотя бы в високосном году.
// Токены вроде 00.00 или 31.02 разбираются, но невалидны.
func (d DayMonth) Valid() bool {
	if d.Month < 1 || d.Month > 12 {
		return false
	}
	return d.Day >= 1 && d.Day <= daysInMonth[d.Month]
}

// Ordinal порядковый номер даты внутри года, пригодный для сравнения
func (d DayMonth) Ordinal() int {
	return d.Month*100 + d.Day
}

// Before сравнивает даты без учёта года
func (d DayMonth) Before(other DayMonth) bool {
	return d.Ordinal() < other.Ordinal()
}

// String возвращает дату в формате DD.MM
func (d DayMonth) String() string {
	return fmt.Sprintf("%02d.%02d", d.Day, d.Month)
}
