package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LectureMarker префикс аудитории лекционного типа ("!Б.Физ.", "!202")
const LectureMarker = "!"

// RecurrenceKind вид повторения занятия
type RecurrenceKind string

const (
	RecurrenceWeekly  RecurrenceKind = "weekly"   // каждую неделю в свой день
	RecurrenceOnDates RecurrenceKind = "on_dates" // только в перечисленные даты
	RecurrenceInRange RecurrenceKind = "in_range" // каждую неделю внутри диапазона дат
)

// Recurrence разобранное правило повторения.
// Заполняется один раз при загрузке записи, а не при каждом запросе.
type Recurrence struct {
	Kind  RecurrenceKind `json:"kind"`
	Dates []DayMonth     `json:"dates,omitempty"` // для RecurrenceOnDates
	From  DayMonth       `json:"from,omitempty"`  // для RecurrenceInRange
	To    DayMonth       `json:"to,omitempty"`    // для RecurrenceInRange, может быть раньше From (переход через Новый год)
}

// Weekly правило "каждую неделю"
func Weekly() Recurrence {
	return Recurrence{Kind: RecurrenceWeekly}
}

// IsTemporary сообщает, что запись разовая или ограничена датами
func (r Recurrence) IsTemporary() bool {
	return r.Kind == RecurrenceOnDates || r.Kind == RecurrenceInRange
}

// ScheduleEntry запись расписания: занятие в аудитории в определённый день недели
type ScheduleEntry struct {
	ID          int64      `json:"id"`
	GroupID     uuid.UUID  `json:"group_id"` // записи, созданные одним действием администратора
	Description string     `json:"description"`
	Building    string     `json:"building"`
	Room        string     `json:"room"`
	Start       ClockTime  `json:"time_start"`
	Finish      ClockTime  `json:"time_finish"`
	Weekday     int        `json:"day"` // 1 = понедельник, 7 = воскресенье
	Recurrence  Recurrence `json:"recurrence"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Key возвращает ключ аудитории записи
func (e *ScheduleEntry) Key() RoomKey {
	return RoomKey{Building: e.Building, Room: e.Room}
}

// Covers проверяет, что момент t попадает в занятие (границы включительно)
func (e *ScheduleEntry) Covers(t ClockTime) bool {
	return e.Start <= t && t <= e.Finish
}

// Overlaps проверяет пересечение полуинтервалов [Start, Finish) и [start, finish)
func (e *ScheduleEntry) Overlaps(start, finish ClockTime) bool {
	return e.Start < finish && start < e.Finish
}

// DisplayRoom возвращает номер аудитории без лекционного маркера
func DisplayRoom(room string) string {
	return strings.TrimPrefix(room, LectureMarker)
}

// IsLectureRoom сообщает, помечена ли аудитория как лекционная
func IsLectureRoom(room string) bool {
	return strings.HasPrefix(room, LectureMarker)
}

// WeekdayOf возвращает день недели в нумерации расписания (понедельник = 1)
func WeekdayOf(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DayMonthOf возвращает дату без года
func DayMonthOf(date time.Time) DayMonth {
	return DayMonth{Day: date.Day(), Month: int(date.Month())}
}

// WeekdayShort краткие названия дней недели, индекс = номер дня в расписании
var WeekdayShort = [8]string{"", "пн", "вт", "ср", "чт", "пт", "сб", "вс"}

// WeekdayName полные названия дней недели
var WeekdayName = [8]string{"", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье"}
