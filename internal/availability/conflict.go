package availability

import (
	"time"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/recurrence"
)

// FindConflict возвращает первое по времени занятие, пересекающееся с [start, finish) в дату date.
// Новое занятие, начинающееся ровно в момент окончания существующего, конфликтом не считается.
func FindConflict(entries []*model.ScheduleEntry, date time.Time, start, finish model.ClockTime) *model.ScheduleEntry {
	for _, e := range Applicable(entries, date) {
		if e.Overlaps(start, finish) {
			return e
		}
	}
	return nil
}

// FindWeeklyConflict ищет конфликт для бессрочной еженедельной записи начиная с даты from:
// пересечение по времени с любой записью того же дня недели, которая ещё может состояться.
func FindWeeklyConflict(entries []*model.ScheduleEntry, weekday int, from model.DayMonth, start, finish model.ClockTime) *model.ScheduleEntry {
	candidates := make([]*model.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if e.Weekday == weekday && recurrence.MayApplyFrom(e.Recurrence, from) {
			candidates = append(candidates, e)
		}
	}
	sortByStart(candidates)

	for _, e := range candidates {
		if e.Overlaps(start, finish) {
			return e
		}
	}
	return nil
}
