// Package availability вычисляет занятость аудиторий по расписанию.
package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/recurrence"
)

// DescriptionLimit максимальная длина описания занятия в статусе
const DescriptionLimit = 45

const (
	freeUntilFormat = "до %s"
	freeUntilEnd    = "до конца дня"
)

// DefaultBoundaries границы пар и служебные точки вне учебного времени, по возрастанию
var DefaultBoundaries = []model.ClockTime{
	model.NewClockTime(0, 0),
	model.NewClockTime(8, 0),
	model.NewClockTime(9, 0), model.NewClockTime(10, 25),
	model.NewClockTime(10, 45), model.NewClockTime(12, 10),
	model.NewClockTime(12, 20), model.NewClockTime(13, 45),
	model.NewClockTime(13, 55), model.NewClockTime(15, 20),
	model.NewClockTime(15, 30), model.NewClockTime(16, 55),
	model.NewClockTime(17, 5), model.NewClockTime(18, 30),
	model.NewClockTime(18, 35), model.NewClockTime(20, 0),
	model.NewClockTime(22, 0),
	model.EndOfDay,
}

// Status результат расчёта занятости аудитории в момент времени
type Status struct {
	Busy        bool
	Description string
	Entry       *model.ScheduleEntry // занятие, из-за которого аудитория занята
}

// Calculator считает статус аудитории по её записям расписания
type Calculator struct {
	boundaries []model.ClockTime
}

// NewCalculator создаёт калькулятор с заданными границами сброса.
// Если boundaries пуст, используются DefaultBoundaries.
func NewCalculator(boundaries []model.ClockTime) *Calculator {
	if len(boundaries) == 0 {
		boundaries = DefaultBoundaries
	}
	sorted := make([]model.ClockTime, len(boundaries))
	copy(sorted, boundaries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return &Calculator{boundaries: sorted}
}

// Boundaries возвращает границы сброса по возрастанию
func (c *Calculator) Boundaries() []model.ClockTime {
	out := make([]model.ClockTime, len(c.boundaries))
	copy(out, c.boundaries)
	return out
}

// SnapDown округляет время вниз до ближайшей границы сброса
func (c *Calculator) SnapDown(t model.ClockTime) model.ClockTime {
	idx := sort.Search(len(c.boundaries), func(i int) bool { return c.boundaries[i] > t })
	if idx == 0 {
		return t
	}
	return c.boundaries[idx-1]
}

// StatusAt возвращает статус аудитории в момент t даты date.
// entries - записи этой аудитории; неподходящие по дате и дню недели отбрасываются.
func (c *Calculator) StatusAt(entries []*model.ScheduleEntry, date time.Time, t model.ClockTime) Status {
	return c.status(entries, date, t, false)
}

// RefreshStatusAt то же, что StatusAt, но начало каждого занятия сначала
// округляется вниз до границы сброса, чтобы соседние пары не мигали между обновлениями.
func (c *Calculator) RefreshStatusAt(entries []*model.ScheduleEntry, date time.Time, t model.ClockTime) Status {
	return c.status(entries, date, t, true)
}

// FreeDescription описание свободной аудитории: до начала следующего занятия
func (c *Calculator) FreeDescription(entries []*model.ScheduleEntry, date time.Time, t model.ClockTime) string {
	next, ok := nextStart(Applicable(entries, date), t)
	if !ok {
		return freeUntilEnd
	}
	return FreeUntil(next)
}

// FreeUntil форматирует описание "свободно до"
func FreeUntil(t model.ClockTime) string {
	return fmt.Sprintf(freeUntilFormat, t.String())
}

func (c *Calculator) status(entries []*model.ScheduleEntry, date time.Time, t model.ClockTime, snap bool) Status {
	applicable := Applicable(entries, date)

	for _, e := range applicable {
		start := e.Start
		if snap {
			start = c.SnapDown(start)
		}
		if start <= t && t <= e.Finish {
			return Status{Busy: true, Description: Truncate(e.Description, DescriptionLimit), Entry: e}
		}
	}

	next, ok := nextStart(applicable, t)
	if !ok {
		return Status{Description: freeUntilEnd}
	}
	return Status{Description: FreeUntil(next)}
}

// Applicable возвращает записи, проходящие в дату date, отсортированные по началу
func Applicable(entries []*model.ScheduleEntry, date time.Time) []*model.ScheduleEntry {
	out := make([]*model.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if recurrence.Applies(e, date) {
			out = append(out, e)
		}
	}
	sortByStart(out)
	return out
}

func nextStart(sorted []*model.ScheduleEntry, t model.ClockTime) (model.ClockTime, bool) {
	for _, e := range sorted {
		if e.Start > t {
			return e.Start, true
		}
	}
	return 0, false
}

func sortByStart(entries []*model.ScheduleEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Start != entries[j].Start {
			return entries[i].Start < entries[j].Start
		}
		return entries[i].ID < entries[j].ID
	})
}

// Truncate обрезает строку до limit символов и добавляет многоточие
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
