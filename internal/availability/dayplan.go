package availability

import (
	"sort"
	"time"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/recurrence"
)

// AnyBuilding значение фильтра "любой корпус"
const AnyBuilding = "any"

// DayPlan занятия, проходящие в одну дату, сгруппированные по аудиториям.
// Строится один раз на дату и корпус, а не на каждую аудиторию.
type DayPlan struct {
	Date     time.Time
	Building string
	byRoom   map[model.RoomKey][]*model.ScheduleEntry
}

// BuildDayPlan отбирает из записей дня недели те, что проходят в date
func BuildDayPlan(entries []*model.ScheduleEntry, date time.Time, building string) *DayPlan {
	plan := &DayPlan{
		Date:     date,
		Building: building,
		byRoom:   make(map[model.RoomKey][]*model.ScheduleEntry),
	}

	for _, e := range entries {
		if !MatchesBuilding(building, e.Building) {
			continue
		}
		if !recurrence.Applies(e, date) {
			continue
		}
		key := e.Key()
		plan.byRoom[key] = append(plan.byRoom[key], e)
	}
	for _, list := range plan.byRoom {
		sortByStart(list)
	}

	return plan
}

// Entries возвращает занятия аудитории в этот день по возрастанию начала
func (p *DayPlan) Entries(key model.RoomKey) []*model.ScheduleEntry {
	if p == nil {
		return nil
	}
	return p.byRoom[key]
}

// Rooms возвращает аудитории, в которых в этот день есть занятия
func (p *DayPlan) Rooms() []model.RoomKey {
	keys := make([]model.RoomKey, 0, len(p.byRoom))
	for k := range p.byRoom {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}

// BusyAt возвращает аудитории, занятые в момент t
func (p *DayPlan) BusyAt(t model.ClockTime) map[model.RoomKey]*model.ScheduleEntry {
	busy := make(map[model.RoomKey]*model.ScheduleEntry)
	for key, list := range p.byRoom {
		for _, e := range list {
			if e.Covers(t) {
				busy[key] = e
				break
			}
		}
	}
	return busy
}

// Partition делит аудитории на свободные и занятые в момент t.
// Объединение результатов равно rooms, пересечение пусто.
func Partition(rooms []model.RoomKey, plan *DayPlan, t model.ClockTime) (free, busy []model.RoomKey) {
	occupied := plan.BusyAt(t)
	for _, key := range rooms {
		if _, ok := occupied[key]; ok {
			busy = append(busy, key)
		} else {
			free = append(free, key)
		}
	}
	return free, busy
}

// MatchesBuilding проверяет фильтр по корпусу ("any" или пустая строка - любой)
func MatchesBuilding(filter, building string) bool {
	return filter == "" || filter == AnyBuilding || filter == building
}

// SortKeys сортирует аудитории по корпусу, затем по номеру
func SortKeys(keys []model.RoomKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Building != keys[j].Building {
			return keys[i].Building < keys[j].Building
		}
		return keys[i].Room < keys[j].Room
	})
}
