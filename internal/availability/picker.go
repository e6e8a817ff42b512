package availability

import (
	"sort"
	"strconv"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

// PickerCriteria требования к подбираемой аудитории
type PickerCriteria struct {
	Building    string         // "any" - любой корпус
	Type        model.RoomType // пусто - любой тип
	MinCapacity int
	Equipment   []string
	Floor       *int
}

// Pick отбирает из свободных аудиторий подходящие под критерии.
// Результат отсортирован по вместимости: сначала самая маленькая подходящая.
func Pick(rooms []*model.Room, free map[model.RoomKey]bool, c PickerCriteria) []*model.Room {
	var out []*model.Room
	for _, r := range rooms {
		if !free[r.Key()] {
			continue
		}
		if !MatchesBuilding(c.Building, r.Building) {
			continue
		}
		if c.Type != "" && r.Type != c.Type {
			continue
		}
		if r.Capacity < c.MinCapacity {
			continue
		}
		if !r.HasEquipment(c.Equipment) {
			continue
		}
		if c.Floor != nil {
			floor, ok := RoomFloor(r)
			if !ok || floor != *c.Floor {
				continue
			}
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		if out[i].Building != out[j].Building {
			return out[i].Building < out[j].Building
		}
		return out[i].Room < out[j].Room
	})
	return out
}

// RoomFloor возвращает этаж аудитории: из реестра или по первой цифре номера
func RoomFloor(r *model.Room) (int, bool) {
	if r.Floor != nil {
		return *r.Floor, true
	}
	name := model.DisplayRoom(r.Room)
	if name == "" {
		return 0, false
	}
	floor, err := strconv.Atoi(name[:1])
	if err != nil {
		return 0, false
	}
	return floor, true
}
