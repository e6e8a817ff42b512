package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RoomKey идентификатор аудитории: пара (корпус, аудитория)
type RoomKey struct {
	Building string `json:"building"`
	Room     string `json:"room"`
}

func (k RoomKey) String() string {
	return k.Room + " " + k.Building
}

type RoomType string

const (
	RoomTypeLecture  RoomType = "lecture"
	RoomTypeSeminar  RoomType = "seminar"
	RoomTypeChair    RoomType = "chair"
	RoomTypeLab      RoomType = "lab"
	RoomTypeComputer RoomType = "computer"
)

// Valid проверяет что тип аудитории известен
func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeLecture, RoomTypeSeminar, RoomTypeChair, RoomTypeLab, RoomTypeComputer:
		return true
	}
	return false
}

// DefaultRoomType тип по умолчанию: лекционный маркер в номере или семинарская
func DefaultRoomType(room string) RoomType {
	if IsLectureRoom(room) {
		return RoomTypeLecture
	}
	return RoomTypeSeminar
}

// RoomStatus текущее состояние аудитории
type RoomStatus string

const (
	RoomStatusFree     RoomStatus = "free"     // Свободна
	RoomStatusBusy     RoomStatus = "busy"     // Идёт занятие по расписанию
	RoomStatusLecture  RoomStatus = "lecture"  // Лекционная, отметки запрещены
	RoomStatusComputer RoomStatus = "computer" // Компьютерный класс
	RoomStatusChair    RoomStatus = "chair"    // Кафедральная
	RoomStatusMarked   RoomStatus = "marked"   // Отмечена пользователями как занятая
)

// Valid проверяет что статус входит в закрытый набор
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusFree, RoomStatusBusy, RoomStatusLecture, RoomStatusComputer, RoomStatusChair, RoomStatusMarked:
		return true
	}
	return false
}

// IdleStatus статус незанятой аудитории для её типа
func IdleStatus(t RoomType) RoomStatus {
	switch t {
	case RoomTypeLecture:
		return RoomStatusLecture
	case RoomTypeChair:
		return RoomStatusChair
	case RoomTypeComputer:
		return RoomStatusComputer
	default:
		return RoomStatusFree
	}
}

// Room запись реестра аудиторий вместе с текущим статусом
type Room struct {
	Building          string     `json:"building"`
	Room              string     `json:"room"`
	Type              RoomType   `json:"room_type"`
	Capacity          int        `json:"capacity"`
	Floor             *int       `json:"floor"` // nil - этаж неизвестен
	Equipment         []string   `json:"equipment"`
	Status            RoomStatus `json:"status"`
	StatusDescription string     `json:"status_description"`
	Version           int64      `json:"version"` // увеличивается при каждом сохранённом переходе
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (r *Room) Key() RoomKey {
	return RoomKey{Building: r.Building, Room: r.Room}
}

// HasEquipment проверяет что у аудитории есть всё перечисленное оборудование
func (r *Room) HasEquipment(required []string) bool {
	for _, need := range required {
		found := false
		for _, have := range r.Equipment {
			if have == need {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type NoiseLevel string

const (
	NoiseLoud   NoiseLevel = "loud"
	NoiseSilent NoiseLevel = "silent"
)

// MarkPayload данные ручной отметки, хранятся в StatusDescription как "headcount|unavailable|noise"
type MarkPayload struct {
	Headcount   int
	Unavailable bool // просьба не заходить
	Noise       NoiseLevel
}

// Encode кодирует отметку в строку описания статуса
func (p MarkPayload) Encode() string {
	unavailable := "0"
	if p.Unavailable {
		unavailable = "1"
	}
	noise := p.Noise
	if noise == "" {
		noise = NoiseSilent
	}
	return strings.Join([]string{strconv.Itoa(p.Headcount), unavailable, string(noise)}, "|")
}

// DecodeMarkPayload разбирает описание статуса отмеченной аудитории
func DecodeMarkPayload(s string) (MarkPayload, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 3 {
		return MarkPayload{}, fmt.Errorf("mark payload %q: expected 3 fields, got %d", s, len(parts))
	}

	headcount, err := strconv.Atoi(parts[0])
	if err != nil {
		return MarkPayload{}, fmt.Errorf("mark payload %q: headcount: %w", s, err)
	}

	var unavailable bool
	switch parts[1] {
	case "0":
	case "1":
		unavailable = true
	default:
		return MarkPayload{}, fmt.Errorf("mark payload %q: unavailable flag must be 0 or 1", s)
	}

	noise := NoiseLevel(parts[2])
	if noise != NoiseLoud && noise != NoiseSilent {
		return MarkPayload{}, fmt.Errorf("mark payload %q: unknown noise level", s)
	}

	return MarkPayload{Headcount: headcount, Unavailable: unavailable, Noise: noise}, nil
}
