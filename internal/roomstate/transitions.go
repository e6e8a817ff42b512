// Package roomstate содержит автомат состояний аудитории.
//
// Пользователь может только поставить и снять ручную отметку "занято"
// (статус marked). Остальные статусы выставляет обновление по расписанию.
package roomstate

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/roomstatus_bot/internal/availability"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

// ErrIllegalTransition переход запрещён из текущего состояния
var ErrIllegalTransition = errors.New("illegal room status transition")

// ErrInvalidHeadcount число людей в отметке должно быть не меньше 1
var ErrInvalidHeadcount = errors.New("headcount must be positive")

// Action пользовательское действие над аудиторией
type Action string

const (
	ActionMark      Action = "mark"
	ActionIncrement Action = "increment"
	ActionDecrement Action = "decrement"
	ActionUnmark    Action = "unmark"
)

// IllegalTransitionError действие недопустимо в текущем статусе аудитории
type IllegalTransitionError struct {
	Room   model.RoomKey
	From   model.RoomStatus
	Action Action
	// Blocking занятие, из-за которого аудитория занята (только для busy)
	Blocking string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("room %s: cannot %s from status %s", e.Room, e.Action, e.From)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

func illegal(room *model.Room, action Action) error {
	err := &IllegalTransitionError{Room: room.Key(), From: room.Status, Action: action}
	if room.Status == model.RoomStatusBusy {
		err.Blocking = room.StatusDescription
	}
	return err
}

// Mark ставит ручную отметку. Разрешено только из free.
func Mark(room *model.Room, payload model.MarkPayload) error {
	if room.Status != model.RoomStatusFree {
		return illegal(room, ActionMark)
	}
	if payload.Headcount < 1 {
		return ErrInvalidHeadcount
	}
	if payload.Noise == "" {
		payload.Noise = model.NoiseSilent
	}

	room.Status = model.RoomStatusMarked
	room.StatusDescription = payload.Encode()
	return nil
}

// Increment добавляет одного человека к отметке
func Increment(room *model.Room) error {
	payload, err := markPayload(room, ActionIncrement)
	if err != nil {
		return err
	}
	payload.Headcount++
	room.StatusDescription = payload.Encode()
	return nil
}

// Decrement убирает одного человека из отметки.
// Когда никого не осталось, отметка снимается и аудитория становится свободной
// с описанием freeDescription; в этом случае unmarked = true.
func Decrement(room *model.Room, freeDescription string) (unmarked bool, err error) {
	payload, err := markPayload(room, ActionDecrement)
	if err != nil {
		return false, err
	}

	payload.Headcount--
	if payload.Headcount <= 0 {
		room.Status = model.RoomStatusFree
		room.StatusDescription = freeDescription
		return true, nil
	}

	room.StatusDescription = payload.Encode()
	return false, nil
}

// Unmark снимает отметку. freeDescription считается по расписанию вызывающим.
func Unmark(room *model.Room, freeDescription string) error {
	if room.Status != model.RoomStatusMarked {
		return illegal(room, ActionUnmark)
	}
	room.Status = model.RoomStatusFree
	room.StatusDescription = freeDescription
	return nil
}

// Refresh выставляет статус по расписанию. Ручная отметка сохраняется,
// если только расписание не делает аудиторию занятой или лекционной.
// Возвращает true, если статус или описание изменились.
func Refresh(room *model.Room, schedule availability.Status) bool {
	status := model.IdleStatus(room.Type)
	if schedule.Busy {
		status = model.RoomStatusBusy
	}

	if room.Status == model.RoomStatusMarked &&
		status != model.RoomStatusBusy && status != model.RoomStatusLecture {
		return false
	}

	if room.Status == status && room.StatusDescription == schedule.Description {
		return false
	}
	room.Status = status
	room.StatusDescription = schedule.Description
	return true
}

// Payload возвращает данные отметки аудитории в статусе marked
func Payload(room *model.Room) (model.MarkPayload, error) {
	if room.Status != model.RoomStatusMarked {
		return model.MarkPayload{}, fmt.Errorf("room %s is not marked", room.Key())
	}
	return model.DecodeMarkPayload(room.StatusDescription)
}

func markPayload(room *model.Room, action Action) (model.MarkPayload, error) {
	if room.Status != model.RoomStatusMarked {
		return model.MarkPayload{}, illegal(room, action)
	}
	payload, err := model.DecodeMarkPayload(room.StatusDescription)
	if err != nil {
		return model.MarkPayload{}, fmt.Errorf("%s room %s: %w", action, room.Key(), err)
	}
	return payload, nil
}
