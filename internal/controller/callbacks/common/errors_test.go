package common

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/roomstate"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
)

func transition(from model.RoomStatus, action roomstate.Action) error {
	err := &roomstate.IllegalTransitionError{
		Room:   model.RoomKey{Building: "ГК", Room: "101"},
		From:   from,
		Action: action,
	}
	return fmt.Errorf("mark room: %w", err)
}

func blockedBy(description string) error {
	err := &roomstate.IllegalTransitionError{
		Room:     model.RoomKey{Building: "ГК", Room: "101"},
		From:     model.RoomStatusBusy,
		Action:   roomstate.ActionMark,
		Blocking: description,
	}
	return fmt.Errorf("mark room: %w", err)
}

func TestErrorMessageTransitions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"lecture", transition(model.RoomStatusLecture, roomstate.ActionMark), "❌ Лекционные аудитории отмечать нельзя"},
		{"busy", transition(model.RoomStatusBusy, roomstate.ActionMark), "❌ Сейчас в аудитории занятие по расписанию"},
		{"busy with class", blockedBy("Физика"), "❌ Сейчас в аудитории занятие по расписанию: Физика"},
		{"chair", transition(model.RoomStatusChair, roomstate.ActionMark), "❌ Аудиторию со статусом «Кафедральная» отмечать нельзя"},
		{"not marked", transition(model.RoomStatusFree, roomstate.ActionIncrement), "❌ Аудитория не отмечена как занятая. Обновите статус"},
		{"headcount", fmt.Errorf("mark room: %w", roomstate.ErrInvalidHeadcount), "❌ Количество человек должно быть не меньше 1"},
		{"room", service.ErrRoomNotFound, "❌ Аудитория не найдена"},
		{"unknown", errors.New("connection reset"), "❌ Произошла ошибка. Попробуйте позже."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestErrorMessageConflict(t *testing.T) {
	err := &service.ConflictError{
		Existing: &model.ScheduleEntry{
			ID: 42, Building: "ГК", Room: "!202", Weekday: 2, Description: "Физика",
			Start: model.NewClockTime(9, 0), Finish: model.NewClockTime(10, 25),
		},
		Date: time.Date(2023, time.March, 21, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "❌ Аудитория 202, ГК уже занята: 21.03 (вт), 09:00-10:25\nФизика (#42)", ErrorMessage(err))

	err.Date = time.Time{}
	assert.Contains(t, ErrorMessage(err), "уже занята: Вторник, 09:00-10:25")
}

func TestErrorMessageValidation(t *testing.T) {
	err := &service.ValidationError{Fields: map[string]string{
		"start": "время должно быть в формате ЧЧ:ММ",
		"date":  "дата уже прошла",
	}}
	assert.Equal(t, "❌ Проверьте данные:\n• Дата: дата уже прошла\n• Начало: время должно быть в формате ЧЧ:ММ", ErrorMessage(err))
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(transition(model.RoomStatusBusy, roomstate.ActionMark)))
	assert.True(t, IsUserError(fmt.Errorf("wrap: %w", service.ErrEntryNotFound)))
	assert.False(t, IsUserError(errors.New("db down")))
}
