package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/roomstate"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage = errors.New("no message in callback")
	ErrNotAdmin  = errors.New("user is not an admin")
)

// fieldNames названия полей формы для сообщений об ошибках
var fieldNames = map[string]string{
	"building":  "Корпус",
	"room":      "Аудитория",
	"start":     "Начало",
	"finish":    "Окончание",
	"date":      "Дата",
	"until":     "Дата окончания",
	"mode":      "Повторение",
	"weekdays":  "Дни недели",
	"equipment": "Оборудование",
}

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var (
		conflict   *service.ConflictError
		validation *service.ValidationError
		transition *roomstate.IllegalTransitionError
	)

	switch {
	case errors.As(err, &conflict):
		return ConflictMessage(conflict)
	case errors.As(err, &validation):
		return ValidationMessage(validation)
	case errors.As(err, &transition):
		return TransitionMessage(transition)
	case errors.Is(err, roomstate.ErrInvalidHeadcount):
		return "❌ Количество человек должно быть не меньше 1"
	case errors.Is(err, service.ErrRoomNotFound):
		return "❌ Аудитория не найдена"
	case errors.Is(err, service.ErrEntryNotFound):
		return "❌ Занятие не найдено"
	case errors.Is(err, ErrNotAdmin):
		return "❌ Эта команда доступна только администраторам"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, callbacktypes.ErrInvalidData):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// ConflictMessage называет занятие, с которым пересекается новое
func ConflictMessage(e *service.ConflictError) string {
	ex := e.Existing
	when := formatting.GetWeekdayName(ex.Weekday)
	if !e.Date.IsZero() {
		when = formatting.FormatDateWithWeekday(e.Date)
	}
	return fmt.Sprintf("❌ Аудитория %s уже занята: %s, %s\n%s (#%d)",
		formatting.RoomTitle(ex.Key()),
		when,
		formatting.FormatTimeRange(ex.Start, ex.Finish),
		ex.Description,
		ex.ID,
	)
}

// ValidationMessage перечисляет ошибки полей по одной на строку
func ValidationMessage(e *service.ValidationError) string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	lines := []string{"❌ Проверьте данные:"}
	for _, f := range fields {
		name, ok := fieldNames[f]
		if !ok {
			name = f
		}
		lines = append(lines, fmt.Sprintf("• %s: %s", name, e.Fields[f]))
	}
	return strings.Join(lines, "\n")
}

// TransitionMessage объясняет, почему действие с отметкой невозможно
func TransitionMessage(e *roomstate.IllegalTransitionError) string {
	if e.Action != roomstate.ActionMark {
		return "❌ Аудитория не отмечена как занятая. Обновите статус"
	}

	switch e.From {
	case model.RoomStatusLecture:
		return "❌ Лекционные аудитории отмечать нельзя"
	case model.RoomStatusBusy:
		if e.Blocking != "" {
			return "❌ Сейчас в аудитории занятие по расписанию: " + e.Blocking
		}
		return "❌ Сейчас в аудитории занятие по расписанию"
	case model.RoomStatusMarked:
		return "❌ Аудитория уже отмечена. Нажмите ➕ 1, чтобы присоединиться"
	default:
		display := formatting.GetRoomStatusDisplay(e.From)
		return fmt.Sprintf("❌ Аудиторию со статусом «%s» отмечать нельзя", display.Text)
	}
}

// IsUserError сообщает, что ошибка вызвана действием пользователя, а не сбоем
func IsUserError(err error) bool {
	var (
		conflict   *service.ConflictError
		validation *service.ValidationError
	)
	return errors.As(err, &conflict) ||
		errors.As(err, &validation) ||
		errors.Is(err, roomstate.ErrIllegalTransition) ||
		errors.Is(err, roomstate.ErrInvalidHeadcount) ||
		errors.Is(err, service.ErrRoomNotFound) ||
		errors.Is(err, service.ErrEntryNotFound) ||
		errors.Is(err, ErrNotAdmin) ||
		errors.Is(err, callbacktypes.ErrInvalidData)
}
