package keyboard

import (
	"github.com/go-telegram/bot/models"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

// RoomKeyboard кнопки под статусом аудитории. Действия зависят от статуса:
// свободную можно отметить, отмеченную можно изменить или снять.
// Возвращает nil, если данные кнопок не помещаются в callback data.
func RoomKeyboard(key model.RoomKey, status model.RoomStatus) *models.InlineKeyboardMarkup {
	refresh := callbacktypes.RoomData(callbacktypes.RoomRefresh, key)
	if !callbacktypes.FitsData(refresh) {
		return nil
	}

	kb := NewBuilder()
	switch status {
	case model.RoomStatusFree:
		kb.Row(Button("✋ Отметить занятой", callbacktypes.RoomData(callbacktypes.MarkStart, key)))
	case model.RoomStatusMarked:
		kb.Row(
			Button("➕ 1", callbacktypes.RoomData(callbacktypes.MarkInc, key)),
			Button("➖ 1", callbacktypes.RoomData(callbacktypes.MarkDec, key)),
		)
		kb.Row(Button("🚪 Снять отметку", callbacktypes.RoomData(callbacktypes.Unmark, key)))
	}
	kb.Row(Button("🔄 Обновить", refresh))
	return kb.Build()
}

// DeleteEntryKeyboard подтверждение удаления занятия
func DeleteEntryKeyboard(id int64, grouped bool) *models.InlineKeyboardMarkup {
	kb := NewBuilder().
		Row(Button("🗑 Удалить", callbacktypes.IDData(callbacktypes.DeleteEntry, id)))
	if grouped {
		kb.Row(Button("🗑 Удалить все дни", callbacktypes.IDData(callbacktypes.DeleteGroup, id)))
	}
	kb.Row(Button("❌ Отмена", callbacktypes.CancelAction))
	return kb.Build()
}
