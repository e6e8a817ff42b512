package common

import (
	"context"

	"github.com/go-telegram/bot/models"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
)

// BuildRoomScreen формирует экран текущего статуса аудитории с кнопками действий
func BuildRoomScreen(ctx context.Context, query *service.QueryService, key model.RoomKey) (string, *models.InlineKeyboardMarkup, error) {
	date, now := query.Now()
	view, err := query.StatusAt(ctx, key, date, now)
	if err != nil {
		return "", nil, err
	}
	return formatting.FormatRoomView(view, date, now), keyboard.RoomKeyboard(key, view.Status), nil
}

// MarkPrompt текст запроса количества человек для отметки
func MarkPrompt(key model.RoomKey, today []*model.ScheduleEntry) string {
	text := "✋ Отметка аудитории " + formatting.RoomTitle(key) + "\n\n"
	if len(today) > 0 {
		text += "Сегодня в аудитории:\n"
		for _, e := range today {
			text += formatting.FormatEntry(e, false) + "\n"
		}
		text += "\n"
	}
	return text +
		"Сколько вас человек? Можно добавить «шумно» и «не входить».\n" +
		"Например: 3 шумно\n\n" +
		"Для отмены используйте /cancel"
}
