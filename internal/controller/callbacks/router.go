package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/rooms"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	switch {
	// ===== Статус и отметки =====
	case strings.HasPrefix(data, callbacktypes.RoomRefresh):
		rooms.HandleRefresh(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.MarkStart):
		rooms.HandleMarkStart(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.MarkInc):
		rooms.HandleIncrement(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.MarkDec):
		rooms.HandleDecrement(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.Unmark):
		rooms.HandleUnmark(ctx, b, callback, h)

	// ===== Администрирование расписания =====
	case strings.HasPrefix(data, callbacktypes.DeleteEntry):
		admin.HandleDeleteEntry(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.DeleteGroup):
		admin.HandleDeleteGroup(ctx, b, callback, h)
	case data == callbacktypes.CancelAction:
		admin.HandleCancel(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❓ Неизвестное действие")
	}
}
