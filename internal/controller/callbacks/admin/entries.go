package admin

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common/formatting"
)

// HandleDeleteEntry удаляет одно занятие после подтверждения
func HandleDeleteEntry(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := callbacktypes.ParseIDData(callback.Data, callbacktypes.DeleteEntry)
		if err != nil {
			common.HandleError(hc, err, "parse_callback")
			return
		}

		entry, err := h.ScheduleService.Get(hc.Ctx, id)
		if err != nil {
			common.HandleError(hc, err, "delete_entry")
			return
		}
		if err := h.ScheduleService.Delete(hc.Ctx, id); err != nil {
			common.HandleError(hc, err, "delete_entry")
			return
		}

		h.Logger.Info("Entry deleted by admin",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Int64("entry_id", id))

		text := fmt.Sprintf("🗑 Удалено: %s, %s\n%s",
			formatting.RoomTitle(entry.Key()),
			formatting.GetWeekdayName(entry.Weekday),
			formatting.FormatEntry(entry, true))
		if err := hc.EditMessage(text, nil); err != nil {
			h.Logger.Error("Failed to edit message", zap.Error(err))
		}
		hc.Answer("🗑 Удалено")
	})
}

// HandleDeleteGroup удаляет занятие во все дни, добавленные вместе с ним
func HandleDeleteGroup(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := callbacktypes.ParseIDData(callback.Data, callbacktypes.DeleteGroup)
		if err != nil {
			common.HandleError(hc, err, "parse_callback")
			return
		}

		n, err := h.ScheduleService.DeleteGroup(hc.Ctx, id)
		if err != nil {
			common.HandleError(hc, err, "delete_group")
			return
		}

		h.Logger.Info("Entry group deleted by admin",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Int64("entry_id", id),
			zap.Int64("rows", n))

		text := fmt.Sprintf("🗑 Удалено %d %s", n, formatting.PluralizeEntries(int(n)))
		if err := hc.EditMessage(text, nil); err != nil {
			h.Logger.Error("Failed to edit message", zap.Error(err))
		}
		hc.Answer("🗑 Удалено")
	})
}

// HandleCancel отменяет действие и очищает диалог
func HandleCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		if err := hc.EditMessage("❌ Отменено", nil); err != nil {
			h.Logger.Error("Failed to edit message", zap.Error(err))
		}
		hc.Answer("")
	})
}
