package rooms

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/state"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

// HandleRefresh перерисовывает статус аудитории на текущий момент
func HandleRefresh(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withRoom(ctx, b, callback, h, callbacktypes.RoomRefresh, func(hc *common.HandlerContext, key model.RoomKey) {
		if err := redraw(hc, key); err != nil {
			common.HandleError(hc, err, "refresh_room")
			return
		}
		hc.Answer("🔄 Обновлено")
	})
}

// HandleMarkStart начинает диалог отметки: спрашивает количество человек
func HandleMarkStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withRoom(ctx, b, callback, h, callbacktypes.MarkStart, func(hc *common.HandlerContext, key model.RoomKey) {
		today, err := h.RoomService.TodayEvents(hc.Ctx, key)
		if err != nil {
			common.HandleError(hc, err, "mark_start")
			return
		}

		hc.SetState(state.StateMarkHeadcount)
		hc.SetData(state.DataBuilding, key.Building)
		hc.SetData(state.DataRoom, key.Room)

		if err := hc.SendMessage(common.MarkPrompt(key, today), nil); err != nil {
			h.Logger.Error("Failed to send mark prompt", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleIncrement добавляет человека к отметке
func HandleIncrement(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withRoom(ctx, b, callback, h, callbacktypes.MarkInc, func(hc *common.HandlerContext, key model.RoomKey) {
		if _, err := h.RoomService.IncrementMark(hc.Ctx, key); err != nil {
			common.HandleError(hc, err, "increment_mark")
			return
		}
		redrawAndAnswer(hc, key, "➕ Вас стало больше")
	})
}

// HandleDecrement убирает человека из отметки
func HandleDecrement(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withRoom(ctx, b, callback, h, callbacktypes.MarkDec, func(hc *common.HandlerContext, key model.RoomKey) {
		room, err := h.RoomService.DecrementMark(hc.Ctx, key)
		if err != nil {
			common.HandleError(hc, err, "decrement_mark")
			return
		}
		answer := "➖ Вас стало меньше"
		if room.Status != model.RoomStatusMarked {
			answer = "🚪 Аудитория свободна"
		}
		redrawAndAnswer(hc, key, answer)
	})
}

// HandleUnmark снимает отметку
func HandleUnmark(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withRoom(ctx, b, callback, h, callbacktypes.Unmark, func(hc *common.HandlerContext, key model.RoomKey) {
		if _, err := h.RoomService.Unmark(hc.Ctx, key); err != nil {
			common.HandleError(hc, err, "unmark")
			return
		}
		redrawAndAnswer(hc, key, "🚪 Отметка снята")
	})
}

// withRoom разбирает аудиторию из callback data
func withRoom(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	prefix string,
	handler func(hc *common.HandlerContext, key model.RoomKey),
) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		key, err := callbacktypes.ParseRoomData(callback.Data, prefix)
		if err != nil {
			common.HandleError(hc, err, "parse_callback")
			return
		}
		handler(hc, key)
	})
}

func redraw(hc *common.HandlerContext, key model.RoomKey) error {
	text, kb, err := common.BuildRoomScreen(hc.Ctx, hc.Handler.QueryService, key)
	if err != nil {
		return err
	}
	return hc.EditMessage(text, kb)
}

func redrawAndAnswer(hc *common.HandlerContext, key model.RoomKey, answer string) {
	if err := redraw(hc, key); err != nil {
		hc.Handler.Logger.Error("Failed to redraw room screen",
			zap.String("room", key.String()),
			zap.Error(err))
	}
	hc.Answer(answer)
}
