package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/state"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

// HandleMark обрабатывает команду /mark. Без количества человек начинает диалог.
func (h *Handlers) HandleMark(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	key, rest, err := ParseRoomKey(CommandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageMark, "mark")
		return
	}

	if len(rest) == 0 {
		today, err := h.roomService.TodayEvents(ctx, key)
		if err != nil {
			h.replyError(ctx, b, chatID, err, usageMark, "mark")
			return
		}

		h.stateManager.SetState(telegramID, state.StateMarkHeadcount)
		h.stateManager.SetData(telegramID, state.DataBuilding, key.Building)
		h.stateManager.SetData(telegramID, state.DataRoom, key.Room)

		h.logger.Info("Mark dialog started",
			zap.Int64("telegram_id", telegramID),
			zap.String("room", key.String()))
		h.sendMessage(ctx, b, chatID, common.MarkPrompt(key, today))
		return
	}

	payload, err := ParseMarkArgs(rest)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageMark, "mark")
		return
	}
	h.mark(ctx, b, chatID, key, payload)
}

// handleMarkHeadcountStep обрабатывает ответ с количеством человек в диалоге отметки
func (h *Handlers) handleMarkHeadcountStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	building, okBuilding := h.stateManager.GetString(telegramID, state.DataBuilding)
	room, okRoom := h.stateManager.GetString(telegramID, state.DataRoom)
	if !okBuilding || !okRoom {
		h.logger.Warn("Mark dialog without room", zap.Int64("telegram_id", telegramID))
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ Диалог устарел. Начните заново: "+usageMark)
		return
	}

	payload, err := ParseMarkArgs(strings.Fields(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ "+err.Error()+"\n\nПопробуйте ещё раз или /cancel")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.mark(ctx, b, chatID, model.RoomKey{Building: building, Room: room}, payload)
}

func (h *Handlers) mark(ctx context.Context, b *bot.Bot, chatID int64, key model.RoomKey, payload model.MarkPayload) {
	if _, err := h.roomService.Mark(ctx, key, payload); err != nil {
		h.replyError(ctx, b, chatID, err, usageMark, "mark")
		return
	}
	h.sendRoomScreen(ctx, b, chatID, key, "✅ Аудитория отмечена\n\n")
}

// HandlePlus обрабатывает команду /plus: +1 человек к отметке
func (h *Handlers) HandlePlus(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.changeMark(ctx, b, update, "plus", func(ctx context.Context, key model.RoomKey) (*model.Room, error) {
		return h.roomService.IncrementMark(ctx, key)
	})
}

// HandleMinus обрабатывает команду /minus: -1 человек, последний снимает отметку
func (h *Handlers) HandleMinus(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.changeMark(ctx, b, update, "minus", func(ctx context.Context, key model.RoomKey) (*model.Room, error) {
		return h.roomService.DecrementMark(ctx, key)
	})
}

// HandleUnmark обрабатывает команду /unmark: снять отметку
func (h *Handlers) HandleUnmark(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.changeMark(ctx, b, update, "unmark", func(ctx context.Context, key model.RoomKey) (*model.Room, error) {
		return h.roomService.Unmark(ctx, key)
	})
}

func (h *Handlers) changeMark(
	ctx context.Context,
	b *bot.Bot,
	update *models.Update,
	operation string,
	apply func(ctx context.Context, key model.RoomKey) (*model.Room, error),
) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	key, _, err := ParseRoomKey(CommandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageRoom, operation)
		return
	}

	if _, err := apply(ctx, key); err != nil {
		h.replyError(ctx, b, chatID, err, usageRoom, operation)
		return
	}
	h.sendRoomScreen(ctx, b, chatID, key, "")
}

// sendRoomScreen отправляет текущий статус аудитории с кнопками
func (h *Handlers) sendRoomScreen(ctx context.Context, b *bot.Bot, chatID int64, key model.RoomKey, header string) {
	text, kb, err := common.BuildRoomScreen(ctx, h.queryService, key)
	if err != nil {
		h.logger.Error("Failed to build room screen",
			zap.String("room", key.String()),
			zap.Error(err))
		h.sendMessage(ctx, b, chatID, header+"Статус обновится через /status")
		return
	}
	h.sendWithKeyboard(ctx, b, chatID, header+text, kb)
}
