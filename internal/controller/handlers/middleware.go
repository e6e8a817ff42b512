package handlers

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common"
)

// requireAdmin проверяет что команду отправил администратор
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}

	telegramID := update.Message.From.ID
	if h.isAdmin == nil || !h.isAdmin(telegramID) {
		h.logger.Warn("Admin command rejected",
			zap.Int64("telegram_id", telegramID),
			zap.String("text", update.Message.Text))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrNotAdmin))
		return false
	}
	return true
}

// replyError отвечает на ошибку: неверные аргументы с подсказкой формата,
// остальные через общий преобразователь ошибок
func (h *Handlers) replyError(ctx context.Context, b *bot.Bot, chatID int64, err error, usage, operation string) {
	var argErr *ArgError
	if errors.As(err, &argErr) {
		h.sendError(ctx, b, chatID, "❌ "+argErr.Msg+"\n\nФормат:\n"+usage)
		return
	}

	if common.IsUserError(err) {
		h.logger.Info("Command rejected",
			zap.String("operation", operation),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	} else {
		h.logger.Error("Command failed",
			zap.String("operation", operation),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	h.sendError(ctx, b, chatID, common.ErrorMessage(err))
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendWithKeyboard(ctx, b, chatID, text, nil)
}

// sendWithKeyboard отправляет сообщение с inline клавиатурой
func (h *Handlers) sendWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   clip(text),
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	_, err := b.SendMessage(ctx, params)
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// clip обрезает текст до ограничения Telegram
func clip(text string) string {
	if utf8.RuneCountInString(text) <= maxMessageLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxMessageLength-1]) + "…"
}
