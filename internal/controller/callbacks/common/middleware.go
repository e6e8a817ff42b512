package common

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/callbacktypes"
)

// WithContext создаёт HandlerContext и передаёт его в handler
func WithContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	handler(NewHandlerContext(ctx, b, callback, h))
}

// WithAdmin создаёт HandlerContext и проверяет что пользователь администратор.
// При ошибке автоматически отвечает пользователю.
func WithAdmin(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAdmin(); err != nil {
		h.Logger.Warn("Admin check failed",
			zap.Int64("telegram_id", hc.TelegramID))
		hc.AnswerAlert(ErrorMessage(err))
		return
	}

	handler(hc)
}

// HandleError обрабатывает ошибку и отправляет ответ пользователю.
// Ожидаемые отказы (конфликт, недопустимый переход) логируются как Info.
func HandleError(hc *HandlerContext, err error, operation string) {
	if IsUserError(err) {
		hc.Handler.Logger.Info("Operation rejected",
			zap.String("operation", operation),
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	} else {
		hc.Handler.Logger.Error("Operation failed",
			zap.String("operation", operation),
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
	hc.AnswerAlert(ErrorMessage(err))
}
