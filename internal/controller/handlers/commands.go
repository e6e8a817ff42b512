package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/state"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := "друг"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Я подскажу, какие аудитории сейчас свободны, и помогу отметить занятую.\n\n"+
			"Основные команды:\n"+
			"/free - Свободные аудитории\n"+
			"/status - Статус аудитории\n"+
			"/pick - Подобрать аудиторию\n"+
			"/mark - Отметить аудиторию занятой\n"+
			"/help - Справка",
		name,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"Аудитории:\n" +
		usageStatus + "\n\n" +
		usageFree + "\n\n" +
		usagePick + "\n\n" +
		usageToday + "\n" +
		usageDay + "\n" +
		"/rooms [корпус] - Реестр аудиторий\n\n" +
		"Поиск по расписанию:\n" +
		usageSearch + "\n\n" +
		"Отметки:\n" +
		usageMark + "\n" +
		"/plus, /minus, /unmark <аудитория> <корпус>\n" +
		"/cancel - Отменить текущий диалог"

	if update.Message.From != nil && h.isAdmin != nil && h.isAdmin(update.Message.From.ID) {
		helpText += "\n\nАдминистрирование:\n" +
			usageCheck + "\n" +
			usageAdd + "\n" +
			usageFind + "\n" +
			usageEdit + "\n" +
			usageDelete + "\n" +
			usageEquipment + "\n" +
			"/rebuild - Пересобрать реестр аудиторий"
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Нечего отменять")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.logger.Info("Dialog cancelled", zap.Int64("telegram_id", telegramID))
	h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Отменено")
}

// HandleTextMessage обрабатывает текст вне команд: шаги диалогов
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	telegramID := update.Message.From.ID
	switch h.stateManager.GetState(telegramID) {
	case state.StateMarkHeadcount:
		h.handleMarkHeadcountStep(ctx, b, update)
	default:
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Не понимаю 🤔 Список команд: /help")
	}
}
