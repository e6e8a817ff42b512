package controller

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/handlers"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/state"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
)

// dialogTTL время жизни незавершённого диалога
const dialogTTL = 15 * time.Minute

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

// NewHandlers собирает обработчики команд и callback. Нужны до создания бота:
// текст вне команд передаётся через bot.WithDefaultHandler.
func NewHandlers(
	queryService *service.QueryService,
	roomService *service.RoomService,
	scheduleService *service.ScheduleService,
	isAdmin func(telegramID int64) bool,
	logger *zap.Logger,
) (*handlers.Handlers, *callbacks.Handler) {
	stateManager := state.NewManager(0, dialogTTL)

	cmdHandlers := handlers.NewHandlers(
		queryService,
		roomService,
		scheduleService,
		stateManager,
		isAdmin,
		logger,
	)

	callbackHandler := callbacks.NewHandler(
		queryService,
		roomService,
		scheduleService,
		stateManager,
		isAdmin,
		logger,
	)

	return cmdHandlers, callbackHandler
}

func NewBotController(
	botInstance *bot.Bot,
	cmdHandlers *handlers.Handlers,
	callbackHandler *callbacks.Handler,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Команды с аргументами сопоставляются по префиксу
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypePrefix, c.handlers.HandleStatus)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/free", bot.MatchTypePrefix, c.handlers.HandleFree)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pick", bot.MatchTypePrefix, c.handlers.HandlePick)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/today", bot.MatchTypePrefix, c.handlers.HandleToday)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/day", bot.MatchTypePrefix, c.handlers.HandleDay)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/rooms", bot.MatchTypePrefix, c.handlers.HandleRooms)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/search", bot.MatchTypePrefix, c.handlers.HandleSearch)

	// Отметки
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mark", bot.MatchTypePrefix, c.handlers.HandleMark)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/plus", bot.MatchTypePrefix, c.handlers.HandlePlus)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/minus", bot.MatchTypePrefix, c.handlers.HandleMinus)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/unmark", bot.MatchTypePrefix, c.handlers.HandleUnmark)

	// Команды администраторов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/check", bot.MatchTypePrefix, c.handlers.HandleCheck)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/add", bot.MatchTypePrefix, c.handlers.HandleAdd)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/find", bot.MatchTypePrefix, c.handlers.HandleFind)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/edit", bot.MatchTypePrefix, c.handlers.HandleEdit)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delete", bot.MatchTypePrefix, c.handlers.HandleDelete)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/rebuild", bot.MatchTypeExact, c.handlers.HandleRebuild)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/equipment", bot.MatchTypePrefix, c.handlers.HandleEquipment)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "free", Description: "🟢 Свободные аудитории"},
		{Command: "status", Description: "🚪 Статус аудитории"},
		{Command: "pick", Description: "🔎 Подобрать аудиторию"},
		{Command: "mark", Description: "✋ Отметить аудиторию занятой"},
		{Command: "today", Description: "📋 Занятия аудитории за день"},
		{Command: "search", Description: "🔍 Поиск по расписанию"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
