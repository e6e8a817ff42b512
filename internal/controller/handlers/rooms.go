package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

// HandleStatus обрабатывает команду /status: статус аудитории сейчас или в указанный момент
func (h *Handlers) HandleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	key, rest, err := ParseRoomKey(CommandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageStatus, "status")
		return
	}

	today, now := h.queryService.Now()
	date, t, err := ParseMoment(rest, today, now)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageStatus, "status")
		return
	}

	if date.Equal(today) && t == now {
		text, kb, err := common.BuildRoomScreen(ctx, h.queryService, key)
		if err != nil {
			h.replyError(ctx, b, chatID, err, usageStatus, "status")
			return
		}
		h.sendWithKeyboard(ctx, b, chatID, text, kb)
		return
	}

	view, err := h.queryService.StatusAt(ctx, key, date, t)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageStatus, "status")
		return
	}
	h.sendMessage(ctx, b, chatID, formatting.FormatRoomView(view, date, t))
}

// HandleFree обрабатывает команду /free: свободные и занятые аудитории корпуса
func (h *Handlers) HandleFree(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	today, now := h.queryService.Now()
	building, date, t, err := ParseBuildingAndMoment(CommandArgs(update.Message.Text), today, now)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageFree, "free")
		return
	}

	occ, err := h.queryService.FreeRooms(ctx, building, date, t)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageFree, "free")
		return
	}
	h.sendMessage(ctx, b, chatID, formatting.FormatOccupancy(building, date, t, occ))
}

// HandlePick обрабатывает команду /pick: подбор свободной аудитории по параметрам
func (h *Handlers) HandlePick(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	today, now := h.queryService.Now()
	req, err := ParsePickArgs(CommandArgs(update.Message.Text), today, now)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usagePick, "pick")
		return
	}

	rooms, err := h.queryService.FreeRoomsPicker(ctx, req)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usagePick, "pick")
		return
	}

	if len(rooms) == 0 {
		h.sendMessage(ctx, b, chatID, formatting.FormatPicked(rooms))
		return
	}

	// Первая аудитория самая подходящая: сразу даём отметить её
	best := rooms[0].Key()
	h.sendWithKeyboard(ctx, b, chatID, formatting.FormatPicked(rooms), keyboard.RoomKeyboard(best, model.RoomStatusFree))
}

// HandleToday обрабатывает команду /today: занятия аудитории за день
func (h *Handlers) HandleToday(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.showEntries(ctx, b, update, false, usageToday)
}

// HandleDay обрабатывает команду /day: все занятия корпуса за день
func (h *Handlers) HandleDay(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := CommandArgs(update.Message.Text)
	if len(args) == 0 {
		h.sendError(ctx, b, chatID, "❌ Укажите корпус\n\nФормат:\n"+usageDay)
		return
	}

	today, now := h.queryService.Now()
	date, _, err := ParseMoment(args[1:], today, now)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageDay, "day")
		return
	}

	plan, err := h.scheduleService.DayEntries(ctx, date, args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageDay, "day")
		return
	}

	keys := plan.Rooms()
	if len(keys) == 0 {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("📋 %s, %s: занятий нет", args[0], formatting.FormatDateWithWeekday(date)))
		return
	}

	blocks := make([]string, 0, len(keys))
	for _, key := range keys {
		blocks = append(blocks, formatting.FormatEntries(key, date, plan.Entries(key), false))
	}
	h.sendMessage(ctx, b, chatID, strings.Join(blocks, "\n\n"))
}

// HandleRooms обрабатывает команду /rooms: реестр аудиторий с текущими статусами
func (h *Handlers) HandleRooms(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	var building string
	if args := CommandArgs(update.Message.Text); len(args) > 0 {
		building = args[0]
	}

	rooms, err := h.roomService.ListRooms(ctx, building)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "/rooms [корпус]", "rooms")
		return
	}
	if len(rooms) == 0 {
		h.sendMessage(ctx, b, chatID, "Реестр аудиторий пуст")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏫 %d %s\n\n", len(rooms), formatting.PluralizeRooms(len(rooms)))
	for _, r := range rooms {
		display := formatting.GetRoomStatusDisplay(r.Status)
		fmt.Fprintf(&sb, "%s %s · %s\n", display.Emoji, formatting.RoomTitle(r.Key()), display.Text)
	}
	h.sendMessage(ctx, b, chatID, strings.TrimRight(sb.String(), "\n"))
}

// HandleSearch обрабатывает команду /search: поиск занятий по тексту
func (h *Handlers) HandleSearch(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	query := strings.Join(CommandArgs(update.Message.Text), " ")
	if query == "" {
		h.sendError(ctx, b, chatID, "❌ Введите текст для поиска\n\nФормат:\n"+usageSearch)
		return
	}

	results, err := h.queryService.Search(ctx, query)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageSearch, "search")
		return
	}
	h.sendMessage(ctx, b, chatID, formatting.FormatSearch(query, results))
}

// showEntries показывает занятия аудитории за дату; withIDs для администратора
func (h *Handlers) showEntries(ctx context.Context, b *bot.Bot, update *models.Update, withIDs bool, usage string) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	key, rest, err := ParseRoomKey(CommandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err, usage, "entries")
		return
	}

	today, now := h.queryService.Now()
	date, _, err := ParseMoment(rest, today, now)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usage, "entries")
		return
	}

	entries, err := h.scheduleService.FindEntries(ctx, key, date)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usage, "entries")
		return
	}
	h.sendMessage(ctx, b, chatID, formatting.FormatEntries(key, date, entries, withIDs))
}
