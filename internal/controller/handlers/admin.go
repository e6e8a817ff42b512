package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
)

// HandleCheck обрабатывает команду /check: свободна ли аудитория в интервале
func (h *Handlers) HandleCheck(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	today, _ := h.queryService.Now()
	key, date, start, finish, err := ParseCheckArgs(CommandArgs(update.Message.Text), today)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageCheck, "check")
		return
	}

	existing, err := h.scheduleService.CheckConflict(ctx, key, date, start, finish)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageCheck, "check")
		return
	}
	if existing != nil {
		h.sendMessage(ctx, b, chatID, common.ConflictMessage(&service.ConflictError{Existing: existing, Date: date}))
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Аудитория %s свободна %s, %s",
		formatting.RoomTitle(key),
		formatting.FormatDateWithWeekday(date),
		formatting.FormatTimeRange(start, finish)))
}

// HandleAdd обрабатывает команду /add: добавление занятия с проверкой пересечений
func (h *Handlers) HandleAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	today, _ := h.queryService.Now()
	req, err := ParseAddArgs(CommandArgs(update.Message.Text), today)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageAdd, "add")
		return
	}

	entries, err := h.scheduleService.Add(ctx, req)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageAdd, "add")
		return
	}

	h.logger.Info("Entries added by admin",
		zap.Int64("telegram_id", update.Message.From.ID),
		zap.String("room", model.RoomKey{Building: req.Building, Room: req.Room}.String()),
		zap.Int("count", len(entries)))

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Добавлено %d %s:\n\n", len(entries), formatting.PluralizeEntries(len(entries)))
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s %s · %s\n", formatting.GetWeekdayShort(e.Weekday), formatting.RoomTitle(e.Key()), formatting.FormatEntry(e, true))
	}
	h.sendMessage(ctx, b, chatID, strings.TrimRight(sb.String(), "\n"))
}

// HandleFind обрабатывает команду /find: занятия аудитории за дату с номерами для правки
func (h *Handlers) HandleFind(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}
	h.showEntries(ctx, b, update, true, usageFind)
}

// HandleEdit обрабатывает команду /edit: правка времени и описания занятия
func (h *Handlers) HandleEdit(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	req, err := ParseEditArgs(CommandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageEdit, "edit")
		return
	}

	updated, err := h.scheduleService.Update(ctx, req)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageEdit, "edit")
		return
	}

	h.logger.Info("Entry updated by admin",
		zap.Int64("telegram_id", update.Message.From.ID),
		zap.Int64("entry_id", updated.ID))

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Сохранено: %s, %s\n%s",
		formatting.RoomTitle(updated.Key()),
		formatting.GetWeekdayName(updated.Weekday),
		formatting.FormatEntry(updated, true)))
}

// HandleDelete обрабатывает команду /delete: показывает занятие и просит подтверждение
func (h *Handlers) HandleDelete(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	args := CommandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, "❌ Укажите номер занятия\n\nФормат:\n"+usageDelete)
		return
	}
	id, err := ParseEntryID(args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageDelete, "delete")
		return
	}

	entry, err := h.scheduleService.Get(ctx, id)
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageDelete, "delete")
		return
	}

	text := fmt.Sprintf("🗑 Удалить занятие?\n\n%s, %s\n%s",
		formatting.RoomTitle(entry.Key()),
		formatting.GetWeekdayName(entry.Weekday),
		formatting.FormatEntry(entry, true))
	// Разовые занятия добавляются по одному, у еженедельных могут быть другие дни
	grouped := entry.Recurrence.Kind != model.RecurrenceOnDates
	h.sendWithKeyboard(ctx, b, chatID, text, keyboard.DeleteEntryKeyboard(entry.ID, grouped))
}

// HandleRebuild обрабатывает команду /rebuild: пересборка реестра аудиторий по расписанию
func (h *Handlers) HandleRebuild(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	result, err := h.roomService.RebuildRegistry(ctx)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "/rebuild", "rebuild")
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Реестр пересобран: %d %s, удалено %d",
		result.Rooms, formatting.PluralizeRooms(result.Rooms), result.Removed))
}

// HandleEquipment обрабатывает команду /equipment: замена оборудования аудитории
func (h *Handlers) HandleEquipment(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	key, rest, err := ParseRoomKey(CommandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err, usageEquipment, "equipment")
		return
	}
	if len(rest) == 0 {
		h.sendError(ctx, b, chatID, "❌ Укажите оборудование: "+strings.Join(service.EquipmentOptions, ", ")+
			"\nИли «-», чтобы очистить список\n\nФормат:\n"+usageEquipment)
		return
	}

	var equipment []string
	if !(len(rest) == 1 && rest[0] == "-") {
		equipment = ParseEquipment(strings.Join(rest, " "))
	}

	if err := h.roomService.SetEquipment(ctx, key, equipment); err != nil {
		h.replyError(ctx, b, chatID, err, usageEquipment, "equipment")
		return
	}

	text := "✅ Оборудование аудитории " + formatting.RoomTitle(key) + " очищено"
	if len(equipment) > 0 {
		text = "✅ Оборудование аудитории " + formatting.RoomTitle(key) + ": " + strings.Join(equipment, ", ")
	}
	h.sendMessage(ctx, b, chatID, text)
}
