package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/roomstatus_bot/internal/availability"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/search"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
)

// RoomTitle название аудитории для пользователя: "101, ГК"
func RoomTitle(key model.RoomKey) string {
	return fmt.Sprintf("%s, %s", model.DisplayRoom(key.Room), key.Building)
}

// FormatRoomView форматирует статус аудитории в момент времени
func FormatRoomView(view *service.RoomView, date time.Time, t model.ClockTime) string {
	display := GetRoomStatusDisplay(view.Status)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚪 Аудитория %s\n", RoomTitle(view.Room.Key()))
	fmt.Fprintf(&sb, "📅 %s %s\n\n", FormatDateWithWeekday(date), t)

	switch {
	case view.Status == model.RoomStatusMarked && view.Mark != nil:
		fmt.Fprintf(&sb, "%s %s: %s\n", display.Emoji, display.Text, FormatMark(*view.Mark))
	case view.Status == model.RoomStatusBusy && view.Entry != nil:
		fmt.Fprintf(&sb, "%s %s %s\n%s\n", display.Emoji, display.Text,
			FormatTimeRange(view.Entry.Start, view.Entry.Finish), view.Description)
	default:
		fmt.Fprintf(&sb, "%s %s %s\n", display.Emoji, display.Text, view.Description)
	}

	sb.WriteString("\n")
	sb.WriteString(FormatRoomCard(view.Room))
	return sb.String()
}

// FormatMark описание ручной отметки
func FormatMark(p model.MarkPayload) string {
	parts := []string{
		fmt.Sprintf("%d %s", p.Headcount, PluralizePeople(p.Headcount)),
		NoiseText(p.Noise),
	}
	if p.Unavailable {
		parts = append(parts, "🚫 просьба не входить")
	}
	return strings.Join(parts, ", ")
}

// FormatRoomCard тип, вместимость, этаж и оборудование аудитории
func FormatRoomCard(room *model.Room) string {
	lines := []string{"🏷 " + RoomTypeName(room.Type)}
	if room.Capacity > 0 {
		lines = append(lines, fmt.Sprintf("👥 %d %s", room.Capacity, PluralizeSeats(room.Capacity)))
	}
	if room.Floor != nil {
		lines = append(lines, fmt.Sprintf("🏢 %d этаж", *room.Floor))
	}
	if len(room.Equipment) > 0 {
		lines = append(lines, "🧰 "+strings.Join(room.Equipment, ", "))
	}
	return strings.Join(lines, "\n")
}

// FormatOccupancy форматирует списки свободных и занятых аудиторий
func FormatOccupancy(building string, date time.Time, t model.ClockTime, occ *service.Occupancy) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏫 %s, %s %s\n\n", buildingTitle(building), FormatDateWithWeekday(date), t)

	fmt.Fprintf(&sb, "🟢 Свободно: %d %s\n", len(occ.Free), PluralizeRooms(len(occ.Free)))
	if len(occ.Free) > 0 {
		sb.WriteString(joinKeys(occ.Free, building))
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\n🔴 Занято: %d %s\n", len(occ.Busy), PluralizeRooms(len(occ.Busy)))
	if len(occ.Busy) > 0 {
		sb.WriteString(joinKeys(occ.Busy, building))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatPicked форматирует результат подбора аудитории
func FormatPicked(rooms []*model.Room) string {
	if len(rooms) == 0 {
		return "😔 Подходящих свободных аудиторий нет"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Подходят %d %s:\n\n", len(rooms), PluralizeRooms(len(rooms)))
	for i, r := range rooms {
		fmt.Fprintf(&sb, "%d. %s", i+1, RoomTitle(r.Key()))
		if r.Capacity > 0 {
			fmt.Fprintf(&sb, " · 👥 %d", r.Capacity)
		}
		if r.Floor != nil {
			fmt.Fprintf(&sb, " · %d эт.", *r.Floor)
		}
		if len(r.Equipment) > 0 {
			fmt.Fprintf(&sb, " · %s", strings.Join(r.Equipment, ", "))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatEntry строка занятия: время, описание и признак временного занятия
func FormatEntry(e *model.ScheduleEntry, withID bool) string {
	line := fmt.Sprintf("%s %s", FormatTimeRange(e.Start, e.Finish), e.Description)
	if e.Recurrence.IsTemporary() {
		line += " ⏳"
	}
	if withID {
		line = fmt.Sprintf("#%d %s", e.ID, line)
	}
	return line
}

// FormatEntries форматирует занятия аудитории за день
func FormatEntries(key model.RoomKey, date time.Time, entries []*model.ScheduleEntry, withIDs bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 %s, %s\n\n", RoomTitle(key), FormatDateWithWeekday(date))

	if len(entries) == 0 {
		sb.WriteString("Занятий нет")
		return sb.String()
	}

	for _, e := range entries {
		sb.WriteString(FormatEntry(e, withIDs))
		sb.WriteString("\n")
	}
	if withIDs {
		sb.WriteString("\n⏳ временное занятие")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatSearch форматирует результаты поиска по расписанию
func FormatSearch(query string, results []search.Result) string {
	if len(results) == 0 {
		return fmt.Sprintf("🔍 По запросу «%s» ничего не найдено", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 «%s»: %d %s\n\n", query, len(results), PluralizeEntries(len(results)))
	for _, r := range results {
		e := r.Entry
		fmt.Fprintf(&sb, "%s %s · %s\n", GetWeekdayShort(e.Weekday), RoomTitle(e.Key()), FormatEntry(e, false))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func buildingTitle(building string) string {
	if building == "" || building == availability.AnyBuilding {
		return "Все корпуса"
	}
	return "Корпус " + building
}

// joinKeys перечисляет аудитории; корпус пишется, только если запрос по всем корпусам
func joinKeys(keys []model.RoomKey, building string) string {
	names := make([]string, 0, len(keys))
	withBuilding := building == "" || building == availability.AnyBuilding
	for _, k := range keys {
		if withBuilding {
			names = append(names, RoomTitle(k))
		} else {
			names = append(names, model.DisplayRoom(k.Room))
		}
	}
	sep := ", "
	if withBuilding {
		sep = "; "
	}
	return strings.Join(names, sep)
}
