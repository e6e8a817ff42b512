package formatting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/search"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
)

var tuesday = time.Date(2023, time.March, 14, 0, 0, 0, 0, time.UTC)

func TestGetRoomStatusDisplay(t *testing.T) {
	tests := []struct {
		status model.RoomStatus
		text   string
	}{
		{model.RoomStatusFree, "Свободно"},
		{model.RoomStatusBusy, "Занятие"},
		{model.RoomStatusLecture, "Лекционная"},
		{model.RoomStatusChair, "Кафедральная"},
		{model.RoomStatusComputer, "Компьютерная"},
		{model.RoomStatusMarked, "Занято"},
		{model.RoomStatus("???"), "Неизвестно"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.text, GetRoomStatusDisplay(tt.status).Text, tt.status)
	}
}

func TestPluralizePeople(t *testing.T) {
	assert.Equal(t, "человек", PluralizePeople(1))
	assert.Equal(t, "человека", PluralizePeople(3))
	assert.Equal(t, "человек", PluralizePeople(11))
	assert.Equal(t, "человека", PluralizePeople(22))
	assert.Equal(t, "аудитория", PluralizeRooms(21))
	assert.Equal(t, "аудиторий", PluralizeRooms(12))
	assert.Equal(t, "занятия", PluralizeEntries(4))
}

func TestFormatMark(t *testing.T) {
	assert.Equal(t, "3 человека, 🤫 тихо",
		FormatMark(model.MarkPayload{Headcount: 3, Noise: model.NoiseSilent}))
	assert.Equal(t, "5 человек, 🔊 шумно, 🚫 просьба не входить",
		FormatMark(model.MarkPayload{Headcount: 5, Noise: model.NoiseLoud, Unavailable: true}))
}

func TestFormatEntry(t *testing.T) {
	e := &model.ScheduleEntry{
		ID:          7,
		Description: "Физика 14.03",
		Start:       model.NewClockTime(9, 0),
		Finish:      model.NewClockTime(10, 25),
		Recurrence:  model.Recurrence{Kind: model.RecurrenceOnDates},
	}
	assert.Equal(t, "09:00-10:25 Физика 14.03 ⏳", FormatEntry(e, false))
	assert.Equal(t, "#7 09:00-10:25 Физика 14.03 ⏳", FormatEntry(e, true))

	e.Recurrence = model.Weekly()
	assert.Equal(t, "09:00-10:25 Физика 14.03", FormatEntry(e, false))
}

func TestFormatOccupancy(t *testing.T) {
	occ := &service.Occupancy{
		Free: []model.RoomKey{{Building: "ГК", Room: "101"}, {Building: "ГК", Room: "!202"}},
		Busy: []model.RoomKey{{Building: "ГК", Room: "305"}},
	}
	got := FormatOccupancy("ГК", tuesday, model.NewClockTime(9, 30), occ)

	assert.Contains(t, got, "Корпус ГК, 14.03 (вт) 09:30")
	assert.Contains(t, got, "Свободно: 2 аудитории\n101, 202")
	assert.Contains(t, got, "Занято: 1 аудитория\n305")

	got = FormatOccupancy("any", tuesday, model.NewClockTime(9, 30), occ)
	assert.Contains(t, got, "Все корпуса")
	assert.Contains(t, got, "101, ГК; 202, ГК")
}

func TestFormatRoomView(t *testing.T) {
	floor := 3
	room := &model.Room{Building: "ГК", Room: "101", Type: model.RoomTypeSeminar, Capacity: 24, Floor: &floor}

	view := &service.RoomView{
		Room:   room,
		Status: model.RoomStatusMarked,
		Mark:   &model.MarkPayload{Headcount: 2, Noise: model.NoiseSilent},
	}
	got := FormatRoomView(view, tuesday, model.NewClockTime(11, 0))
	assert.Contains(t, got, "Аудитория 101, ГК")
	assert.Contains(t, got, "🟠 Занято: 2 человека, 🤫 тихо")
	assert.Contains(t, got, "👥 24 места")
	assert.Contains(t, got, "🏢 3 этаж")

	view = &service.RoomView{
		Room:        room,
		Status:      model.RoomStatusBusy,
		Description: "Физика",
		Entry:       &model.ScheduleEntry{Start: model.NewClockTime(10, 45), Finish: model.NewClockTime(12, 10)},
	}
	got = FormatRoomView(view, tuesday, model.NewClockTime(11, 0))
	assert.Contains(t, got, "🔴 Занятие 10:45-12:10\nФизика")

	view = &service.RoomView{Room: room, Status: model.RoomStatusFree, Description: "до 13:45"}
	got = FormatRoomView(view, tuesday, model.NewClockTime(12, 10))
	assert.Contains(t, got, "🟢 Свободно до 13:45")
}

func TestFormatSearch(t *testing.T) {
	assert.Equal(t, "🔍 По запросу «химия» ничего не найдено", FormatSearch("химия", nil))

	results := []search.Result{{
		Entry: &model.ScheduleEntry{
			Building: "ГК", Room: "101", Weekday: 2, Description: "Физика",
			Start: model.NewClockTime(9, 0), Finish: model.NewClockTime(10, 25),
			Recurrence: model.Weekly(),
		},
		Score: 2,
	}}
	assert.Equal(t, "🔍 «физика»: 1 занятие\n\nвт 101, ГК · 09:00-10:25 Физика", FormatSearch("физика", results))
}
