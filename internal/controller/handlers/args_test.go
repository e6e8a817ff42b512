package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
)

// вторник
var today = time.Date(2023, time.March, 14, 0, 0, 0, 0, time.UTC)

func day(d int, m time.Month, y int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, []string{"101", "ГК"}, CommandArgs("/status@roombot  101 ГК "))
	assert.Empty(t, CommandArgs("/free"))
	assert.Nil(t, CommandArgs(""))
}

func TestParseRoomKey(t *testing.T) {
	key, rest, err := ParseRoomKey([]string{"!202", "ГК", "14.03"})
	require.NoError(t, err)
	assert.Equal(t, model.RoomKey{Building: "ГК", Room: "!202"}, key)
	assert.Equal(t, []string{"14.03"}, rest)

	_, _, err = ParseRoomKey([]string{"101"})
	var argErr *ArgError
	assert.ErrorAs(t, err, &argErr)
}

func TestResolveDate(t *testing.T) {
	got, err := ResolveDate(model.DayMonth{Day: 1, Month: 2}, today, false)
	require.NoError(t, err)
	assert.Equal(t, day(1, time.February, 2023), got)

	got, err = ResolveDate(model.DayMonth{Day: 1, Month: 2}, today, true)
	require.NoError(t, err)
	assert.Equal(t, day(1, time.February, 2024), got)

	got, err = ResolveDate(model.DayMonth{Day: 14, Month: 3}, today, true)
	require.NoError(t, err)
	assert.Equal(t, today, got, "сегодняшняя дата не переносится")

	_, err = ResolveDate(model.DayMonth{Day: 29, Month: 2}, today, false)
	assert.Error(t, err, "2023 не високосный")
}

func TestParseMoment(t *testing.T) {
	now := model.NewClockTime(9, 30)

	date, tm, err := ParseMoment(nil, today, now)
	require.NoError(t, err)
	assert.Equal(t, today, date)
	assert.Equal(t, now, tm)

	date, tm, err = ParseMoment([]string{"13:45", "21.03"}, today, now)
	require.NoError(t, err)
	assert.Equal(t, day(21, time.March, 2023), date)
	assert.Equal(t, model.NewClockTime(13, 45), tm)

	_, _, err = ParseMoment([]string{"завтра"}, today, now)
	assert.Error(t, err)
}

func TestParseBuildingAndMoment(t *testing.T) {
	now := model.NewClockTime(9, 30)

	building, date, tm, err := ParseBuildingAndMoment([]string{"ГК", "10:45"}, today, now)
	require.NoError(t, err)
	assert.Equal(t, "ГК", building)
	assert.Equal(t, today, date)
	assert.Equal(t, model.NewClockTime(10, 45), tm)

	building, _, _, err = ParseBuildingAndMoment([]string{"15.03"}, today, now)
	require.NoError(t, err)
	assert.Equal(t, "any", building)
}

func TestParseMarkArgs(t *testing.T) {
	tests := []struct {
		args []string
		want model.MarkPayload
	}{
		{[]string{"3"}, model.MarkPayload{Headcount: 3, Noise: model.NoiseSilent}},
		{[]string{"2", "шумно"}, model.MarkPayload{Headcount: 2, Noise: model.NoiseLoud}},
		{[]string{"1", "не", "входить", "тихо"}, model.MarkPayload{Headcount: 1, Noise: model.NoiseSilent, Unavailable: true}},
		{[]string{"5", "Громко", "не_входить"}, model.MarkPayload{Headcount: 5, Noise: model.NoiseLoud, Unavailable: true}},
	}
	for _, tt := range tests {
		got, err := ParseMarkArgs(tt.args)
		require.NoError(t, err, tt.args)
		assert.Equal(t, tt.want, got, tt.args)
	}

	for _, args := range [][]string{nil, {"0"}, {"много"}, {"2", "весело"}, {"2", "не"}} {
		_, err := ParseMarkArgs(args)
		assert.Error(t, err, args)
	}
}

func TestParsePickArgs(t *testing.T) {
	now := model.NewClockTime(9, 30)

	req, err := ParsePickArgs([]string{"ГК", "семинарская", "20", "этаж=3", "проектор,", "меловая", "доска"}, today, now)
	require.NoError(t, err)
	assert.Equal(t, "ГК", req.Building)
	assert.Equal(t, model.RoomTypeSeminar, req.Type)
	assert.Equal(t, 20, req.MinCapacity)
	require.NotNil(t, req.Floor)
	assert.Equal(t, 3, *req.Floor)
	assert.Equal(t, []string{"проектор", "меловая доска"}, req.Equipment)
	assert.Equal(t, now, req.Time)

	req, err = ParsePickArgs([]string{"any", "любая", "0"}, today, now)
	require.NoError(t, err)
	assert.Equal(t, model.RoomType(""), req.Type)
	assert.Nil(t, req.Floor)
	assert.Empty(t, req.Equipment)

	_, err = ParsePickArgs([]string{"ГК", "бассейн", "10"}, today, now)
	assert.Error(t, err)
	_, err = ParsePickArgs([]string{"ГК", "любая"}, today, now)
	assert.Error(t, err)
}

func TestParseWeekdays(t *testing.T) {
	days, ok := ParseWeekdays("пн,ЧТ")
	require.True(t, ok)
	assert.Equal(t, []int{1, 4}, days)

	_, ok = ParseWeekdays("09:00")
	assert.False(t, ok)
}

func TestParseAddArgsOnce(t *testing.T) {
	req, err := ParseAddArgs([]string{"101", "ГК", "21.03", "09:00", "10:25", "Консультация", "по", "физике"}, today)
	require.NoError(t, err)
	assert.Equal(t, service.AddRequest{
		Building:    "ГК",
		Room:        "101",
		Description: "Консультация по физике",
		Start:       "09:00",
		Finish:      "10:25",
		Mode:        service.AddOnce,
		Date:        day(21, time.March, 2023),
	}, req)
}

func TestParseAddArgsUntilWithDays(t *testing.T) {
	req, err := ParseAddArgs([]string{"101", "ГК", "20.12-20.01", "пн,ср", "09:00", "10:25", "Практикум"}, today)
	require.NoError(t, err)
	assert.Equal(t, service.AddWeeklyUntil, req.Mode)
	assert.Equal(t, day(20, time.December, 2023), req.Date)
	assert.Equal(t, day(20, time.January, 2024), req.Until, "переход через Новый год")
	assert.Equal(t, []int{1, 3}, req.Weekdays)
}

func TestParseAddArgsForever(t *testing.T) {
	req, err := ParseAddArgs([]string{"101", "ГК", "всегда", "чт,пт", "13:55", "15:20", "Семинар"}, today)
	require.NoError(t, err)
	assert.Equal(t, service.AddForever, req.Mode)
	assert.Equal(t, day(16, time.March, 2023), req.Date, "ближайший четверг")
	assert.Equal(t, []int{5}, req.Weekdays)

	_, err = ParseAddArgs([]string{"101", "ГК", "всегда", "13:55", "15:20", "Семинар"}, today)
	assert.Error(t, err, "без дней недели")
}

func TestParseAddArgsInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"101", "ГК", "21.03", "09:00", "10:25"},
		{"101", "ГК", "32.03", "09:00", "10:25", "x"},
		{"101", "ГК", "21.03-99.99", "09:00", "10:25", "x"},
	} {
		_, err := ParseAddArgs(args, today)
		assert.Error(t, err, args)
	}
}

func TestParseEditArgs(t *testing.T) {
	req, err := ParseEditArgs([]string{"#12", "09:00", "10:25", "Физика", "(лаб.)"})
	require.NoError(t, err)
	assert.Equal(t, service.UpdateRequest{ID: 12, Start: "09:00", Finish: "10:25", Description: "Физика (лаб.)"}, req)

	_, err = ParseEditArgs([]string{"abc", "09:00", "10:25", "x"})
	assert.Error(t, err)
}

func TestParseCheckArgs(t *testing.T) {
	key, date, start, finish, err := ParseCheckArgs([]string{"101", "ГК", "21.03", "09:00", "10:25"}, today)
	require.NoError(t, err)
	assert.Equal(t, model.RoomKey{Building: "ГК", Room: "101"}, key)
	assert.Equal(t, day(21, time.March, 2023), date)
	assert.Equal(t, model.NewClockTime(9, 0), start)
	assert.Equal(t, model.NewClockTime(10, 25), finish)

	_, _, _, _, err = ParseCheckArgs([]string{"101", "ГК", "21.03", "10:25", "09:00"}, today)
	assert.Error(t, err)
}

func TestParseEquipment(t *testing.T) {
	assert.Equal(t, []string{"проектор", "электронная доска"}, ParseEquipment(" Проектор ,электронная   доска,"))
	assert.Nil(t, ParseEquipment(""))
}
