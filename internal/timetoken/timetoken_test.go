package timetoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

func dm(day, month int) model.DayMonth {
	return model.DayMonth{Day: day, Month: month}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        Tokens
	}{
		{"no tokens", "Матанализ Иванов И.И.", Tokens{}},
		{"single date", "Экзамен 14.03", Tokens{Dates: []model.DayMonth{dm(14, 3)}}},
		{"several dates", "Пересдача 14.03 21.03", Tokens{Dates: []model.DayMonth{dm(14, 3), dm(21, 3)}}},
		{"range", "Спецкурс 01.09-20.12", Tokens{Range: &Range{From: dm(1, 9), To: dm(20, 12)}}},
		{"range with spaces", "Спецкурс 01.09 - 20.12", Tokens{Range: &Range{From: dm(1, 9), To: dm(20, 12)}}},
		{"range suppresses singles", "Курс 01.09-20.12 кроме 15.10", Tokens{Range: &Range{From: dm(1, 9), To: dm(20, 12)}}},
		{"malformed token kept", "Что-то 00.00", Tokens{Dates: []model.DayMonth{dm(0, 0)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.description))
		})
	}
}

func TestRecurrence(t *testing.T) {
	assert.Equal(t, model.RecurrenceWeekly, Recurrence("Физика").Kind)

	onDates := Recurrence("Экзамен 14.03")
	assert.Equal(t, model.RecurrenceOnDates, onDates.Kind)
	assert.Equal(t, []model.DayMonth{dm(14, 3)}, onDates.Dates)

	inRange := Recurrence("Зимняя школа 28.12-05.01")
	assert.Equal(t, model.RecurrenceInRange, inRange.Kind)
	assert.Equal(t, dm(28, 12), inRange.From)
	assert.Equal(t, dm(5, 1), inRange.To)
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "Экзамен Б01-101", Strip("Экзамен 14.03 Б01-101"))
	assert.Equal(t, "Курс", Strip("Курс 01.09 - 20.12"))
	assert.Equal(t, "Лекция", Strip("Лекция"))
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, model.NewClockTime(9, 5), got)

	got, err = ParseClock(" 9:30 ")
	require.NoError(t, err)
	assert.Equal(t, "09:30", got.String())

	for _, bad := range []string{"", "24:00", "12:60", "noon", "12-30", "123:00"} {
		_, err := ParseClock(bad)
		var pErr *ParseError
		assert.ErrorAs(t, err, &pErr, bad)
	}
}

func TestParseDayMonth(t *testing.T) {
	got, err := ParseDayMonth("29.02")
	require.NoError(t, err)
	assert.Equal(t, dm(29, 2), got)

	for _, bad := range []string{"00.00", "31.04", "1.2", "14.03.2024", "abc"} {
		_, err := ParseDayMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestFindClockTimes(t *testing.T) {
	got := FindClockTimes("б01-101 09:00 и 25:00")
	assert.Equal(t, []model.ClockTime{model.NewClockTime(9, 0)}, got)
}

func TestToken(t *testing.T) {
	d, ok := Token("00.00")
	assert.True(t, ok)
	assert.Equal(t, model.DayMonth{}, d)
	assert.False(t, d.Valid())

	d, ok = Token("28.12")
	assert.True(t, ok)
	assert.Equal(t, model.DayMonth{Day: 28, Month: 12}, d)

	_, ok = Token("2.12")
	assert.False(t, ok)
}
