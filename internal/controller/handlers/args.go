package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/roomstatus_bot/internal/availability"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
	"github.com/Freeeeeet/roomstatus_bot/internal/timetoken"
)

// ArgError неверные аргументы команды, текст показывается пользователю
type ArgError struct {
	Msg string
}

func (e *ArgError) Error() string {
	return e.Msg
}

func argErrorf(format string, args ...any) error {
	return &ArgError{Msg: fmt.Sprintf(format, args...)}
}

// CommandArgs аргументы команды без самой команды
// Например: "/status@bot 101 ГК" -> ["101", "ГК"]
func CommandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// ParseRoomKey разбирает "<аудитория> <корпус>" из начала аргументов
func ParseRoomKey(args []string) (model.RoomKey, []string, error) {
	if len(args) < 2 {
		return model.RoomKey{}, nil, argErrorf("укажите аудиторию и корпус")
	}
	return model.RoomKey{Room: args[0], Building: args[1]}, args[2:], nil
}

// ResolveDate переносит DD.MM на год даты today. С rollForward прошедшая
// дата относится к следующему году.
func ResolveDate(dm model.DayMonth, today time.Time, rollForward bool) (time.Time, error) {
	year := today.Year()
	if rollForward && dm.Before(model.DayMonthOf(today)) {
		year++
	}

	date := time.Date(year, time.Month(dm.Month), dm.Day, 0, 0, 0, 0, today.Location())
	if date.Day() != dm.Day {
		return time.Time{}, argErrorf("даты %s нет в %d году", dm, year)
	}
	return date, nil
}

// ParseMoment разбирает необязательные "[ДД.ММ] [ЧЧ:ММ]". Без даты берётся
// today, без времени now. Лишние аргументы считаются ошибкой.
func ParseMoment(args []string, today time.Time, now model.ClockTime) (time.Time, model.ClockTime, error) {
	date, t := today, now
	for _, arg := range args {
		if dm, err := timetoken.ParseDayMonth(arg); err == nil {
			resolved, err := ResolveDate(dm, today, false)
			if err != nil {
				return time.Time{}, 0, err
			}
			date = resolved
			continue
		}
		if ct, err := timetoken.ParseClock(arg); err == nil {
			t = ct
			continue
		}
		return time.Time{}, 0, argErrorf("не понимаю %q: ожидается дата ДД.ММ или время ЧЧ:ММ", arg)
	}
	return date, t, nil
}

// ParseBuildingAndMoment разбирает "[корпус] [ДД.ММ] [ЧЧ:ММ]" для /free
func ParseBuildingAndMoment(args []string, today time.Time, now model.ClockTime) (string, time.Time, model.ClockTime, error) {
	building := availability.AnyBuilding
	if len(args) > 0 && !looksLikeMoment(args[0]) {
		building = args[0]
		args = args[1:]
	}
	date, t, err := ParseMoment(args, today, now)
	return building, date, t, err
}

func looksLikeMoment(arg string) bool {
	if _, err := timetoken.ParseDayMonth(arg); err == nil {
		return true
	}
	_, err := timetoken.ParseClock(arg)
	return err == nil
}

// ParseMarkArgs разбирает "<кол-во> [шумно|тихо] [не входить]"
func ParseMarkArgs(args []string) (model.MarkPayload, error) {
	if len(args) == 0 {
		return model.MarkPayload{}, argErrorf("укажите, сколько вас человек")
	}

	headcount, err := strconv.Atoi(args[0])
	if err != nil || headcount < 1 {
		return model.MarkPayload{}, argErrorf("количество человек должно быть целым числом больше нуля")
	}

	payload := model.MarkPayload{Headcount: headcount, Noise: model.NoiseSilent}
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		switch word := strings.ToLower(rest[i]); word {
		case "шумно", "громко":
			payload.Noise = model.NoiseLoud
		case "тихо":
			payload.Noise = model.NoiseSilent
		case "не_входить", "невходить":
			payload.Unavailable = true
		case "не":
			if i+1 < len(rest) && strings.ToLower(rest[i+1]) == "входить" {
				payload.Unavailable = true
				i++
				continue
			}
			return model.MarkPayload{}, argErrorf("не понимаю %q", word)
		default:
			return model.MarkPayload{}, argErrorf("не понимаю %q", word)
		}
	}
	return payload, nil
}

// roomTypes названия типов аудиторий в командах
var roomTypes = map[string]model.RoomType{
	"любая":        "",
	"any":          "",
	"лекционная":   model.RoomTypeLecture,
	"семинарская":  model.RoomTypeSeminar,
	"кафедральная": model.RoomTypeChair,
	"лаборатория":  model.RoomTypeLab,
	"компьютерная": model.RoomTypeComputer,
}

// ParsePickArgs разбирает "<корпус|any> <тип|любая> <мест> [этаж=N] [оборудование через запятую]"
func ParsePickArgs(args []string, today time.Time, now model.ClockTime) (service.PickRequest, error) {
	if len(args) < 3 {
		return service.PickRequest{}, argErrorf("укажите корпус, тип аудитории и количество мест")
	}

	roomType, ok := roomTypes[strings.ToLower(args[1])]
	if !ok {
		if t := model.RoomType(strings.ToLower(args[1])); t.Valid() {
			roomType = t
		} else {
			return service.PickRequest{}, argErrorf("неизвестный тип аудитории %q", args[1])
		}
	}

	capacity, err := strconv.Atoi(args[2])
	if err != nil || capacity < 0 {
		return service.PickRequest{}, argErrorf("количество мест должно быть целым числом")
	}

	req := service.PickRequest{
		Building:    args[0],
		Type:        roomType,
		Date:        today,
		Time:        now,
		MinCapacity: capacity,
	}

	var equipment []string
	for _, arg := range args[3:] {
		if v, ok := strings.CutPrefix(strings.ToLower(arg), "этаж="); ok {
			floor, err := strconv.Atoi(v)
			if err != nil {
				return service.PickRequest{}, argErrorf("этаж должен быть числом")
			}
			req.Floor = &floor
			continue
		}
		equipment = append(equipment, arg)
	}
	req.Equipment = ParseEquipment(strings.Join(equipment, " "))
	return req, nil
}

// ParseEquipment разбирает список оборудования через запятую
func ParseEquipment(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.ToLower(strings.Join(strings.Fields(item), " "))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseWeekdays разбирает список дней недели "пн,чт" в номера (понедельник = 1)
func ParseWeekdays(s string) ([]int, bool) {
	var out []int
	for _, item := range strings.Split(strings.ToLower(s), ",") {
		wd := weekdayNumber(item)
		if wd == 0 {
			return nil, false
		}
		out = append(out, wd)
	}
	return out, len(out) > 0
}

func weekdayNumber(s string) int {
	for i := 1; i <= 7; i++ {
		if model.WeekdayShort[i] == s {
			return i
		}
	}
	return 0
}

// ParseAddArgs разбирает "/add <аудитория> <корпус> <когда> [дни] <начало> <конец> <описание>".
// когда: ДД.ММ (один раз), ДД.ММ-ДД.ММ (еженедельно до даты), всегда (еженедельно без ограничения).
func ParseAddArgs(args []string, today time.Time) (service.AddRequest, error) {
	key, rest, err := ParseRoomKey(args)
	if err != nil {
		return service.AddRequest{}, err
	}
	if len(rest) < 4 {
		return service.AddRequest{}, argErrorf("укажите дату, время начала, время окончания и описание")
	}

	req := service.AddRequest{Building: key.Building, Room: key.Room}
	when := strings.ToLower(rest[0])
	rest = rest[1:]

	var weekdays []int
	if days, ok := ParseWeekdays(rest[0]); ok {
		weekdays = days
		rest = rest[1:]
	}
	if len(rest) < 3 {
		return service.AddRequest{}, argErrorf("укажите время начала, время окончания и описание")
	}
	req.Start, req.Finish = rest[0], rest[1]
	req.Description = strings.Join(rest[2:], " ")

	switch {
	case when == "всегда":
		if len(weekdays) == 0 {
			return service.AddRequest{}, argErrorf("для еженедельного занятия укажите дни недели, например пн,чт")
		}
		req.Mode = service.AddForever
		req.Date = nextWeekday(today, weekdays[0])
		req.Weekdays = weekdays[1:]
	case strings.Contains(when, "-"):
		from, until, _ := strings.Cut(when, "-")
		fromDM, err := timetoken.ParseDayMonth(from)
		if err != nil {
			return service.AddRequest{}, argErrorf("неверная дата начала %q", from)
		}
		untilDM, err := timetoken.ParseDayMonth(until)
		if err != nil {
			return service.AddRequest{}, argErrorf("неверная дата окончания %q", until)
		}
		if req.Date, err = ResolveDate(fromDM, today, true); err != nil {
			return service.AddRequest{}, err
		}
		if req.Until, err = ResolveDate(untilDM, req.Date, true); err != nil {
			return service.AddRequest{}, err
		}
		req.Mode = service.AddWeeklyUntil
		req.Weekdays = weekdays
	default:
		dm, err := timetoken.ParseDayMonth(when)
		if err != nil {
			return service.AddRequest{}, argErrorf("неверная дата %q: ожидается ДД.ММ, ДД.ММ-ДД.ММ или «всегда»", when)
		}
		if req.Date, err = ResolveDate(dm, today, true); err != nil {
			return service.AddRequest{}, err
		}
		req.Mode = service.AddOnce
	}
	return req, nil
}

// nextWeekday ближайшая дата не раньше from с днём недели weekday
func nextWeekday(from time.Time, weekday int) time.Time {
	shift := (weekday - model.WeekdayOf(from) + 7) % 7
	return from.AddDate(0, 0, shift)
}

// ParseEditArgs разбирает "/edit <id> <начало> <конец> <описание>"
func ParseEditArgs(args []string) (service.UpdateRequest, error) {
	if len(args) < 4 {
		return service.UpdateRequest{}, argErrorf("укажите номер занятия, время начала, время окончания и описание")
	}
	id, err := ParseEntryID(args[0])
	if err != nil {
		return service.UpdateRequest{}, err
	}
	return service.UpdateRequest{
		ID:          id,
		Start:       args[1],
		Finish:      args[2],
		Description: strings.Join(args[3:], " "),
	}, nil
}

// ParseEntryID разбирает номер занятия "#12" или "12"
func ParseEntryID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, argErrorf("неверный номер занятия %q", s)
	}
	return id, nil
}

// ParseCheckArgs разбирает "/check <аудитория> <корпус> <ДД.ММ> <начало> <конец>"
func ParseCheckArgs(args []string, today time.Time) (model.RoomKey, time.Time, model.ClockTime, model.ClockTime, error) {
	key, rest, err := ParseRoomKey(args)
	if err != nil {
		return model.RoomKey{}, time.Time{}, 0, 0, err
	}
	if len(rest) != 3 {
		return model.RoomKey{}, time.Time{}, 0, 0, argErrorf("укажите дату, время начала и время окончания")
	}

	dm, err := timetoken.ParseDayMonth(rest[0])
	if err != nil {
		return model.RoomKey{}, time.Time{}, 0, 0, argErrorf("неверная дата %q", rest[0])
	}
	date, err := ResolveDate(dm, today, true)
	if err != nil {
		return model.RoomKey{}, time.Time{}, 0, 0, err
	}

	start, err := timetoken.ParseClock(rest[1])
	if err != nil {
		return model.RoomKey{}, time.Time{}, 0, 0, argErrorf("неверное время %q", rest[1])
	}
	finish, err := timetoken.ParseClock(rest[2])
	if err != nil {
		return model.RoomKey{}, time.Time{}, 0, 0, argErrorf("неверное время %q", rest[2])
	}
	if start >= finish {
		return model.RoomKey{}, time.Time{}, 0, 0, argErrorf("окончание должно быть позже начала")
	}
	return key, date, start, finish, nil
}
