package formatting

import "github.com/Freeeeeet/roomstatus_bot/internal/model"

// RoomStatusDisplay представляет отображение статуса аудитории
type RoomStatusDisplay struct {
	Emoji string
	Text  string
}

// GetRoomStatusDisplay возвращает emoji и текст для статуса аудитории
func GetRoomStatusDisplay(status model.RoomStatus) RoomStatusDisplay {
	displays := map[model.RoomStatus]RoomStatusDisplay{
		model.RoomStatusFree:     {"🟢", "Свободно"},
		model.RoomStatusBusy:     {"🔴", "Занятие"},
		model.RoomStatusLecture:  {"🎓", "Лекционная"},
		model.RoomStatusChair:    {"🏛", "Кафедральная"},
		model.RoomStatusComputer: {"💻", "Компьютерная"},
		model.RoomStatusMarked:   {"🟠", "Занято"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return RoomStatusDisplay{"❓", "Неизвестно"}
}

// RoomTypeName название типа аудитории
func RoomTypeName(t model.RoomType) string {
	names := map[model.RoomType]string{
		model.RoomTypeLecture:  "лекционная",
		model.RoomTypeSeminar:  "семинарская",
		model.RoomTypeChair:    "кафедральная",
		model.RoomTypeLab:      "лаборатория",
		model.RoomTypeComputer: "компьютерный класс",
	}
	if name, ok := names[t]; ok {
		return name
	}
	return string(t)
}

// NoiseText описание уровня шума в отметке
func NoiseText(noise model.NoiseLevel) string {
	if noise == model.NoiseLoud {
		return "🔊 шумно"
	}
	return "🤫 тихо"
}
