package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Отметка аудитории: ждём количество человек и флаги
	StateMarkHeadcount UserState = "mark_headcount"
)

// Ключи данных диалога
const (
	DataBuilding = "building"
	DataRoom     = "room"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]any
}
