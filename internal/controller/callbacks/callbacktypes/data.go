package callbacktypes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

// Форматы callback data
const (
	RoomRefresh = "room_refresh:" // room_refresh:ГК|101
	MarkStart   = "mark_start:"   // mark_start:ГК|101
	MarkInc     = "mark_inc:"     // mark_inc:ГК|101
	MarkDec     = "mark_dec:"     // mark_dec:ГК|101
	Unmark      = "unmark:"       // unmark:ГК|101

	DeleteEntry  = "delete_entry:"  // delete_entry:123
	DeleteGroup  = "delete_group:"  // delete_group:123
	CancelAction = "cancel_action"
)

// MaxDataLength ограничение Telegram на callback data в байтах
const MaxDataLength = 64

const roomSeparator = "|"

// ErrInvalidData callback data не соответствует формату
var ErrInvalidData = errors.New("invalid callback data")

// RoomData кодирует аудиторию в callback data с префиксом
func RoomData(prefix string, key model.RoomKey) string {
	return prefix + key.Building + roomSeparator + key.Room
}

// ParseRoomData извлекает аудиторию из callback data
// Например: "mark_inc:ГК|101" -> {ГК 101}
func ParseRoomData(data, prefix string) (model.RoomKey, error) {
	rest, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return model.RoomKey{}, fmt.Errorf("%w: %q", ErrInvalidData, data)
	}
	building, room, ok := strings.Cut(rest, roomSeparator)
	if !ok || building == "" || room == "" {
		return model.RoomKey{}, fmt.Errorf("%w: %q", ErrInvalidData, data)
	}
	return model.RoomKey{Building: building, Room: room}, nil
}

// IDData кодирует ID занятия в callback data
func IDData(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

// ParseIDData извлекает ID из callback data
// Например: "delete_entry:123" -> 123
func ParseIDData(data, prefix string) (int64, error) {
	rest, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidData, data)
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidData, data)
	}
	return id, nil
}

// FitsData проверяет, что callback data укладывается в ограничение Telegram
func FitsData(data string) bool {
	return len(data) <= MaxDataLength
}
