package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrEntryNotFound = errors.New("schedule entry not found")
)

// ConflictError новое занятие пересекается с существующим
type ConflictError struct {
	Existing *model.ScheduleEntry
	Date     time.Time // дата пересечения, нулевая для бессрочных записей
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicts with entry %d (%s %s-%s)",
		e.Existing.ID, e.Existing.Key(), e.Existing.Start, e.Existing.Finish)
}

// ValidationError ошибки структурированных полей: поле -> причина
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = reason
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
