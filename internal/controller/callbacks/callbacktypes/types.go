package callbacktypes

import (
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/state"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
)

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) state.UserState
	SetState(telegramID int64, s state.UserState)
	SetData(telegramID int64, key string, value any)
	GetData(telegramID int64, key string) (any, bool)
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	QueryService    *service.QueryService
	RoomService     *service.RoomService
	ScheduleService *service.ScheduleService
	StateManager    StateManager
	IsAdmin         func(telegramID int64) bool
	Logger          *zap.Logger
}
