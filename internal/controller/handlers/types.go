package handlers

import (
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/state"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	queryService    *service.QueryService
	roomService     *service.RoomService
	scheduleService *service.ScheduleService
	stateManager    *state.Manager
	isAdmin         func(telegramID int64) bool
	logger          *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	queryService *service.QueryService,
	roomService *service.RoomService,
	scheduleService *service.ScheduleService,
	stateManager *state.Manager,
	isAdmin func(telegramID int64) bool,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		queryService:    queryService,
		roomService:     roomService,
		scheduleService: scheduleService,
		stateManager:    stateManager,
		isAdmin:         isAdmin,
		logger:          logger,
	}
}
