package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
)

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	queryService *service.QueryService,
	roomService *service.RoomService,
	scheduleService *service.ScheduleService,
	stateManager callbacktypes.StateManager,
	isAdmin func(telegramID int64) bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Handler: &callbacktypes.Handler{
			QueryService:    queryService,
			RoomService:     roomService,
			ScheduleService: scheduleService,
			StateManager:    stateManager,
			IsAdmin:         isAdmin,
			Logger:          logger,
		},
	}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery

	h.Logger.Info("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	Route(ctx, b, callback, h.Handler)
}
