package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/availability"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/roomstate"
)

// EquipmentOptions допустимое оборудование аудиторий
var EquipmentOptions = []string{"меловая доска", "проектор", "электронная доска"}

// RebuildResult итог пересборки реестра
type RebuildResult struct {
	Rooms   int
	Removed int64
}

type RoomService struct {
	rooms    RoomStore
	schedule ScheduleStore
	planner  *Planner
	calc     *availability.Calculator
	defaults RoomDefaults
	locks    *roomstate.Locks
	now      Clock
	logger   *zap.Logger
}

func NewRoomService(
	rooms RoomStore,
	schedule ScheduleStore,
	planner *Planner,
	calc *availability.Calculator,
	defaults RoomDefaults,
	now Clock,
	logger *zap.Logger,
) *RoomService {
	return &RoomService{
		rooms:    rooms,
		schedule: schedule,
		planner:  planner,
		calc:     calc,
		defaults: defaults,
		locks:    roomstate.NewLocks(),
		now:      now,
		logger:   logger,
	}
}

// Room возвращает аудиторию из реестра
func (s *RoomService) Room(ctx context.Context, key model.RoomKey) (*model.Room, error) {
	room, err := s.rooms.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// ListRooms возвращает аудитории корпуса
func (s *RoomService) ListRooms(ctx context.Context, building string) ([]*model.Room, error) {
	rooms, err := s.rooms.List(ctx, building)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// TodayEvents возвращает сегодняшние занятия аудитории
func (s *RoomService) TodayEvents(ctx context.Context, key model.RoomKey) ([]*model.ScheduleEntry, error) {
	plan, err := s.planner.DayPlan(ctx, dateOf(s.now()), key.Building)
	if err != nil {
		return nil, err
	}
	return plan.Entries(key), nil
}

// Mark ставит ручную отметку "занято". Перед проверкой статус аудитории
// сверяется с расписанием, чтобы нельзя было отметить идущее занятие.
func (s *RoomService) Mark(ctx context.Context, key model.RoomKey, payload model.MarkPayload) (*model.Room, error) {
	schedule, err := s.scheduleStatus(ctx, key)
	if err != nil {
		return nil, err
	}

	room, err := s.update(ctx, key, func(room *model.Room) (bool, error) {
		roomstate.Refresh(room, schedule)
		if err := roomstate.Mark(room, payload); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("mark room: %w", err)
	}

	s.logger.Info("Room marked",
		zap.String("room", key.String()),
		zap.Int("headcount", payload.Headcount),
	)
	return room, nil
}

// IncrementMark добавляет человека к отметке
func (s *RoomService) IncrementMark(ctx context.Context, key model.RoomKey) (*model.Room, error) {
	room, err := s.update(ctx, key, func(room *model.Room) (bool, error) {
		if err := roomstate.Increment(room); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("increment mark: %w", err)
	}
	return room, nil
}

// DecrementMark убирает человека из отметки; последний снимает её
func (s *RoomService) DecrementMark(ctx context.Context, key model.RoomKey) (*model.Room, error) {
	free, err := s.freeDescription(ctx, key)
	if err != nil {
		return nil, err
	}

	var unmarked bool
	room, err := s.update(ctx, key, func(room *model.Room) (bool, error) {
		var err error
		unmarked, err = roomstate.Decrement(room, free)
		if err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("decrement mark: %w", err)
	}

	if unmarked {
		s.logger.Info("Room unmarked by last person", zap.String("room", key.String()))
	}
	return room, nil
}

// Unmark снимает отметку, описание считается по расписанию
func (s *RoomService) Unmark(ctx context.Context, key model.RoomKey) (*model.Room, error) {
	free, err := s.freeDescription(ctx, key)
	if err != nil {
		return nil, err
	}

	room, err := s.update(ctx, key, func(room *model.Room) (bool, error) {
		if err := roomstate.Unmark(room, free); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("unmark room: %w", err)
	}

	s.logger.Info("Room unmarked", zap.String("room", key.String()))
	return room, nil
}

// Refresh пересчитывает статус аудитории по расписанию
func (s *RoomService) Refresh(ctx context.Context, key model.RoomKey) (*model.Room, error) {
	now := s.now()
	plan, err := s.planner.DayPlan(ctx, dateOf(now), key.Building)
	if err != nil {
		return nil, err
	}

	room, _, err := s.refreshRoom(ctx, key, plan, clockOf(now))
	return room, err
}

// RefreshAll пересчитывает статусы всех аудиторий.
// Ошибка одной аудитории не прерывает обход остальных.
func (s *RoomService) RefreshAll(ctx context.Context) (int, error) {
	runID := uuid.New()
	now := s.now()

	plan, err := s.planner.DayPlan(ctx, dateOf(now), availability.AnyBuilding)
	if err != nil {
		return 0, err
	}
	rooms, err := s.rooms.List(ctx, availability.AnyBuilding)
	if err != nil {
		return 0, fmt.Errorf("list rooms: %w", err)
	}

	var (
		changed int
		errs    []error
	)
	for _, r := range rooms {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		_, ok, err := s.refreshRoom(ctx, r.Key(), plan, clockOf(now))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			changed++
		}
	}

	s.logger.Info("Room statuses refreshed",
		zap.String("run_id", runID.String()),
		zap.Int("rooms", len(rooms)),
		zap.Int("changed", changed),
		zap.Int("failed", len(errs)),
	)
	return changed, errors.Join(errs...)
}

// RebuildRegistry пересобирает реестр из пар (корпус, аудитория) расписания.
// Аудитории, которых больше нет в расписании, удаляются; у оставшихся
// сохраняются отметки и оборудование.
func (s *RoomService) RebuildRegistry(ctx context.Context) (RebuildResult, error) {
	keys, err := s.schedule.DistinctRooms(ctx)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("distinct rooms: %w", err)
	}

	rooms := make([]*model.Room, 0, len(keys))
	for _, key := range keys {
		room := &model.Room{
			Building: key.Building,
			Room:     key.Room,
			Type:     model.DefaultRoomType(key.Room),
		}
		if s.defaults != nil {
			s.defaults.Apply(room)
		}
		room.Status = model.IdleStatus(room.Type)
		rooms = append(rooms, room)
	}

	removed, err := s.rooms.ReplaceRegistry(ctx, rooms)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("replace registry: %w", err)
	}

	s.logger.Info("Room registry rebuilt",
		zap.Int("rooms", len(rooms)),
		zap.Int64("removed", removed),
	)

	if _, err := s.RefreshAll(ctx); err != nil {
		s.logger.Warn("Refresh after rebuild failed", zap.Error(err))
	}
	return RebuildResult{Rooms: len(rooms), Removed: removed}, nil
}

// SetEquipment заменяет оборудование аудитории
func (s *RoomService) SetEquipment(ctx context.Context, key model.RoomKey, equipment []string) error {
	var verr ValidationError
	for _, item := range equipment {
		if !containsString(EquipmentOptions, item) {
			verr.add("equipment", fmt.Sprintf("неизвестное оборудование %q", item))
		}
	}
	if err := verr.orNil(); err != nil {
		return err
	}

	ok, err := s.rooms.SetEquipment(ctx, key, equipment)
	if err != nil {
		return fmt.Errorf("set equipment: %w", err)
	}
	if !ok {
		return ErrRoomNotFound
	}
	return nil
}

// update выполняет переход под мьютексом аудитории и блокировкой строки
func (s *RoomService) update(ctx context.Context, key model.RoomKey, fn func(room *model.Room) (bool, error)) (*model.Room, error) {
	unlock := s.locks.Lock(key)
	defer unlock()

	room, err := s.rooms.Update(ctx, key, fn)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// refreshRoom применяет статус по расписанию к текущему состоянию строки.
// Отметка, поставленная после чтения плана, видна внутри блокировки и не теряется.
func (s *RoomService) refreshRoom(ctx context.Context, key model.RoomKey, plan *availability.DayPlan, t model.ClockTime) (*model.Room, bool, error) {
	schedule := s.calc.RefreshStatusAt(plan.Entries(key), plan.Date, t)

	var changed bool
	room, err := s.update(ctx, key, func(room *model.Room) (bool, error) {
		changed = roomstate.Refresh(room, schedule)
		return changed, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("refresh room %s: %w", key, err)
	}
	return room, changed, nil
}

// scheduleStatus статус по расписанию с округлением начала, как при периодическом обновлении
func (s *RoomService) scheduleStatus(ctx context.Context, key model.RoomKey) (availability.Status, error) {
	now := s.now()
	plan, err := s.planner.DayPlan(ctx, dateOf(now), key.Building)
	if err != nil {
		return availability.Status{}, err
	}
	return s.calc.RefreshStatusAt(plan.Entries(key), plan.Date, clockOf(now)), nil
}

func (s *RoomService) freeDescription(ctx context.Context, key model.RoomKey) (string, error) {
	now := s.now()
	plan, err := s.planner.DayPlan(ctx, dateOf(now), key.Building)
	if err != nil {
		return "", err
	}
	return s.calc.FreeDescription(plan.Entries(key), plan.Date, clockOf(now)), nil
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
