package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/availability"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/roomstate"
	"github.com/Freeeeeet/roomstatus_bot/internal/search"
)

// RoomView статус аудитории в момент времени
type RoomView struct {
	Room        *model.Room
	Status      model.RoomStatus
	Description string
	Entry       *model.ScheduleEntry // текущее занятие, если аудитория занята по расписанию
	Mark        *model.MarkPayload   // ручная отметка, только для текущего момента
}

// Occupancy разбиение аудиторий корпуса на свободные и занятые
type Occupancy struct {
	Free []model.RoomKey
	Busy []model.RoomKey
}

// PickRequest параметры подбора свободной аудитории
type PickRequest struct {
	Building    string
	Type        model.RoomType
	Date        time.Time
	Time        model.ClockTime
	MinCapacity int
	Equipment   []string
	Floor       *int
}

type QueryService struct {
	schedule    ScheduleStore
	rooms       RoomStore
	planner     *Planner
	calc        *availability.Calculator
	now         Clock
	searchLimit int
	logger      *zap.Logger
}

func NewQueryService(
	schedule ScheduleStore,
	rooms RoomStore,
	planner *Planner,
	calc *availability.Calculator,
	now Clock,
	searchLimit int,
	logger *zap.Logger,
) *QueryService {
	return &QueryService{
		schedule:    schedule,
		rooms:       rooms,
		planner:     planner,
		calc:        calc,
		now:         now,
		searchLimit: searchLimit,
		logger:      logger,
	}
}

// StatusAt статус аудитории в дату date и время t.
// Ручная отметка учитывается только для текущего момента и читается из реестра напрямую.
func (s *QueryService) StatusAt(ctx context.Context, key model.RoomKey, date time.Time, t model.ClockTime) (*RoomView, error) {
	room, err := s.rooms.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	date = dateOf(date)
	plan, err := s.planner.DayPlan(ctx, date, key.Building)
	if err != nil {
		return nil, err
	}
	st := s.calc.StatusAt(plan.Entries(key), date, t)

	view := &RoomView{Room: room, Description: st.Description, Entry: st.Entry}
	switch {
	case st.Busy:
		view.Status = model.RoomStatusBusy
	case s.isNow(date, t) && room.Status == model.RoomStatusMarked:
		view.Status = model.RoomStatusMarked
		if payload, err := roomstate.Payload(room); err == nil {
			view.Mark = &payload
		} else {
			s.logger.Warn("Corrupt mark payload", zap.String("room", key.String()), zap.Error(err))
		}
	default:
		view.Status = model.IdleStatus(room.Type)
	}

	return view, nil
}

// FreeRooms делит аудитории корпуса на свободные и занятые в дату date и время t.
// Для текущего момента отмеченные аудитории считаются занятыми.
func (s *QueryService) FreeRooms(ctx context.Context, building string, date time.Time, t model.ClockTime) (*Occupancy, error) {
	rooms, err := s.rooms.List(ctx, building)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return s.occupancy(ctx, rooms, building, dateOf(date), t)
}

// FreeRoomsPicker подбирает свободные аудитории по типу, вместимости и оборудованию.
// Первой идёт самая маленькая подходящая аудитория.
func (s *QueryService) FreeRoomsPicker(ctx context.Context, req PickRequest) ([]*model.Room, error) {
	rooms, err := s.rooms.List(ctx, req.Building)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	occ, err := s.occupancy(ctx, rooms, req.Building, dateOf(req.Date), req.Time)
	if err != nil {
		return nil, err
	}

	free := make(map[model.RoomKey]bool, len(occ.Free))
	for _, key := range occ.Free {
		free[key] = true
	}

	return availability.Pick(rooms, free, availability.PickerCriteria{
		Building:    req.Building,
		Type:        req.Type,
		MinCapacity: req.MinCapacity,
		Equipment:   req.Equipment,
		Floor:       req.Floor,
	}), nil
}

// Search ищет занятия по свободному тексту
func (s *QueryService) Search(ctx context.Context, query string) ([]search.Result, error) {
	entries, err := s.schedule.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := search.Rank(query, entries, s.now())
	if s.searchLimit > 0 && len(results) > s.searchLimit {
		results = results[:s.searchLimit]
	}
	return results, nil
}

// Now текущие дата и время расписания
func (s *QueryService) Now() (time.Time, model.ClockTime) {
	now := s.now()
	return dateOf(now), clockOf(now)
}

func (s *QueryService) occupancy(ctx context.Context, rooms []*model.Room, building string, date time.Time, t model.ClockTime) (*Occupancy, error) {
	plan, err := s.planner.DayPlan(ctx, date, building)
	if err != nil {
		return nil, err
	}

	keys := make([]model.RoomKey, 0, len(rooms))
	marked := make(map[model.RoomKey]bool)
	live := s.isNow(date, t)
	for _, r := range rooms {
		keys = append(keys, r.Key())
		if live && r.Status == model.RoomStatusMarked {
			marked[r.Key()] = true
		}
	}

	free, busy := availability.Partition(keys, plan, t)
	occ := &Occupancy{Busy: busy}
	for _, key := range free {
		if marked[key] {
			occ.Busy = append(occ.Busy, key)
		} else {
			occ.Free = append(occ.Free, key)
		}
	}
	availability.SortKeys(occ.Busy)
	return occ, nil
}

// isNow запрос про текущие дату и время с точностью до минуты
func (s *QueryService) isNow(date time.Time, t model.ClockTime) bool {
	now := s.now()
	return dateOf(now).Equal(dateOf(date)) && clockOf(now) == t
}
