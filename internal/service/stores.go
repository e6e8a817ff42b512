package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/roomstatus_bot/internal/availability"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/repository"
)

// ScheduleStore хранилище записей расписания
type ScheduleStore interface {
	ListByWeekday(ctx context.Context, weekday int, building string) ([]*model.ScheduleEntry, error)
	ListByRoom(ctx context.Context, key model.RoomKey, weekday int) ([]*model.ScheduleEntry, error)
	ListAll(ctx context.Context) ([]*model.ScheduleEntry, error)
	GetByID(ctx context.Context, id int64) (*model.ScheduleEntry, error)
	InsertChecked(ctx context.Context, entries []*model.ScheduleEntry, check repository.CheckFunc) error
	UpdateChecked(ctx context.Context, entry *model.ScheduleEntry, check repository.CheckFunc) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteGroup(ctx context.Context, groupID uuid.UUID) (int64, error)
	ReplaceAll(ctx context.Context, entries []*model.ScheduleEntry) (int64, error)
	DistinctRooms(ctx context.Context) ([]model.RoomKey, error)
}

// RoomStore реестр аудиторий с текущими статусами
type RoomStore interface {
	List(ctx context.Context, building string) ([]*model.Room, error)
	Get(ctx context.Context, key model.RoomKey) (*model.Room, error)
	Update(ctx context.Context, key model.RoomKey, fn repository.UpdateFunc) (*model.Room, error)
	ReplaceRegistry(ctx context.Context, rooms []*model.Room) (int64, error)
	SetEquipment(ctx context.Context, key model.RoomKey, equipment []string) (bool, error)
}

// RoomDefaults заполняет тип, вместимость, этаж и оборудование новой аудитории
type RoomDefaults interface {
	Apply(room *model.Room)
}

// Clock текущее время в часовом поясе расписания
type Clock func() time.Time

// SystemClock часы по системному времени в поясе loc
func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func clockOf(t time.Time) model.ClockTime {
	return model.NewClockTime(t.Hour(), t.Minute())
}

// planVariant вариант плана в кэше: только данные расписания
const planVariant = "schedule"

// Planner строит и кэширует планы дня
type Planner struct {
	store ScheduleStore
	cache *availability.PlanCache
}

func NewPlanner(store ScheduleStore, cache *availability.PlanCache) *Planner {
	return &Planner{store: store, cache: cache}
}

// DayPlan возвращает занятия даты date в корпусе building.
// Записи дня недели читаются одним запросом на все аудитории.
func (p *Planner) DayPlan(ctx context.Context, date time.Time, building string) (*availability.DayPlan, error) {
	if building == "" {
		building = availability.AnyBuilding
	}
	key := availability.NewPlanKey(date, building, planVariant)
	if plan, ok := p.cache.Get(key); ok {
		return plan, nil
	}

	entries, err := p.store.ListByWeekday(ctx, model.WeekdayOf(date), building)
	if err != nil {
		return nil, fmt.Errorf("load day plan: %w", err)
	}

	plan := availability.BuildDayPlan(entries, date, building)
	p.cache.Add(key, plan)
	return plan, nil
}

// Invalidate сбрасывает кэш после изменения расписания
func (p *Planner) Invalidate() {
	p.cache.Purge()
}
