package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/availability"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/repository"
	"github.com/Freeeeeet/roomstatus_bot/internal/timetoken"
)

// fakeSchedule хранилище расписания в памяти
type fakeSchedule struct {
	mu      sync.Mutex
	entries []*model.ScheduleEntry
	nextID  int64
	reads   int
}

func (f *fakeSchedule) add(entries ...*model.ScheduleEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range entries {
		f.nextID++
		e.ID = f.nextID
		f.entries = append(f.entries, e)
	}
}

func (f *fakeSchedule) filter(match func(e *model.ScheduleEntry) bool) []*model.ScheduleEntry {
	var out []*model.ScheduleEntry
	for _, e := range f.entries {
		if match(e) {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}

func (f *fakeSchedule) ListByWeekday(_ context.Context, weekday int, building string) ([]*model.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.filter(func(e *model.ScheduleEntry) bool {
		return e.Weekday == weekday && availability.MatchesBuilding(building, e.Building)
	}), nil
}

func (f *fakeSchedule) ListByRoom(_ context.Context, key model.RoomKey, weekday int) ([]*model.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(e *model.ScheduleEntry) bool {
		return e.Key() == key && (weekday == 0 || e.Weekday == weekday)
	}), nil
}

func (f *fakeSchedule) ListAll(context.Context) ([]*model.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(*model.ScheduleEntry) bool { return true }), nil
}

func (f *fakeSchedule) GetByID(_ context.Context, id int64) (*model.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	found := f.filter(func(e *model.ScheduleEntry) bool { return e.ID == id })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (f *fakeSchedule) InsertChecked(_ context.Context, entries []*model.ScheduleEntry, check repository.CheckFunc) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := entries[0].Key()
	existing := f.filter(func(e *model.ScheduleEntry) bool { return e.Key() == key })
	if err := check(existing); err != nil {
		return err
	}
	for _, e := range entries {
		f.nextID++
		e.ID = f.nextID
		c := *e
		f.entries = append(f.entries, &c)
	}
	return nil
}

func (f *fakeSchedule) UpdateChecked(_ context.Context, entry *model.ScheduleEntry, check repository.CheckFunc) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := entry.Key()
	existing := f.filter(func(e *model.ScheduleEntry) bool { return e.Key() == key })
	if err := check(existing); err != nil {
		return false, err
	}
	for i, e := range f.entries {
		if e.ID == entry.ID {
			c := *entry
			f.entries[i] = &c
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSchedule) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSchedule) DeleteGroup(_ context.Context, groupID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	var n int64
	for _, e := range f.entries {
		if e.GroupID == groupID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return n, nil
}

func (f *fakeSchedule) ReplaceAll(_ context.Context, entries []*model.ScheduleEntry) (int64, error) {
	f.mu.Lock()
	f.entries = nil
	f.mu.Unlock()
	f.add(entries...)
	return int64(len(entries)), nil
}

func (f *fakeSchedule) DistinctRooms(context.Context) ([]model.RoomKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[model.RoomKey]bool)
	var keys []model.RoomKey
	for _, e := range f.entries {
		if !seen[e.Key()] {
			seen[e.Key()] = true
			keys = append(keys, e.Key())
		}
	}
	availability.SortKeys(keys)
	return keys, nil
}

// fakeRooms реестр в памяти. Update не держит мьютекс во время fn,
// поэтому от гонок защищает только блокировка сервиса.
type fakeRooms struct {
	mu    sync.Mutex
	rooms map[model.RoomKey]*model.Room
}

func newFakeRooms(rooms ...*model.Room) *fakeRooms {
	f := &fakeRooms{rooms: make(map[model.RoomKey]*model.Room)}
	for _, r := range rooms {
		f.rooms[r.Key()] = r
	}
	return f
}

func (f *fakeRooms) List(_ context.Context, building string) ([]*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Room
	for _, r := range f.rooms {
		if availability.MatchesBuilding(building, r.Building) {
			c := *r
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Building != out[j].Building {
			return out[i].Building < out[j].Building
		}
		return out[i].Room < out[j].Room
	})
	return out, nil
}

func (f *fakeRooms) Get(_ context.Context, key model.RoomKey) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[key]
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}

func (f *fakeRooms) Update(ctx context.Context, key model.RoomKey, fn repository.UpdateFunc) (*model.Room, error) {
	room, _ := f.Get(ctx, key)
	if room == nil {
		return nil, nil
	}

	time.Sleep(time.Microsecond)
	changed, err := fn(room)
	if err != nil {
		return nil, err
	}
	if !changed {
		return room, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	room.Version++
	c := *room
	f.rooms[key] = &c
	return room, nil
}

func (f *fakeRooms) ReplaceRegistry(_ context.Context, rooms []*model.Room) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := make(map[model.RoomKey]*model.Room, len(rooms))
	for _, r := range rooms {
		c := *r
		if old, ok := f.rooms[r.Key()]; ok {
			c.Status = old.Status
			c.StatusDescription = old.StatusDescription
			if len(old.Equipment) > 0 {
				c.Equipment = old.Equipment
			}
		}
		next[r.Key()] = &c
	}
	removed := int64(0)
	for key := range f.rooms {
		if _, ok := next[key]; !ok {
			removed++
		}
	}
	f.rooms = next
	return removed, nil
}

func (f *fakeRooms) SetEquipment(_ context.Context, key model.RoomKey, equipment []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[key]
	if !ok {
		return false, nil
	}
	r.Equipment = equipment
	return true, nil
}

// fixedClock вторник 14.03.2023
func fixedClock(hour, minute int) Clock {
	return func() time.Time {
		return time.Date(2023, time.March, 14, hour, minute, 0, 0, time.UTC)
	}
}

type env struct {
	schedule *fakeSchedule
	rooms    *fakeRooms
	planner  *Planner
	calc     *availability.Calculator
	sched    *ScheduleService
	roomSvc  *RoomService
	query    *QueryService
}

func newEnv(t *testing.T, clock Clock, rooms ...*model.Room) *env {
	t.Helper()
	logger := zap.NewNop()

	e := &env{
		schedule: &fakeSchedule{},
		rooms:    newFakeRooms(rooms...),
		calc:     availability.NewCalculator(nil),
	}
	e.planner = NewPlanner(e.schedule, availability.NewPlanCache(16, time.Hour))
	e.sched = NewScheduleService(e.schedule, e.planner, clock, logger)
	e.roomSvc = NewRoomService(e.rooms, e.schedule, e.planner, e.calc, nil, clock, logger)
	e.query = NewQueryService(e.schedule, e.rooms, e.planner, e.calc, clock, 25, logger)
	return e
}

func entry(building, room string, weekday int, start, finish, description string) *model.ScheduleEntry {
	s, err := timetoken.ParseClock(start)
	if err != nil {
		panic(err)
	}
	f, err := timetoken.ParseClock(finish)
	if err != nil {
		panic(err)
	}
	return &model.ScheduleEntry{
		Building:    building,
		Room:        room,
		Weekday:     weekday,
		Start:       s,
		Finish:      f,
		Description: description,
		Recurrence:  timetoken.Recurrence(description),
	}
}

func seminar(building, room string, capacity int, equipment ...string) *model.Room {
	return &model.Room{
		Building:  building,
		Room:      room,
		Type:      model.RoomTypeSeminar,
		Capacity:  capacity,
		Equipment: equipment,
		Status:    model.RoomStatusFree,
	}
}

func clock(s string) model.ClockTime {
	t, err := timetoken.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return t
}

func date(day int, month time.Month) time.Time {
	return time.Date(2023, month, day, 0, 0, 0, 0, time.UTC)
}
