package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/timetoken"
)

var (
	tuesday14 = time.Date(2023, time.March, 14, 0, 0, 0, 0, time.UTC)
	tuesday21 = time.Date(2023, time.March, 21, 0, 0, 0, 0, time.UTC)
)

func clock(s string) model.ClockTime {
	t, err := timetoken.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return t
}

func newEntry(id int64, building, room string, weekday int, start, finish, description string) *model.ScheduleEntry {
	return &model.ScheduleEntry{
		ID:          id,
		Building:    building,
		Room:        room,
		Weekday:     weekday,
		Start:       clock(start),
		Finish:      clock(finish),
		Description: description,
		Recurrence:  timetoken.Recurrence(description),
	}
}

func TestStatusAtExamScenario(t *testing.T) {
	calc := NewCalculator(nil)
	entries := []*model.ScheduleEntry{
		newEntry(1, "ГК", "101", 2, "09:00", "10:25", "Экзамен 14.03"),
	}

	st := calc.StatusAt(entries, tuesday14, clock("09:30"))
	assert.True(t, st.Busy)
	assert.Equal(t, "Экзамен 14.03", st.Description)
	require.NotNil(t, st.Entry)
	assert.Equal(t, int64(1), st.Entry.ID)

	st = calc.StatusAt(entries, tuesday21, clock("09:30"))
	assert.False(t, st.Busy)
	assert.Equal(t, "до конца дня", st.Description)
}

func TestStatusAtBoundariesInclusive(t *testing.T) {
	calc := NewCalculator(nil)
	entries := []*model.ScheduleEntry{
		newEntry(1, "ГК", "101", 2, "09:00", "10:25", "Физика"),
	}

	assert.True(t, calc.StatusAt(entries, tuesday14, clock("09:00")).Busy)
	assert.True(t, calc.StatusAt(entries, tuesday14, clock("10:25")).Busy)
	assert.False(t, calc.StatusAt(entries, tuesday14, clock("10:26")).Busy)
}

func TestStatusAtFreeUntilNextStart(t *testing.T) {
	calc := NewCalculator(nil)
	entries := []*model.ScheduleEntry{
		newEntry(2, "ГК", "101", 2, "13:55", "15:20", "Химия"),
		newEntry(1, "ГК", "101", 2, "10:45", "12:10", "Физика"),
		newEntry(3, "ГК", "101", 2, "12:20", "13:45", "Экзамен 21.03"),
	}

	st := calc.StatusAt(entries, tuesday14, clock("09:30"))
	assert.False(t, st.Busy)
	assert.Equal(t, "до 10:45", st.Description)

	st = calc.StatusAt(entries, tuesday14, clock("12:15"))
	assert.Equal(t, "до 13:55", st.Description, "разовое занятие другой даты не учитывается")

	st = calc.StatusAt(entries, tuesday14, clock("16:00"))
	assert.Equal(t, "до конца дня", st.Description)
}

func TestStatusAtTruncatesDescription(t *testing.T) {
	calc := NewCalculator(nil)
	long := "Очень длинное описание занятия, которое не помещается в карточку"
	entries := []*model.ScheduleEntry{newEntry(1, "ГК", "101", 2, "09:00", "10:25", long)}

	st := calc.StatusAt(entries, tuesday14, clock("09:30"))
	assert.Equal(t, string([]rune(long)[:DescriptionLimit])+"...", st.Description)
}

func TestSnapDown(t *testing.T) {
	calc := NewCalculator(nil)

	assert.Equal(t, clock("09:00"), calc.SnapDown(clock("09:05")))
	assert.Equal(t, clock("10:45"), calc.SnapDown(clock("10:45")))
	assert.Equal(t, clock("08:00"), calc.SnapDown(clock("08:59")))
	assert.Equal(t, clock("22:00"), calc.SnapDown(clock("23:00")))
}

func TestRefreshStatusSnapsStart(t *testing.T) {
	calc := NewCalculator(nil)
	entries := []*model.ScheduleEntry{newEntry(1, "ГК", "101", 2, "09:10", "10:25", "Семинар")}

	assert.False(t, calc.StatusAt(entries, tuesday14, clock("09:02")).Busy)
	assert.True(t, calc.RefreshStatusAt(entries, tuesday14, clock("09:02")).Busy)
}

func TestFindConflictHalfOpen(t *testing.T) {
	entries := []*model.ScheduleEntry{
		newEntry(1, "ГК", "101", 2, "09:00", "10:25", "Физика"),
		newEntry(2, "ГК", "101", 2, "12:20", "13:45", "Химия"),
	}

	assert.Nil(t, FindConflict(entries, tuesday14, clock("10:45"), clock("12:10")), "окно между занятиями")
	assert.Nil(t, FindConflict(entries, tuesday14, clock("10:25"), clock("12:20")), "стык с концом и началом")

	got := FindConflict(entries, tuesday14, clock("10:00"), clock("11:00"))
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)

	got = FindConflict(entries, tuesday14, clock("13:44"), clock("14:00"))
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)

	assert.Nil(t, FindConflict(entries, tuesday14.AddDate(0, 0, 1), clock("09:00"), clock("10:00")), "другой день недели")
}

func TestFindWeeklyConflict(t *testing.T) {
	entries := []*model.ScheduleEntry{
		newEntry(1, "ГК", "101", 2, "09:00", "10:25", "Экзамен 14.03"),
		newEntry(2, "ГК", "101", 2, "12:20", "13:45", "Химия"),
	}
	from := model.DayMonth{Day: 1, Month: 4}

	assert.Nil(t, FindWeeklyConflict(entries, 2, from, clock("09:00"), clock("10:00")), "экзамен уже прошёл")
	got := FindWeeklyConflict(entries, 2, from, clock("13:00"), clock("14:00"))
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestPartitionCoversAllRooms(t *testing.T) {
	entries := []*model.ScheduleEntry{
		newEntry(1, "ГК", "101", 2, "09:00", "10:25", "Физика"),
		newEntry(2, "ГК", "!202", 2, "09:00", "10:25", "Лекция"),
		newEntry(3, "ГК", "303", 2, "10:45", "12:10", "Химия"),
		newEntry(4, "ЛК", "101", 2, "09:00", "10:25", "Другой корпус"),
		newEntry(5, "ГК", "404", 2, "09:00", "10:25", "Экзамен 21.03"),
	}
	rooms := []model.RoomKey{
		{Building: "ГК", Room: "101"},
		{Building: "ГК", Room: "!202"},
		{Building: "ГК", Room: "303"},
		{Building: "ГК", Room: "404"},
		{Building: "ГК", Room: "505"},
	}

	plan := BuildDayPlan(entries, tuesday14, "ГК")
	free, busy := Partition(rooms, plan, clock("09:30"))

	assert.ElementsMatch(t, []model.RoomKey{rooms[0], rooms[1]}, busy)
	assert.ElementsMatch(t, []model.RoomKey{rooms[2], rooms[3], rooms[4]}, free)
	assert.Len(t, append(free, busy...), len(rooms))
	for _, f := range free {
		assert.NotContains(t, busy, f)
	}
}

func TestBuildDayPlanAnyBuilding(t *testing.T) {
	entries := []*model.ScheduleEntry{
		newEntry(1, "ГК", "101", 2, "09:00", "10:25", "Физика"),
		newEntry(2, "ЛК", "101", 2, "09:00", "10:25", "Химия"),
	}
	plan := BuildDayPlan(entries, tuesday14, AnyBuilding)
	assert.Len(t, plan.Rooms(), 2)

	plan = BuildDayPlan(entries, tuesday14, "ЛК")
	assert.Equal(t, []model.RoomKey{{Building: "ЛК", Room: "101"}}, plan.Rooms())
}

func intPtr(v int) *int { return &v }

func TestPick(t *testing.T) {
	rooms := []*model.Room{
		{Building: "ГК", Room: "512", Type: model.RoomTypeSeminar, Capacity: 30, Equipment: []string{"проектор"}},
		{Building: "ГК", Room: "113", Type: model.RoomTypeSeminar, Capacity: 12, Equipment: []string{"проектор", "меловая доска"}},
		{Building: "ГК", Room: "115", Type: model.RoomTypeSeminar, Capacity: 8},
		{Building: "ГК", Room: "!Б.Физ.", Type: model.RoomTypeLecture, Capacity: 300, Floor: intPtr(5)},
		{Building: "ГК", Room: "201", Type: model.RoomTypeSeminar, Capacity: 20, Equipment: []string{"проектор"}},
	}
	free := map[model.RoomKey]bool{}
	for _, r := range rooms {
		free[r.Key()] = true
	}
	free[model.RoomKey{Building: "ГК", Room: "201"}] = false

	got := Pick(rooms, free, PickerCriteria{
		Building:    "ГК",
		Type:        model.RoomTypeSeminar,
		MinCapacity: 9,
		Equipment:   []string{"проектор"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "113", got[0].Room)
	assert.Equal(t, "512", got[1].Room)

	got = Pick(rooms, free, PickerCriteria{Building: AnyBuilding, Floor: intPtr(5)})
	require.Len(t, got, 2)
	assert.Equal(t, "512", got[0].Room)
	assert.Equal(t, "!Б.Физ.", got[1].Room)
}

func TestRoomFloor(t *testing.T) {
	floor, ok := RoomFloor(&model.Room{Room: "!412"})
	assert.True(t, ok)
	assert.Equal(t, 4, floor)

	_, ok = RoomFloor(&model.Room{Room: "Акт.зал"})
	assert.False(t, ok)
}

func TestPlanCache(t *testing.T) {
	cache := NewPlanCache(2, time.Hour)
	key := NewPlanKey(tuesday14, "ГК", "plan")
	plan := BuildDayPlan(nil, tuesday14, "ГК")

	_, ok := cache.Get(key)
	assert.False(t, ok)

	cache.Add(key, plan)
	got, ok := cache.Get(key)
	assert.True(t, ok)
	assert.Same(t, plan, got)

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}
