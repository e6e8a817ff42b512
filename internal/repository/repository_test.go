package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/timetoken"
	"github.com/Freeeeeet/roomstatus_bot/migrations"
)

// testPool подключается к TEST_DB_DSN и накатывает миграции.
// Без переменной окружения тесты пропускаются.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.SetDialect("postgres"))
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	require.NoError(t, goose.UpContext(ctx, db, "."))

	_, err = pool.Exec(ctx, `TRUNCATE schedule_entries, rooms`)
	require.NoError(t, err)

	return pool
}

func newTestEntry(building, room string, weekday int, start, finish, description string) *model.ScheduleEntry {
	s, _ := timetoken.ParseClock(start)
	f, _ := timetoken.ParseClock(finish)
	return &model.ScheduleEntry{
		GroupID:     uuid.New(),
		Description: description,
		Building:    building,
		Room:        room,
		Start:       s,
		Finish:      f,
		Weekday:     weekday,
		Recurrence:  timetoken.Recurrence(description),
	}
}

func TestScheduleRepositoryRoundTrip(t *testing.T) {
	pool := testPool(t)
	repo := NewScheduleRepository(pool)
	ctx := context.Background()

	entries := []*model.ScheduleEntry{
		newTestEntry("ГК", "101", 2, "09:00", "10:25", "Экзамен 14.03 00.00"),
		newTestEntry("ГК", "101", 2, "10:45", "12:10", "Физика 28.12-05.01"),
		newTestEntry("ГК", "101", 2, "12:20", "13:45", "Химия"),
	}
	require.NoError(t, repo.InsertChecked(ctx, entries, nil))
	for _, e := range entries {
		assert.NotZero(t, e.ID)
	}

	got, err := repo.ListByRoom(ctx, model.RoomKey{Building: "ГК", Room: "101"}, 2)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, entries[0].Recurrence, got[0].Recurrence)
	assert.Equal(t, entries[1].Recurrence, got[1].Recurrence)
	assert.Equal(t, model.Weekly(), got[2].Recurrence)
	assert.Equal(t, entries[0].Start, got[0].Start)

	byDay, err := repo.ListByWeekday(ctx, 2, "any")
	require.NoError(t, err)
	assert.Len(t, byDay, 3)

	byDay, err = repo.ListByWeekday(ctx, 2, "ЛК")
	require.NoError(t, err)
	assert.Empty(t, byDay)

	missing, err := repo.GetByID(ctx, -1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := repo.Delete(ctx, entries[2].ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestScheduleRepositoryInsertCheckedSerializes(t *testing.T) {
	pool := testPool(t)
	repo := NewScheduleRepository(pool)
	ctx := context.Background()

	errConflict := errors.New("conflict")
	check := func(existing []*model.ScheduleEntry) error {
		for _, e := range existing {
			if e.Overlaps(model.NewClockTime(9, 0), model.NewClockTime(10, 25)) {
				return errConflict
			}
		}
		return nil
	}

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := newTestEntry("ГК", "202", 1, "09:00", "10:25", "Семинар")
			results[i] = repo.InsertChecked(ctx, []*model.ScheduleEntry{e}, check)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, errConflict)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestRoomRepositoryUpdateAndRegistry(t *testing.T) {
	pool := testPool(t)
	repo := NewRoomRepository(pool)
	ctx := context.Background()

	key := model.RoomKey{Building: "ГК", Room: "101"}
	_, err := repo.ReplaceRegistry(ctx, []*model.Room{
		{Building: "ГК", Room: "101", Type: model.RoomTypeSeminar, Capacity: 20, Status: model.RoomStatusFree},
		{Building: "ГК", Room: "102", Type: model.RoomTypeSeminar, Capacity: 12, Status: model.RoomStatusFree},
	})
	require.NoError(t, err)

	room, err := repo.Update(ctx, key, func(room *model.Room) (bool, error) {
		room.Status = model.RoomStatusMarked
		room.StatusDescription = "2|0|silent"
		return true, nil
	})
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, int64(1), room.Version)

	ok, err := repo.SetEquipment(ctx, key, []string{"проектор"})
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := repo.ReplaceRegistry(ctx, []*model.Room{
		{Building: "ГК", Room: "101", Type: model.RoomTypeComputer, Capacity: 25, Status: model.RoomStatusFree},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	room, err = repo.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, model.RoomStatusMarked, room.Status, "отметка переживает пересборку реестра")
	assert.Equal(t, []string{"проектор"}, room.Equipment)
	assert.Equal(t, model.RoomTypeComputer, room.Type)

	missing, err := repo.Update(ctx, model.RoomKey{Building: "ГК", Room: "102"}, func(*model.Room) (bool, error) {
		return true, nil
	})
	require.NoError(t, err)
	assert.Nil(t, missing)
}
