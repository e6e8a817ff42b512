package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"DB_DSN": "postgres://localhost/rooms"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "Europe/Moscow", cfg.Timezone)
	assert.Equal(t, "Europe/Moscow", cfg.Location().String())
	assert.Equal(t, 48*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 25, cfg.SearchLimit)
	assert.Equal(t, "@every 5m", cfg.RefreshEvery)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"DB_DSN":        "postgres://localhost/rooms",
		"ENV":           "production",
		"TIMEZONE":      "UTC",
		"ADMIN_IDS":     "42, 7",
		"CACHE_TTL":     "30m",
		"CACHE_SIZE":    "64",
		"SEARCH_LIMIT":  "10",
		"REFRESH_EVERY": "*/10 * * * *",
	}))
	require.NoError(t, err)

	assert.Equal(t, []int64{42, 7}, cfg.AdminIDs)
	assert.True(t, cfg.IsAdmin(7))
	assert.False(t, cfg.IsAdmin(8))
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, 10, cfg.SearchLimit)
	assert.Equal(t, "*/10 * * * *", cfg.RefreshEvery)
}

func TestFromEnvErrors(t *testing.T) {
	tests := map[string]map[string]string{
		"missing dsn":  {},
		"bad timezone": {"DB_DSN": "x", "TIMEZONE": "Mars/Olympus"},
		"bad ttl":      {"DB_DSN": "x", "CACHE_TTL": "вечность"},
		"bad limit":    {"DB_DSN": "x", "SEARCH_LIMIT": "-1"},
		"bad admin id": {"DB_DSN": "x", "ADMIN_IDS": "1,два"},
	}

	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envOf(values))
			assert.Error(t, err)
		})
	}
}

const catalogYAML = `
buildings:
  ГК:
    "512":
      type: seminar
      capacity: 30
      equipment: [проектор]
    "!Б.Физ.":
      type: lecture
      capacity: 300
      floor: 5
`

func TestCatalogApply(t *testing.T) {
	c, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	room := &model.Room{Building: "ГК", Room: "!Б.Физ.", Type: model.RoomTypeSeminar}
	c.Apply(room)
	assert.Equal(t, model.RoomTypeLecture, room.Type)
	assert.Equal(t, 300, room.Capacity)
	require.NotNil(t, room.Floor)
	assert.Equal(t, 5, *room.Floor)

	room = &model.Room{Building: "ГК", Room: "512"}
	c.Apply(room)
	assert.Equal(t, []string{"проектор"}, room.Equipment)

	room = &model.Room{Building: "ЛК", Room: "101", Type: model.RoomTypeSeminar, Capacity: 1}
	c.Apply(room)
	assert.Equal(t, 1, room.Capacity, "аудитории нет в каталоге")
}

func TestParseCatalogRejectsUnknownType(t *testing.T) {
	_, err := ParseCatalog([]byte("buildings:\n  ГК:\n    \"101\":\n      type: bathroom\n"))
	assert.Error(t, err)
}
