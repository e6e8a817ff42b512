package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/timetoken"
)

// FeedRow строка выгрузки расписания
type FeedRow struct {
	Building    string `yaml:"building"`
	Room        string `yaml:"room"`
	Day         int    `yaml:"day"` // 1 = понедельник
	Start       string `yaml:"start"`
	Finish      string `yaml:"finish"`
	Description string `yaml:"description"`
}

// invalidClock время, которое не прошло разбор; такие строки отбрасываются при загрузке расписания
const invalidClock model.ClockTime = -1

// LoadScheduleFeed читает выгрузку расписания из YAML
func LoadScheduleFeed(path string) ([]*model.ScheduleEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule feed: %w", err)
	}
	return ParseScheduleFeed(data)
}

// ParseScheduleFeed разбирает выгрузку. Строки без корпуса или аудитории
// считаются ошибкой формата; некорректное время оставляется на проверку при загрузке.
func ParseScheduleFeed(data []byte) ([]*model.ScheduleEntry, error) {
	var rows []FeedRow
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse schedule feed: %w", err)
	}

	entries := make([]*model.ScheduleEntry, 0, len(rows))
	for i, row := range rows {
		if row.Building == "" || row.Room == "" {
			return nil, fmt.Errorf("schedule feed: row %d: building and room are required", i+1)
		}
		entries = append(entries, &model.ScheduleEntry{
			Building:    row.Building,
			Room:        row.Room,
			Weekday:     row.Day,
			Start:       clockOrInvalid(row.Start),
			Finish:      clockOrInvalid(row.Finish),
			Description: row.Description,
		})
	}
	return entries, nil
}

func clockOrInvalid(s string) model.ClockTime {
	t, err := timetoken.ParseClock(s)
	if err != nil {
		return invalidClock
	}
	return t
}
