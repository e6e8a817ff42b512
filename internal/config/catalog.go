package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

// CatalogRoom описание аудитории в каталоге
type CatalogRoom struct {
	Type      model.RoomType `yaml:"type"`
	Capacity  int            `yaml:"capacity"`
	Floor     *int           `yaml:"floor,omitempty"`
	Equipment []string       `yaml:"equipment,omitempty"`
}

// Catalog справочник аудиторий: корпус -> аудитория -> описание.
// Используется при пересборке реестра для новых аудиторий.
type Catalog struct {
	Buildings map[string]map[string]CatalogRoom `yaml:"buildings"`
}

// LoadCatalog читает каталог из YAML. Пустой путь - пустой каталог.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return &Catalog{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read room catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog разбирает YAML каталога и проверяет типы аудиторий
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse room catalog: %w", err)
	}

	for building, rooms := range c.Buildings {
		for room, info := range rooms {
			if info.Type != "" && !info.Type.Valid() {
				return nil, fmt.Errorf("room catalog: %s %s: unknown type %q", room, building, info.Type)
			}
			if info.Capacity < 0 {
				return nil, fmt.Errorf("room catalog: %s %s: negative capacity", room, building)
			}
		}
	}
	return &c, nil
}

// Lookup ищет аудиторию в каталоге
func (c *Catalog) Lookup(key model.RoomKey) (CatalogRoom, bool) {
	if c == nil {
		return CatalogRoom{}, false
	}
	info, ok := c.Buildings[key.Building][key.Room]
	return info, ok
}

// Apply заполняет свойства аудитории из каталога
func (c *Catalog) Apply(room *model.Room) {
	info, ok := c.Lookup(room.Key())
	if !ok {
		return
	}
	if info.Type != "" {
		room.Type = info.Type
	}
	room.Capacity = info.Capacity
	room.Floor = info.Floor
	if len(info.Equipment) > 0 {
		room.Equipment = append([]string(nil), info.Equipment...)
	}
}
