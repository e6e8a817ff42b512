package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string        `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN         string        `mapstructure:"DB_DSN"`
	Environment   string        `mapstructure:"ENV"`
	Timezone      string        `mapstructure:"TIMEZONE"`
	AdminIDs      []int64       `mapstructure:"ADMIN_IDS"`
	RoomCatalog   string        `mapstructure:"ROOM_CATALOG"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
	CacheSize     int           `mapstructure:"CACHE_SIZE"`
	SearchLimit   int           `mapstructure:"SEARCH_LIMIT"`
	RefreshEvery  string        `mapstructure:"REFRESH_EVERY"`

	location *time.Location
}

// Load читает конфигурацию из envFile (если он есть) и переменных окружения
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}

	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(envFile); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию из функции чтения переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:         getenv("DB_DSN"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		Environment:   getenv("ENV"),
		Timezone:      getenv("TIMEZONE"),
		RoomCatalog:   getenv("ROOM_CATALOG"),
		RefreshEvery:  getenv("REFRESH_EVERY"),
		CacheTTL:      48 * time.Hour,
		CacheSize:     256,
		SearchLimit:   25,
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Moscow"
	}
	if cfg.RefreshEvery == "" {
		cfg.RefreshEvery = "@every 5m"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.location = loc

	if raw := getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("CACHE_TTL: invalid duration %q", raw)
		}
		cfg.CacheTTL = ttl
	}
	if cfg.CacheSize, err = positiveInt(getenv, "CACHE_SIZE", cfg.CacheSize); err != nil {
		return nil, err
	}
	if cfg.SearchLimit, err = positiveInt(getenv, "SEARCH_LIMIT", cfg.SearchLimit); err != nil {
		return nil, err
	}

	if raw := getenv("ADMIN_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("ADMIN_IDS: invalid id %q", part)
			}
			cfg.AdminIDs = append(cfg.AdminIDs, id)
		}
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

func positiveInt(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s: expected positive integer, got %q", key, raw)
	}
	return v, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// Location часовой пояс расписания
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// IsAdmin проверяет, может ли пользователь менять расписание
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
