package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string `env:"DB_DSN,notEmpty"`
	Environment   string `env:"ENV" envDefault:"development"`
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	TelegramToken string `env:"TELEGRAM_TOKEN"`
	RedisURL      string `env:"REDIS_URL"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	SlotCacheTTL     time.Duration `env:"SLOT_CACHE_TTL" envDefault:"1m"`
	CompleteInterval time.Duration `env:"COMPLETE_INTERVAL" envDefault:"10m"`
	StartOfWeek      string        `env:"START_OF_WEEK" envDefault:"monday"`
	EngineWorkers    int           `env:"ENGINE_WORKERS" envDefault:"4"`
	RateLimitRPM     int           `env:"RATE_LIMIT_RPM" envDefault:"120"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return Parse()
}

// Parse читает конфиг из окружения и проверяет значения
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := cfg.WeekStart(); err != nil {
		return nil, err
	}
	if cfg.EngineWorkers <= 0 {
		return nil, fmt.Errorf("ENGINE_WORKERS must be positive, got %d", cfg.EngineWorkers)
	}
	if cfg.CompleteInterval <= 0 {
		return nil, fmt.Errorf("COMPLETE_INTERVAL must be positive")
	}

	return cfg, nil
}

// WeekStart день, с которого начинается неделя для недельных лимитов
func (c *Config) WeekStart() (time.Weekday, error) {
	switch strings.ToLower(c.StartOfWeek) {
	case "monday", "":
		return time.Monday, nil
	case "sunday":
		return time.Sunday, nil
	case "saturday":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("START_OF_WEEK must be monday, sunday or saturday, got %q", c.StartOfWeek)
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
