package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения.
// Все коэффициенты скоринга и тайминги эскалации настраиваются окружением,
// значения по умолчанию - разумные дефолты предметной области.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Scoring Config
	CellLevel        int           `env:"CELL_LEVEL" envDefault:"16"`
	SafetyBaseline   float64       `env:"SAFETY_BASELINE" envDefault:"50"`
	NightMultiplier  float64       `env:"NIGHT_MULTIPLIER" envDefault:"1.5"`
	NightStartHour   int           `env:"NIGHT_START_HOUR" envDefault:"21"`
	NightEndHour     int           `env:"NIGHT_END_HOUR" envDefault:"6"`
	FreshnessWindow  time.Duration `env:"FRESHNESS_WINDOW" envDefault:"72h"`
	DecaySweepSpec   string        `env:"DECAY_SWEEP_SPEC" envDefault:"@every 15m"`
	ReportCellWeight float64       `env:"REPORT_CELL_WEIGHT" envDefault:"5"`

	// SOS Config
	AckWindow          time.Duration `env:"SOS_ACK_WINDOW" envDefault:"90s"`
	MaxEscalationTiers int           `env:"SOS_MAX_ESCALATION_TIERS" envDefault:"3"`
	AuthorityChannel   string        `env:"SOS_AUTHORITY_CHANNEL"`
	TrackingBaseURL    string        `env:"SOS_TRACKING_BASE_URL"`

	// Delivery Config
	DeliveryURL        string        `env:"DELIVERY_URL"`
	DeliverySecret     string        `env:"DELIVERY_SECRET"`
	DeliveryTimeout    time.Duration `env:"DELIVERY_TIMEOUT" envDefault:"5s"`
	DeliveryMaxRetries int           `env:"DELIVERY_MAX_RETRIES" envDefault:"3"`
	DeliveryBaseDelay  time.Duration `env:"DELIVERY_BASE_DELAY" envDefault:"500ms"`

	// Stats Config
	StatsTimeWindowMinutes int `env:"STATS_TIME_WINDOW_MINUTES" envDefault:"60"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:              os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getEnvAsInt("REDIS_DB", 0),
		CellLevel:              getEnvAsInt("CELL_LEVEL", 16),
		SafetyBaseline:         getEnvAsFloat("SAFETY_BASELINE", 50),
		NightMultiplier:        getEnvAsFloat("NIGHT_MULTIPLIER", 1.5),
		NightStartHour:         getEnvAsInt("NIGHT_START_HOUR", 21),
		NightEndHour:           getEnvAsInt("NIGHT_END_HOUR", 6),
		FreshnessWindow:        getEnvAsDuration("FRESHNESS_WINDOW", 72*time.Hour),
		DecaySweepSpec:         getEnv("DECAY_SWEEP_SPEC", "@every 15m"),
		ReportCellWeight:       getEnvAsFloat("REPORT_CELL_WEIGHT", 5),
		AckWindow:              getEnvAsDuration("SOS_ACK_WINDOW", 90*time.Second),
		MaxEscalationTiers:     getEnvAsInt("SOS_MAX_ESCALATION_TIERS", 3),
		AuthorityChannel:       os.Getenv("SOS_AUTHORITY_CHANNEL"),
		TrackingBaseURL:        os.Getenv("SOS_TRACKING_BASE_URL"),
		DeliveryURL:            os.Getenv("DELIVERY_URL"),
		DeliverySecret:         os.Getenv("DELIVERY_SECRET"),
		DeliveryTimeout:        getEnvAsDuration("DELIVERY_TIMEOUT", 5*time.Second),
		DeliveryMaxRetries:     getEnvAsInt("DELIVERY_MAX_RETRIES", 3),
		DeliveryBaseDelay:      getEnvAsDuration("DELIVERY_BASE_DELAY", 500*time.Millisecond),
		StatsTimeWindowMinutes: getEnvAsInt("STATS_TIME_WINDOW_MINUTES", 60),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.NightMultiplier < 1 {
		return nil, fmt.Errorf("NIGHT_MULTIPLIER must be >= 1, got %v", cfg.NightMultiplier)
	}

	if cfg.CellLevel < 0 || cfg.CellLevel > 30 {
		return nil, fmt.Errorf("CELL_LEVEL must be within [0,30], got %d", cfg.CellLevel)
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat возвращает значение переменной окружения как float64 или значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
