package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string
	LogLevel      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string

	DailyAPIKey string
	DailyAPIURL string

	SlotHorizonDays       int
	SlotMaxDates          int
	SlotTruncateOvershoot bool
	SlotHoldTTL           time.Duration

	CompletionInterval time.Duration

	Location *time.Location
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		Environment:   getString("ENV", "development"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:    getString("KAFKA_TOPIC", "musicmentor.notifications"),
		DailyAPIKey:   os.Getenv("DAILY_API_KEY"),
		DailyAPIURL:   getString("DAILY_API_URL", "https://api.daily.co/v1"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SlotHorizonDays, err = getInt("SLOT_HORIZON_DAYS", 28); err != nil {
		return nil, err
	}
	if cfg.SlotMaxDates, err = getInt("SLOT_MAX_DATES", 14); err != nil {
		return nil, err
	}
	if cfg.SlotTruncateOvershoot, err = getBool("SLOT_TRUNCATE_OVERSHOOT", false); err != nil {
		return nil, err
	}
	if cfg.SlotHoldTTL, err = getDuration("SLOT_HOLD_TTL", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CompletionInterval, err = getDuration("COMPLETION_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}

	cfg.Location = time.Local
	if tz := strings.TrimSpace(os.Getenv("APP_TIMEZONE")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.SlotHorizonDays < 0 {
		return nil, fmt.Errorf("SLOT_HORIZON_DAYS must not be negative")
	}

	log.Printf("Config loaded (env=%s, tz=%s)\n", cfg.Environment, cfg.Location)

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// RedisEnabled true, если задан адрес Redis
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// KafkaEnabled true, если заданы брокеры Kafka
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
