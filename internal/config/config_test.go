package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/mm")
	t.Setenv("ENV", "")
	t.Setenv("SLOT_HORIZON_DAYS", "")
	t.Setenv("SLOT_MAX_DATES", "")
	t.Setenv("SLOT_TRUNCATE_OVERSHOOT", "")
	t.Setenv("SLOT_HOLD_TTL", "")
	t.Setenv("COMPLETION_INTERVAL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 28, cfg.SlotHorizonDays)
	assert.Equal(t, 14, cfg.SlotMaxDates)
	assert.False(t, cfg.SlotTruncateOvershoot)
	assert.Equal(t, 2*time.Minute, cfg.SlotHoldTTL)
	assert.Equal(t, 10*time.Minute, cfg.CompletionInterval)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/mm")
	t.Setenv("SLOT_HORIZON_DAYS", "7")
	t.Setenv("SLOT_TRUNCATE_OVERSHOOT", "true")
	t.Setenv("SLOT_HOLD_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("APP_TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.SlotHorizonDays)
	assert.True(t, cfg.SlotTruncateOvershoot)
	assert.Equal(t, 30*time.Second, cfg.SlotHoldTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoad_MissingDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_BadNumber(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/mm")
	t.Setenv("SLOT_MAX_DATES", "many")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLOT_MAX_DATES")
}

func TestLoad_BadTimezone(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/mm")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
}
