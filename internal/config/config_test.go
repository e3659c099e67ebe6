package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, 7, cfg.BorrowDays)
	assert.Equal(t, int64(3000), cfg.FinePerDay)
	assert.Equal(t, 7, cfg.ExpiringWindowDays)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BORROW_DAYS", "14")
	t.Setenv("FINE_PER_DAY", "5000")
	t.Setenv("KAFKA_BROKERS", "b1:9092, b2:9092")

	cfg := Load()

	assert.Equal(t, 14, cfg.BorrowDays)
	assert.Equal(t, int64(5000), cfg.FinePerDay)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.KafkaBrokers)
}

func TestLoadRejectsGarbageInt(t *testing.T) {
	t.Setenv("BORROW_DAYS", "banyak")
	t.Setenv("FINE_PER_DAY", "-1")

	cfg := Load()

	assert.Equal(t, 7, cfg.BorrowDays)
	assert.Equal(t, int64(3000), cfg.FinePerDay)
}
