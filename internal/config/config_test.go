package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("PERSIST_QUEUE_SIZE", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, 256, cfg.PersistQueueSize)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("PERSIST_MAX_RETRIES", "7")
	t.Setenv("PERSIST_QUEUE_SIZE", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 7, cfg.PersistMaxRetries)
	assert.Equal(t, 256, cfg.PersistQueueSize)
}
