package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, time.Second, cfg.Payment.PollInterval)
	assert.Equal(t, 10, cfg.Payment.PollAttempts)
	assert.Equal(t, 65*time.Second, cfg.Payment.HardTimeout)
	assert.Equal(t, 30, cfg.Returns.WindowDays)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "mysql")
	t.Setenv("PAYMENT_POLL_ATTEMPTS", "3")
	t.Setenv("MYSQL_HOST", "db.internal")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.StorageBackend)
	assert.Equal(t, 3, cfg.Payment.PollAttempts)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		User:     "shop",
		Password: "secret",
		Host:     "127.0.0.1",
		Port:     3306,
		Database: "shopdb",
		Params:   "parseTime=True",
	}
	assert.Equal(t, "shop:secret@tcp(127.0.0.1:3306)/shopdb?parseTime=True", cfg.DSN())
}
