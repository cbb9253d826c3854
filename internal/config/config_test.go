package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvKeys = []string{
	"SERVER_PORT", "SERVER_HOST", "ENVIRONMENT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"SYNC_POLL_INTERVAL", "SYNC_PAGE_SIZE", "SYNC_MAX_RECONNECT_WAIT",
	"LOG_LEVEL", "LOG_FORMAT",
}

func clearTestEnvVars() {
	for _, key := range testEnvKeys {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearTestEnvVars()
	defer clearTestEnvVars()

	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "7005", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)

	assert.Equal(t, 5*time.Second, cfg.Sync.PollInterval)
	assert.Equal(t, 10, cfg.Sync.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Sync.MaxReconnectWait)

	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearTestEnvVars()
	defer clearTestEnvVars()

	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_MAX_OPEN_CONNS", "50")
	os.Setenv("SYNC_POLL_INTERVAL", "2s")
	os.Setenv("SYNC_PAGE_SIZE", "25")
	os.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 2*time.Second, cfg.Sync.PollInterval)
	assert.Equal(t, 25, cfg.Sync.PageSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearTestEnvVars()
	defer clearTestEnvVars()

	os.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	os.Setenv("SYNC_POLL_INTERVAL", "soon")

	cfg := Load()

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.Sync.PollInterval)
}

func TestDSN(t *testing.T) {
	clearTestEnvVars()
	defer clearTestEnvVars()

	cfg := Load()
	dsn := cfg.DSN()

	assert.Contains(t, dsn, "prolink:prolink123@tcp(localhost:3306)/prolink")
	assert.Contains(t, dsn, "parseTime=True")
}
