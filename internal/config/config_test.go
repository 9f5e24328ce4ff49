package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnvRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CONFIG_FILE", "")

	_, err := NewConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNewConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STATUS_SWEEP_INTERVAL", "")

	cfg, err := NewConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.Duration(0), cfg.StatusSweepInterval)
	assert.False(t, cfg.EnforceCapacity)
	assert.Contains(t, cfg.DSN(), "dbname=esportdb")
}

func TestNewConfigFromEnvRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STATUS_SWEEP_INTERVAL", "soon")

	_, err := NewConfigFromEnv()
	require.Error(t, err)
}

func TestConfigFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "port: \"8081\"\nstatus_sweep_interval: 5m\nenforce_capacity: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("STATUS_SWEEP_INTERVAL", "")

	cfg, err := NewConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.StatusSweepInterval)
	assert.True(t, cfg.EnforceCapacity)
}
