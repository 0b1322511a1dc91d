package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Polling.Interval.Std())
	assert.Equal(t, 60*time.Second, cfg.Polling.Timeout.Std())
	assert.Equal(t, 5*time.Minute, cfg.Cache.SettingsTTL.Std())
	assert.Equal(t, ":8090", cfg.Server.ListenAddr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_SparseFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bizpulse.yaml")
	content := `
api:
  base_url: https://api.bizpulse.example
  auth_token: secret
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.bizpulse.example", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.AuthToken)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset sections keep their defaults.
	assert.Equal(t, 2*time.Second, cfg.Polling.Interval.Std())
	assert.Equal(t, uint32(5), cfg.API.BreakerFailures)
}

func TestLoad_OverridesTimings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bizpulse.yaml")
	content := `
polling:
  interval: 500ms
  timeout: 30s
cache:
  settings_ttl: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Polling.Interval.Std())
	assert.Equal(t, 30*time.Second, cfg.Polling.Timeout.Std())
	assert.Equal(t, time.Minute, cfg.Cache.SettingsTTL.Std())
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
