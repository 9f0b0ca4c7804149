package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonitorConfigDefaults(t *testing.T) {
	cfg, err := ParseMonitorConfig([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, Live, cfg.API.Environment)
	assert.Equal(t, "https://live.trading212.com", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Polling.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Polling.MaxAge)
	assert.Nil(t, cfg.Alerts.DailyLossPercent)
	assert.Nil(t, cfg.Alerts.DailyGainPercent)
	assert.Equal(t, 7, cfg.Trend.Days)
	assert.Equal(t, FileStorage, cfg.Storage.Driver)
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.Equal(t, 90, cfg.Storage.RetentionDays)
	assert.Equal(t, 24*time.Hour, cfg.Instruments.TTL)
	assert.Equal(t, "8212", cfg.Server.Port)
}

func TestParseMonitorConfig(t *testing.T) {
	input := `
api:
  environment: demo
  timeout: 10s
polling:
  interval: 1m
alerts:
  daily_loss_percent: -5
  daily_gain_percent: null
trend:
  days: 5
  down_percent: -10
storage:
  driver: postgres
  retention_days: 30
timezone: Europe/London
`
	cfg, err := ParseMonitorConfig([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "https://demo.trading212.com", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Minute, cfg.Polling.Interval)
	require.NotNil(t, cfg.Alerts.DailyLossPercent)
	assert.Equal(t, -5.0, *cfg.Alerts.DailyLossPercent)
	assert.Nil(t, cfg.Alerts.DailyGainPercent)
	require.NotNil(t, cfg.Trend.DownPercent)
	assert.Equal(t, -10.0, *cfg.Trend.DownPercent)
	assert.Equal(t, PostgresStorage, cfg.Storage.Driver)
	assert.Equal(t, "default", cfg.Storage.Installation)
	assert.Equal(t, 30, cfg.Storage.RetentionDays)
	assert.Equal(t, "Europe/London", cfg.Timezone)
}

func TestParseMonitorConfigErrors(t *testing.T) {
	tests := map[string]string{
		"environment":   "api: {environment: paper}",
		"loss sign":     "alerts: {daily_loss_percent: 5}",
		"gain sign":     "alerts: {daily_gain_percent: -5}",
		"trend days":    "trend: {days: 1}",
		"trend down":    "trend: {down_percent: 3}",
		"trend up":      "trend: {up_percent: -3}",
		"driver":        "storage: {driver: mongo}",
		"webhook":       "notifications: {webhook_url: 'not a url'}",
		"invalid yaml":  "api: [",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseMonitorConfig([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestPollingIntervalFloor(t *testing.T) {
	cfg, err := ParseMonitorConfig([]byte("polling: {interval: 1s}"))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Polling.Interval)
}

func TestLoadMonitorConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o600))

	cfg, err := LoadMonitorConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = LoadMonitorConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadAPIKey(t *testing.T) {
	t.Setenv("T212_API_KEY", "")
	_, err := LoadAPIKey()
	assert.Error(t, err)

	t.Setenv("T212_API_KEY", " secret ")
	key, err := LoadAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "secret", key)
}

func TestShippedConfigParses(t *testing.T) {
	cfg, err := LoadMonitorConfig("../../configs/monitor.yaml")
	require.NoError(t, err)

	assert.Equal(t, Live, cfg.API.Environment)
	assert.Equal(t, "https://live.trading212.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Polling.Interval)
	require.NotNil(t, cfg.Alerts.DailyLossPercent)
	assert.Equal(t, -5.0, *cfg.Alerts.DailyLossPercent)
	assert.Equal(t, 7, cfg.Trend.Days)
	assert.Equal(t, FileStorage, cfg.Storage.Driver)
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.Equal(t, "T212: ", cfg.Notifications.TitlePrefix)
}
