package config

import (
	"os"
	"path/filepath"
	"testing"

	"mapache/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath
}

func TestLoadConfig(t *testing.T) {
	configPath := writeConfig(t, `
telegram:
  bot_token: "test_token"
backend:
  base_url: "http://api.local:8080/"
staff: [10, 20]
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "test_token", cfg.Telegram.BotToken)
	assert.Equal(t, "http://api.local:8080", cfg.Backend.BaseURL)
	assert.Equal(t, 10, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, models.DefaultNotificationLife, cfg.Notify.LifeSeconds)
	assert.Equal(t, models.DefaultSlotMinutes, cfg.Bot.SlotMinutes)
	assert.Equal(t, models.DefaultDayStartHour, cfg.Bot.DayStartHour)
	assert.Equal(t, models.DefaultDayEndHour, cfg.Bot.DayEndHour)
	assert.Equal(t, "exports", cfg.Exports.Path)
	assert.Equal(t, 8090, cfg.Monitoring.HealthCheckPort)
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("MAPACHE_TEST_TOKEN", "from_env")
	configPath := writeConfig(t, `
telegram:
  bot_token: "${MAPACHE_TEST_TOKEN}"
`)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Telegram.BotToken)
	assert.Equal(t, models.DefaultBackendURL, cfg.Backend.BaseURL)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() Config {
		return Config{
			Telegram: TelegramConfig{BotToken: "token"},
			Backend:  BackendConfig{BaseURL: "http://localhost:8080"},
			Bot:      BotConfig{DayStartHour: 9, DayEndHour: 20},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Telegram.BotToken = "" }, wantErr: true},
		{name: "placeholder token", mutate: func(c *Config) { c.Telegram.BotToken = "YOUR_BOT_TOKEN_HERE" }, wantErr: true},
		{name: "relative base url", mutate: func(c *Config) { c.Backend.BaseURL = "barberos" }, wantErr: true},
		{name: "inverted day", mutate: func(c *Config) { c.Bot.DayStartHour = 21 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsStaff(t *testing.T) {
	open := &Config{}
	assert.True(t, open.IsStaff(42))

	restricted := &Config{Staff: []int64{1, 2}}
	assert.True(t, restricted.IsStaff(2))
	assert.False(t, restricted.IsStaff(3))
}
