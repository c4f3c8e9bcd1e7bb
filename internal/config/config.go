package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"mapache/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Backend    BackendConfig    `yaml:"backend"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Notify     NotifyConfig     `yaml:"notify"`
	Bot        BotConfig        `yaml:"bot"`
	Exports    ExportConfig     `yaml:"exports"`
	Staff      []int64          `yaml:"staff"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
}

// BackendConfig points at the REST API that owns barbers, services, clients and appointments.
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MockServices   bool   `yaml:"mock_services"`
	MockLatencyMS  int    `yaml:"mock_latency_ms"`
}

type RedisConfig struct {
	Address           string `yaml:"address"`
	Password          string `yaml:"password"`
	DB                int    `yaml:"db"`
	PoolSize          int    `yaml:"pool_size"`
	SessionTTLSeconds int    `yaml:"session_ttl_seconds"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	HealthCheckPort   int  `yaml:"health_check_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type NotifyConfig struct {
	LifeSeconds int `yaml:"life_seconds"`
}

type BotConfig struct {
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
	SlotMinutes    int     `yaml:"slot_minutes"`
	DayStartHour   int     `yaml:"day_start_hour"`
	DayEndHour     int     `yaml:"day_end_hour"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads the YAML config at configPath, expanding ${VAR} references
// from the environment and an optional .env file.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}

	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url %q is not an absolute URL", c.Backend.BaseURL)
	}

	if c.Bot.DayStartHour >= c.Bot.DayEndHour {
		return fmt.Errorf("bot.day_start_hour (%d) must be before bot.day_end_hour (%d)", c.Bot.DayStartHour, c.Bot.DayEndHour)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "mapache"
	}
	c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(c.Backend.BaseURL), "/")
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = models.DefaultBackendURL
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = 10
	}
	if c.Backend.MockServices && c.Backend.MockLatencyMS <= 0 {
		c.Backend.MockLatencyMS = 300
	}
	if c.Redis.SessionTTLSeconds <= 0 {
		c.Redis.SessionTTLSeconds = models.DefaultSessionTTL
	}
	if c.Monitoring.HealthCheckPort == 0 {
		c.Monitoring.HealthCheckPort = 8090
	}
	if c.Notify.LifeSeconds <= 0 {
		c.Notify.LifeSeconds = models.DefaultNotificationLife
	}
	if c.Bot.RateLimitRPS <= 0 {
		c.Bot.RateLimitRPS = models.RateLimitRPS
	}
	if c.Bot.RateLimitBurst <= 0 {
		c.Bot.RateLimitBurst = models.RateLimitBurst
	}
	if c.Bot.SlotMinutes <= 0 || c.Bot.SlotMinutes > 60 {
		c.Bot.SlotMinutes = models.DefaultSlotMinutes
	}
	if c.Bot.DayStartHour == 0 && c.Bot.DayEndHour == 0 {
		c.Bot.DayStartHour = models.DefaultDayStartHour
		c.Bot.DayEndHour = models.DefaultDayEndHour
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

// IsStaff reports whether chatID may use the bot. An empty staff list allows everyone.
func (c *Config) IsStaff(chatID int64) bool {
	if len(c.Staff) == 0 {
		return true
	}
	for _, id := range c.Staff {
		if id == chatID {
			return true
		}
	}
	return false
}
