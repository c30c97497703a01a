package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken string        `yaml:"telegram_token"`
	DatabaseURL   string        `yaml:"database_url"`
	NotifyChatID  int64         `yaml:"notify_chat_id"`
	TickInterval  time.Duration `yaml:"tick_interval"`
	ReminderLead  time.Duration `yaml:"reminder_lead"`
	DeliveryRate  float64       `yaml:"delivery_rate"`
	LogLevel      string        `yaml:"log_level"`
	LogConsole    bool          `yaml:"log_console"`
}

const (
	defaultDatabaseURL  = "weekly_planner.db"
	defaultTickInterval = time.Second
	defaultReminderLead = 5 * time.Minute
	defaultDeliveryRate = 20
	maxTickInterval     = time.Minute
)

// Load reads configuration from an optional YAML file (CONFIG_FILE) and then
// from environment variables, which take precedence. Missing values get sane defaults.
func Load() (Config, error) {
	var cfg Config

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks required fields and ranges.
func (c Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if c.TickInterval <= 0 || c.TickInterval > maxTickInterval {
		return fmt.Errorf("tick interval %s must be within (0, %s]", c.TickInterval, maxTickInterval)
	}
	if c.ReminderLead < 0 || c.ReminderLead >= 24*time.Hour {
		return fmt.Errorf("reminder lead %s must be within [0, 24h)", c.ReminderLead)
	}
	if c.ReminderLead%time.Minute != 0 {
		return fmt.Errorf("reminder lead %s must be a whole number of minutes", c.ReminderLead)
	}
	if c.DeliveryRate <= 0 {
		return fmt.Errorf("delivery rate must be positive")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := env("TELEGRAM_TOKEN"); v != "" {
		cfg.TelegramToken = v
	}
	if v := env("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := env("NOTIFY_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("NOTIFY_CHAT_ID: %w", err)
		}
		cfg.NotifyChatID = id
	}
	if v := env("TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TICK_INTERVAL: %w", err)
		}
		cfg.TickInterval = d
	}
	if v := env("REMINDER_LEAD"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REMINDER_LEAD: %w", err)
		}
		cfg.ReminderLead = d
	}
	if v := env("DELIVERY_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DELIVERY_RATE: %w", err)
		}
		cfg.DeliveryRate = rate
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := env("LOG_CONSOLE"); v != "" {
		console, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_CONSOLE: %w", err)
		}
		cfg.LogConsole = console
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.ReminderLead == 0 {
		cfg.ReminderLead = defaultReminderLead
	}
	if cfg.DeliveryRate == 0 {
		cfg.DeliveryRate = defaultDeliveryRate
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
