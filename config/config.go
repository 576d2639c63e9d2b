package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted in LEDGER_BACKEND
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config application configuration
type Config struct {
	Backend       string
	DBPath        string
	Locale        string
	Timezone      string
	ShareSuffix   string
	LogLevel      string
	Env           string
	TelegramToken string
	ShareChatID   int64
	GeminiAPIKey  string
	MetricsAddr   string
}

// Load reads configuration from .env (if present) and the environment
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := &Config{
		Backend:       getEnv("LEDGER_BACKEND", BackendSQLite),
		DBPath:        getEnv("LEDGER_DB_PATH", "data/ledger.db"),
		Locale:        getEnv("LEDGER_LOCALE", "pt-BR"),
		Timezone:      getEnv("LEDGER_TIMEZONE", "UTC"),
		ShareSuffix:   os.Getenv("LEDGER_SHARE_SUFFIX"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Env:           getEnv("APP_ENV", "development"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),
	}

	if rawChatID := os.Getenv("SHARE_CHAT_ID"); rawChatID != "" {
		parsed, err := strconv.ParseInt(rawChatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("SHARE_CHAT_ID is malformed: %w", err)
		}
		config.ShareChatID = parsed
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks values that every entry point depends on
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("LEDGER_DB_PATH must be set for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q", c.Backend)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// RequireTelegram validation for the bot entry point
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is empty")
	}
	return nil
}

// Location resolves the configured time zone used for date rendering
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("LEDGER_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
