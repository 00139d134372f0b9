package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the tab sorter.
// Every value has a default; nothing needs to be set.
type Config struct {
	// Arc scripting targets
	AppName      string
	MenuName     string
	PinMenuMatch string
	NotifyTitle  string

	// osascript invocation
	OsascriptPath string
	RetryAttempts int
	RetryDelayMS  int

	// Logging; an empty LogFile logs to stdout only
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		AppName:       getEnvOrDefault("ARC_TAB_SORT_APP_NAME", "Arc"),
		MenuName:      getEnvOrDefault("ARC_TAB_SORT_MENU_NAME", "Tabs"),
		PinMenuMatch:  getEnvOrDefault("ARC_TAB_SORT_PIN_MENU_MATCH", "Pin"),
		NotifyTitle:   getEnvOrDefault("ARC_TAB_SORT_NOTIFY_TITLE", "Arc Tab Sort"),
		OsascriptPath: getEnvOrDefault("ARC_TAB_SORT_OSASCRIPT_PATH", "osascript"),
		RetryAttempts: getEnvIntOrDefault("ARC_TAB_SORT_RETRY_ATTEMPTS", 1),
		RetryDelayMS:  getEnvIntOrDefault("ARC_TAB_SORT_RETRY_DELAY_MS", 250),
		LogLevel:      strings.ToLower(getEnvOrDefault("ARC_TAB_SORT_LOG_LEVEL", "info")),
		LogFile:       getEnvOrDefault("ARC_TAB_SORT_LOG_FILE", ""),
	}
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}
	if cfg.RetryDelayMS < 0 {
		cfg.RetryDelayMS = 0
	}
	return cfg, nil
}

// RetryDelay returns the pause between retry attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
