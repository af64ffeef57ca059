package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPracticumAPIURL = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultPollSchedule    = "@every 15m"
	DefaultRetryCooldown   = 5 * time.Second
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultLogFile         = "program.log"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken    string
	PracticumAPIURL   string
	TelegramToken     string
	TelegramChatID    string // numeric chat id or @channel username
	PollSchedule      string // cron spec, e.g. "@every 15m" or "*/5 * * * *"
	RetryCooldown     time.Duration
	HTTPTimeout       time.Duration
	LogLevel          string
	Environment       string
	LogFile           string // empty disables file logging
	StatusAddr        string // empty disables the HTTP status endpoint
	EnableBotCommands bool
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load does not override variables that are already set.
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.PracticumToken = os.Getenv("PRAKTIKUM_TOKEN")
	if cfg.PracticumToken == "" {
		return nil, fmt.Errorf("PRAKTIKUM_TOKEN is not set")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.TelegramChatID = strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	if cfg.TelegramChatID == "" {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is not set")
	}
	if !strings.HasPrefix(cfg.TelegramChatID, "@") {
		if _, err := strconv.ParseInt(cfg.TelegramChatID, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}

	cfg.PracticumAPIURL = os.Getenv("PRAKTIKUM_API_URL")
	if cfg.PracticumAPIURL == "" {
		cfg.PracticumAPIURL = DefaultPracticumAPIURL
	}

	cfg.PollSchedule = os.Getenv("POLL_SCHEDULE")
	if cfg.PollSchedule == "" {
		cfg.PollSchedule = DefaultPollSchedule
	}

	cfg.RetryCooldown, err = durationEnv("RETRY_COOLDOWN", DefaultRetryCooldown)
	if err != nil {
		return nil, err
	}

	cfg.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", DefaultHTTPTimeout)
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	logFile, set := os.LookupEnv("LOG_FILE")
	if !set {
		logFile = DefaultLogFile
	}
	cfg.LogFile = logFile

	cfg.StatusAddr = os.Getenv("STATUS_ADDR")

	if raw := os.Getenv("BOT_COMMANDS"); raw != "" {
		cfg.EnableBotCommands, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BOT_COMMANDS: %w", err)
		}
	}

	return cfg, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %s", key, d)
	}
	return d, nil
}
