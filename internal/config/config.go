package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	HTTPAddr     string
	Env          string
	DatabasePath string

	// Telegram Config (only required by the bot binary)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first if present.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		Env:                getEnv("ENV", "development"),
		DatabasePath:       getEnv("DATABASE_PATH", "data/mealplanner.db"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	if ids := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); ids != "" {
		for _, part := range strings.Split(ids, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
			}
			cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
		}
	}

	return cfg, nil
}

// ValidateTelegram checks the settings the bot binary cannot run without.
func (c *Config) ValidateTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
