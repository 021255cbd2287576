package config

import (
	"os"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("ENV")
		os.Unsetenv("DATABASE_PATH")
		os.Unsetenv("TELEGRAM_ALLOWED_USER_IDS")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.HTTPAddr != ":8080" {
			t.Errorf("Expected HTTPAddr ':8080', got '%s'", cfg.HTTPAddr)
		}
		if cfg.Env != "development" {
			t.Errorf("Expected Env 'development', got '%s'", cfg.Env)
		}
		if cfg.DatabasePath != "data/mealplanner.db" {
			t.Errorf("Expected DatabasePath 'data/mealplanner.db', got '%s'", cfg.DatabasePath)
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("HTTP_ADDR", ":9090")
		t.Setenv("ENV", "production")
		t.Setenv("DATABASE_PATH", "/tmp/test.db")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.HTTPAddr != ":9090" {
			t.Errorf("Expected HTTPAddr ':9090', got '%s'", cfg.HTTPAddr)
		}
		if cfg.Env != "production" {
			t.Errorf("Expected Env 'production', got '%s'", cfg.Env)
		}
		if cfg.DatabasePath != "/tmp/test.db" {
			t.Errorf("Expected DatabasePath '/tmp/test.db', got '%s'", cfg.DatabasePath)
		}
	})

	t.Run("AllowedUserIDs", func(t *testing.T) {
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "123, 456,789")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		want := []int64{123, 456, 789}
		if len(cfg.TelegramAllowedUserIDs) != len(want) {
			t.Fatalf("Expected %d ids, got %d", len(want), len(cfg.TelegramAllowedUserIDs))
		}
		for i, id := range want {
			if cfg.TelegramAllowedUserIDs[i] != id {
				t.Errorf("Expected id %d at position %d, got %d", id, i, cfg.TelegramAllowedUserIDs[i])
			}
		}
	})

	t.Run("InvalidAllowedUserIDs", func(t *testing.T) {
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "123,abc")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for non-numeric user id, got nil")
		}
	})
}

func TestValidateTelegram(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateTelegram(); err == nil {
		t.Fatal("Expected an error for missing TELEGRAM_BOT_TOKEN, got nil")
	}

	cfg.TelegramBotToken = "token"
	if err := cfg.ValidateTelegram(); err == nil {
		t.Fatal("Expected an error for missing TELEGRAM_WEBHOOK_URL, got nil")
	}

	cfg.TelegramWebhookURL = "https://bot.example.com/webhook"
	if err := cfg.ValidateTelegram(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}
