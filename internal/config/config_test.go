package config

import (
	"os"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	resetEnv := func() {
		for _, k := range []string{
			"AI_PROVIDER", "GEMINI_API_KEY", "GEMINI_MODEL", "GROQ_API_KEY", "GROQ_MODEL",
			"STORAGE_BACKEND", "DATABASE_PATH", "TELEGRAM_ALLOWED_USER_IDS", "ADMIN_TELEGRAM_ID", "DEBUG",
		} {
			setEnv(k, "")
			os.Unsetenv(k)
		}
	}

	t.Run("Success", func(t *testing.T) {
		resetEnv()
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "42, 7")
		setEnv("ADMIN_TELEGRAM_ID", "42")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.AIProvider != ProviderGemini {
			t.Errorf("Expected AIProvider to be 'gemini', got '%s'", cfg.AIProvider)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.GeminiModel != "gemini-2.5-flash" {
			t.Errorf("Expected default GeminiModel, got '%s'", cfg.GeminiModel)
		}
		if cfg.StorageBackend != StorageSQLite {
			t.Errorf("Expected default storage backend 'sqlite', got '%s'", cfg.StorageBackend)
		}
		if cfg.DatabasePath != "data/cozinha.db" {
			t.Errorf("Expected default DatabasePath, got '%s'", cfg.DatabasePath)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[1] != 7 {
			t.Errorf("Expected allowed ids [42 7], got %v", cfg.TelegramAllowedUserIDs)
		}
		if !cfg.IsAllowed(42) || cfg.IsAllowed(99) {
			t.Error("IsAllowed does not match the configured ids")
		}
		if cfg.AdminTelegramID != 42 {
			t.Errorf("Expected AdminTelegramID 42, got %d", cfg.AdminTelegramID)
		}
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		resetEnv()

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}
		expectedError := "GEMINI_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("GroqProvider", func(t *testing.T) {
		resetEnv()
		setEnv("AI_PROVIDER", "groq")
		setEnv("GROQ_API_KEY", "groq_key")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GroqModel != "llama-3.3-70b-versatile" {
			t.Errorf("Expected default GroqModel, got '%s'", cfg.GroqModel)
		}
	})

	t.Run("MissingGroqAPIKey", func(t *testing.T) {
		resetEnv()
		setEnv("AI_PROVIDER", "groq")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GROQ_API_KEY, got nil")
		}
		expectedError := "GROQ_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("UnknownStorageBackend", func(t *testing.T) {
		resetEnv()
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("STORAGE_BACKEND", "localstorage")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for an unknown storage backend, got nil")
		}
	})

	t.Run("InvalidAllowedIDs", func(t *testing.T) {
		resetEnv()
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "42,abc")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for a non-numeric user id, got nil")
		}
	})
}

func TestRequireTelegram(t *testing.T) {
	cfg := &Config{TelegramBotToken: "token", TelegramWebhookURL: "https://example.test/webhook"}
	if err := cfg.RequireTelegram(); err == nil {
		t.Fatal("Expected an error when no user is allowed")
	}

	cfg.TelegramAllowedUserIDs = []int64{1}
	if err := cfg.RequireTelegram(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}
