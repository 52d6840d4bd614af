package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AI providers understood by the application.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Storage backends understood by the application.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageFile   = "file"
	StorageMemory = "memory"
)

// Config holds the configuration for the application.
type Config struct {
	AIProvider   string
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqModel    string

	StorageBackend string
	DatabasePath   string
	RedisAddr      string
	StorageDir     string

	ExportDir         string
	ChromeBin         string
	ChromeDebuggerURL string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64

	Port  string
	Debug bool
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	provider := strings.ToLower(getEnv("AI_PROVIDER", ProviderGemini))

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	groqAPIKey := os.Getenv("GROQ_API_KEY")

	switch provider {
	case ProviderGemini:
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case ProviderGroq:
		if groqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER %q", provider)
	}

	backend := strings.ToLower(getEnv("STORAGE_BACKEND", StorageSQLite))
	switch backend {
	case StorageSQLite, StorageRedis, StorageFile, StorageMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", backend)
	}

	// Telegram Config (Optional for CLI, required for Bot)
	allowed, err := parseIDList(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}

	var adminID int64
	if raw := os.Getenv("ADMIN_TELEGRAM_ID"); raw != "" {
		adminID, err = strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	debug, _ := strconv.ParseBool(os.Getenv("DEBUG"))

	return &Config{
		AIProvider:             provider,
		GeminiAPIKey:           geminiAPIKey,
		GeminiModel:            getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GroqAPIKey:             groqAPIKey,
		GroqModel:              getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		StorageBackend:         backend,
		DatabasePath:           getEnv("DATABASE_PATH", "data/cozinha.db"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		StorageDir:             getEnv("STORAGE_DIR", "data/store"),
		ExportDir:              getEnv("EXPORT_DIR", "data/exports"),
		ChromeBin:              os.Getenv("CHROME_BIN"),
		ChromeDebuggerURL:      os.Getenv("CHROME_DEBUGGER_URL"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
		Port:                   getEnv("PORT", "8080"),
		Debug:                  debug,
	}, nil
}

// RequireTelegram checks the settings the bot cannot start without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	if len(c.TelegramAllowedUserIDs) == 0 {
		return fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS environment variable not set")
	}
	return nil
}

// IsAllowed reports whether a Telegram user may talk to the bot.
func (c *Config) IsAllowed(userID int64) bool {
	for _, id := range c.TelegramAllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
