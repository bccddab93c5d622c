package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	StaticDir string

	DatabaseURL string
	PGSSLMode   string

	TelegramBotToken   string
	TelegramChatID     string
	TelegramAPIBaseURL string

	GoogleServiceAccountJSON string
	GoogleSheetID            string
	LeadsSheetName           string

	CORSAllowedOrigins []string

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "3000"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		StaticDir: getEnv("STATIC_DIR", "web"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		PGSSLMode:   getEnv("PGSSLMODE", ""),

		TelegramBotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:     getEnv("TELEGRAM_CHAT_ID", ""),
		TelegramAPIBaseURL: getEnv("TELEGRAM_API_BASE_URL", ""),

		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleSheetID:            getEnv("GOOGLE_SHEET_ID", getEnv("GOOGLE_SHEET_ID_OVERRIDE", "")),
		LeadsSheetName:           getEnv("LEADS_SHEET_NAME", "Leads"),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", 3),
		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
}

// DatabaseDSN returns the connection string with the SSL mode applied,
// mirroring how PGSSLMODE overrides the URL for managed Postgres providers.
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL == "" || c.PGSSLMode == "" {
		return c.DatabaseURL
	}
	if strings.Contains(c.DatabaseURL, "sslmode=") {
		return c.DatabaseURL
	}
	sep := "?"
	if strings.Contains(c.DatabaseURL, "?") {
		sep = "&"
	}
	return c.DatabaseURL + sep + "sslmode=" + c.PGSSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
