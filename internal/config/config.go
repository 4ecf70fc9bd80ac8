package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string
	SQLitePath  string

	// Redis configuration, an empty URL disables the receipt cache
	RedisURL              string
	ReceiptCacheTTLMinute int

	// Receipt decoding
	MaxReceiptBytes int

	// Logging
	LogLevel   string
	LogVerbose bool

	// Admin API and webhooks
	AdminAPIKey           string
	ServiceName           string
	WebhookTimeoutSeconds int
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = Load()
	return nil
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:                  getEnv("PORT", "8080"),
		Mode:                  getEnv("GIN_MODE", "debug"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		SQLitePath:            getEnv("SQLITE_PATH", "receipt-api.db"),
		RedisURL:              getEnv("REDIS_URL", ""),
		ReceiptCacheTTLMinute: getEnvInt("RECEIPT_CACHE_TTL_MINUTES", 60),
		MaxReceiptBytes:       getEnvInt("MAX_RECEIPT_BYTES", 1<<20),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogVerbose:            getEnvBool("LOG_VERBOSE", false),
		AdminAPIKey:           getEnv("ADMIN_API_KEY", ""),
		ServiceName:           getEnv("SERVICE_NAME", "Receipt Service"),
		WebhookTimeoutSeconds: getEnvInt("WEBHOOK_TIMEOUT_SECONDS", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
