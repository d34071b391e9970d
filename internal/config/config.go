package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Upstream Client API configuration
	ClientAPIAccessToken   string
	ClientAPIBaseURL       string
	UpstreamTimeoutSeconds int

	// Webhook configuration
	WebhookHMACKey string

	// Replay protection configuration
	RedisURL       string
	ReplayTTLHours int
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                   getEnv("PORT", "8080"),
		Mode:                   getEnv("GIN_MODE", "debug"),
		ClientAPIAccessToken:   getEnv("MBAASY_CLIENT_API_ACCESS_TOKEN", ""),
		ClientAPIBaseURL:       getEnv("MBAASY_BASE_URL", "https://api.mbaasy.com"),
		UpstreamTimeoutSeconds: getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 30),
		WebhookHMACKey:         getEnv("MBAASY_WEBHOOK_HMAC_KEY", ""),
		RedisURL:               getEnv("REDIS_URL", ""),
		ReplayTTLHours:         getEnvInt("REPLAY_TTL_HOURS", 24),
	}

	return nil
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
