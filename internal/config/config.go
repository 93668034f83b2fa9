package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DatabaseDriver string
	DatabaseURL    string
	CachePath      string
	RedisURL       string

	PersistQueueSize  int
	PersistMaxRetries int

	AllowedOrigins    string
	AdminUsername     string
	AdminPasswordHash string

	MailgunDomain      string
	MailgunAPIKey      string
	MailgunSenderEmail string
	MailgunSenderName  string
	NotifyEmail        string
}

// Load reads configuration from the environment, after merging a .env
// file when one is present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite3"),
		DatabaseURL:    getEnv("DATABASE_URL", "ecobank.db"),
		CachePath:      getEnv("CACHE_PATH", "ecobank_cache.json"),
		RedisURL:       getEnv("REDIS_URL", ""),

		PersistQueueSize:  getEnvInt("PERSIST_QUEUE_SIZE", 256),
		PersistMaxRetries: getEnvInt("PERSIST_MAX_RETRIES", 3),

		AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		MailgunDomain:      getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:      getEnv("MAILGUN_API_KEY", ""),
		MailgunSenderEmail: getEnv("MAILGUN_SENDER_EMAIL", "noreply@ecobank.az"),
		MailgunSenderName:  getEnv("MAILGUN_SENDER_NAME", "EcoBank"),
		NotifyEmail:        getEnv("NOTIFY_EMAIL", ""),
	}
	return cfg
}

func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Environment)
	return env == "development" || env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
