package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string

	SessionTTL time.Duration

	// Clinic schedule. Fixed at process start; WorkDays uses 0=Sunday..6=Saturday.
	OpenHour    int
	CloseHour   int
	SlotMinutes int
	WorkDays    []time.Weekday

	EmailProvider string // "sendgrid", "ses" or "" (stub)
	FromEmail     string
	FromName      string
	EmailTimeout  time.Duration

	SendGridAPIKey string
	AWSRegion      string

	CORSAllowedOrigins []string
	StaticDir          string
}

// Load reads configuration from the environment. A .env file is honored
// when present so local runs match the deployed setup.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		SessionTTL: getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		OpenHour:    getEnvAsInt("CLINIC_OPEN_HOUR", 9),
		CloseHour:   getEnvAsInt("CLINIC_CLOSE_HOUR", 17),
		SlotMinutes: getEnvAsInt("CLINIC_SLOT_MINUTES", 30),
		WorkDays:    getEnvAsWeekdays("CLINIC_WORK_DAYS", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}),

		EmailProvider: strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		FromEmail:     getEnv("EMAIL_FROM_ADDRESS", "appointments@brightsmiledental.example"),
		FromName:      getEnv("EMAIL_FROM_NAME", "Bright Smile Dental"),
		EmailTimeout:  getEnvAsDuration("EMAIL_TIMEOUT", 5*time.Second),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),
		StaticDir:          getEnv("STATIC_DIR", "web/static"),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsWeekdays parses a comma-separated list of weekday numbers
// (0=Sunday..6=Saturday). A malformed entry invalidates the whole value.
func getEnvAsWeekdays(key string, defaultValue []time.Weekday) []time.Weekday {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var days []time.Weekday
	for _, part := range strings.Split(valueStr, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return defaultValue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
