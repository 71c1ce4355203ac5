package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	// Cal.com scheduling API
	CalAPIKey     string
	CalAPIBaseURL string
	CalAPIVersion string
	CalTimeout    time.Duration

	// IANA zone used to interpret patient-entered dates and times.
	BookingTimezone string

	CORSAllowedOrigins []string

	AdminJWTSecret string

	// Front-desk notification email
	EmailProvider       string
	SendGridAPIKey      string
	NotifyFromEmail     string
	NotifyFromName      string
	FrontDeskRecipients []string
	AWSRegion           string

	BookingRateLimit float64
	BookingRateBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		CalAPIKey:     getEnv("CAL_API_KEY", ""),
		CalAPIBaseURL: getEnv("CAL_API_BASE_URL", "https://api.cal.com/v2"),
		CalAPIVersion: getEnv("CAL_API_VERSION", "2024-08-13"),
		CalTimeout:    getEnvAsDuration("CAL_TIMEOUT", 20*time.Second),

		BookingTimezone: getEnv("BOOKING_TIMEZONE", "Asia/Kolkata"),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		EmailProvider:       strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		SendGridAPIKey:      getEnv("SENDGRID_API_KEY", ""),
		NotifyFromEmail:     getEnv("NOTIFY_FROM_EMAIL", ""),
		NotifyFromName:      getEnv("NOTIFY_FROM_NAME", "BrightSmile Dental"),
		FrontDeskRecipients: getEnvAsSlice("FRONT_DESK_EMAILS", nil),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),

		BookingRateLimit: getEnvAsFloat("BOOKING_RATE_LIMIT", 1),
		BookingRateBurst: getEnvAsInt("BOOKING_RATE_BURST", 5),
	}
}

// HasDatabase reports whether the appointment ledger is configured.
func (c *Config) HasDatabase() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

// HasScheduler reports whether the Cal.com API is configured.
func (c *Config) HasScheduler() bool {
	return strings.TrimSpace(c.CalAPIKey) != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
