package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	CORSAllowedOrigins []string

	// Google Calendar
	GoogleCredentialsJSON string
	GoogleCalendarID      string
	CalendarTimezone      string

	// Email
	EmailProvider            string // sendgrid, ses or stub
	SendGridAPIKey           string
	EmailFromAddress         string
	EmailFromName            string
	AWSRegion                string
	EmailIncludeCalendarLink bool

	// WhatsApp (Twilio)
	TwilioAccountSID         string
	TwilioAuthToken          string
	TwilioWhatsAppNumber     string
	TwilioContentSID         string
	TwilioFallbackContentSID string

	// Phone normalization
	DefaultCountryCode string
	MinPhoneDigits     int

	// Notification behaviour
	NotifyTimeout     time.Duration
	InteractionWindow time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		GoogleCalendarID:      getEnv("GOOGLE_CALENDAR_ID", ""),
		CalendarTimezone:      getEnv("CALENDAR_TIMEZONE", "Europe/Madrid"),

		EmailProvider:            strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		SendGridAPIKey:           getEnv("SENDGRID_API_KEY", ""),
		EmailFromAddress:         getEnv("EMAIL_FROM_ADDRESS", "wellssflow@gmail.com"),
		EmailFromName:            getEnv("EMAIL_FROM_NAME", "Wellness Flow"),
		AWSRegion:                getEnv("AWS_REGION", "eu-west-1"),
		EmailIncludeCalendarLink: getEnvAsBool("EMAIL_INCLUDE_CALENDAR_LINK", true),

		TwilioAccountSID:         getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:          getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppNumber:     getEnv("TWILIO_WHATSAPP_NUMBER", "+14155238886"),
		TwilioContentSID:         getEnv("TWILIO_CONTENT_SID", ""),
		TwilioFallbackContentSID: getEnv("TWILIO_FALLBACK_CONTENT_SID", ""),

		DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "34"),
		MinPhoneDigits:     getEnvAsInt("MIN_PHONE_DIGITS", 9),

		NotifyTimeout:     getEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second),
		InteractionWindow: getEnvAsDuration("INTERACTION_WINDOW", 24*time.Hour),
	}
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

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
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

func getEnvAsList(key string, defaultValue []string) []string {
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
	return out
}
