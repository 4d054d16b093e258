package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries all process-wide settings. It is loaded once in main and
// handed to constructors; nothing reads the environment after startup.
type Config struct {
	DatabaseURL string
	Port        string

	JWTSecret string
	TokenTTL  time.Duration

	AdminEmail    string
	AdminPassword string

	LogLevel string
	LogFile  string

	AllowedOrigins []string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Port:              getEnv("PORT", "8080"),
		JWTSecret:         getEnv("JWT_SECRET", "dev"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           os.Getenv("LOG_FILE"),
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Fleetbook"),
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:  os.Getenv("TWILIO_FROM_NUMBER"),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "8h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
