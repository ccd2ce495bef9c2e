package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// SMTPConfig holds the outbound mail settings.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// TwilioConfig holds SMS dispatch settings. SMS stays disabled unless
// Enabled is set and credentials are present.
type TwilioConfig struct {
	Enabled    bool
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL     string
	Port            string
	BaseURL         string
	JWTSecret       string
	TokenTTL        time.Duration
	RateLimitPitch  RateLimitConfig
	PhoneRegion     string
	HFAPIKey        string
	HFBaseURL       string
	OpenAIKey       string
	AnalysisTimeout time.Duration
	StorageBucket   string
	SMTP            SMTPConfig
	Twilio          TwilioConfig
	MonitorInterval time.Duration
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Port:            getEnv("PORT", "8080"),
		BaseURL:         strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:        parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		PhoneRegion:     strings.ToUpper(getEnv("PHONE_REGION", "US")),
		HFAPIKey:        os.Getenv("HF_API_KEY"),
		HFBaseURL:       getEnv("HF_BASE_URL", "https://api-inference.huggingface.co"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		AnalysisTimeout: parseDuration(getEnv("ANALYSIS_TIMEOUT", "6s"), 6*time.Second),
		StorageBucket:   os.Getenv("STORAGE_BUCKET"),
		MonitorInterval: parseDuration(getEnv("MONITOR_INTERVAL", "30m"), 30*time.Minute),
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port: getEnv("SMTP_PORT", "587"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: getEnv("SMTP_FROM", "ScanInstead <no-reply@scaninstead.com>"),
		},
		Twilio: TwilioConfig{
			Enabled:    getEnv("TWILIO_ENABLED", "false") == "true",
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_PITCH", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PITCH value: %w", err)
	}
	cfg.RateLimitPitch = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}
