package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	GeoIPDBPath string

	// Scrape provider (Decodos).
	DecodosBaseURL string
	DecodosToken   string

	// AI text classifier.
	TextAIProvider string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string

	// Billing provider (usage metering).
	StripeAPIKey  string
	StripeBaseURL string
	UpgradeURL    string

	// Quota.
	FreeCheckLimit int

	CORSOrigins      []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		DecodosBaseURL:   getEnv("DECODOS_BASE_URL", "https://scraper-api.decodos.com/v2"),
		DecodosToken:     os.Getenv("DECODOS_TOKEN"),
		TextAIProvider:   getEnv("TEXTAI_PROVIDER", "disabled"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		StripeAPIKey:     os.Getenv("STRIPE_API_KEY"),
		StripeBaseURL:    getEnv("STRIPE_BASE_URL", "https://api.stripe.com/v1"),
		UpgradeURL:       getEnv("UPGRADE_URL", "https://effortnet.io/upgrade"),
		FreeCheckLimit:   getEnvInt("FREE_CHECK_LIMIT", 5),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.FreeCheckLimit < 0 {
		return nil, fmt.Errorf("FREE_CHECK_LIMIT must not be negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
