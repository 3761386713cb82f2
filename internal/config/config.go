// Package config loads service configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all runtime configuration for the service.
type Config struct {
	// HTTP server
	Port string

	// Database
	DBPath string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Payment gateway
	GatewayBaseURL   string
	GatewayKeyID     string
	GatewayKeySecret string

	// Balance engine
	DriftTolerance decimal.Decimal
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load() // missing .env is fine

	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "./data/expenses.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		GatewayBaseURL:   getEnv("GATEWAY_BASE_URL", ""),
		GatewayKeyID:     getEnv("GATEWAY_KEY_ID", ""),
		GatewayKeySecret: getEnv("GATEWAY_KEY_SECRET", ""),

		DriftTolerance: getEnvDecimal("BALANCE_DRIFT_TOLERANCE", decimal.RequireFromString("0.01")),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	} else if len(c.JWTSecret) < 16 {
		problems = append(problems, "JWT_SECRET must be at least 16 characters")
	}

	if c.TokenTTL <= 0 {
		problems = append(problems, "token TTL must be positive")
	}

	if c.GatewayBaseURL != "" {
		if parsed, err := url.Parse(c.GatewayBaseURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			problems = append(problems, fmt.Sprintf("invalid gateway base URL %q", c.GatewayBaseURL))
		}
	}

	if !c.DriftTolerance.IsPositive() {
		problems = append(problems, "drift tolerance must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return fallback
}
