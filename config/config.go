package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port           string        // Service port
	BackendURL     string        // Marketplace backend base URL
	ProviderURL    string        // OTP provider (Kratos public API) base URL
	RequestTimeout time.Duration // Deadline for every outbound call
	CacheTTL       time.Duration // Resolved-profile cache TTL

	CountryPrefix  string // Dialing prefix prepended to bare numbers
	NationalDigits int    // Valid digit count after the prefix

	CSRFSecret           string        // CSRF secret; empty disables CSRF checks
	InternalSharedSecret string        // Shared secret for /internal endpoints
	ServiceTokenSecret   string        // Secret for signing the gateway service token
	ServiceTokenIssuer   string        // Service token issuer claim
	ServiceTokenAudience string        // Service token audience claim
	ServiceTokenTTL      time.Duration // Service token TTL
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Port:                 getEnv("PORT", "8888"),
		BackendURL:           getEnv("BACKEND_URL", "http://backend:4000/api/v1"),
		ProviderURL:          getEnv("OTP_PROVIDER_URL", "http://kratos:4433"),
		RequestTimeout:       5 * time.Second,
		CacheTTL:             5 * time.Minute,
		CountryPrefix:        getEnv("PHONE_COUNTRY_PREFIX", "+91"),
		NationalDigits:       10,
		CSRFSecret:           getEnv("CSRF_SECRET", ""),
		InternalSharedSecret: getEnv("INTERNAL_SHARED_SECRET", ""),
		ServiceTokenSecret:   getEnv("SERVICE_TOKEN_SECRET", ""),
		ServiceTokenIssuer:   getEnv("SERVICE_TOKEN_ISSUER", "momskitchen-hub"),
		ServiceTokenAudience: getEnv("SERVICE_TOKEN_AUDIENCE", "momskitchen-backend"),
		ServiceTokenTTL:      5 * time.Minute,
	}

	if ttlStr := os.Getenv("CACHE_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL format: %w", err)
		}
		config.CacheTTL = duration
	}

	if timeoutStr := os.Getenv("REQUEST_TIMEOUT"); timeoutStr != "" {
		duration, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT format: %w", err)
		}
		config.RequestTimeout = duration
	}

	if ttlStr := os.Getenv("SERVICE_TOKEN_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVICE_TOKEN_TTL format: %w", err)
		}
		config.ServiceTokenTTL = duration
	}

	if digitsStr := os.Getenv("PHONE_NATIONAL_DIGITS"); digitsStr != "" {
		digits, err := strconv.Atoi(digitsStr)
		if err != nil || digits <= 0 {
			return nil, fmt.Errorf("invalid PHONE_NATIONAL_DIGITS: %q", digitsStr)
		}
		config.NationalDigits = digits
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL cannot be empty")
	}

	if c.ProviderURL == "" {
		return fmt.Errorf("OTP_PROVIDER_URL cannot be empty")
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if !strings.HasPrefix(c.CountryPrefix, "+") {
		return fmt.Errorf("PHONE_COUNTRY_PREFIX must start with '+'")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
