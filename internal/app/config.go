package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/signetlabs/signet/pkg/jwt"
	"github.com/signetlabs/signet/pkg/timespan"
)

type Config struct {
	Issuer        string // Issuer claim stamped on access tokens
	AccessSecret  string // Required: HMAC secret for access tokens
	RefreshSecret string // Required: HMAC secret for refresh tokens, must differ
	Algorithm     string // Access token algorithm (HS256, HS384, HS512) (default: HS256)
	AccessTTL     string // Access token lifetime in timespan grammar (default: 15m)

	DatabaseFile string // Path to the SQLite database file (default: ./signet.db)
	RedisAddr    string // Optional: refresh tokens move to Redis when set

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-token sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:        getEnvOrDefault("SIGNET_ISSUER", "signet"),
		AccessSecret:  os.Getenv("SIGNET_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("SIGNET_REFRESH_SECRET"),
		Algorithm:     getEnvOrDefault("SIGNET_ALGORITHM", "HS256"),
		AccessTTL:     getEnvOrDefault("SIGNET_ACCESS_TTL", "15m"),

		DatabaseFile: getEnvOrDefault("SIGNET_DATABASE_FILE", "signet.db"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate rejects configurations that would only fail at request time:
// missing or shared secrets, an unknown algorithm, an unparseable lifetime.
func (c Config) Validate() error {
	if c.AccessSecret == "" {
		return errors.New("SIGNET_ACCESS_SECRET is required")
	}
	if c.RefreshSecret == "" {
		return errors.New("SIGNET_REFRESH_SECRET is required")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("SIGNET_ACCESS_SECRET and SIGNET_REFRESH_SECRET must differ")
	}
	if !jwt.Algorithm(c.Algorithm).Supported() {
		return fmt.Errorf("unsupported algorithm %q (want HS256, HS384, or HS512)", c.Algorithm)
	}
	if _, err := timespan.Parse(c.AccessTTL); err != nil {
		return fmt.Errorf("invalid SIGNET_ACCESS_TTL: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
