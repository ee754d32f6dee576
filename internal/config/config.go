package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	FMP      FMPConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Refresh  RefreshConfig
	CORS     CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// FMPConfig holds settings for the Financial Modeling Prep client.
type FMPConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// AuthConfig holds the credential-verification secrets.
type AuthConfig struct {
	JWTSecret      string
	InternalAPIKey string
}

// CacheConfig holds TTLs for the market-data caches.
type CacheConfig struct {
	QuoteTTL   time.Duration
	ProfileTTL time.Duration
}

// RefreshConfig holds settings for the scheduled system-wide refresh.
// An empty Schedule disables the scheduler.
type RefreshConfig struct {
	Schedule      string
	MaxConcurrent int
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/dividend_tracker.db"),
		},
		FMP: FMPConfig{
			APIKey:  os.Getenv("FMP_API_KEY"),
			BaseURL: getEnv("FMP_BASE_URL", "https://financialmodelingprep.com/api/v3"),
			Timeout: getEnvSeconds("UPSTREAM_TIMEOUT", 10),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			InternalAPIKey: os.Getenv("INTERNAL_API_KEY"),
		},
		Cache: CacheConfig{
			QuoteTTL:   getEnvSeconds("QUOTE_CACHE_TTL", 60),
			ProfileTTL: getEnvSeconds("PROFILE_CACHE_TTL", 3600),
		},
		Refresh: RefreshConfig{
			Schedule:      os.Getenv("REFRESH_SCHEDULE"),
			MaxConcurrent: getEnvInt("REFRESH_MAX_CONCURRENT", 4),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value.
// Non-numeric values fall back to the default rather than failing startup.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

// getEnvSeconds reads an environment variable expressed in whole seconds.
func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds)) * time.Second
}
