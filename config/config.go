// Package config loads and validates application configuration from
// environment variables. Required variables, defaults, and parse failures
// are collected and reported together, so a misconfigured deployment fails
// fast with one complete message instead of dying on the first missing key.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabasePools holds configuration for the two database connection pools:
// one for request-path queries and a small dedicated one for the audit log
// writer, so log persistence never competes with user-facing queries.
type DatabasePools struct {
	AppPool *PoolConfig
	LogPool *PoolConfig
}

// PoolConfig represents configuration for a single database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret     string        // Secret key for signing session tokens
	TokenDuration time.Duration // Lifetime of issued tokens
	BcryptCost    int           // Work factor for password hashing
}

// GatewayConfig holds the external AI workflow endpoint settings.
type GatewayConfig struct {
	WebhookURL string // n8n webhook endpoint
	APIKey     string // Bearer credential attached to every call
}

// RateLimitConfig holds the global rate limiter settings. The per-route
// register/login limits are fixed in the router, not configured here.
type RateLimitConfig struct {
	Window time.Duration // Trailing window
	Max    int           // Max requests per key within the window
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port        string // Port for the HTTP server
	CORSOrigin  string // Allowed CORS origin for the frontend
	Environment string // "development" or "production"
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DBPools   *DatabasePools
	Auth      *AuthConfig
	Gateway   *GatewayConfig
	RateLimit *RateLimitConfig
	Server    *ServerConfig
}

// IsDevelopment reports whether the app runs in development mode. Debug log
// records and error stack traces are only emitted in development.
func (c *AppConfig) IsDevelopment() bool {
	return c.Server.Environment != "production"
}

func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps pool sizes within sane bounds.
func clampPoolSize(size int, varName string, errs *[]string) int {
	if size < 2 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is less than minimum 2, clamping to 2", varName, size))
		size = 2
	}
	if size > 100 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size))
		size = 100
	}
	return size
}

// LoadConfig creates and returns an AppConfig by reading and validating
// environment variables. All errors encountered are collected and returned
// as a single aggregated error.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	// Database
	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)

	appPoolSize := clampPoolSize(getOptionalEnvInt("DB_APP_POOL_SIZE", 10, &errs), "DB_APP_POOL_SIZE", &errs)
	logPoolSize := clampPoolSize(getOptionalEnvInt("DB_LOG_POOL_SIZE", 2, &errs), "DB_LOG_POOL_SIZE", &errs)

	dbPools := &DatabasePools{
		AppPool: &PoolConfig{
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			DBName:   dbName,
			MaxSize:  appPoolSize,
		},
		LogPool: &PoolConfig{
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			DBName:   dbName,
			MaxSize:  logPoolSize,
		},
	}

	// Auth
	authConfig := &AuthConfig{
		JWTSecret:     getRequiredEnv("JWT_SECRET", &errs),
		TokenDuration: getOptionalEnvDuration("JWT_TOKEN_DURATION", 168*time.Hour, &errs), // 7 days
		BcryptCost:    12,
	}

	// Workflow gateway
	gatewayConfig := &GatewayConfig{
		WebhookURL: getRequiredEnv("N8N_WEBHOOK_URL", &errs),
		APIKey:     getOptionalEnv("N8N_API_KEY", ""),
	}

	// Global rate limit: RATE_LIMIT_WINDOW is expressed in minutes.
	rateLimitConfig := &RateLimitConfig{
		Window: time.Duration(getOptionalEnvInt("RATE_LIMIT_WINDOW", 15, &errs)) * time.Minute,
		Max:    getOptionalEnvInt("RATE_LIMIT_MAX", 100, &errs),
	}

	// Server
	serverConfig := &ServerConfig{
		Port:        getOptionalEnv("PORT", "3000"),
		CORSOrigin:  getOptionalEnv("CORS_ORIGIN", "http://localhost:3001"),
		Environment: getOptionalEnv("APP_ENV", "development"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DBPools:   dbPools,
		Auth:      authConfig,
		Gateway:   gatewayConfig,
		RateLimit: rateLimitConfig,
		Server:    serverConfig,
	}, nil
}
