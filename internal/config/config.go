// Package config provides configuration management for Harbor.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment represents the deployment environment.
type Environment string

const (
	// EnvDevelopment is the default local development environment.
	EnvDevelopment Environment = "development"
	// EnvStaging is the staging/pre-production environment.
	EnvStaging Environment = "staging"
	// EnvProduction is the production environment.
	EnvProduction Environment = "production"
)

// FallbackEmail is the hard-coded identity fallback used when neither request
// headers nor configuration provide an email. It doubles as the fallback
// super admin email, so a fully unconfigured deployment resolves its first
// user as a super admin.
const FallbackEmail = "admin@example.com"

// ServerConfig holds server-level configuration loaded from environment variables.
type ServerConfig struct {
	Environment Environment
	Port        int
	DatabaseURL string

	// DefaultUserEmail is used when a request carries no identity header.
	DefaultUserEmail string
	// SuperAdminEmail designates which resolved email receives the super
	// admin role on first creation. Compared case-insensitively.
	SuperAdminEmail string

	RateLimitRequests int64
	RateLimitPeriod   string
}

// LoadServerConfig reads server configuration from environment variables.
func LoadServerConfig() ServerConfig {
	env := Environment(os.Getenv("ENV"))
	switch env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// valid
	default:
		env = EnvDevelopment
	}

	port := getEnvInt("PORT", 8080)
	if port <= 0 || port > 65535 {
		port = 8080
	}

	rateLimitRequests := int64(getEnvInt("RATE_LIMIT_REQUESTS", 100))
	if rateLimitRequests <= 0 {
		rateLimitRequests = 100
	}

	return ServerConfig{
		Environment:       env,
		Port:              port,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DefaultUserEmail:  getEnvStr("DEFAULT_USER_EMAIL", ""),
		SuperAdminEmail:   getEnvStr("SUPER_ADMIN_EMAIL", ""),
		RateLimitRequests: rateLimitRequests,
		RateLimitPeriod:   getEnvStr("RATE_LIMIT_PERIOD", "1m"),
	}
}

// getEnvStr reads a trimmed string from an environment variable, returning the
// default if unset or blank.
func getEnvStr(key, defaultVal string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt reads an integer from an environment variable, returning the default if unset or invalid.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
