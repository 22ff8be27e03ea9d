// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// GeminiConfig provides settings for the generative search collaborator.
type GeminiConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetGeminiBaseURL() string
}

// SearchConfig provides settings for the search form and result rendering.
type SearchConfig interface {
	GetDefaultCity() string
	GetLocation() *time.Location
	GetMapsSearchURL() string
}

// SessionConfig provides settings for browser sessions.
type SessionConfig interface {
	GetSessionTTL() time.Duration
	GetSessionCookieName() string
	GetSessionCookieSecure() bool
}

// LocationConfig provides settings for server-side location lookups.
type LocationConfig interface {
	GetIPGeolocationURL() string
	IsIPGeolocationEnabled() bool
}

// =============================================================================
// Config Struct
// =============================================================================

type Config struct {
	Env               string
	HTTPAddr          string
	CORSAllowAll      bool
	CORSOrigins       []string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	MapsSearchURL     string
	DefaultCity       string
	Timezone          *time.Location
	SessionTTL        time.Duration
	SessionCookieName string
	SessionSecure     bool
	IPGeolocationURL  string
}

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// GeminiConfig implementation
func (c *Config) GetGeminiAPIKey() string  { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string   { return c.GeminiModel }
func (c *Config) GetGeminiBaseURL() string { return c.GeminiBaseURL }

// SearchConfig implementation
func (c *Config) GetDefaultCity() string      { return c.DefaultCity }
func (c *Config) GetLocation() *time.Location { return c.Timezone }
func (c *Config) GetMapsSearchURL() string    { return c.MapsSearchURL }

// SessionConfig implementation
func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }
func (c *Config) GetSessionCookieName() string { return c.SessionCookieName }
func (c *Config) GetSessionCookieSecure() bool { return c.SessionSecure }

// LocationConfig implementation
func (c *Config) GetIPGeolocationURL() string  { return c.IPGeolocationURL }
func (c *Config) IsIPGeolocationEnabled() bool { return c.IPGeolocationURL != "" }

// Load reads configuration from the environment, after applying an optional
// .env file from the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8080"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	sessionSecure := strings.EqualFold(getEnv("SESSION_COOKIE_SECURE", ""), "true")
	if getEnv("SESSION_COOKIE_SECURE", "") == "" {
		sessionSecure = strings.EqualFold(env, "production")
	}

	tzName := getEnv("TIMEZONE", "Europe/Istanbul")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q is not a known location: %w", tzName, err)
	}

	cfg := &Config{
		Env:               env,
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:      corsAllowAll,
		CORSOrigins:       corsOrigins,
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", ""),
		MapsSearchURL:     getEnv("MAPS_SEARCH_URL", "https://www.google.com/maps/search/?api=1&query="),
		DefaultCity:       getEnv("DEFAULT_CITY", "İstanbul"),
		Timezone:          tz,
		SessionTTL:        mustDuration(getEnv("SESSION_TTL", "30m")),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "eczane_session"),
		SessionSecure:     sessionSecure,
		IPGeolocationURL:  getEnv("IP_GEOLOCATION_URL", ""),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be a positive duration")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
