// Package config provides client configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// APIConfig provides settings for the LegalLink REST client.
type APIConfig interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() time.Duration
	GetRateLimitPerSecond() float64
	GetRateLimitBurst() int
}

// StoreConfig provides settings for the local cache storage scope.
type StoreConfig interface {
	GetCacheFile() string
	GetRedisURL() string
}

// SessionConfig provides settings for the on-disk session.
type SessionConfig interface {
	GetSessionFile() string
	GetSessionSecret() string
}

// ChatConfig provides settings for the chat message throttle.
type ChatConfig interface {
	GetChatMessageLimit() int
	GetChatLimitOverrides() map[string]int
}

// PhoneConfig provides the default region for phone normalization.
type PhoneConfig interface {
	GetPhoneRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all client configuration values.
type Config struct {
	Env                string
	APIBaseURL         string
	HTTPTimeout        time.Duration
	RateLimitPerSecond float64
	RateLimitBurst     int
	CacheFile          string
	RedisURL           string
	SessionFile        string
	SessionSecret      string
	ChatMessageLimit   int
	ChatLimitOverrides map[string]int
	PhoneRegion        string
}

// Load reads configuration from the environment, with .env support.
func Load() (*Config, error) {
	_ = godotenv.Load()

	stateDir := getEnv("LEGALLINK_STATE_DIR", defaultStateDir())

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		APIBaseURL:         strings.TrimRight(getEnv("LEGALLINK_API_URL", "http://localhost:8080/api"), "/"),
		HTTPTimeout:        mustDuration(getEnv("LEGALLINK_HTTP_TIMEOUT", "30s")),
		RateLimitPerSecond: mustFloat(getEnv("LEGALLINK_RATE_LIMIT_RPS", "5")),
		RateLimitBurst:     mustInt(getEnv("LEGALLINK_RATE_LIMIT_BURST", "10")),
		CacheFile:          getEnv("LEGALLINK_CACHE_FILE", filepath.Join(stateDir, "cache.json")),
		RedisURL:           getEnv("LEGALLINK_REDIS_URL", ""),
		SessionFile:        getEnv("LEGALLINK_SESSION_FILE", filepath.Join(stateDir, "session.enc")),
		SessionSecret:      getEnv("LEGALLINK_SESSION_SECRET", ""),
		ChatMessageLimit:   mustInt(getEnv("LEGALLINK_CHAT_LIMIT", "15")),
		ChatLimitOverrides: parseLimitOverrides(getEnv("LEGALLINK_CHAT_LIMIT_OVERRIDES", "krystal-jung=14")),
		PhoneRegion:        getEnv("LEGALLINK_PHONE_REGION", "US"),
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("LEGALLINK_API_URL is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("LEGALLINK_SESSION_SECRET is required")
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("LEGALLINK_HTTP_TIMEOUT must be a positive duration")
	}
	if cfg.ChatMessageLimit < 1 {
		return nil, fmt.Errorf("LEGALLINK_CHAT_LIMIT must be at least 1")
	}

	return cfg, nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".legallink"
	}
	return filepath.Join(home, ".legallink")
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

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseLimitOverrides parses "conversation-id=limit" pairs from a CSV value.
// Malformed pairs are skipped.
func parseLimitOverrides(value string) map[string]int {
	overrides := make(map[string]int)
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		key, raw, found := strings.Cut(trimmed, "=")
		if !found {
			continue
		}
		limit, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || limit < 0 {
			continue
		}
		overrides[strings.TrimSpace(key)] = limit
	}
	return overrides
}

// =============================================================================
// Interface Implementations
// =============================================================================

// GetAPIBaseURL returns the LegalLink REST base URL.
func (c *Config) GetAPIBaseURL() string { return c.APIBaseURL }

// GetHTTPTimeout returns the per-request HTTP timeout.
func (c *Config) GetHTTPTimeout() time.Duration { return c.HTTPTimeout }

// GetRateLimitPerSecond returns the outbound request rate.
func (c *Config) GetRateLimitPerSecond() float64 { return c.RateLimitPerSecond }

// GetRateLimitBurst returns the outbound request burst size.
func (c *Config) GetRateLimitBurst() int { return c.RateLimitBurst }

// GetCacheFile returns the path of the file-backed persistent scope.
func (c *Config) GetCacheFile() string { return c.CacheFile }

// GetRedisURL returns the Redis URL for the persistent scope, if configured.
func (c *Config) GetRedisURL() string { return c.RedisURL }

// GetSessionFile returns the path of the encrypted session file.
func (c *Config) GetSessionFile() string { return c.SessionFile }

// GetSessionSecret returns the secret used to derive the session file key.
func (c *Config) GetSessionSecret() string { return c.SessionSecret }

// GetChatMessageLimit returns the default per-conversation message ceiling.
func (c *Config) GetChatMessageLimit() int { return c.ChatMessageLimit }

// GetChatLimitOverrides returns per-conversation ceiling overrides.
func (c *Config) GetChatLimitOverrides() map[string]int { return c.ChatLimitOverrides }

// GetPhoneRegion returns the default region for phone normalization.
func (c *Config) GetPhoneRegion() string { return c.PhoneRegion }

// Compile-time checks that Config satisfies the module interfaces.
var (
	_ APIConfig     = (*Config)(nil)
	_ StoreConfig   = (*Config)(nil)
	_ SessionConfig = (*Config)(nil)
	_ ChatConfig    = (*Config)(nil)
	_ PhoneConfig   = (*Config)(nil)
)
