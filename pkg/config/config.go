// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for the server, fetcher, cache, and security policy

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is the service version reported by /version.
const Version = "1.0.0"

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Service contains service identity reported by /version
	Service ServiceConfig

	// Fetch contains upstream fetch configuration
	Fetch FetchConfig

	// Headless contains headless rendering configuration
	Headless HeadlessConfig

	// StrategyOrder is the comma-separated extraction strategy order
	StrategyOrder string

	// Cache contains cache backend configuration
	Cache CacheConfig

	// RateLimit contains rate limiter configuration
	RateLimit RateLimitConfig

	// Security contains the URL/host validation policy
	Security SecurityConfig

	// RobotsEnforcementEnabled is reserved configuration; nothing consults it yet.
	RobotsEnforcementEnabled bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string
}

// ServiceConfig holds service identity information
type ServiceConfig struct {
	Name    string
	Version string
	GitSHA  string
}

// FetchConfig holds upstream fetch configuration
type FetchConfig struct {
	// MaxHTMLBytes caps the streamed response body size
	MaxHTMLBytes int64

	// TotalTimeout bounds one fetch hop end to end
	TotalTimeout time.Duration

	// ConnectTimeout bounds connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout bounds waiting for the response headers
	ReadTimeout time.Duration

	// RedirectLimit is the maximum number of redirect hops
	RedirectLimit int

	// UserAgent is sent on every upstream request
	UserAgent string
}

// HeadlessConfig holds headless rendering configuration
type HeadlessConfig struct {
	// Enabled toggles the headless strategy
	Enabled bool

	// AllowlistDomains restricts headless rendering to these domains (lowercase)
	AllowlistDomains []string

	// MaxRenderMillis caps a single render
	MaxRenderMillis int
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string

	// TTLSeconds is the TTL applied to pipeline results
	TTLSeconds int

	// Redis contains Redis-specific configuration
	Redis RedisConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// RateLimitConfig holds sliding-window rate limiter configuration
type RateLimitConfig struct {
	// IPPerMinute is the per-client-IP admission limit
	IPPerMinute int

	// DomainPerMinute is the per-target-domain admission limit
	DomainPerMinute int
}

// SecurityConfig holds the URL/host validation policy
type SecurityConfig struct {
	// BlockInternalSuffixes toggles suffix-based hostname blocking
	BlockInternalSuffixes bool

	// BlockedSuffixes are hostname suffixes rejected when suffix blocking is on
	BlockedSuffixes []string

	// BlockedHostnames are exact hostnames always rejected (lowercase)
	BlockedHostnames []string

	// AllowedSchemes are the permitted URL schemes
	AllowedSchemes []string

	// AllowedPorts are the permitted explicit ports
	AllowedPorts []int
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8000"),
		},
		Service: ServiceConfig{
			Name:    getEnvOrDefault("SERVICE_NAME", "recipe-importer-api"),
			Version: Version,
			GitSHA:  getEnvOrDefault("GIT_SHA", "dev"),
		},
		Fetch: FetchConfig{
			MaxHTMLBytes:   int64(getEnvAsIntOrDefault("MAX_HTML_BYTES", 3_000_000)),
			TotalTimeout:   time.Duration(getEnvAsIntOrDefault("FETCH_TIMEOUT_SECONDS", 8)) * time.Second,
			ConnectTimeout: time.Duration(getEnvAsIntOrDefault("CONNECT_TIMEOUT_SECONDS", 2)) * time.Second,
			ReadTimeout:    time.Duration(getEnvAsIntOrDefault("READ_TIMEOUT_SECONDS", 5)) * time.Second,
			RedirectLimit:  getEnvAsIntOrDefault("REDIRECT_LIMIT", 3),
			UserAgent:      getEnvOrDefault("USER_AGENT", "recipe-importer-api/"+Version),
		},
		Headless: HeadlessConfig{
			Enabled:          getEnvAsBoolOrDefault("ENABLE_HEADLESS", false),
			AllowlistDomains: getEnvAsListOrDefault("HEADLESS_ALLOWLIST_DOMAINS", nil),
			MaxRenderMillis:  getEnvAsIntOrDefault("HEADLESS_MAX_RENDER_MS", 6000),
		},
		StrategyOrder: getEnvOrDefault("STRATEGY_ORDER", "jsonld,microdata,heuristic,headless"),
		Cache: CacheConfig{
			Type:       getEnvOrDefault("CACHE_TYPE", "memory"),
			TTLSeconds: getEnvAsIntOrDefault("CACHE_TTL_SECONDS", 604_800),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
		},
		RateLimit: RateLimitConfig{
			IPPerMinute:     getEnvAsIntOrDefault("RATE_LIMIT_IP_PER_MIN", 20),
			DomainPerMinute: getEnvAsIntOrDefault("RATE_LIMIT_DOMAIN_PER_MIN", 60),
		},
		Security: SecurityConfig{
			BlockInternalSuffixes: getEnvAsBoolOrDefault("BLOCK_INTERNAL_SUFFIXES", false),
			BlockedSuffixes:       getEnvAsListOrDefault("BLOCKED_SUFFIXES", []string{".local", ".internal", ".corp"}),
			BlockedHostnames:      getEnvAsListOrDefault("BLOCKED_HOSTNAMES", []string{"localhost", "metadata.google.internal", "169.254.169.254"}),
			AllowedSchemes:        getEnvAsListOrDefault("ALLOWED_SCHEMES", []string{"http", "https"}),
			AllowedPorts:          getEnvAsIntListOrDefault("ALLOWED_PORTS", []int{80, 443}),
		},
		RobotsEnforcementEnabled: getEnvAsBoolOrDefault("ROBOTS_ENFORCEMENT_ENABLED", false),
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the environment variable as bool or a default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsListOrDefault returns the environment variable as a comma-separated
// list of lowercased, trimmed entries, or a default
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if item := strings.ToLower(strings.TrimSpace(part)); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// getEnvAsIntListOrDefault returns the environment variable as a comma-separated
// list of ints, or a default
func getEnvAsIntListOrDefault(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		intValue, err := strconv.Atoi(part)
		if err != nil {
			return defaultValue
		}
		items = append(items, intValue)
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Fetch.MaxHTMLBytes < 1 {
		return errors.New("max HTML bytes must be at least 1")
	}

	if c.Fetch.RedirectLimit < 0 {
		return errors.New("redirect limit cannot be negative")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Cache.TTLSeconds < 1 {
		return errors.New("cache TTL must be at least 1 second")
	}

	if c.RateLimit.IPPerMinute < 1 || c.RateLimit.DomainPerMinute < 1 {
		return errors.New("rate limits must be at least 1 per minute")
	}

	if len(c.Security.AllowedSchemes) == 0 {
		return errors.New("at least one allowed scheme is required")
	}

	if strings.TrimSpace(c.StrategyOrder) == "" {
		return fmt.Errorf("strategy order cannot be empty")
	}

	return nil
}

// Strategies returns the configured strategy order as a cleaned slice.
func (c *Config) Strategies() []string {
	var out []string
	for _, part := range strings.Split(c.StrategyOrder, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// CacheTTL returns the configured cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
