package ratelimit

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	// MaxClients bounds the number of buckets kept; the least recently used
	// bucket is evicted first.
	MaxClients      int
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the built-in limits.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		MaxClients:      10000,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// LoadConfig reads RATE_LIMIT_* environment variables over DefaultConfig.
func LoadConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix("RATE_LIMIT")
	v.AutomaticEnv()

	cfg := DefaultConfig()
	v.SetDefault("enabled", cfg.Enabled)
	v.SetDefault("default_limit", cfg.DefaultLimit)
	v.SetDefault("default_window", cfg.DefaultWindow)
	v.SetDefault("max_clients", cfg.MaxClients)

	if !v.GetBool("enabled") {
		return &Config{Enabled: false}
	}

	cfg.DefaultLimit = v.GetInt("default_limit")
	cfg.DefaultWindow = v.GetDuration("default_window")
	cfg.MaxClients = v.GetInt("max_clients")
	cfg.Whitelist = parseIPList(v.GetString("whitelist"))
	cfg.Blacklist = parseIPList(v.GetString("blacklist"))
	return cfg
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Recommendations may call an LLM (strictest limits)
		{Path: "/recommendations", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},

		// Writes and scoring
		{Path: "/assessments/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Reads fall through to the default limit; /health and /metrics are
		// unlimited (see MatchEndpoint).
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
