// Package config loads service configuration from an optional file and the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultPort           = 8080
	DefaultProvider       = "gemini"
	DefaultSummaryTimeout = 15 * time.Second
	DefaultLogLevel       = "info"
)

// Config is the service configuration.
type Config struct {
	Port int `mapstructure:"port"`

	// Store selection. DatabaseURL wins over SQLitePath; with neither set the
	// recommendation endpoints are unavailable.
	DatabaseURL string `mapstructure:"database_url"`
	SQLitePath  string `mapstructure:"sqlite_path"`

	CatalogPath string `mapstructure:"catalog_path"`

	// Summary generation. An empty API key disables summaries.
	LLMProvider    string        `mapstructure:"llm_provider"`
	LLMModel       string        `mapstructure:"llm_model"`
	LLMAPIKey      string        `mapstructure:"llm_api_key"`
	LLMBaseURL     string        `mapstructure:"llm_base_url"`
	SummaryTimeout time.Duration `mapstructure:"summary_timeout"`

	LogLevel string `mapstructure:"log_level"`

	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	JWTIssuer          string `mapstructure:"jwt_issuer"`

	CORSOrigin string `mapstructure:"cors_origin"`
}

// envBindings maps config keys to the environment variables that override
// them. Later names are fallbacks.
var envBindings = map[string][]string{
	"port":                 {"PORT"},
	"database_url":         {"DATABASE_URL"},
	"sqlite_path":          {"SQLITE_PATH"},
	"catalog_path":         {"CATALOG_PATH"},
	"llm_provider":         {"LLM_PROVIDER"},
	"llm_model":            {"LLM_MODEL"},
	"llm_api_key":          {"LLM_API_KEY", "GEMINI_API_KEY"},
	"llm_base_url":         {"LLM_BASE_URL"},
	"summary_timeout":      {"SUMMARY_TIMEOUT"},
	"log_level":            {"LOG_LEVEL"},
	"jwt_secret":           {"JWT_SECRET"},
	"jwt_expiration_hours": {"JWT_EXPIRATION_HOURS"},
	"jwt_issuer":           {"JWT_ISSUER"},
	"cors_origin":          {"CORS_ORIGIN"},
}

// Load reads configuration from path (JSON or YAML, optional) and the
// environment, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("llm_provider", DefaultProvider)
	v.SetDefault("summary_timeout", DefaultSummaryTimeout)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("jwt_expiration_hours", 24)
	v.SetDefault("jwt_issuer", "growth-compass")
	v.SetDefault("cors_origin", "*")
}

func (c *Config) normalize() {
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}

	switch c.LLMProvider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("config error: unknown 'llm_provider' %q", c.LLMProvider)
	}

	if c.SummaryTimeout <= 0 {
		return fmt.Errorf("config error: 'summary_timeout' must be positive")
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config error: invalid 'log_level' %q", c.LogLevel)
	}

	if c.JWTExpirationHours < 1 {
		return fmt.Errorf("config error: 'jwt_expiration_hours' must be at least 1, got %d", c.JWTExpirationHours)
	}

	return nil
}

// SummariesEnabled reports whether an LLM key is configured.
func (c *Config) SummariesEnabled() bool {
	return c.LLMAPIKey != ""
}

// HasStore reports whether a result store is configured.
func (c *Config) HasStore() bool {
	return c.DatabaseURL != "" || c.SQLitePath != ""
}
