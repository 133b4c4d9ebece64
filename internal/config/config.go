package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/educationrisehub/faceless-reels-generator/internal/content"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
}

// DatabaseConfig holds history database settings
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"` // SQLite file path
}

// AnthropicConfig holds Claude API settings
type AnthropicConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	AnthropicRequestsPerMinute int `mapstructure:"anthropic_requests_per_minute"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout or file path
}

// DefaultsConfig holds the configuration a fresh session starts with
type DefaultsConfig struct {
	Niche       string `mapstructure:"niche"`
	Mode        string `mapstructure:"mode"`
	Platform    string `mapstructure:"platform"`
	ContentType string `mapstructure:"content_type"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if present (ignore errors if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in current directory and configs folder
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		// Also check user's home directory
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".faceless-reels"))
		}
	}

	// Environment variables
	v.SetEnvPrefix("FACELESS")
	v.AutomaticEnv()

	// Explicit bindings for nested keys (Viper doesn't auto-bind underscored nested keys)
	v.BindEnv("anthropic.api_key", "FACELESS_ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "FACELESS_ANTHROPIC_MODEL")
	v.BindEnv("database.dsn", "FACELESS_DATABASE_DSN")
	v.BindEnv("server.host", "FACELESS_SERVER_HOST")
	v.BindEnv("server.port", "FACELESS_SERVER_PORT")
	v.BindEnv("logging.level", "FACELESS_LOGGING_LEVEL")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.dsn", "./data/faceless.db")

	// Anthropic defaults
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.temperature", 0.7)

	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8787)

	// Rate limit defaults
	v.SetDefault("rate_limit.anthropic_requests_per_minute", 10)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")

	// Session defaults
	v.SetDefault("defaults.niche", string(content.NicheStudents))
	v.SetDefault("defaults.mode", string(content.ModeHooks))
	v.SetDefault("defaults.platform", string(content.PlatformTikTok))
	v.SetDefault("defaults.content_type", string(content.ContentTypeEducational))
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Anthropic.APIKey == "" {
		return fmt.Errorf("anthropic.api_key is required")
	}
	return nil
}

// SessionConfig maps the configured defaults onto a session configuration,
// falling back to the built-in defaults for unknown values.
func (c *Config) SessionConfig() content.Config {
	cfg := content.DefaultConfig()
	if n := content.Niche(c.Defaults.Niche); n.Valid() {
		cfg.Niche = n
	}
	if m := content.Mode(c.Defaults.Mode); m.Valid() {
		cfg.Mode = m
	}
	if p := content.Platform(c.Defaults.Platform); p.Valid() {
		cfg.Platform = p
	}
	if t := content.ContentType(c.Defaults.ContentType); t.Valid() {
		cfg.ContentType = t
	}
	return cfg
}
