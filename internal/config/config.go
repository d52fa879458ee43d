package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	Env         string   `mapstructure:"env"`
	AuthEnabled bool     `mapstructure:"auth_enabled"`
	APIKeys     []string `mapstructure:"api_keys"`
}

type RoutingConfig struct {
	// Enabled false turns the service into a pass-through: no analysis, no
	// selection, callers get their own model (or the safe default) back.
	Enabled          bool     `mapstructure:"enabled"`
	CatalogPath      string   `mapstructure:"catalog_path"`
	ThresholdsPath   string   `mapstructure:"thresholds_path"`
	MaxFallbacks     int      `mapstructure:"max_fallbacks"`
	ExcludedTools    []string `mapstructure:"excluded_tools"`
	SafeDefaultModel string   `mapstructure:"safe_default_model"`
	// PinnedModels keep their declared tier even when the band configuration
	// derives a different one.
	PinnedModels   []string `mapstructure:"pinned_models"`
	DecisionBuffer int      `mapstructure:"decision_buffer"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Default Values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.auth_enabled", false)
	v.SetDefault("routing.enabled", true)
	v.SetDefault("routing.catalog_path", "config/models.csv")
	v.SetDefault("routing.thresholds_path", "config/thresholds.yaml")
	v.SetDefault("routing.max_fallbacks", 3)
	v.SetDefault("routing.safe_default_model", "llama-3.1-8b")
	v.SetDefault("routing.decision_buffer", 256)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("database.path", "strata.db")
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	// Environment Variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Routing.MaxFallbacks < 0 {
		return fmt.Errorf("routing.max_fallbacks must not be negative")
	}
	if c.Routing.DecisionBuffer < 1 {
		return fmt.Errorf("routing.decision_buffer must be at least 1")
	}
	if c.Routing.Enabled {
		if c.Routing.CatalogPath == "" {
			return fmt.Errorf("routing.catalog_path is required when routing is enabled")
		}
		if c.Routing.ThresholdsPath == "" {
			return fmt.Errorf("routing.thresholds_path is required when routing is enabled")
		}
	}
	if c.Routing.SafeDefaultModel == "" {
		return fmt.Errorf("routing.safe_default_model is required")
	}
	if c.Server.AuthEnabled && len(c.Server.APIKeys) == 0 {
		return fmt.Errorf("server.api_keys must not be empty when auth is enabled")
	}
	return nil
}
