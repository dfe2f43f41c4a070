package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Matching  MatchingConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DataConfig holds data source configuration
type DataConfig struct {
	WorkbookPath string `mapstructure:"workbook_path"`
	SQLitePath   string `mapstructure:"sqlite_path"`
	HomeStore    string `mapstructure:"home_store"`
}

// MatchingConfig holds matching engine configuration
type MatchingConfig struct {
	DefaultCutoff      float64 `mapstructure:"default_cutoff"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// CacheConfig holds snapshot cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/recapdash/")

	// Environment variable settings
	v.SetEnvPrefix("RECAPDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Data defaults
	v.SetDefault("data.workbook_path", "Data Cek Harga Kompetitor.xlsx")
	v.SetDefault("data.sqlite_path", "recapdash.db")
	v.SetDefault("data.home_store", "DB KLIK")

	// Matching defaults
	v.SetDefault("matching.default_cutoff", 0.65)
	v.SetDefault("matching.enable_debug_logging", false)

	// Cache defaults
	v.SetDefault("cache.ttl", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Data.WorkbookPath == "" {
		return fmt.Errorf("workbook path is required (set RECAPDASH_DATA_WORKBOOK_PATH)")
	}

	if config.Data.HomeStore == "" {
		return fmt.Errorf("home store name is required")
	}

	if config.Matching.DefaultCutoff < 0 || config.Matching.DefaultCutoff > 1 {
		return fmt.Errorf("default cutoff must be between 0 and 1, got: %v", config.Matching.DefaultCutoff)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
