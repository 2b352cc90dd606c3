package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Vision  VisionConfig
	Catalog CatalogConfig
	Cache   CacheConfig
	Upload  UploadConfig
	Search  SearchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// VisionConfig holds vision API configuration
type VisionConfig struct {
	Provider          string        `mapstructure:"provider"` // "gemini" or "openai"
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// CatalogConfig holds product catalog configuration
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig holds analysis cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// UploadConfig holds image upload limits
type UploadConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

// SearchConfig holds search response configuration
type SearchConfig struct {
	TopResults int `mapstructure:"top_results"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/visualmatch/")

	// Environment variable settings
	v.SetEnvPrefix("VISUALMATCH")
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

	// Vision defaults. api_key and model default to empty but must still be
	// registered: AutomaticEnv only surfaces keys viper already knows about,
	// so without these entries the env vars never reach Unmarshal.
	v.SetDefault("vision.provider", "gemini")
	v.SetDefault("vision.api_key", "")
	v.SetDefault("vision.model", "")
	v.SetDefault("vision.timeout", "30s")
	v.SetDefault("vision.requests_per_minute", 60)

	// Catalog defaults
	v.SetDefault("catalog.path", "data/products.json")

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Upload defaults
	v.SetDefault("upload.max_size_bytes", 16*1024*1024) // 16 MiB

	// Search defaults
	v.SetDefault("search.top_results", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Vision.APIKey == "" {
		return fmt.Errorf("vision API key is required (set VISUALMATCH_VISION_API_KEY)")
	}

	if config.Vision.Provider != "gemini" && config.Vision.Provider != "openai" {
		return fmt.Errorf("vision provider must be 'gemini' or 'openai', got: %s", config.Vision.Provider)
	}

	if config.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required")
	}

	if config.Upload.MaxSizeBytes <= 0 {
		return fmt.Errorf("upload max size must be positive, got: %d", config.Upload.MaxSizeBytes)
	}

	if config.Search.TopResults < 1 {
		return fmt.Errorf("search top_results must be at least 1, got: %d", config.Search.TopResults)
	}

	return nil
}
