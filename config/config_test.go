package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("VISUALMATCH_SERVER_PORT")
		os.Unsetenv("VISUALMATCH_SERVER_ENVIRONMENT")
		os.Unsetenv("VISUALMATCH_VISION_PROVIDER")
		os.Unsetenv("VISUALMATCH_VISION_API_KEY")
		os.Unsetenv("VISUALMATCH_VISION_MODEL")
		os.Unsetenv("VISUALMATCH_VISION_TIMEOUT")
		os.Unsetenv("VISUALMATCH_CATALOG_PATH")
		os.Unsetenv("VISUALMATCH_CACHE_TTL")
		os.Unsetenv("VISUALMATCH_UPLOAD_MAX_SIZE_BYTES")
		os.Unsetenv("VISUALMATCH_SEARCH_TOP_RESULTS")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		// Set required API key
		os.Setenv("VISUALMATCH_VISION_API_KEY", "test-key")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Vision.Provider != "gemini" {
			t.Errorf("Vision.Provider = %s, want gemini", cfg.Vision.Provider)
		}
		// The key arrives via env alone; it must still reach the struct
		if cfg.Vision.APIKey != "test-key" {
			t.Errorf("Vision.APIKey = %s, want test-key", cfg.Vision.APIKey)
		}
		if cfg.Vision.Model != "" {
			t.Errorf("Vision.Model = %s, want empty (provider default applies later)", cfg.Vision.Model)
		}
		if cfg.Vision.Timeout != 30*time.Second {
			t.Errorf("Vision.Timeout = %v, want 30s", cfg.Vision.Timeout)
		}
		if cfg.Vision.RequestsPerMinute != 60 {
			t.Errorf("Vision.RequestsPerMinute = %d, want 60", cfg.Vision.RequestsPerMinute)
		}
		if cfg.Catalog.Path != "data/products.json" {
			t.Errorf("Catalog.Path = %s, want data/products.json", cfg.Catalog.Path)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.Upload.MaxSizeBytes != 16*1024*1024 {
			t.Errorf("Upload.MaxSizeBytes = %d, want 16 MiB", cfg.Upload.MaxSizeBytes)
		}
		if cfg.Search.TopResults != 20 {
			t.Errorf("Search.TopResults = %d, want 20", cfg.Search.TopResults)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("VISUALMATCH_SERVER_PORT", "9090")
		os.Setenv("VISUALMATCH_SERVER_ENVIRONMENT", "production")
		os.Setenv("VISUALMATCH_VISION_PROVIDER", "openai")
		os.Setenv("VISUALMATCH_VISION_API_KEY", "custom-api-key")
		os.Setenv("VISUALMATCH_VISION_MODEL", "gpt-4o")
		os.Setenv("VISUALMATCH_VISION_TIMEOUT", "10s")
		os.Setenv("VISUALMATCH_CATALOG_PATH", "/srv/products.json")
		os.Setenv("VISUALMATCH_CACHE_TTL", "24h")
		os.Setenv("VISUALMATCH_SEARCH_TOP_RESULTS", "5")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Vision.Provider != "openai" {
			t.Errorf("Vision.Provider = %s, want openai", cfg.Vision.Provider)
		}
		if cfg.Vision.APIKey != "custom-api-key" {
			t.Errorf("Vision.APIKey = %s, want custom-api-key", cfg.Vision.APIKey)
		}
		if cfg.Vision.Model != "gpt-4o" {
			t.Errorf("Vision.Model = %s, want gpt-4o", cfg.Vision.Model)
		}
		if cfg.Vision.Timeout != 10*time.Second {
			t.Errorf("Vision.Timeout = %v, want 10s", cfg.Vision.Timeout)
		}
		if cfg.Catalog.Path != "/srv/products.json" {
			t.Errorf("Catalog.Path = %s, want /srv/products.json", cfg.Catalog.Path)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Search.TopResults != 5 {
			t.Errorf("Search.TopResults = %d, want 5", cfg.Search.TopResults)
		}
	})

	t.Run("fails validation when API key is missing", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing API key")
		}
	})

	t.Run("fails validation for unknown provider", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("VISUALMATCH_VISION_API_KEY", "test-key")
		os.Setenv("VISUALMATCH_VISION_PROVIDER", "llava")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for unknown provider")
		}
	})
}

func TestValidate(t *testing.T) {
	validConfig := func() *Config {
		return &Config{
			Vision: VisionConfig{
				Provider: "gemini",
				APIKey:   "test-key",
			},
			Catalog: CatalogConfig{Path: "data/products.json"},
			Upload:  UploadConfig{MaxSizeBytes: 16 * 1024 * 1024},
			Search:  SearchConfig{TopResults: 20},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(validConfig()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when API key is empty", func(t *testing.T) {
		cfg := validConfig()
		cfg.Vision.APIKey = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty API key")
		}
	})

	t.Run("fails for invalid provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.Vision.Provider = "claude"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for invalid provider")
		}
	})

	t.Run("fails for empty catalog path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Catalog.Path = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty catalog path")
		}
	})

	t.Run("fails for non-positive upload limit", func(t *testing.T) {
		cfg := validConfig()
		cfg.Upload.MaxSizeBytes = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero upload limit")
		}
	})

	t.Run("fails for zero top results", func(t *testing.T) {
		cfg := validConfig()
		cfg.Search.TopResults = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero top results")
		}
	})
}
