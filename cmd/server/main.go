package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/visualmatch/backend/config"
	httpDelivery "github.com/visualmatch/backend/internal/delivery/http"
	"github.com/visualmatch/backend/internal/infrastructure/cache"
	"github.com/visualmatch/backend/internal/infrastructure/catalog"
	"github.com/visualmatch/backend/internal/infrastructure/images"
	"github.com/visualmatch/backend/internal/infrastructure/vision"
	"github.com/visualmatch/backend/internal/usecase"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded configuration from .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting VisualMatch Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Load the product catalog
	store, err := catalog.LoadFromFile(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to load catalog from %s: %v", cfg.Catalog.Path, err)
	}
	log.Printf("Catalog loaded: %d products, %d categories", store.Size(), len(store.Categories()))

	// Initialize infrastructure dependencies
	analysisCache := cache.NewMemoryCache()
	log.Printf("Analysis cache TTL: %s", cfg.Cache.TTL)

	visionClient, err := vision.NewClient(vision.Options{
		Provider:          cfg.Vision.Provider,
		APIKey:            cfg.Vision.APIKey,
		Model:             cfg.Vision.Model,
		Timeout:           cfg.Vision.Timeout,
		RequestsPerMinute: cfg.Vision.RequestsPerMinute,
	})
	if err != nil {
		log.Fatalf("Failed to create vision client: %v", err)
	}
	log.Printf("Vision provider: %s (timeout=%s, rpm=%d)",
		visionClient.Provider(), cfg.Vision.Timeout, cfg.Vision.RequestsPerMinute)

	fetcher := images.NewFetcher(cfg.Upload.MaxSizeBytes, 0)

	// Initialize usecase layer
	searchService := usecase.NewSearchService(
		store,
		visionClient,
		fetcher,
		analysisCache,
		usecase.SearchServiceConfig{CacheTTL: cfg.Cache.TTL},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(
		searchService,
		store,
		visionClient.Provider(),
		cfg.Upload.MaxSizeBytes,
		cfg.Search.TopResults,
	)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
