package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/visualmatch/backend/internal/domain"
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL time.Duration
}

// SearchService runs one visual similarity search: obtain an analysis of
// the query image from the vision provider, adapt it, and rank the catalog
// against it. URL-based queries reuse cached analyses.
type SearchService struct {
	catalog  domain.CatalogRepository
	vision   domain.VisionClient
	fetcher  domain.ImageFetcher
	cache    domain.AnalysisCache
	ranker   *Ranker
	cacheTTL time.Duration
}

// NewSearchService creates a search service with dependencies
func NewSearchService(
	catalog domain.CatalogRepository,
	vision domain.VisionClient,
	fetcher domain.ImageFetcher,
	cache domain.AnalysisCache,
	config SearchServiceConfig,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	return &SearchService{
		catalog:  catalog,
		vision:   vision,
		fetcher:  fetcher,
		cache:    cache,
		ranker:   NewRanker(catalog),
		cacheTTL: cacheTTL,
	}
}

// SearchByImage analyzes uploaded image bytes and ranks the catalog
// against the resulting analysis. A vision API failure is surfaced as
// ErrVisionUnavailable; malformed-but-present model output degrades
// inside the adapter and still produces a result.
func (s *SearchService) SearchByImage(ctx context.Context, imageData []byte, mimeType string) (*domain.SearchResult, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("%w: empty image payload", domain.ErrInvalidInput)
	}

	analysis, err := s.analyze(ctx, imageData, mimeType)
	if err != nil {
		return nil, err
	}

	return s.rankAnalysis(analysis), nil
}

// SearchByURL fetches the image behind the URL and runs the same search.
// Flow: check cache -> fetch image -> vision call -> adapt -> cache -> rank.
func (s *SearchService) SearchByURL(ctx context.Context, imageURL string) (*domain.SearchResult, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("%w: no image URL provided", domain.ErrInvalidInput)
	}

	// Try cache first: the analysis of a URL-addressed image is stable for
	// the cache window
	if cached, err := s.cache.Get(ctx, imageURL); err == nil && cached != nil {
		return s.rankAnalysis(*cached), nil
	}

	imageData, mimeType, err := s.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	analysis, err := s.analyze(ctx, imageData, mimeType)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, imageURL, &analysis, s.cacheTTL); err != nil {
		// Caching is best effort; the search already succeeded
		log.Printf("[SEARCH] failed to cache analysis for %s: %v", imageURL, err)
	}

	return s.rankAnalysis(analysis), nil
}

func (s *SearchService) analyze(ctx context.Context, imageData []byte, mimeType string) (domain.Analysis, error) {
	result, err := s.vision.AnalyzeImage(ctx, imageData, mimeType)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("vision analysis: %w", err)
	}

	return AdaptAnalysis(result), nil
}

func (s *SearchService) rankAnalysis(analysis domain.Analysis) *domain.SearchResult {
	queryTokens := Tokenize(buildQueryText(analysis))
	matches := s.ranker.Rank(queryTokens, analysis.Category)

	return &domain.SearchResult{
		Analysis: analysis,
		Matches:  matches,
	}
}
