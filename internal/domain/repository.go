package domain

import (
	"context"
	"time"
)

// CatalogRepository defines read-only access to the product catalog loaded
// at startup.
type CatalogRepository interface {
	All() []Product
	GetByID(id int) (*Product, error)
	ByCategory(category string) []Product
	Categories() []string
	// MatchText returns the precomputed name+category+description text used
	// for similarity tokenization.
	MatchText(id int) string
}

// VisionClient defines the boundary to an external vision model. The image
// is passed as raw bytes with its declared MIME type.
type VisionClient interface {
	AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*VisionResult, error)
	Provider() string
}

// ImageFetcher retrieves image bytes from a caller-supplied URL. It
// returns the bytes together with the content type the origin declared.
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL string) ([]byte, string, error)
}

// AnalysisCache caches completed analyses keyed by image URL so repeated
// URL searches skip the vision call.
type AnalysisCache interface {
	Get(ctx context.Context, key string) (*Analysis, error)
	Set(ctx context.Context, key string, analysis *Analysis, ttl time.Duration) error
}
