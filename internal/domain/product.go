package domain

// Product represents a single catalog item. Products are loaded once at
// startup and never mutated afterwards.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
}

// ScoredMatch pairs a catalog product with its similarity to the query
// image. Similarity is always within [0, 1].
type ScoredMatch struct {
	Product    Product `json:"product"`
	Similarity float64 `json:"similarity"`
}

// SearchResult is the outcome of one similarity search: the analysis the
// vision model produced for the query image plus every catalog product
// ranked by descending similarity. Truncating to a top-N is a delivery
// concern, not a ranking one.
type SearchResult struct {
	Analysis Analysis      `json:"analysis"`
	Matches  []ScoredMatch `json:"results"`
}
