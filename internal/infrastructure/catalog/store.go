package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/visualmatch/backend/internal/domain"
)

// Store holds the product catalog in memory. It is populated once by
// LoadFromFile and read-only afterwards, so concurrent requests need no
// locking.
type Store struct {
	products  []domain.Product
	byID      map[int]int    // product ID -> index into products
	matchText map[int]string // product ID -> precomputed similarity text
}

// LoadFromFile reads the product catalog from a JSON file and builds the
// in-memory store. The match text for every product (name, category and
// description concatenated) is precomputed here so the ranker never
// rebuilds it per request.
func LoadFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON in %s: %w", path, err)
	}

	return New(products)
}

// New builds a store from an in-memory product list. Useful for tests
// with synthetic catalogs.
func New(products []domain.Product) (*Store, error) {
	store := &Store{
		products:  products,
		byID:      make(map[int]int, len(products)),
		matchText: make(map[int]string, len(products)),
	}

	for i, p := range products {
		if _, exists := store.byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product ID %d in catalog", p.ID)
		}
		store.byID[p.ID] = i
		store.matchText[p.ID] = p.Name + " " + p.Category + " " + p.Description
	}

	return store, nil
}

// All returns every product in catalog insertion order
func (s *Store) All() []domain.Product {
	return s.products
}

// GetByID returns the product with the given ID
func (s *Store) GetByID(id int) (*domain.Product, error) {
	idx, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &s.products[idx], nil
}

// ByCategory returns products whose category matches, case-insensitively.
// Filtering is a listing convenience; the ranker's boost comparison stays
// case-sensitive.
func (s *Store) ByCategory(category string) []domain.Product {
	matched := make([]domain.Product, 0)
	for _, p := range s.products {
		if strings.EqualFold(p.Category, category) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Categories returns the sorted set of distinct category names
func (s *Store) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

// MatchText returns the precomputed similarity text for a product, or ""
// for an unknown ID
func (s *Store) MatchText(id int) string {
	return s.matchText[id]
}

// Size returns the number of products loaded
func (s *Store) Size() int {
	return len(s.products)
}
