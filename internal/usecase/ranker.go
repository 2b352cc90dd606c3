package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/visualmatch/backend/internal/domain"
)

// Package-level compiled regex pattern for performance
var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// categoryBoost is the multiplier applied when the analysis category and
// the product category are exactly equal. The boosted score is capped at 1.0.
const categoryBoost = 1.3

// Tokenize splits free text into a set of lowercase tokens, delimited by
// whitespace and punctuation. Token identity is exact string match after
// lowercasing: no stemming, no stop words, no numeric filtering. Empty
// input yields the empty set.
func Tokenize(s string) map[string]struct{} {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(cleaned) {
		tokens[word] = struct{}{}
	}
	return tokens
}

// jaccard computes |A∩B| / |A∪B|. An empty union is defined as 0.0 so the
// score is total and never divides by zero.
func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// Ranker scores every catalog product against a query token set
type Ranker struct {
	catalog domain.CatalogRepository
}

// NewRanker creates a ranker over the given catalog
func NewRanker(catalog domain.CatalogRepository) *Ranker {
	return &Ranker{catalog: catalog}
}

// Rank computes the similarity of every catalog product to the query.
// Per product: Jaccard over the token sets, then a 1.3x boost when
// queryCategory exactly equals the product category (case-sensitive, both
// non-empty), capped at 1.0. No score filtering happens here; the full
// list is returned sorted by descending similarity, ties preserving
// catalog order.
func (r *Ranker) Rank(queryTokens map[string]struct{}, queryCategory string) []domain.ScoredMatch {
	products := r.catalog.All()

	matches := make([]domain.ScoredMatch, 0, len(products))
	for _, product := range products {
		itemTokens := Tokenize(r.catalog.MatchText(product.ID))

		score := jaccard(queryTokens, itemTokens)
		if queryCategory != "" && product.Category != "" && queryCategory == product.Category {
			score *= categoryBoost
			if score > 1.0 {
				score = 1.0
			}
		}

		matches = append(matches, domain.ScoredMatch{
			Product:    product,
			Similarity: score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	return matches
}
