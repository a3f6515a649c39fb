package search

import "sort"

// Tier buckets a similarity score for display.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// SimilarityTier maps a 0-100 score: >=85 high, >=70 medium, else low.
func SimilarityTier(similarity float64) Tier {
	switch {
	case similarity >= 85:
		return TierHigh
	case similarity >= 70:
		return TierMedium
	default:
		return TierLow
	}
}

// SortBySimilarity orders results by descending similarity in place.
// Results without a score sort last and keep their relative order.
func SortBySimilarity(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Similarity, results[j].Similarity
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})
}
