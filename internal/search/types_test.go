package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterJira, ParseFilter("jira"))
	assert.Equal(t, FilterConfluence, ParseFilter(" Confluence "))
	assert.Equal(t, FilterDocuments, ParseFilter("documents"))
	assert.Equal(t, FilterAll, ParseFilter("all"))
	assert.Equal(t, FilterAll, ParseFilter(""))
	assert.Equal(t, FilterAll, ParseFilter("slack"))
}

func TestFilter_Sources(t *testing.T) {
	assert.Equal(t, []Source{SourceJira, SourceConfluence, SourceDocument}, FilterAll.Sources())
	assert.Equal(t, []Source{SourceJira}, FilterJira.Sources())
	assert.Equal(t, []Source{SourceConfluence}, FilterConfluence.Sources())
	assert.Equal(t, []Source{SourceDocument}, FilterDocuments.Sources())
}

func TestRequest_Validate(t *testing.T) {
	assert.ErrorIs(t, Request{}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Request{Query: " \t\n"}.Validate(), ErrInvalidInput)
	assert.NoError(t, Request{Query: "x"}.Validate())
}

func TestRequest_WithDefaults(t *testing.T) {
	r := Request{Query: "x", Filter: "bogus"}.withDefaults()
	assert.Equal(t, FilterAll, r.Filter)
	assert.Equal(t, DefaultType, r.Type)

	r = Request{Query: "x", Filter: FilterJira, Type: "DETAILED"}.withDefaults()
	assert.Equal(t, FilterJira, r.Filter)
	assert.Equal(t, "DETAILED", r.Type)
}

func TestSimilarityTier(t *testing.T) {
	assert.Equal(t, TierHigh, SimilarityTier(85))
	assert.Equal(t, TierHigh, SimilarityTier(99.5))
	assert.Equal(t, TierMedium, SimilarityTier(70))
	assert.Equal(t, TierMedium, SimilarityTier(84.9))
	assert.Equal(t, TierLow, SimilarityTier(69.9))
	assert.Equal(t, TierLow, SimilarityTier(0))
}

func TestSortBySimilarity(t *testing.T) {
	score := func(v float64) *float64 { return &v }
	results := []SearchResult{
		{Title: "none-1"},
		{Title: "low", Similarity: score(40)},
		{Title: "high", Similarity: score(90)},
		{Title: "none-2"},
		{Title: "mid", Similarity: score(75)},
	}

	SortBySimilarity(results)

	var titles []string
	for _, r := range results {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"high", "mid", "low", "none-1", "none-2"}, titles)
}
