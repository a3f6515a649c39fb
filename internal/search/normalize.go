package search

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PlaceholderSummary is used when a backend answers without a usable summary.
func PlaceholderSummary(query string) string {
	return fmt.Sprintf("I couldn't retrieve a full summary from the backend. Here's a brief outline based on “%s”.", query)
}

// Normalize accepts a backend body shaped either as {summary, searchResults}
// or as {data: {summary, searchResults}}. Missing or mistyped fields are
// coerced to empty values. Bodies that are not JSON, or decode to a falsy
// value, are rejected so the caller can try the next strategy.
func Normalize(query string, body []byte) (*SummaryResponse, error) {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %v", ErrUpstreamUnavailable, err)
	}
	if !truthy(parsed) {
		return nil, fmt.Errorf("%w: empty JSON payload", ErrUpstreamUnavailable)
	}

	node := parsed
	if obj, ok := parsed.(map[string]any); ok {
		if data, ok := obj["data"]; ok && data != nil {
			node = data
		}
	}

	obj, _ := node.(map[string]any)
	summary, _ := obj["summary"].(string)
	rawResults, _ := obj["searchResults"].([]any)

	results := make([]SearchResult, 0, len(rawResults))
	for _, item := range rawResults {
		if r, ok := decodeResult(item); ok {
			results = append(results, r)
		}
	}

	return &SummaryResponse{
		Summary:       safeSummary(summary, query),
		SearchResults: results,
	}, nil
}

func safeSummary(summary, query string) string {
	if strings.TrimSpace(summary) == "" {
		return PlaceholderSummary(query)
	}
	return summary
}

// decodeResult converts one loosely typed element into a SearchResult.
// Elements that are not objects or have mistyped fields are dropped.
func decodeResult(item any) (SearchResult, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return SearchResult{}, false
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return SearchResult{}, false
	}
	var r SearchResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return SearchResult{}, false
	}
	return r, true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
