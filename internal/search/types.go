// Package search turns a user question into a SummaryResponse by trying the
// configured backends in order and falling back to deterministic mock content.
package search

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput is the only error Search returns to callers.
	ErrInvalidInput = errors.New("query is required")

	// ErrUpstreamUnavailable marks a failed backend attempt. It never leaves
	// the orchestrator; it only moves the chain to the next strategy.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// DefaultType is the summarization type sent when the caller gives none.
const DefaultType = "SIMPLE"

// Source is where a search result originates.
type Source string

const (
	SourceJira       Source = "JIRA"
	SourceConfluence Source = "CONFLUENCE"
	SourceDocument   Source = "DOCUMENT"
)

// Filter is the user-facing source selection.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterJira       Filter = "jira"
	FilterConfluence Filter = "confluence"
	FilterDocuments  Filter = "documents"
)

// ParseFilter maps any input to a Filter. Unknown values select all sources.
func ParseFilter(s string) Filter {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterJira, FilterConfluence, FilterDocuments:
		return f
	default:
		return FilterAll
	}
}

// Sources expands the filter into backend source tags.
func (f Filter) Sources() []Source {
	switch f {
	case FilterJira:
		return []Source{SourceJira}
	case FilterConfluence:
		return []Source{SourceConfluence}
	case FilterDocuments:
		return []Source{SourceDocument}
	default:
		return []Source{SourceJira, SourceConfluence, SourceDocument}
	}
}

// SearchResult is a single cited source. Similarity is a 0-100 score.
type SearchResult struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Content    string   `json:"content"`
	Source     Source   `json:"source"`
	Filename   string   `json:"filename,omitempty"`
	Collection string   `json:"collection,omitempty"`
	Similarity *float64 `json:"similarity,omitempty"`
	Page       *int     `json:"page,omitempty"`
}

// SummaryResponse is what every successful Search returns. Summary is never
// empty and SearchResults is never nil.
type SummaryResponse struct {
	Summary       string         `json:"summary"`
	SearchResults []SearchResult `json:"searchResults"`
}

// Request is a single search invocation.
type Request struct {
	Query      string
	Filter     Filter
	Type       string
	Collection string
}

// Validate rejects queries that are empty after trimming.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrInvalidInput
	}
	return nil
}

func (r Request) withDefaults() Request {
	r.Filter = ParseFilter(string(r.Filter))
	if strings.TrimSpace(r.Type) == "" {
		r.Type = DefaultType
	}
	return r
}

func includes(sources []Source, s Source) bool {
	for _, v := range sources {
		if v == s {
			return true
		}
	}
	return false
}

func sourceStrings(sources []Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = string(s)
	}
	return out
}
