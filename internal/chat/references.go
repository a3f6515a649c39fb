package chat

import (
	"fmt"
	"strings"

	"github.com/bull/iris-search/internal/conversation"
	"github.com/bull/iris-search/internal/search"
)

// References converts search results into the sources stored on an answer.
// Filename falls back to the last URL segment, then to "document-<i>".
// Collection falls back to the conversation's, then to DefaultCollection.
func References(results []search.SearchResult, conversationCollection string) []conversation.DocumentReference {
	refs := make([]conversation.DocumentReference, 0, len(results))
	for i, r := range results {
		filename := r.Filename
		if filename == "" {
			filename = lastSegment(r.URL)
		}
		if filename == "" {
			filename = fmt.Sprintf("document-%d", i)
		}

		collection := r.Collection
		if collection == "" {
			collection = conversationCollection
		}
		if collection == "" {
			collection = DefaultCollection
		}

		refs = append(refs, conversation.DocumentReference{
			ID:         fmt.Sprintf("source-%d", i),
			Title:      r.Title,
			Filename:   filename,
			URL:        r.URL,
			Collection: collection,
			Source:     string(r.Source),
			Similarity: r.Similarity,
			Page:       r.Page,
		})
	}
	return refs
}

func lastSegment(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
