// Package mcp exposes IRIS search and the collection catalog as MCP tools.
package mcp

import (
	"github.com/bull/iris-search/internal/catalog"
	"github.com/bull/iris-search/internal/search"
)

// SearchDocumentsInput defines the input parameters for the search_documents tool.
type SearchDocumentsInput struct {
	// Query is the natural language question.
	Query string `json:"query" jsonschema:"The question to answer from Jira, Confluence and the document collections"`
	// Source restricts results to one origin.
	Source string `json:"source,omitempty" jsonschema:"One of all, jira, confluence or documents. Defaults to all"`
	// Collection narrows document results to one collection id.
	Collection string `json:"collection,omitempty" jsonschema:"Optional collection id such as metal-patents"`
}

// SearchDocumentsOutput contains the summary and the cited sources.
type SearchDocumentsOutput struct {
	Summary string                `json:"summary"`
	Results []search.SearchResult `json:"results"`
	// Message provides informational context (e.g., "No sources found").
	Message string `json:"message,omitempty"`
}

// ListCollectionsInput takes no parameters.
type ListCollectionsInput struct{}

// CollectionInfo is one row of list_collections.
type CollectionInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	DocumentCount int    `json:"document_count"`
}

type ListCollectionsOutput struct {
	Collections []CollectionInfo `json:"collections"`
	Count       int              `json:"count"`
}

// GetCollectionInput defines the input parameters for the get_collection tool.
type GetCollectionInput struct {
	ID string `json:"id" jsonschema:"The collection id returned by list_collections"`
}

// GetCollectionOutput contains the collection and its documents.
type GetCollectionOutput struct {
	Collection *catalog.Collection `json:"collection,omitempty"`
	// Found indicates whether the collection exists.
	Found bool `json:"found"`
}
