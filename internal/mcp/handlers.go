package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/iris-search/internal/catalog"
	"github.com/bull/iris-search/internal/logging"
	"github.com/bull/iris-search/internal/search"
)

// Searcher is satisfied by *search.Orchestrator.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.SummaryResponse, error)
}

// makeSearchHandler creates the search_documents tool handler.
// Results are ordered by similarity; unscored results keep backend order.
func makeSearchHandler(searcher Searcher) func(
	context.Context, *mcp.CallToolRequest, SearchDocumentsInput,
) (*mcp.CallToolResult, SearchDocumentsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchDocumentsInput) (
		*mcp.CallToolResult, SearchDocumentsOutput, error,
	) {
		ctx = logging.WithFields(ctx, logging.Fields{Component: "iris.mcp"})

		resp, err := searcher.Search(ctx, search.Request{
			Query:      input.Query,
			Filter:     search.ParseFilter(input.Source),
			Collection: input.Collection,
		})
		if err != nil {
			if errors.Is(err, search.ErrInvalidInput) {
				return nil, SearchDocumentsOutput{}, fmt.Errorf("invalid_input: %w", err)
			}
			return nil, SearchDocumentsOutput{}, fmt.Errorf("search failed: %w", err)
		}

		results := append([]search.SearchResult(nil), resp.SearchResults...)
		search.SortBySimilarity(results)

		out := SearchDocumentsOutput{Summary: resp.Summary, Results: results}
		if len(results) == 0 {
			out.Results = []search.SearchResult{}
			out.Message = "No sources found. Try broader search terms or another source."
		}
		return nil, out, nil
	}
}

// makeListCollectionsHandler creates the list_collections tool handler.
func makeListCollectionsHandler(cat *catalog.Catalog) func(
	context.Context, *mcp.CallToolRequest, ListCollectionsInput,
) (*mcp.CallToolResult, ListCollectionsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListCollectionsInput) (
		*mcp.CallToolResult, ListCollectionsOutput, error,
	) {
		cols := cat.Collections()
		infos := make([]CollectionInfo, 0, len(cols))
		for _, c := range cols {
			infos = append(infos, CollectionInfo{
				ID:            c.ID,
				Name:          c.Name,
				Description:   c.Description,
				DocumentCount: len(c.Documents),
			})
		}
		return nil, ListCollectionsOutput{Collections: infos, Count: len(infos)}, nil
	}
}

// makeGetCollectionHandler creates the get_collection tool handler.
func makeGetCollectionHandler(cat *catalog.Catalog) func(
	context.Context, *mcp.CallToolRequest, GetCollectionInput,
) (*mcp.CallToolResult, GetCollectionOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetCollectionInput) (
		*mcp.CallToolResult, GetCollectionOutput, error,
	) {
		col, err := cat.Collection(input.ID)
		if err != nil {
			if errors.Is(err, catalog.ErrCollectionNotFound) {
				return nil, GetCollectionOutput{Found: false}, nil
			}
			return nil, GetCollectionOutput{}, fmt.Errorf("failed to get collection: %w", err)
		}
		return nil, GetCollectionOutput{Collection: &col, Found: true}, nil
	}
}
