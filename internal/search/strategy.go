package search

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/bull/iris-search/internal/backend"
	"github.com/bull/iris-search/internal/catalog"
	"github.com/bull/iris-search/internal/rag"
)

// Strategy is one attempt in the fallback chain. An error means "try the
// next strategy"; it is never shown to the caller.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, req Request, sources []Source) (*SummaryResponse, error)
}

// SummarizeClient is the subset of backend.Client used by the strategies.
type SummarizeClient interface {
	Get(ctx context.Context, req backend.Request) ([]byte, error)
	Post(ctx context.Context, req backend.Request) ([]byte, error)
}

type backendStrategy struct {
	client SummarizeClient
	method string
}

// NewBackendGETStrategy queries the summarize endpoint with URL parameters.
func NewBackendGETStrategy(client SummarizeClient) Strategy {
	return &backendStrategy{client: client, method: http.MethodGet}
}

// NewBackendPOSTStrategy queries the summarize endpoint with a JSON body.
func NewBackendPOSTStrategy(client SummarizeClient) Strategy {
	return &backendStrategy{client: client, method: http.MethodPost}
}

func (s *backendStrategy) Name() string {
	return "backend-" + strings.ToLower(s.method)
}

func (s *backendStrategy) Attempt(ctx context.Context, req Request, sources []Source) (*SummaryResponse, error) {
	breq := backend.Request{
		Question:   req.Query,
		Type:       req.Type,
		Sources:    sourceStrings(sources),
		Collection: req.Collection,
	}

	var (
		body []byte
		err  error
	)
	if s.method == http.MethodGet {
		body, err = s.client.Get(ctx, breq)
	} else {
		body, err = s.client.Post(ctx, breq)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return Normalize(req.Query, body)
}

// Retriever is the subset of rag.Client used by the precall.
type Retriever interface {
	Search(ctx context.Context, query string) (*rag.Response, error)
}

type ragStrategy struct {
	retriever  Retriever
	catalog    *catalog.Catalog
	pdfBaseURL string
}

// NewRAGStrategy asks the local document retrieval service first. It only
// runs when the requested sources include documents.
func NewRAGStrategy(retriever Retriever, cat *catalog.Catalog, pdfBaseURL string) Strategy {
	return &ragStrategy{
		retriever:  retriever,
		catalog:    cat,
		pdfBaseURL: strings.TrimRight(pdfBaseURL, "/"),
	}
}

func (s *ragStrategy) Name() string {
	return "rag-precall"
}

func (s *ragStrategy) Attempt(ctx context.Context, req Request, sources []Source) (*SummaryResponse, error) {
	if !includes(sources, SourceDocument) {
		return nil, fmt.Errorf("%w: documents not requested", ErrUpstreamUnavailable)
	}

	resp, err := s.retriever.Search(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	results := make([]SearchResult, 0, len(resp.Sources))
	for _, src := range resp.Sources {
		results = append(results, s.toResult(src, req.Collection))
	}
	return &SummaryResponse{
		Summary:       safeSummary(resp.Answer, req.Query),
		SearchResults: results,
	}, nil
}

func (s *ragStrategy) toResult(src rag.Source, collection string) SearchResult {
	filename := src.Metadata.Document
	title := catalog.Stem(filename)
	if s.catalog != nil {
		title = s.catalog.DocumentTitle(filename)
		if id, ok := s.catalog.CollectionOf(filename); ok {
			collection = id
		}
	}

	similarity := math.Max(0, math.Min(100, math.Round(src.Similarity)))
	page := src.Metadata.Page
	if page < 1 {
		page = 1
	}

	return SearchResult{
		Title:      title,
		URL:        fmt.Sprintf("%s/%s#page=%d", s.pdfBaseURL, filename, page),
		Content:    src.Content,
		Source:     SourceDocument,
		Filename:   filename,
		Collection: collection,
		Similarity: &similarity,
		Page:       &page,
	}
}
