package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bull/iris-search/internal/backend"
	"github.com/bull/iris-search/internal/catalog"
	"github.com/bull/iris-search/internal/config"
	"github.com/bull/iris-search/internal/logging"
	"github.com/bull/iris-search/internal/rag"
)

// Orchestrator evaluates strategies in order until one yields a response,
// then falls back to the mock generator. Strategies run strictly one after
// another; a later strategy never starts before the earlier one resolved.
type Orchestrator struct {
	strategies []Strategy
	mock       *MockGenerator
	logger     *slog.Logger
}

// Options configures an Orchestrator. Mock is required.
type Options struct {
	Strategies []Strategy
	Mock       *MockGenerator
	Logger     *slog.Logger
}

func NewOrchestrator(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mock := opts.Mock
	if mock == nil {
		mock = NewMockGenerator(nil, "")
	}
	return &Orchestrator{
		strategies: opts.Strategies,
		mock:       mock,
		logger:     logger,
	}
}

// FromConfig wires the chain used in production:
// RAG precall (when RAG_URL is set), backend GET, backend POST, mock.
func FromConfig(cfg config.Config, cat *catalog.Catalog, httpClient *http.Client, logger *slog.Logger) *Orchestrator {
	var strategies []Strategy

	if cfg.RAG.URL != "" {
		retriever := rag.NewClient(cfg.RAG.URL, cfg.RAG.Threshold, cfg.RAG.MaxResults, cfg.Backend.Timeout, httpClient)
		strategies = append(strategies, NewRAGStrategy(retriever, cat, cfg.RAG.PDFBaseURL))
	}
	if cfg.BackendConfigured() {
		client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, httpClient)
		strategies = append(strategies, NewBackendGETStrategy(client), NewBackendPOSTStrategy(client))
	}

	return NewOrchestrator(Options{
		Strategies: strategies,
		Mock:       NewMockGenerator(cat, cfg.RAG.PDFBaseURL),
		Logger:     logger,
	})
}

// StrategyNames lists the configured chain, excluding the terminal mock.
func (o *Orchestrator) StrategyNames() []string {
	names := make([]string, len(o.strategies))
	for i, s := range o.strategies {
		names[i] = s.Name()
	}
	return names
}

// Search returns a SummaryResponse for req. The only error it returns is
// ErrInvalidInput; every other failure, including a panic inside a strategy,
// degrades to the mock response.
func (o *Orchestrator) Search(ctx context.Context, req Request) (resp *SummaryResponse, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.withDefaults()
	sources := req.Filter.Sources()
	ctx = logging.WithFields(ctx, logging.Fields{Component: "iris.search"})

	defer func() {
		if r := recover(); r != nil {
			o.logger.ErrorContext(ctx, "search panicked, serving mock", "panic", fmt.Sprint(r))
			resp, err = o.mock.Generate(req.Query, sources, req.Collection), nil
		}
	}()

	for _, strategy := range o.strategies {
		result, attemptErr := strategy.Attempt(ctx, req, sources)
		if attemptErr != nil {
			o.logger.DebugContext(ctx, "strategy failed, falling through",
				"strategy", strategy.Name(), "error", attemptErr)
			continue
		}
		if result.SearchResults == nil {
			result.SearchResults = []SearchResult{}
		}
		o.logger.InfoContext(ctx, "search answered",
			"strategy", strategy.Name(),
			"query", logging.Truncate(req.Query, 80),
			"results", len(result.SearchResults))
		return result, nil
	}

	o.logger.InfoContext(ctx, "no backend answered, serving mock",
		"query", logging.Truncate(req.Query, 80), "filter", string(req.Filter))
	return o.mock.Generate(req.Query, sources, req.Collection), nil
}

// Fallback serves the mock directly without trying any strategy. Used when a
// request cannot even be decoded.
func (o *Orchestrator) Fallback(req Request) *SummaryResponse {
	req = req.withDefaults()
	return o.mock.Generate(req.Query, req.Filter.Sources(), req.Collection)
}
