// Package main provides the IRIS search server entry point.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bull/iris-search/internal/catalog"
	"github.com/bull/iris-search/internal/chat"
	"github.com/bull/iris-search/internal/config"
	"github.com/bull/iris-search/internal/conversation"
	"github.com/bull/iris-search/internal/http/middleware"
	httprouter "github.com/bull/iris-search/internal/http/router"
	"github.com/bull/iris-search/internal/logging"
	mcpserver "github.com/bull/iris-search/internal/mcp"
	"github.com/bull/iris-search/internal/search"
	"github.com/bull/iris-search/internal/storage"
)

func main() {
	// Loads .env if present, otherwise the process environment.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg)

	// Create context that cancels on SIGTERM/SIGINT
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
			slog.ErrorContext(ctx, "failed to load catalog", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
	}

	backend, err := storage.New(cfg.Storage)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open conversation storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	store, err := conversation.NewStore(ctx, backend)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load conversations", "error", err)
		os.Exit(1)
	}

	// Per-attempt deadlines come from the backend and RAG clients.
	httpClient := &http.Client{}
	orchestrator := search.FromConfig(cfg, cat, httpClient, slog.Default())
	slog.InfoContext(ctx, "search chain configured",
		"strategies", orchestrator.StrategyNames(),
		"storage", cfg.Storage.Driver,
		"conversations", len(store.ListConversations()))

	server := mcpserver.NewServer(&mcpserver.Config{
		Searcher: orchestrator,
		Catalog:  cat,
	})

	router := newRouter(cfg, httprouter.Dependencies{
		Searcher: orchestrator,
		Chat:     chat.NewService(store, orchestrator, slog.Default()),
		Catalog:  cat,
		Health:   mcpserver.NewHealthHandler(backend, orchestrator.StrategyNames()),
		Landing:  mcpserver.NewLandingHandler(),
		MCP:      mcpserver.NewHTTPHandler(server, nil),
	})

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			cancel()
		}
	}()

	if cfg.ServerMode {
		<-ctx.Done()
	} else {
		// Stdio mode: MCP over stdin/stdout for local clients, HTTP stays up
		// in the background for the API and health checks.
		slog.InfoContext(ctx, "starting MCP server (stdio mode)")
		if err := server.Run(ctx); err != nil {
			slog.ErrorContext(ctx, "mcp server error", "error", err)
		}
	}

	slog.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}
	slog.Info("shutdown complete")
}

// newRouter builds the gin engine. In stdio mode stdout carries MCP JSON-RPC,
// so gin runs in release mode and anything it prints goes to stderr.
func newRouter(cfg config.Config, deps httprouter.Dependencies) *gin.Engine {
	if !cfg.ServerMode {
		gin.DefaultWriter = os.Stderr
		gin.DefaultErrorWriter = os.Stderr
	}
	if cfg.IsProduction() || !cfg.ServerMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	httprouter.SetupRoutes(router, deps)
	return router
}
