package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse represents the JSON response from the health check endpoint.
type HealthResponse struct {
	Status     string   `json:"status"`
	Storage    string   `json:"storage"`
	Search     string   `json:"search"`
	Strategies []string `json:"strategies"`
	Timestamp  string   `json:"timestamp"`
}

// HealthChecker is implemented by every conversation storage driver.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewHealthHandler creates an HTTP handler for the /health endpoint.
// Only storage decides the status code: search always answers, falling back
// to mock content, so it reports "mock" rather than failing.
func NewHealthHandler(store HealthChecker, strategies []string) http.HandlerFunc {
	if strategies == nil {
		strategies = []string{}
	}
	searchMode := "mock"
	if len(strategies) > 0 {
		searchMode = "backend"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		response := HealthResponse{
			Status:     "healthy",
			Storage:    "connected",
			Search:     searchMode,
			Strategies: strategies,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		}
		code := http.StatusOK
		if err := store.Health(ctx); err != nil {
			response.Status = "unhealthy"
			response.Storage = "disconnected"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(response)
	}
}
