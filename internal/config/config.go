// Package config loads IRIS service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultBackendTimeout bounds each outbound attempt (GET, POST, RAG precall).
	DefaultBackendTimeout = 12 * time.Second

	// DefaultRAGThreshold is the minimum similarity requested from the local RAG service.
	DefaultRAGThreshold = 0.3

	// DefaultRAGMaxResults caps the number of sources requested from the local RAG service.
	DefaultRAGMaxResults = 15
)

// Storage drivers for the conversation registry.
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	Env         string
	Port        string
	ServerMode  bool
	LogLevel    string
	CatalogPath string
	Backend     BackendConfig
	RAG         RAGConfig
	Storage     StorageConfig
}

type BackendConfig struct {
	BaseURL string // empty means mock-only
	Timeout time.Duration
}

type RAGConfig struct {
	URL        string // empty disables the document-RAG precall
	Threshold  float64
	MaxResults int
	PDFBaseURL string
}

type StorageConfig struct {
	Driver   string
	Path     string
	RedisURL string
}

// Load reads configuration from environment variables.
// A .env file is loaded first when present, and ignored when missing.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:         getEnv("IRIS_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		ServerMode:  getEnvBool("SERVER_MODE", true),
		LogLevel:    getEnv("LOG_LEVEL", ""),
		CatalogPath: getEnv("CATALOG_PATH", ""),
		Backend: BackendConfig{
			BaseURL: getEnv("TIDE_BACKEND_URL", ""),
			Timeout: getEnvDuration("BACKEND_TIMEOUT", DefaultBackendTimeout),
		},
		RAG: RAGConfig{
			URL:        getEnv("RAG_URL", ""),
			Threshold:  getEnvFloat("RAG_THRESHOLD", DefaultRAGThreshold),
			MaxResults: getEnvInt("RAG_MAX_RESULTS", DefaultRAGMaxResults),
			PDFBaseURL: getEnv("PDF_BASE_URL", "/pdfs"),
		},
		Storage: StorageConfig{
			Driver:   getEnv("STORAGE_DRIVER", StorageFile),
			Path:     getEnv("STORAGE_PATH", "data"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted silently.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StorageFile, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want file, redis or memory)", c.Storage.Driver)
	}

	if c.Backend.BaseURL != "" {
		if err := validateHTTPURL(c.Backend.BaseURL); err != nil {
			return fmt.Errorf("TIDE_BACKEND_URL: %w", err)
		}
	}
	if c.RAG.URL != "" {
		if err := validateHTTPURL(c.RAG.URL); err != nil {
			return fmt.Errorf("RAG_URL: %w", err)
		}
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// BackendConfigured reports whether a summarization backend is available.
func (c Config) BackendConfigured() bool {
	return c.Backend.BaseURL != ""
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
