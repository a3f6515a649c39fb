// Package logging configures the process-wide slog logger.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bull/iris-search/internal/config"
)

// Setup installs the default logger for the service: JSON in production,
// text otherwise. LOG_LEVEL overrides the environment default.
func Setup(cfg config.Config) {
	slog.SetDefault(New(cfg, os.Stderr))
}

// New builds a logger writing to w using the same rules as Setup.
func New(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsDevelopment() {
		opts.Level = slog.LevelDebug
	}
	if lvl, ok := ParseLevel(cfg.LogLevel); ok {
		opts.Level = lvl
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(NewContextHandler(handler))
}

// ParseLevel maps debug/info/warn/error to slog levels.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

type contextKey string

const fieldsKey contextKey = "log_fields"

// Fields are attached to every record logged with a context carrying them.
type Fields struct {
	Component      string
	ConversationID string
}

// WithFields merges fields into ctx. Non-empty values win.
func WithFields(ctx context.Context, f Fields) context.Context {
	merged := FieldsFrom(ctx)
	if f.Component != "" {
		merged.Component = f.Component
	}
	if f.ConversationID != "" {
		merged.ConversationID = f.ConversationID
	}
	return context.WithValue(ctx, fieldsKey, merged)
}

// FieldsFrom returns the fields stored in ctx, or the zero value.
func FieldsFrom(ctx context.Context) Fields {
	if ctx == nil {
		return Fields{}
	}
	if f, ok := ctx.Value(fieldsKey).(Fields); ok {
		return f
	}
	return Fields{}
}

// ContextHandler enriches records with Fields found in the context.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	f := FieldsFrom(ctx)
	if f.Component != "" {
		r.AddAttrs(slog.String("component", f.Component))
	}
	if f.ConversationID != "" {
		r.AddAttrs(slog.String("conversation_id", f.ConversationID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// Truncate shortens s to maxLen bytes for log output.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
