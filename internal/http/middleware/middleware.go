package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bull/iris-search/internal/http/dto"
	"github.com/bull/iris-search/internal/logging"
)

// Logger logs one line per request at info level, warn for 4xx and error for 5xx.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := logging.WithFields(c.Request.Context(), logging.Fields{Component: "iris.http"})
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// Recovery turns a panic in a handler into a 500 JSON error.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(c.Request.Context(), "panic in handler",
					"panic", fmt.Sprint(r), "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
			}
		}()
		c.Next()
	}
}
