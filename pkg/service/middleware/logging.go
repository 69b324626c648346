// Package middleware provides the HTTP middleware chain of the
// validation service: request logging, panic recovery, metrics, rate
// limiting, bearer authentication and request identifiers.
package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/harriteja/dict-go-sdk/pkg/service"
)

// LoggingConfig holds configuration for the logging middleware
type LoggingConfig struct {
	// Logger is the zap logger instance to use
	Logger *zap.Logger
	// SkipPaths are paths that should not be logged
	SkipPaths []string
}

// LoggingMiddleware creates a new logging middleware
func LoggingMiddleware(config LoggingConfig) func(http.Handler) http.Handler {
	skipPaths := make(map[string]bool)
	for _, path := range config.SkipPaths {
		skipPaths[path] = true
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := service.NewResponseWriter(w)

			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", ww.Status()),
				zap.Int64("bytes_written", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			}
			if id := RequestID(r); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}

			switch {
			case ww.Status() >= 500:
				logger.Error("Server error", fields...)
			case ww.Status() >= 400:
				logger.Warn("Client error", fields...)
			default:
				logger.Info("Request served", fields...)
			}
		})
	}
}
