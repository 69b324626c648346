package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/harriteja/dict-go-sdk/pkg/service"
)

// RecoveryConfig holds configuration for the recovery middleware
type RecoveryConfig struct {
	// Logger is the zap logger instance to use
	Logger *zap.Logger
	// StackTrace determines whether to include stack traces in logs
	StackTrace bool
}

// RecoveryMiddleware creates a new recovery middleware that catches panics
func RecoveryMiddleware(config RecoveryConfig) func(http.Handler) http.Handler {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					fields := []zap.Field{
						zap.String("error", fmt.Sprint(err)),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("remote_addr", r.RemoteAddr),
					}
					if config.StackTrace {
						fields = append(fields, zap.ByteString("stack", debug.Stack()))
					}
					logger.Error("Panic recovered", fields...)

					if w.Header().Get("Content-Type") != "" {
						return
					}
					service.WriteError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
