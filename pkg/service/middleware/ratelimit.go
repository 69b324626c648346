package middleware

import (
	"net/http"

	"go.uber.org/ratelimit"
)

// RateLimitConfig holds configuration for the rate limiting middleware
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request budget; zero disables
	// limiting
	RequestsPerSecond int
}

// RateLimitMiddleware creates a new rate limiting middleware. The
// leaky-bucket limiter is shared across all requests and paces them by
// blocking until the next slot opens.
func RateLimitMiddleware(config RateLimitConfig) func(http.Handler) http.Handler {
	if config.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := ratelimit.New(config.RequestsPerSecond)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter.Take()
			next.ServeHTTP(w, r)
		})
	}
}
