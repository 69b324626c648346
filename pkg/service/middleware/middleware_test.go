package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func TestLoggingMiddleware(t *testing.T) {
	handler := LoggingMiddleware(LoggingConfig{Logger: zap.NewNop()})(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/validate", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := RecoveryMiddleware(RecoveryConfig{Logger: zap.NewNop()})(panicking)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r)
	})
	handler := RequestIDMiddleware()(inner)

	// A fresh identifier is generated when the caller sends none.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	// A caller-supplied identifier is preserved.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "caller-id")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, "caller-id", seen)
	assert.Equal(t, "caller-id", w.Header().Get(RequestIDHeader))
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	handler := AuthMiddleware(AuthConfig{
		Secret:    secret,
		SkipPaths: []string{"/health"},
	})(okHandler())

	// Missing token
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/validate", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Malformed header
	r := httptest.NewRequest(http.MethodGet, "/v1/validate", nil)
	r.Header.Set("Authorization", "Basic xyz")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong secret
	bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	r = httptest.NewRequest(http.MethodGet, "/v1/validate", nil)
	r.Header.Set("Authorization", "Bearer "+bad)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token
	good, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	r = httptest.NewRequest(http.MethodGet, "/v1/validate", nil)
	r.Header.Set("Authorization", "Bearer "+good)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	// Skipped path needs no token
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_DisabledWithoutSecret(t *testing.T) {
	handler := AuthMiddleware(AuthConfig{})(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/validate", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimitMiddleware(RateLimitConfig{RequestsPerSecond: 100})(okHandler())

	start := time.Now()
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	// Five requests at 100 rps must take at least ~40ms of pacing.
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	handler := RateLimitMiddleware(RateLimitConfig{})(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
