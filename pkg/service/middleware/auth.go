package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/harriteja/dict-go-sdk/pkg/service"
)

var (
	// ErrNoToken is returned when the Authorization header is missing
	ErrNoToken = errors.New("no token provided")
	// ErrInvalidToken is returned when the bearer token fails verification
	ErrInvalidToken = errors.New("invalid token")
)

// AuthConfig holds configuration for the bearer authentication
// middleware
type AuthConfig struct {
	// Secret is the HMAC signing secret; empty disables authentication
	Secret string
	// SkipPaths are paths served without authentication
	SkipPaths []string
}

// AuthMiddleware creates a new JWT bearer authentication middleware
func AuthMiddleware(config AuthConfig) func(http.Handler) http.Handler {
	if config.Secret == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	skipPaths := make(map[string]bool)
	for _, path := range config.SkipPaths {
		skipPaths[path] = true
	}
	secret := []byte(config.Secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			raw, err := extractToken(r)
			if err != nil {
				service.WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				service.WriteError(w, http.StatusUnauthorized, ErrInvalidToken.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}
