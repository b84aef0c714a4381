// Package auth resolves the authenticated caller of an HTTP request.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/landmark/pkg/handlers"
	"github.com/JaimeStill/landmark/pkg/lifecycle"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotReady        = errors.New("authentication provider not ready")
)

// Identity is the caller as asserted by the authentication provider.
type Identity struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Authenticator extracts and verifies the caller identity from a request.
type Authenticator interface {
	Authenticate(r *http.Request) (Identity, error)
	Start(lc *lifecycle.Coordinator) error
}

// New builds the authenticator selected by cfg.Mode.
func New(cfg *Config, logger *slog.Logger) Authenticator {
	if cfg.Mode == ModeHeader {
		logger.Warn("header authentication enabled: identity headers are trusted without verification")
		return NewHeader()
	}
	return NewOIDC(cfg, logger)
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by Middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Middleware rejects unauthenticated requests with 401, and with 503 while
// the provider is still starting.
func Middleware(a Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r)
			if err != nil {
				status := http.StatusUnauthorized
				if errors.Is(err, ErrNotReady) {
					status = http.StatusServiceUnavailable
				}
				logger.Debug("authentication failed", "uri", r.URL.RequestURI(), "error", err)
				handlers.RespondError(w, logger, status, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
