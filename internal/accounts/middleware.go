package accounts

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/landmark/internal/roles"
	"github.com/JaimeStill/landmark/pkg/auth"
	"github.com/JaimeStill/landmark/pkg/handlers"
)

type accountKey struct{}

// WithAccount returns a copy of ctx carrying a.
func WithAccount(ctx context.Context, a *Account) context.Context {
	return context.WithValue(ctx, accountKey{}, a)
}

// FromContext returns the account stored by Middleware.
func FromContext(ctx context.Context) (*Account, bool) {
	a, ok := ctx.Value(accountKey{}).(*Account)
	return a, ok && a != nil
}

// Middleware syncs the authenticated identity into an account and stores it
// in the request context. It must run after auth.Middleware.
func Middleware(sys System, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromContext(r.Context())
			if !ok {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrNoIdentity)
				return
			}

			a, err := sys.Sync(r.Context(), id)
			if err != nil {
				handlers.RespondError(w, logger, MapHTTPStatus(err), err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), a)))
		})
	}
}

// RequireReviewer wraps a handler so only reviewer accounts reach it.
func RequireReviewer(gate *roles.Gate, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			a, ok := FromContext(r.Context())
			if !ok {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrNoIdentity)
				return
			}
			if err := gate.RequireReview(a.Role); err != nil {
				handlers.RespondError(w, logger, http.StatusForbidden, err)
				return
			}
			next(w, r)
		}
	}
}
