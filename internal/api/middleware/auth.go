package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/pocketworld/internal/api/apierr"
	"github.com/mcoot/pocketworld/internal/model"
	"github.com/mcoot/pocketworld/internal/services/account"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Auth creates authentication middleware that resolves a bearer token to a
// player identity. No session state is held server-side; the token is the
// session. The account is re-checked on every request so deactivation takes
// effect immediately, not at token expiry.
func Auth(accounts *account.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			identity, err := accounts.ResolveToken(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			active, err := accounts.IsActive(r.Context(), identity.PlayerID)
			if err != nil || !active {
				apierr.WriteError(w, model.ErrUnknownOrInactiveAccount)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, &identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetIdentity returns the authenticated identity from the request context
func GetIdentity(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityContextKey).(*model.Identity)
	return identity
}

// MustGetIdentity returns the authenticated identity or panics
func MustGetIdentity(ctx context.Context) *model.Identity {
	identity := GetIdentity(ctx)
	if identity == nil {
		panic("no identity in context - auth middleware not applied?")
	}
	return identity
}
