package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/karmic/catalog/internal/identity"
	"github.com/karmic/catalog/internal/response"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

// principalKey is the context key for the authenticated admin principal.
const principalKey contextKey = "principal"

// PrincipalFromContext returns the admin principal injected by RequireAdmin.
func PrincipalFromContext(ctx context.Context) (*identity.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*identity.Principal)
	return p, ok
}

// RequireAdmin returns middleware that validates the bearer token against the
// identity provider on every request and rejects principals without the admin
// role. No session state is cached locally.
func RequireAdmin(provider identity.Provider, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "invalid authorization header format")
				return
			}

			principal, err := provider.UserFromToken(r.Context(), parts[1])
			if err != nil {
				log.Warn("admin token rejected", zap.Error(err))
				response.Unauthorized(w, "invalid or expired token")
				return
			}

			if !principal.IsAdmin() {
				response.Forbidden(w, "admin privileges required")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
