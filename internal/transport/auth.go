package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/bugpen/bugpen/internal/domain/user"
	"github.com/bugpen/bugpen/internal/identity"
)

type principalKey struct{}

// UserFromContext returns the authenticated user from context, if present.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(principalKey{}).(*user.User)
	return u, ok
}

// AuthMiddleware enforces bearer token authentication. The verified
// principal is resolved to an internal user, creating one on first
// sight, and injected into the request context.
func AuthMiddleware(verifier identity.Verifier, users *user.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid bearer token")
				return
			}

			u, err := users.FindOrCreate(r.Context(), user.Claims{
				Subject: claims.Subject,
				Name:    claims.Name,
				Email:   claims.Email,
				Locale:  claims.Locale,
				Picture: claims.Picture,
			})
			if err != nil {
				writeError(w, http.StatusInternalServerError, "could not resolve user")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
