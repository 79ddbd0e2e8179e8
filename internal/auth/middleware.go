package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/inkpost/inkpost/internal/platform/httpx"
)

type identityContextKey struct{}

// ContextWithIdentity stores the authenticated user ID in context.
func ContextWithIdentity(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, identityContextKey{}, userID)
}

// IdentityFromContext extracts the authenticated user ID from context.
func IdentityFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(identityContextKey{}).(int64)
	return id, ok
}

// Require returns middleware that authenticates the bearer token on
// every request and stores the verified identity in the context.
// Requests without a valid token never reach the wrapped handler.
func Require(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			userID, err := service.Identity(r.Context(), token)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
