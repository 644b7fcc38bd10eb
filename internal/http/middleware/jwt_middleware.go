package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/http/response"
	"github.com/casaphilia/rentals-api/pkg/auth"
	"github.com/casaphilia/rentals-api/pkg/logger"
)

type ctxKey string

const CtxIdentity ctxKey = "identity"

// RequireJWT authenticates the Bearer token and stashes the caller identity
// in the request context.
func RequireJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "missing bearer token")
				return
			}

			claims, err := auth.Parse(strings.TrimPrefix(authz, "Bearer "), secret)
			if err != nil {
				response.Unauthorized(w, "invalid or expired token")
				return
			}

			role, ok := domain.ParseRole(claims.Role)
			if !ok {
				response.Unauthorized(w, "invalid or expired token")
				return
			}

			identity := domain.Identity{
				UserID: claims.Sub,
				Email:  claims.Email,
				Role:   role,
			}
			ctx := context.WithValue(r.Context(), CtxIdentity, identity)
			ctx = context.WithValue(ctx, logger.UserIDKey, identity.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route group to the given roles. Must run after
// RequireJWT.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := Identity(r)
			if identity.UserID == "" {
				response.Unauthorized(w, "authentication required")
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.WriteError(w, http.StatusForbidden, "insufficient role", response.CodeForbidden)
		})
	}
}

// Identity returns the authenticated caller, or a zero Identity for
// unauthenticated requests.
func Identity(r *http.Request) domain.Identity {
	v := r.Context().Value(CtxIdentity)
	if v == nil {
		return domain.Identity{}
	}
	return v.(domain.Identity)
}
