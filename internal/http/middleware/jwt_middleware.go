package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/stayloop/hotel-bookings/internal/http/response"
	"github.com/stayloop/hotel-bookings/internal/platform/auth"
	redisrepo "github.com/stayloop/hotel-bookings/internal/repo/redis"
	"github.com/stayloop/hotel-bookings/pkg/logger"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Claims returns the authenticated token claims stored by RequireAuth,
// or nil when the request is unauthenticated.
func Claims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}

// RequireAuth validates the bearer token, rejects revoked tokens and
// stores the claims in the request context.
func RequireAuth(secret string, tokens redisrepo.TokenStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				response.WriteError(w, http.StatusUnauthorized, "missing bearer token", response.CodeUnauthorized)
				return
			}

			claims, err := auth.Parse(tokenString, secret)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					response.WriteError(w, http.StatusUnauthorized, "token expired", response.CodeExpiredToken)
					return
				}
				response.WriteError(w, http.StatusUnauthorized, "invalid token", response.CodeInvalidToken)
				return
			}

			revoked, err := tokens.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				// Denylist lookup failures fail closed.
				logger.ErrorContext(r.Context(), "token denylist lookup failed", "error", err)
				response.InternalError(w, "server error")
				return
			}
			if revoked {
				response.WriteError(w, http.StatusUnauthorized, "token revoked", response.CodeInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = context.WithValue(ctx, logger.UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows only authenticated users whose role is in the list.
// It must be mounted after RequireAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := Claims(r)
			if claims == nil {
				response.Unauthorized(w, "authentication required")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "insufficient permissions")
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
