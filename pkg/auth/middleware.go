package auth

import (
	"context"
	"net/http"
	"strings"

	httputil "hemstay/pkg/http"
	"hemstay/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Authenticate rejects requests without a valid Bearer token and stores
// the verified claims on the request context.
func Authenticate(m *Manager, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractBearerToken(r)
			if err != nil {
				writeUnauthorized(w, "Missing or malformed Authorization header")
				return
			}

			claims, err := m.ValidateToken(token)
			if err != nil {
				log.Warn("Token validation failed",
					"path", r.URL.Path,
					"error", err,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require guards a single httprouter route. Health and other public
// routes stay outside it.
func Require(m *Manager, log *logger.Logger, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token, err := extractBearerToken(r)
		if err != nil {
			writeUnauthorized(w, "Missing or malformed Authorization header")
			return
		}

		claims, err := m.ValidateToken(token)
		if err != nil {
			log.Warn("Token validation failed",
				"path", r.URL.Path,
				"error", err,
			)
			writeUnauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx), ps)
	}
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user's ID, or "" when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return ""
	}
	return claims.UserID
}

// WithClaims stores claims on a context directly. Intended for tests.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrMissingToken
	}

	return parts[1], nil
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	_ = httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
		Error: message,
	})
}
