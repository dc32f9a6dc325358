package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prathmeshnaik91/skinet/pkg/httputil"
	"github.com/prathmeshnaik91/skinet/pkg/logger"
)

type contextKeyType string

const claimsKey contextKeyType = "claims"

// Claims is the identity carried by a bearer token.
type Claims struct {
	Email       string `json:"email"`
	DisplayName string `json:"given_name"`
}

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator func(token string) (*Claims, error)

// Auth rejects requests without a valid bearer token with a 401 APIResponse.
// On success the claims are stored in context and the request logger gains
// a user_email attribute.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.WriteStatus(w, http.StatusUnauthorized)
				return
			}

			claims, err := validate(token)
			if err != nil || claims == nil || claims.Email == "" {
				httputil.WriteStatus(w, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = logger.WithUserEmail(ctx, claims.Email)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("user_email", claims.Email)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// ClaimsFromContext returns the claims stored by Auth, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	if c, ok := ctx.Value(claimsKey).(*Claims); ok {
		return c
	}
	return nil
}

// WithClaims stores claims in ctx. Handler tests use it to skip token parsing.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}
