package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zeroedbooks/ledger/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// OwnerContextKey is the context key for the authenticated owner id.
	OwnerContextKey ContextKey = "owner"

	// OwnerHeader carries the owner id when authentication is disabled.
	OwnerHeader = "X-Owner-ID"
)

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// WithOwner returns a context carrying owner.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, OwnerContextKey, owner)
}

// OwnerFromContext extracts the owner id set by the auth middleware.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(OwnerContextKey).(string)
	return owner, ok && owner != ""
}

// AuthMiddleware requires a valid bearer token and stores its subject as the owner.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withOwnerLogger(r.Context(), claims.Owner())))
		})
	}
}

// HeaderOwner trusts the X-Owner-ID header. It is meant for deployments where an
// upstream proxy authenticates users.
func HeaderOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get(OwnerHeader))
		if owner == "" {
			writeError(w, http.StatusUnauthorized, "missing "+OwnerHeader+" header")
			return
		}

		next.ServeHTTP(w, r.WithContext(withOwnerLogger(r.Context(), owner)))
	})
}

func withOwnerLogger(ctx context.Context, owner string) context.Context {
	logger := zerolog.Ctx(ctx).With().Str("owner", owner).Logger()
	return logger.WithContext(WithOwner(ctx, owner))
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
