package auth

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/user/tutoria-go/apperror"
	"github.com/user/tutoria-go/config"
)

// contextKey is a private type for context keys, preventing collisions with
// other packages.
type contextKey string

const claimsContextKey contextKey = "auth_claims"

// claimsHolder is the mutable slot claims are stored in. Context values
// only flow downstream; the holder lets middleware that runs upstream of
// the auth middleware (the audit logger) observe claims attached later in
// the chain.
type claimsHolder struct {
	mu     sync.RWMutex
	claims *Claims
}

func (h *claimsHolder) set(claims *Claims) {
	h.mu.Lock()
	h.claims = claims
	h.mu.Unlock()
}

func (h *claimsHolder) get() *Claims {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.claims
}

// NewContextWithClaimsHolder returns a child context carrying an empty
// claims slot for the auth middleware to fill in.
func NewContextWithClaimsHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, claimsContextKey, &claimsHolder{})
}

// NewContextWithClaims returns a context carrying the token claims. When
// the context already holds a claims slot it is filled in place, so
// upstream holders of the same context see the claims too.
func NewContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	if holder, ok := ctx.Value(claimsContextKey).(*claimsHolder); ok {
		holder.set(claims)
		return ctx
	}
	return context.WithValue(ctx, claimsContextKey, &claimsHolder{claims: claims})
}

// ClaimsFromContext extracts the token claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	holder, ok := ctx.Value(claimsContextKey).(*claimsHolder)
	if !ok {
		return nil, false
	}
	claims := holder.get()
	return claims, claims != nil
}

// UserIDFromContext is a convenience for handlers that only need the id.
func UserIDFromContext(ctx context.Context) (int, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// Middleware returns the bearer-token middleware for protected routes.
// A missing token is a 401; a present but unverifiable token is a 403,
// matching the public API contract.
func Middleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("Access token required", nil))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteError(w, r, apperror.NewAuthError("Authorization header format must be Bearer {token}", nil))
				return
			}

			claims, err := VerifyToken(parts[1], cfg.JWTSecret)
			if err != nil {
				WriteError(w, r, apperror.NewForbiddenError("Invalid or expired token", err))
				return
			}

			ctx := NewContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
