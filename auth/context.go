package auth

import (
	"context"

	"github.com/teebay/teebay-api/apperror"
)

// contextKey is unexported so no other package can collide with it.
type contextKey string

const claimsContextKey contextKey = "auth_claims"

// NewContextWithClaims returns a child context carrying claims.
func NewContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts the claims stored by NewContextWithClaims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated user's id.
func UserIDFromContext(ctx context.Context) (int, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// RequireUserID is UserIDFromContext for code paths that must be
// authenticated; it returns an AuthError when no user is attached.
func RequireUserID(ctx context.Context) (int, error) {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return 0, apperror.NewAuthError("Authentication required", nil)
	}
	return id, nil
}
