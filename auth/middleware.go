package auth

import (
	"net/http"
	"strings"

	"github.com/teebay/teebay-api/apperror"
)

// Authenticator resolves a raw bearer token to claims.
type Authenticator interface {
	Authenticate(token string) (*Claims, error)
}

// JWTMiddleware rejects requests without a valid "Bearer {token}"
// Authorization header and stores the token claims in the request context.
func JWTMiddleware(a Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				WriteError(w, r, err)
				return
			}
			if token == "" {
				WriteError(w, r, apperror.NewAuthError("Access denied. No token provided.", nil))
				return
			}
			claims, err := a.Authenticate(token)
			if err != nil {
				WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(NewContextWithClaims(r.Context(), claims)))
		})
	}
}

// OptionalJWTMiddleware attaches claims when a bearer token is present and
// lets anonymous requests through. A token that is present but invalid is
// still rejected.
func OptionalJWTMiddleware(a Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				WriteError(w, r, err)
				return
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := a.Authenticate(token)
			if err != nil {
				WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(NewContextWithClaims(r.Context(), claims)))
		})
	}
}

// bearerToken returns the token from the Authorization header, or "" when
// the header is absent.
func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", nil
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperror.NewAuthError("Authorization header format must be Bearer {token}", nil)
	}
	return parts[1], nil
}
