// Package auth guards the API with HS256 bearer tokens.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingToken = errors.New("missing bearer token")

type contextKey struct{}

// Middleware rejects requests without a valid token signed with secret and
// stores the token subject on the request context.
func Middleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parse(r.Header.Get("Authorization"), key)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="tally"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)

				return
			}

			subject, _ := claims.GetSubject()
			ctx := context.WithValue(r.Context(), contextKey{}, subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parse(header string, key []byte) (*jwt.RegisteredClaims, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// Subject returns the authenticated subject, if any.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(contextKey{}).(string)
	return s
}

// Sign issues a token for subject. Used by tooling and tests.
func Sign(secret, subject string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = subject

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
