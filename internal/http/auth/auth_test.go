package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/http/auth"
)

func TestMiddleware(t *testing.T) {
	const secret = "s3cret"

	valid, err := auth.Sign(secret, "alice", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	require.NoError(t, err)

	expired, err := auth.Sign(secret, "alice", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))})
	require.NoError(t, err)

	foreign, err := auth.Sign("other", "alice", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	require.NoError(t, err)

	noExpiry, err := auth.Sign(secret, "alice", jwt.RegisteredClaims{})
	require.NoError(t, err)

	type testCase struct {
		name       string
		header     string
		wantStatus int
	}

	tests := []testCase{
		{name: "Valid", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "Missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized},
		{name: "Expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "WrongSecret", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
		{name: "NoExpiry", header: "Bearer " + noExpiry, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subject string

			h := auth.Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				subject = auth.Subject(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "alice", subject)
			}
		})
	}
}
