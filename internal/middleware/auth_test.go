package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-membership-api/internal/auth"
	"go-membership-api/internal/model"
	"go-membership-api/pkg/apierror"
)

func newGate(t *testing.T) (*AuthGate, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("gate-test-secret", time.Hour)
	require.NoError(t, err)
	return NewAuthGate(tokens), tokens
}

func TestAuthGateRejectsBadHeaders(t *testing.T) {
	t.Parallel()

	gate, tokens := newGate(t)
	issued, err := tokens.Issue("member-1", "org-1")
	require.NoError(t, err)

	cases := map[string]string{
		"missing":          "",
		"too short":        "short",
		"scheme only":      "Bearer",
		"prefix only":      "Bearer ",
		"lowercase scheme": "bearer " + issued.Token,
		"no space":         "Bearer" + issued.Token,
		"basic scheme":     "Basic dXNlcjpwYXNz",
		"garbage token":    "Bearer not.a.token",
		"leading space":    " Bearer " + issued.Token,
		"double space":     "Bearer  " + issued.Token,
		"trailing space":   "Bearer " + issued.Token + " ",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			called := false
			handler := gate.Protect(func(http.ResponseWriter, *http.Request, auth.Identity) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/api/v1/members/get", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body model.APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, apierror.CodeAuthentication, body.Code)
			assert.False(t, body.Status)
			assert.Equal(t, "Authentication failure", body.Message)
			assert.Nil(t, body.Data)
		})
	}
}

func TestAuthGatePassesIdentity(t *testing.T) {
	t.Parallel()

	gate, tokens := newGate(t)
	issued, err := tokens.Issue("member-1", "org-1")
	require.NoError(t, err)

	var got auth.Identity
	handler := gate.Protect(func(w http.ResponseWriter, _ *http.Request, identity auth.Identity) {
		got = identity
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+issued.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "member-1", got.Subject)
	assert.Equal(t, "org-1", got.OrganizationID)
	assert.NotEmpty(t, got.SessionID)
}

func TestAuthGateRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issuedAt := time.Now().Add(-2 * time.Hour)
	old, err := auth.NewTokenService("gate-test-secret", time.Hour)
	require.NoError(t, err)
	issued, err := old.WithClock(func() time.Time { return issuedAt }).Issue("member-1", "org-1")
	require.NoError(t, err)

	gate, _ := newGate(t)
	called := false
	handler := gate.Protect(func(http.ResponseWriter, *http.Request, auth.Identity) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+issued.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
