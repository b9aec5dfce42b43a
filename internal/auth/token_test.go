package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-entropy"

func newTestTokenService(t *testing.T, ttl time.Duration, now *time.Time) *TokenService {
	t.Helper()

	svc, err := NewTokenService(testSecret, ttl)
	require.NoError(t, err)
	return svc.WithClock(func() time.Time { return *now })
}

func TestNewTokenServiceValidatesInput(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("  ", time.Minute)
	require.Error(t, err)

	_, err = NewTokenService(testSecret, 0)
	require.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, 15*time.Minute, &now)

	issued, err := svc.Issue("member-1", "org-1")
	require.NoError(t, err)
	require.Equal(t, "Bearer", issued.TokenType)
	require.Equal(t, now.Add(15*time.Minute), issued.ExpiresAt)
	require.EqualValues(t, 900, issued.ExpiresIn)

	identity, err := svc.Verify(issued.Token)
	require.NoError(t, err)
	require.Equal(t, "member-1", identity.Subject)
	require.Equal(t, "org-1", identity.OrganizationID)
	require.Len(t, identity.SessionID, sessionIDLength)
	require.NotEmpty(t, identity.TokenID)
	require.Equal(t, now, identity.IssuedAt)
	require.False(t, identity.ExpiresAt.Before(identity.IssuedAt))
}

func TestIssueGeneratesFreshRandomIdentifiers(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, time.Hour, &now)

	first, err := svc.Issue("member-1", "org-1")
	require.NoError(t, err)
	second, err := svc.Issue("member-1", "org-1")
	require.NoError(t, err)

	a, err := svc.Verify(first.Token)
	require.NoError(t, err)
	b, err := svc.Verify(second.Token)
	require.NoError(t, err)

	require.NotEqual(t, a.TokenID, b.TokenID)
	require.NotEqual(t, a.SessionID, b.SessionID)
	require.NotEqual(t, a.SessionID, a.OrganizationID)
}

func TestVerifyHonoursExpiryBoundary(t *testing.T) {
	t.Parallel()

	const ttl = 10 * time.Minute
	issuedAt := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	now := issuedAt
	svc := newTestTokenService(t, ttl, &now)

	issued, err := svc.Issue("member-9", "org-9")
	require.NoError(t, err)

	for _, offset := range []time.Duration{0, time.Second, time.Minute, ttl / 2, ttl - time.Second, ttl - time.Nanosecond} {
		now = issuedAt.Add(offset)
		_, err := svc.Verify(issued.Token)
		require.NoError(t, err, "offset %s should verify", offset)
	}

	for _, offset := range []time.Duration{ttl, ttl + time.Nanosecond, ttl + time.Second, 24 * time.Hour} {
		now = issuedAt.Add(offset)
		_, err := svc.Verify(issued.Token)
		require.ErrorIs(t, err, ErrAuthenticationFailure, "offset %s should fail", offset)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, time.Hour, &now)

	issued, err := svc.Issue("member-1", "org-1")
	require.NoError(t, err)

	parts := strings.Split(issued.Token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	for i := range payload {
		for bit := 0; bit < 8; bit++ {
			mutated := append([]byte(nil), payload...)
			mutated[i] ^= 1 << bit

			tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(mutated) + "." + parts[2]
			_, err := svc.Verify(tampered)
			require.ErrorIs(t, err, ErrAuthenticationFailure, "byte %d bit %d", i, bit)
		}
	}
}

func TestVerifyCollapsesFailures(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, time.Hour, &now)

	issued, err := svc.Issue("member-1", "org-1")
	require.NoError(t, err)

	other, err := NewTokenService("another-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.WithClock(func() time.Time { return now }).Issue("member-1", "org-1")
	require.NoError(t, err)

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: "abc",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "member-1",
			ID:        "jti",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		SessionID: "abc",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "member-1",
			ID:       "jti",
			IssuedAt: jwt.NewNumericDate(now),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":             "",
		"garbage":           "not-a-token",
		"two segments":      "a.b",
		"foreign secret":    foreign.Token,
		"wrong algorithm":   hs256,
		"missing expiry":    noExpiry,
		"truncated":         issued.Token[:len(issued.Token)-4],
		"trailing garbage":  issued.Token + "x",
		"signature removed": strings.Join(strings.Split(issued.Token, ".")[:2], ".") + ".",
		"whitespace only":   "   ",
		"leading space":     " " + issued.Token,
		"trailing newline":  issued.Token + "\n",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			require.ErrorIs(t, err, ErrAuthenticationFailure)
			require.Equal(t, ErrAuthenticationFailure, err)
		})
	}
}
