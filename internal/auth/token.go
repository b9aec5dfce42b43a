package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionIDLength = 32

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ErrAuthenticationFailure is the only error Verify returns. Malformed,
// expired and badly signed tokens are indistinguishable to the caller.
var ErrAuthenticationFailure = errors.New("authentication failure")

// Claims is the signed wire form of an Identity.
type Claims struct {
	SessionID      string `json:"sid"`
	OrganizationID string `json:"org,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the verified, read-only view of a token handed to handlers.
type Identity struct {
	TokenID        string    `json:"token_id"`
	Subject        string    `json:"subject"`
	SessionID      string    `json:"session_id"`
	OrganizationID string    `json:"organization_id"`
	IssuedAt       time.Time `json:"issued_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type IssuedToken struct {
	Token     string    `json:"access_token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	ExpiresIn int64     `json:"expires_in"`
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source. Tests use it to pin issue and verify
// instants.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) Issue(principalID string, organizationID string) (IssuedToken, error) {
	principalID = strings.TrimSpace(principalID)
	if principalID == "" {
		return IssuedToken{}, errors.New("principal id is required")
	}

	sessionID, err := randomString(sessionIDLength)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("generate session id: %w", err)
	}

	issuedAt := jwt.NewNumericDate(s.now().UTC())
	expiresAt := jwt.NewNumericDate(issuedAt.Add(s.ttl))

	claims := Claims{
		SessionID:      sessionID,
		OrganizationID: organizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}

	return IssuedToken{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresAt: expiresAt.Time,
		ExpiresIn: int64(s.ttl.Seconds()),
	}, nil
}

// Verify checks token exactly as given. Surrounding whitespace is not
// stripped, so a malformed Authorization header cannot pass.
func (s *TokenService) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrAuthenticationFailure
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, ErrAuthenticationFailure
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return Identity{}, ErrAuthenticationFailure
	}

	if claims.Subject == "" || claims.ID == "" || claims.SessionID == "" || claims.IssuedAt == nil {
		return Identity{}, ErrAuthenticationFailure
	}
	if claims.ExpiresAt.Before(claims.IssuedAt.Time) {
		return Identity{}, ErrAuthenticationFailure
	}

	return Identity{
		TokenID:        claims.ID,
		Subject:        claims.Subject,
		SessionID:      claims.SessionID,
		OrganizationID: claims.OrganizationID,
		IssuedAt:       claims.IssuedAt.Time,
		ExpiresAt:      claims.ExpiresAt.Time,
	}, nil
}

func randomString(n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n)

	// 248 is the largest multiple of 62 below 256; rejecting above it keeps
	// the distribution uniform.
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= 248 {
				continue
			}
			out = append(out, alphanumeric[int(b)%len(alphanumeric)])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}
