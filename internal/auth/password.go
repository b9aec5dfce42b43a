// Package auth holds the credential hasher and the token service.
package auth

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeDigest = "digest"
	SchemeBcrypt = "bcrypt"
)

var ErrEmptyPassword = errors.New("password cannot be empty")

// NewSalt returns a fresh per-principal salt. It is generated once when the
// principal is created and never rotated.
func NewSalt() string {
	return uuid.NewString()
}

// DerivePassword runs the two-stage digest: md5(secret+salt) as hex, then
// sha512(md5hex+secret+salt) as lowercase hex.
//
// The scheme has no work factor and is kept for compatibility with stored
// credentials. New deployments should set PASSWORD_SCHEME=bcrypt.
func DerivePassword(secret string, salt string) string {
	first := md5.Sum([]byte(secret + salt))
	second := sha512.Sum512([]byte(hex.EncodeToString(first[:]) + secret + salt))
	return hex.EncodeToString(second[:])
}

// bcryptInput condenses secret and salt to 64 hex bytes, which keeps any
// password inside bcrypt's 72-byte input limit.
func bcryptInput(secret string, salt string) []byte {
	sum := sha256.Sum256([]byte(secret + salt))
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum[:])
	return out
}

// VerifyPassword recomputes the hash for secret and salt and compares it with
// the stored value. Bcrypt hashes are recognised by their prefix.
func VerifyPassword(secret string, salt string, hash string) bool {
	if isBcryptHash(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(secret, salt)) == nil
	}

	derived := DerivePassword(secret, salt)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) == 1
}

type PasswordHasher interface {
	Hash(secret string, salt string) (string, error)
	Verify(secret string, salt string, hash string) bool
	// NeedsUpgrade reports whether hash was produced by another scheme.
	NeedsUpgrade(hash string) bool
}

type DigestHasher struct{}

func (DigestHasher) Hash(secret string, salt string) (string, error) {
	if secret == "" {
		return "", ErrEmptyPassword
	}
	return DerivePassword(secret, salt), nil
}

func (DigestHasher) Verify(secret string, salt string, hash string) bool {
	return VerifyPassword(secret, salt, hash)
}

func (DigestHasher) NeedsUpgrade(hash string) bool {
	return isBcryptHash(hash)
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(secret string, salt string) (string, error) {
	if secret == "" {
		return "", ErrEmptyPassword
	}

	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hashed, err := bcrypt.GenerateFromPassword(bcryptInput(secret, salt), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}

	return string(hashed), nil
}

func (h BcryptHasher) Verify(secret string, salt string, hash string) bool {
	return VerifyPassword(secret, salt, hash)
}

func (h BcryptHasher) NeedsUpgrade(hash string) bool {
	return !isBcryptHash(hash)
}

func NewPasswordHasher(scheme string) (PasswordHasher, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemeDigest:
		return DigestHasher{}, nil
	case SchemeBcrypt:
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2")
}
