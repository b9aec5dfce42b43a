package model

import (
	"time"

	"go-membership-api/internal/auth"
)

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User is the login principal attached to a member.
type User struct {
	ID                string    `json:"id"`
	MemberID          string    `json:"member_id"`
	Contact           string    `json:"contact"`
	Email             *string   `json:"email"`
	PasswordHash      string    `json:"-"`
	Salt              string    `json:"-"`
	Role              string    `json:"role"`
	IsPasswordChanged bool      `json:"is_password_changed"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type LoginRequest struct {
	Contact  string `json:"contact"`
	Password string `json:"password"`
}

type TokenResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	ExpiresIn   int64     `json:"expires_in"`
}

func NewTokenResult(issued auth.IssuedToken) TokenResult {
	return TokenResult{
		AccessToken: issued.Token,
		TokenType:   issued.TokenType,
		ExpiresAt:   issued.ExpiresAt,
		ExpiresIn:   issued.ExpiresIn,
	}
}

type LoginResult struct {
	TokenResult
	Member *Member `json:"member"`
	Role   string  `json:"role"`
}

type MeResult struct {
	Identity auth.Identity `json:"identity"`
	Member   *Member       `json:"member"`
}
