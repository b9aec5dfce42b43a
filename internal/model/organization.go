package model

import "time"

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Contact   string    `json:"contact"`
	Address   string    `json:"address"`
	IsBlocked bool      `json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterOrganizationRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	MemberEmail   *string `json:"member_email"`
	MemberPhone   string  `json:"member_phone"`
	MemberAddress string  `json:"member_address"`
	Gender        string  `json:"gender"`
	DateOfBirth   string  `json:"date_of_birth"`
	DateJoined    *string `json:"date_joined"`
	Password      string  `json:"password"`
}

// UpdateOrganizationRequest is a sparse patch. Nil fields are left untouched.
type UpdateOrganizationRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type UploadOrganizationImageRequest struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

type RegistrationResult struct {
	OrganizationID string      `json:"organization"`
	MemberID       string      `json:"member"`
	Token          TokenResult `json:"token"`
}
