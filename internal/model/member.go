package model

import "time"

type Member struct {
	ID                 string     `json:"id"`
	OrganizationID     string     `json:"organization_id"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Email              *string    `json:"email"`
	Contact            string     `json:"contact"`
	Gender             string     `json:"gender"`
	DateOfBirth        time.Time  `json:"date_of_birth"`
	ResidentialAddress string     `json:"residential_address"`
	DateJoined         *time.Time `json:"date_joined"`
	Department         string     `json:"department"`
	SubDepartment      string     `json:"sub_department"`
	AuxDepartment      string     `json:"aux_department"`
	MemberType         string     `json:"member_type"`
	Alias              *string    `json:"alias"`
	AddedBy            *string    `json:"added_by"`
	IsBlocked          bool       `json:"is_blocked"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type CreateMemberRequest struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         *string `json:"email"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	Gender        string  `json:"gender"`
	DateOfBirth   string  `json:"date_of_birth"`
	DateJoined    *string `json:"date_joined"`
	Department    string  `json:"department"`
	SubDepartment string  `json:"sub_department"`
	AuxDepartment string  `json:"aux_department"`
	MemberType    string  `json:"member_type"`
	Alias         *string `json:"alias"`
}

// UpdateMemberRequest is a sparse patch. Nil fields are left untouched.
type UpdateMemberRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	Gender        *string `json:"gender"`
	DateOfBirth   *string `json:"date_of_birth"`
	DateJoined    *string `json:"date_joined"`
	Department    *string `json:"department"`
	SubDepartment *string `json:"sub_department"`
	AuxDepartment *string `json:"aux_department"`
	MemberType    *string `json:"member_type"`
	Alias         *string `json:"alias"`
}

type CreatedMember struct {
	ID string `json:"id"`
}
