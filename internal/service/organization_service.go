package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-membership-api/internal/auth"
	"go-membership-api/internal/model"
	"go-membership-api/internal/repository"
	"go-membership-api/internal/validate"
	"go-membership-api/pkg/apierror"
)

type OrganizationService struct {
	organizations organizationStore
	members       memberStore
	hasher        auth.PasswordHasher
	tokens        tokenIssuer
	now           func() time.Time
}

func NewOrganizationService(organizations organizationStore, members memberStore, hasher auth.PasswordHasher, tokens tokenIssuer) *OrganizationService {
	return &OrganizationService{
		organizations: organizations,
		members:       members,
		hasher:        hasher,
		tokens:        tokens,
		now:           utcNow,
	}
}

// Register creates an organization together with its first member and that
// member's login. The caller gets both ids and a token for the new member.
func (s *OrganizationService) Register(ctx context.Context, req model.RegisterOrganizationRequest) (model.RegistrationResult, error) {
	now := s.now()

	name, err := validate.RequiredString(req.Name, "Name")
	if err != nil {
		return model.RegistrationResult{}, err
	}
	email, err := validate.OptionalEmail(&req.Email, "Email")
	if err != nil {
		return model.RegistrationResult{}, err
	}
	phone, err := validate.Phone(req.Phone, "Phone")
	if err != nil {
		return model.RegistrationResult{}, err
	}
	address, err := validate.RequiredString(req.Address, "Address")
	if err != nil {
		return model.RegistrationResult{}, err
	}
	firstName, err := validate.RequiredString(req.FirstName, "First Name")
	if err != nil {
		return model.RegistrationResult{}, err
	}
	lastName, err := validate.RequiredString(req.LastName, "Last Name")
	if err != nil {
		return model.RegistrationResult{}, err
	}
	memberEmail, err := validate.OptionalEmail(req.MemberEmail, "Member Email")
	if err != nil {
		return model.RegistrationResult{}, err
	}
	memberPhone, err := validate.Phone(req.MemberPhone, "Member Phone")
	if err != nil {
		return model.RegistrationResult{}, err
	}
	memberAddress, err := validate.RequiredString(req.MemberAddress, "Member Address")
	if err != nil {
		return model.RegistrationResult{}, err
	}
	gender, err := validate.Gender(req.Gender, "Gender")
	if err != nil {
		return model.RegistrationResult{}, err
	}
	dateOfBirth, err := validate.BirthDate(req.DateOfBirth, "Date of Birth", now)
	if err != nil {
		return model.RegistrationResult{}, err
	}
	dateJoined, err := optionalPastDate(req.DateJoined, "Date Joined", now)
	if err != nil {
		return model.RegistrationResult{}, err
	}
	password, err := validate.Password(req.Password, "Password")
	if err != nil {
		return model.RegistrationResult{}, err
	}

	taken, err := s.organizations.Exists(ctx, repository.OrganizationFilter{Contact: &phone, IsBlocked: notBlocked})
	if err != nil {
		return model.RegistrationResult{}, persistence("add organization", err)
	}
	if taken {
		return model.RegistrationResult{}, apierror.Duplicate(fmt.Sprintf("Organization With Contact %s Exists", phone), "")
	}

	taken, err = s.members.Exists(ctx, repository.MemberFilter{Contact: &memberPhone, IsBlocked: notBlocked})
	if err != nil {
		return model.RegistrationResult{}, persistence("add organization", err)
	}
	if taken {
		return model.RegistrationResult{}, apierror.Duplicate(fmt.Sprintf("Member With Contact %s Exists", memberPhone), "")
	}

	salt := auth.NewSalt()
	hash, err := s.hasher.Hash(password, salt)
	if err != nil {
		return model.RegistrationResult{}, apierror.Persistence("add organization", err)
	}

	organization := model.Organization{
		Name:      name,
		Email:     email,
		Contact:   phone,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	member := model.Member{
		FirstName:          firstName,
		LastName:           lastName,
		Email:              memberEmail,
		Contact:            memberPhone,
		Gender:             gender,
		DateOfBirth:        dateOfBirth,
		ResidentialAddress: memberAddress,
		DateJoined:         dateJoined,
		Department:         validate.NotSelected,
		SubDepartment:      validate.NotSelected,
		AuxDepartment:      validate.NotSelected,
		MemberType:         validate.NotSelected,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	user := model.User{
		Contact:      memberPhone,
		Email:        memberEmail,
		PasswordHash: hash,
		Salt:         salt,
		Role:         model.RoleOwner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	organizationID, memberID, err := s.organizations.Register(ctx, organization, member, user)
	if err != nil {
		return model.RegistrationResult{}, persistence("add organization", err)
	}

	issued, err := s.tokens.Issue(memberID, organizationID)
	if err != nil {
		return model.RegistrationResult{}, apierror.Persistence("issue token", err)
	}

	slog.Info("organization registered", "organization_id", organizationID, "member_id", memberID)

	return model.RegistrationResult{
		OrganizationID: organizationID,
		MemberID:       memberID,
		Token:          model.NewTokenResult(issued),
	}, nil
}

func (s *OrganizationService) List(ctx context.Context, blocked *bool) ([]model.Organization, error) {
	organizations, err := s.organizations.Find(ctx, repository.OrganizationFilter{IsBlocked: blocked})
	if err != nil {
		return nil, persistence("fetch organizations", err)
	}
	return organizations, nil
}

func (s *OrganizationService) Get(ctx context.Context, id string) (model.Organization, error) {
	id, err := validate.UUID(id, "ID")
	if err != nil {
		return model.Organization{}, err
	}

	organization, err := s.organizations.FindOne(ctx, repository.OrganizationFilter{ID: &id, IsBlocked: notBlocked})
	if err != nil {
		return model.Organization{}, persistence("fetch organization", err)
	}
	return organization, nil
}

// Update applies the present fields of req to the caller's own organization.
func (s *OrganizationService) Update(ctx context.Context, identity auth.Identity, id string, req model.UpdateOrganizationRequest) (model.Organization, error) {
	id, err := s.ownOrganization(identity, id)
	if err != nil {
		return model.Organization{}, err
	}

	organization, err := s.organizations.FindOne(ctx, repository.OrganizationFilter{ID: &id, IsBlocked: notBlocked})
	if err != nil {
		return model.Organization{}, persistence("update organization", err)
	}

	previousContact := organization.Contact
	err = applyPresent(
		present(req.Name, "Name", validate.RequiredString, func(v string) { organization.Name = v }),
		present(req.Email, "Email", optionalEmail, func(v *string) { organization.Email = v }),
		present(req.Phone, "Phone", validate.Phone, func(v string) { organization.Contact = v }),
		present(req.Address, "Address", validate.RequiredString, func(v string) { organization.Address = v }),
	)
	if err != nil {
		return model.Organization{}, err
	}

	if organization.Contact != previousContact {
		taken, err := s.organizations.Exists(ctx, repository.OrganizationFilter{Contact: &organization.Contact, IsBlocked: notBlocked})
		if err != nil {
			return model.Organization{}, persistence("update organization", err)
		}
		if taken {
			return model.Organization{}, apierror.Duplicate(fmt.Sprintf("Organization With Contact %s Exists", organization.Contact), "")
		}
	}

	organization.UpdatedAt = s.now()
	if err := s.organizations.Update(ctx, organization); err != nil {
		return model.Organization{}, persistence("update organization", err)
	}

	return organization, nil
}

// ToggleBlocked flips is_blocked whatever its current value.
func (s *OrganizationService) ToggleBlocked(ctx context.Context, identity auth.Identity, id string) (model.Organization, error) {
	id, err := s.ownOrganization(identity, id)
	if err != nil {
		return model.Organization{}, err
	}

	organization, err := s.organizations.FindOne(ctx, repository.OrganizationFilter{ID: &id})
	if err != nil {
		return model.Organization{}, persistence("toggle organization", err)
	}

	organization.IsBlocked = !organization.IsBlocked
	organization.UpdatedAt = s.now()
	if err := s.organizations.Update(ctx, organization); err != nil {
		return model.Organization{}, persistence("toggle organization", err)
	}

	return organization, nil
}

func (s *OrganizationService) ownOrganization(identity auth.Identity, id string) (string, error) {
	id, err := validate.UUID(id, "ID")
	if err != nil {
		return "", err
	}

	tenant, err := tenantOf(identity)
	if err != nil {
		return "", err
	}
	if tenant != id {
		return "", apierror.Forbidden("Organization belongs to another tenant")
	}
	return id, nil
}
