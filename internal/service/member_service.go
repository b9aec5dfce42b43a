package service

import (
	"context"
	"fmt"
	"time"

	"go-membership-api/internal/auth"
	"go-membership-api/internal/model"
	"go-membership-api/internal/repository"
	"go-membership-api/internal/validate"
	"go-membership-api/pkg/apierror"
)

type MemberService struct {
	members       memberStore
	organizations organizationStore
	now           func() time.Time
}

func NewMemberService(members memberStore, organizations organizationStore) *MemberService {
	return &MemberService{
		members:       members,
		organizations: organizations,
		now:           utcNow,
	}
}

// Create adds a member to the caller's organization. The organization must
// exist and not be blocked.
func (s *MemberService) Create(ctx context.Context, identity auth.Identity, req model.CreateMemberRequest) (model.CreatedMember, error) {
	tenant, err := tenantOf(identity)
	if err != nil {
		return model.CreatedMember{}, err
	}
	now := s.now()

	member := model.Member{OrganizationID: tenant, AddedBy: ptr(identity.Subject), CreatedAt: now, UpdatedAt: now}

	if member.FirstName, err = validate.RequiredString(req.FirstName, "First Name"); err != nil {
		return model.CreatedMember{}, err
	}
	if member.LastName, err = validate.RequiredString(req.LastName, "Last Name"); err != nil {
		return model.CreatedMember{}, err
	}
	if member.Email, err = validate.OptionalEmail(req.Email, "Email"); err != nil {
		return model.CreatedMember{}, err
	}
	if member.Contact, err = validate.Phone(req.Phone, "Phone"); err != nil {
		return model.CreatedMember{}, err
	}
	if member.ResidentialAddress, err = validate.RequiredString(req.Address, "Address"); err != nil {
		return model.CreatedMember{}, err
	}
	if member.Gender, err = validate.Gender(req.Gender, "Gender"); err != nil {
		return model.CreatedMember{}, err
	}
	if member.DateOfBirth, err = validate.BirthDate(req.DateOfBirth, "Date of Birth", now); err != nil {
		return model.CreatedMember{}, err
	}
	if member.DateJoined, err = optionalPastDate(req.DateJoined, "Date Joined", now); err != nil {
		return model.CreatedMember{}, err
	}
	if member.Department, err = validate.Department(req.Department, "Department"); err != nil {
		return model.CreatedMember{}, err
	}
	if member.SubDepartment, err = validate.SubDepartment(req.SubDepartment, "Sub Department"); err != nil {
		return model.CreatedMember{}, err
	}
	if member.AuxDepartment, err = validate.AuxDepartment(req.AuxDepartment, "Aux Department"); err != nil {
		return model.CreatedMember{}, err
	}
	if member.MemberType, err = validate.MemberType(req.MemberType, "Member Type"); err != nil {
		return model.CreatedMember{}, err
	}
	if req.Alias != nil {
		member.Alias, _ = trimmedOptional(*req.Alias, "Alias")
	}

	if _, err := s.organizations.FindOne(ctx, repository.OrganizationFilter{ID: &tenant, IsBlocked: notBlocked}); err != nil {
		return model.CreatedMember{}, persistence("add member", err)
	}

	if err := s.ensureContactFree(ctx, member.Contact, "add member"); err != nil {
		return model.CreatedMember{}, err
	}

	id, err := s.members.Create(ctx, member)
	if err != nil {
		return model.CreatedMember{}, persistence("add member", err)
	}

	return model.CreatedMember{ID: id}, nil
}

// List returns the tenant's members. A nil blocked returns every state.
func (s *MemberService) List(ctx context.Context, identity auth.Identity, blocked *bool) ([]model.Member, error) {
	tenant, err := tenantOf(identity)
	if err != nil {
		return nil, err
	}

	members, err := s.members.Find(ctx, repository.MemberFilter{OrganizationID: &tenant, IsBlocked: blocked})
	if err != nil {
		return nil, persistence("fetch members", err)
	}
	return members, nil
}

func (s *MemberService) Get(ctx context.Context, identity auth.Identity, id string) (model.Member, error) {
	filter, err := s.scoped(identity, id)
	if err != nil {
		return model.Member{}, err
	}
	filter.IsBlocked = notBlocked

	member, err := s.members.FindOne(ctx, filter)
	if err != nil {
		return model.Member{}, persistence("fetch member", err)
	}
	return member, nil
}

// Update applies the present fields of req. Absent fields keep their stored
// value and UpdatedAt is always refreshed.
func (s *MemberService) Update(ctx context.Context, identity auth.Identity, id string, req model.UpdateMemberRequest) (model.Member, error) {
	filter, err := s.scoped(identity, id)
	if err != nil {
		return model.Member{}, err
	}
	filter.IsBlocked = notBlocked

	member, err := s.members.FindOne(ctx, filter)
	if err != nil {
		return model.Member{}, persistence("update member", err)
	}

	now := s.now()
	birthDate := func(value string, field string) (time.Time, error) {
		return validate.BirthDate(value, field, now)
	}
	joinedDate := func(value string, field string) (*time.Time, error) {
		return optionalPastDate(&value, field, now)
	}

	previousContact := member.Contact
	err = applyPresent(
		present(req.FirstName, "First Name", validate.RequiredString, func(v string) { member.FirstName = v }),
		present(req.LastName, "Last Name", validate.RequiredString, func(v string) { member.LastName = v }),
		present(req.Email, "Email", optionalEmail, func(v *string) { member.Email = v }),
		present(req.Phone, "Phone", validate.Phone, func(v string) { member.Contact = v }),
		present(req.Address, "Address", validate.RequiredString, func(v string) { member.ResidentialAddress = v }),
		present(req.Gender, "Gender", validate.Gender, func(v string) { member.Gender = v }),
		present(req.DateOfBirth, "Date of Birth", birthDate, func(v time.Time) { member.DateOfBirth = v }),
		present(req.DateJoined, "Date Joined", joinedDate, func(v *time.Time) { member.DateJoined = v }),
		present(req.Department, "Department", validate.Department, func(v string) { member.Department = v }),
		present(req.SubDepartment, "Sub Department", validate.SubDepartment, func(v string) { member.SubDepartment = v }),
		present(req.AuxDepartment, "Aux Department", validate.AuxDepartment, func(v string) { member.AuxDepartment = v }),
		present(req.MemberType, "Member Type", validate.MemberType, func(v string) { member.MemberType = v }),
		present(req.Alias, "Alias", trimmedOptional, func(v *string) { member.Alias = v }),
	)
	if err != nil {
		return model.Member{}, err
	}

	if member.Contact != previousContact {
		if err := s.ensureContactFree(ctx, member.Contact, "update member"); err != nil {
			return model.Member{}, err
		}
	}

	member.UpdatedAt = now
	if err := s.members.Update(ctx, member); err != nil {
		return model.Member{}, persistence("update member", err)
	}

	return member, nil
}

// ToggleBlocked flips is_blocked. Blocked members are found too, so calling
// it twice restores the original state.
func (s *MemberService) ToggleBlocked(ctx context.Context, identity auth.Identity, id string) (model.Member, error) {
	filter, err := s.scoped(identity, id)
	if err != nil {
		return model.Member{}, err
	}

	member, err := s.members.FindOne(ctx, filter)
	if err != nil {
		return model.Member{}, persistence("toggle member", err)
	}

	member.IsBlocked = !member.IsBlocked
	member.UpdatedAt = s.now()
	if err := s.members.Update(ctx, member); err != nil {
		return model.Member{}, persistence("toggle member", err)
	}

	return member, nil
}

func (s *MemberService) scoped(identity auth.Identity, id string) (repository.MemberFilter, error) {
	id, err := validate.UUID(id, "ID")
	if err != nil {
		return repository.MemberFilter{}, err
	}
	tenant, err := tenantOf(identity)
	if err != nil {
		return repository.MemberFilter{}, err
	}
	return repository.MemberFilter{ID: &id, OrganizationID: &tenant}, nil
}

func (s *MemberService) ensureContactFree(ctx context.Context, contact string, operation string) error {
	taken, err := s.members.Exists(ctx, repository.MemberFilter{Contact: &contact, IsBlocked: notBlocked})
	if err != nil {
		return persistence(operation, err)
	}
	if taken {
		return apierror.Duplicate(fmt.Sprintf("Member With Contact %s Exists", contact), "")
	}
	return nil
}
