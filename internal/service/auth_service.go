package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"go-membership-api/internal/auth"
	"go-membership-api/internal/model"
	"go-membership-api/internal/repository"
	"go-membership-api/pkg/apierror"
)

// dummySalt pairs with dummyHash so unknown contacts pay for one hash
// verification like known ones do.
const dummySalt = "00000000-0000-4000-8000-000000000000"

type AuthService struct {
	users         userStore
	members       memberStore
	organizations organizationStore
	hasher        auth.PasswordHasher
	tokens        tokenIssuer
	dummyHash     string
}

func NewAuthService(users userStore, members memberStore, organizations organizationStore, hasher auth.PasswordHasher, tokens tokenIssuer) *AuthService {
	dummyHash, err := hasher.Hash(uuid.NewString(), dummySalt)
	if err != nil {
		dummyHash = auth.DerivePassword(uuid.NewString(), dummySalt)
	}

	return &AuthService{
		users:         users,
		members:       members,
		organizations: organizations,
		hasher:        hasher,
		tokens:        tokens,
		dummyHash:     dummyHash,
	}
}

// Login exchanges a contact and password for an access token. Unknown
// contacts, wrong passwords and blocked accounts all fail the same way.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResult, error) {
	contact := strings.TrimSpace(req.Contact)
	if contact == "" || req.Password == "" {
		return model.LoginResult{}, apierror.Unauthenticated()
	}

	user, err := s.users.FindByContact(ctx, contact)
	if err != nil {
		if apierror.Is(err, apierror.KindNotFound) {
			s.hasher.Verify(req.Password, dummySalt, s.dummyHash)
			return model.LoginResult{}, apierror.Unauthenticated()
		}
		return model.LoginResult{}, persistence("login", err)
	}

	if !s.hasher.Verify(req.Password, user.Salt, user.PasswordHash) {
		return model.LoginResult{}, apierror.Unauthenticated()
	}

	member, err := s.members.FindOne(ctx, repository.MemberFilter{ID: &user.MemberID, IsBlocked: notBlocked})
	if err != nil {
		if apierror.Is(err, apierror.KindNotFound) {
			return model.LoginResult{}, apierror.Unauthenticated()
		}
		return model.LoginResult{}, persistence("login", err)
	}

	if _, err := s.organizations.FindOne(ctx, repository.OrganizationFilter{ID: &member.OrganizationID, IsBlocked: notBlocked}); err != nil {
		if apierror.Is(err, apierror.KindNotFound) {
			return model.LoginResult{}, apierror.Unauthenticated()
		}
		return model.LoginResult{}, persistence("login", err)
	}

	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		s.upgradeHash(ctx, user, req.Password)
	}

	issued, err := s.tokens.Issue(member.ID, member.OrganizationID)
	if err != nil {
		return model.LoginResult{}, apierror.Persistence("issue token", err)
	}

	return model.LoginResult{
		TokenResult: model.NewTokenResult(issued),
		Member:      &member,
		Role:        user.Role,
	}, nil
}

// upgradeHash re-hashes a legacy credential with the configured scheme. A
// failure leaves the old hash in place and does not fail the login.
func (s *AuthService) upgradeHash(ctx context.Context, user model.User, password string) {
	hash, err := s.hasher.Hash(password, user.Salt)
	if err != nil {
		slog.Warn("password rehash failed", "user_id", user.ID, "error", err)
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		slog.Warn("password rehash not stored", "user_id", user.ID, "error", err)
	}
}

// Me returns the caller's identity together with its member record.
func (s *AuthService) Me(ctx context.Context, identity auth.Identity) (model.MeResult, error) {
	tenant, err := tenantOf(identity)
	if err != nil {
		return model.MeResult{}, err
	}

	member, err := s.members.FindOne(ctx, repository.MemberFilter{ID: &identity.Subject, OrganizationID: &tenant})
	if err != nil {
		return model.MeResult{}, persistence("fetch member", err)
	}

	return model.MeResult{Identity: identity, Member: &member}, nil
}
