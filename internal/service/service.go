// Package service holds the entity services: validation, uniqueness and
// tenant checks sit here, between the HTTP handlers and the repositories.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-membership-api/internal/auth"
	"go-membership-api/internal/model"
	"go-membership-api/internal/repository"
	"go-membership-api/internal/validate"
	"go-membership-api/pkg/apierror"
)

type organizationStore interface {
	Register(ctx context.Context, o model.Organization, m model.Member, u model.User) (string, string, error)
	FindOne(ctx context.Context, filter repository.OrganizationFilter) (model.Organization, error)
	Find(ctx context.Context, filter repository.OrganizationFilter) ([]model.Organization, error)
	Exists(ctx context.Context, filter repository.OrganizationFilter) (bool, error)
	Update(ctx context.Context, o model.Organization) error
}

type memberStore interface {
	Create(ctx context.Context, m model.Member) (string, error)
	FindOne(ctx context.Context, filter repository.MemberFilter) (model.Member, error)
	Find(ctx context.Context, filter repository.MemberFilter) ([]model.Member, error)
	Exists(ctx context.Context, filter repository.MemberFilter) (bool, error)
	Update(ctx context.Context, m model.Member) error
}

type userStore interface {
	FindByContact(ctx context.Context, contact string) (model.User, error)
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error
}

type mediaStore interface {
	Create(ctx context.Context, m model.Media) (string, error)
	FindOne(ctx context.Context, filter repository.MediaFilter) (model.Media, error)
	Find(ctx context.Context, filter repository.MediaFilter) ([]model.Media, error)
	SoftDelete(ctx context.Context, id string) error
}

type fileStore interface {
	Write(name string, data []byte) error
	Read(name string) ([]byte, error)
	Exists(name string) (bool, error)
	Remove(name string) error
}

type tokenIssuer interface {
	Issue(principalID string, organizationID string) (auth.IssuedToken, error)
}

var (
	notBlocked = ptr(false)
	notDeleted = ptr(false)
)

func ptr[T any](v T) *T {
	return &v
}

// persistence passes taxonomy errors through and wraps everything else so
// driver detail never reaches a client.
func persistence(operation string, err error) error {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return apierror.Persistence(operation, err)
}

func tenantOf(identity auth.Identity) (string, error) {
	if identity.OrganizationID == "" {
		return "", apierror.Forbidden("Token is not bound to an organization")
	}
	return identity.OrganizationID, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// fieldPatch applies one optional field of a partial update.
type fieldPatch func() error

// present builds a patch for an optional input. A nil value is skipped.
// Otherwise check validates it under name and set receives the result.
func present[T any, U any](value *T, name string, check func(T, string) (U, error), set func(U)) fieldPatch {
	return func() error {
		if value == nil {
			return nil
		}
		out, err := check(*value, name)
		if err != nil {
			return err
		}
		set(out)
		return nil
	}
}

// applyPresent runs patches in order and stops at the first failure.
func applyPresent(patches ...fieldPatch) error {
	for _, patch := range patches {
		if err := patch(); err != nil {
			return err
		}
	}
	return nil
}

func optionalEmail(value string, field string) (*string, error) {
	return validate.OptionalEmail(&value, field)
}

func trimmedOptional(value string, _ string) (*string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	return &trimmed, nil
}

// optionalPastDate parses value when it is set. An empty string means the
// date was not supplied.
func optionalPastDate(value *string, field string, today time.Time) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	date, err := validate.PastDate(strings.TrimSpace(*value), field, today)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
