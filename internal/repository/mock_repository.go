package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-membership-api/internal/model"
)

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Register(ctx context.Context, o model.Organization, member model.Member, u model.User) (string, string, error) {
	args := m.Called(ctx, o, member, u)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockOrganizationRepository) FindOne(ctx context.Context, filter OrganizationFilter) (model.Organization, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(model.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Find(ctx context.Context, filter OrganizationFilter) ([]model.Organization, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Exists(ctx context.Context, filter OrganizationFilter) (bool, error) {
	args := m.Called(ctx, filter)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, o model.Organization) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(ctx context.Context, member model.Member) (string, error) {
	args := m.Called(ctx, member)
	return args.String(0), args.Error(1)
}

func (m *MockMemberRepository) FindOne(ctx context.Context, filter MemberFilter) (model.Member, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(model.Member), args.Error(1)
}

func (m *MockMemberRepository) Find(ctx context.Context, filter MemberFilter) ([]model.Member, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Member), args.Error(1)
}

func (m *MockMemberRepository) Exists(ctx context.Context, filter MemberFilter) (bool, error) {
	args := m.Called(ctx, filter)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) Update(ctx context.Context, member model.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u model.User) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) FindByContact(ctx context.Context, contact string) (model.User, error) {
	args := m.Called(ctx, contact)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) FindByMemberID(ctx context.Context, memberID string) (model.User, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) Create(ctx context.Context, media model.Media) (string, error) {
	args := m.Called(ctx, media)
	return args.String(0), args.Error(1)
}

func (m *MockMediaRepository) FindOne(ctx context.Context, filter MediaFilter) (model.Media, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(model.Media), args.Error(1)
}

func (m *MockMediaRepository) Find(ctx context.Context, filter MediaFilter) ([]model.Media, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Media), args.Error(1)
}

func (m *MockMediaRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
