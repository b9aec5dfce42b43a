package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-membership-api/internal/model"
	"go-membership-api/pkg/apierror"
)

var (
	organizationCols = []string{"id", "name", "email", "contact", "address", "is_blocked", "created_at", "updated_at"}
	memberCols       = []string{
		"id", "organization_id", "first_name", "last_name", "email", "contact", "gender", "date_of_birth",
		"residential_address", "date_joined", "department", "sub_department", "aux_department", "member_type",
		"alias", "added_by", "is_blocked", "created_at", "updated_at",
	}
	mediaCols = []string{
		"id", "owner_kind", "owner_id", "file_name", "file_path", "mime_type", "file_size", "media_type",
		"width", "height", "duration", "is_deleted", "created_at", "updated_at",
	}
)

func ptr[T any](v T) *T { return &v }

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "members_contact_key"}
}

func TestConditions(t *testing.T) {
	t.Parallel()

	empty := MemberFilter{}.conditions()
	assert.Equal(t, "", empty.where())
	assert.Empty(t, empty.args)

	c := MemberFilter{
		OrganizationID: ptr("org-1"),
		Contact:        ptr("0241234567"),
		IsBlocked:      ptr(false),
	}.conditions()
	assert.Equal(t, " WHERE organization_id = $1 AND contact = $2 AND is_blocked = $3", c.where())
	assert.Equal(t, []any{"org-1", "0241234567", false}, c.args)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	err := classify("insert member", &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "members_gender_check"})
	assert.True(t, apierror.Is(err, apierror.KindBadRequest))

	err = classify("insert member", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})
	assert.True(t, apierror.Is(err, apierror.KindNotFound))

	cause := errors.New("connection reset")
	err = classify("insert member", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert member")
}

func TestOrganizationRepository_Register(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	org := model.Organization{Name: "Grace Chapel", Contact: "0301234567", Address: "Accra", CreatedAt: now, UpdatedAt: now}
	member := model.Member{FirstName: "Ama", LastName: "Mensah", Contact: "0241234567", Gender: "female", CreatedAt: now, UpdatedAt: now}
	user := model.User{Contact: "0241234567", PasswordHash: "hash", Salt: "salt", Role: model.RoleOwner, CreatedAt: now, UpdatedAt: now}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantOrg   string
		wantMem   string
		wantKind  apierror.Kind
		wantErr   bool
	}{
		{
			name: "commits all three rows",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO organizations`).
					WithArgs("Grace Chapel", (*string)(nil), "0301234567", "Accra", false, now, now).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("org-1"))
				mock.ExpectQuery(`INSERT INTO members`).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("mem-1"))
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("user-1"))
				mock.ExpectCommit()
			},
			wantOrg: "org-1",
			wantMem: "mem-1",
		},
		{
			name: "rolls back when the member contact is taken",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO organizations`).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("org-1"))
				mock.ExpectQuery(`INSERT INTO members`).
					WillReturnError(uniqueViolation())
				mock.ExpectRollback()
			},
			wantErr:  true,
			wantKind: apierror.KindDuplicate,
		},
		{
			name: "rolls back when the organization contact is taken",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO organizations`).
					WillReturnError(uniqueViolation())
				mock.ExpectRollback()
			},
			wantErr:  true,
			wantKind: apierror.KindDuplicate,
		},
		{
			name: "surfaces begin failures",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			tt.setupMock(mock)

			repo := NewOrganizationRepository(mock)
			orgID, memberID, err := repo.Register(context.Background(), org, member, user)

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantKind != "" {
					assert.True(t, apierror.Is(err, tt.wantKind), "got %v", err)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOrg, orgID)
				assert.Equal(t, tt.wantMem, memberID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOrganizationRepository_FindOne(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .* FROM organizations WHERE id = \$1 AND is_blocked = \$2 LIMIT 1`).
			WithArgs("org-1", false).
			WillReturnRows(pgxmock.NewRows(organizationCols).
				AddRow("org-1", "Grace Chapel", ptr("info@grace.org"), "0301234567", "Accra", false, now, now))

		repo := NewOrganizationRepository(mock)
		got, err := repo.FindOne(context.Background(), OrganizationFilter{ID: ptr("org-1"), IsBlocked: ptr(false)})
		require.NoError(t, err)
		assert.Equal(t, "Grace Chapel", got.Name)
		assert.Equal(t, "info@grace.org", *got.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .* FROM organizations WHERE id = \$1`).
			WithArgs("org-404").
			WillReturnRows(pgxmock.NewRows(organizationCols))

		repo := NewOrganizationRepository(mock)
		_, err := repo.FindOne(context.Background(), OrganizationFilter{ID: ptr("org-404")})
		require.Error(t, err)
		assert.True(t, apierror.Is(err, apierror.KindNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrganizationRepository_Update(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	org := model.Organization{ID: "org-1", Name: "Grace", Contact: "0301234567", Address: "Accra", UpdatedAt: now}

	t.Run("no rows affected is not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE organizations`).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := NewOrganizationRepository(mock).Update(context.Background(), org)
		assert.True(t, apierror.Is(err, apierror.KindNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation is a duplicate", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE organizations`).
			WillReturnError(uniqueViolation())

		err := NewOrganizationRepository(mock).Update(context.Background(), org)
		require.Error(t, err)
		assert.True(t, apierror.Is(err, apierror.KindDuplicate))
		assert.Contains(t, err.Error(), "Organization With Contact 0301234567 Exists")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMemberRepository_FindAndExists(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

	mock := newMockPool(t)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM members WHERE contact = \$1 AND is_blocked = \$2\)`).
		WithArgs("0241234567", false).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT .* FROM members WHERE organization_id = \$1 ORDER BY last_name, first_name`).
		WithArgs("org-1").
		WillReturnRows(pgxmock.NewRows(memberCols).
			AddRow("mem-1", "org-1", "Ama", "Mensah", nil, "0241234567", "female", dob,
				"Accra", nil, "women", "music", "not_selected", "member",
				nil, nil, false, now, now).
			AddRow("mem-2", "org-1", "Kofi", "Owusu", ptr("kofi@example.com"), "0201234567", "male", dob,
				"Kumasi", ptr(dob), "men", "not_selected", "not_selected", "pastor",
				ptr("Pastor K"), ptr("mem-1"), true, now, now))

	repo := NewMemberRepository(mock)

	exists, err := repo.Exists(context.Background(), MemberFilter{Contact: ptr("0241234567"), IsBlocked: ptr(false)})
	require.NoError(t, err)
	assert.True(t, exists)

	members, err := repo.Find(context.Background(), MemberFilter{OrganizationID: ptr("org-1")})
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Nil(t, members[0].Email)
	assert.Equal(t, "women", members[0].Department)
	assert.Equal(t, "Pastor K", *members[1].Alias)
	assert.True(t, members[1].IsBlocked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository_CreateDuplicate(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(`INSERT INTO members`).WillReturnError(uniqueViolation())

	_, err := NewMemberRepository(mock).Create(context.Background(), model.Member{Contact: "0241234567"})
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierror.KindDuplicate, apiErr.Kind)
	assert.Equal(t, "Member With Contact 0241234567 Exists", apiErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository(t *testing.T) {
	t.Run("find by contact not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .* FROM users WHERE contact = \$1`).
			WithArgs("0241234567").
			WillReturnRows(pgxmock.NewRows([]string{"id"}))

		_, err := NewUserRepository(mock).FindByContact(context.Background(), " 0241234567 ")
		assert.True(t, apierror.Is(err, apierror.KindNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update password hash", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE users SET password_hash = \$2`).
			WithArgs("user-1", "$2a$10$abc", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, NewUserRepository(mock).UpdatePasswordHash(context.Background(), "user-1", "$2a$10$abc"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMediaRepository(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("list by owner", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT .* FROM media WHERE owner_kind = \$1 AND owner_id = \$2 AND is_deleted = \$3`).
			WithArgs("member", "mem-1", false).
			WillReturnRows(pgxmock.NewRows(mediaCols).
				AddRow("media-1", "member", "mem-1", "photo.png", "media-1.png", "image/png", int64(2048), "image",
					ptr(64), ptr(32), nil, false, now, now))

		items, err := NewMediaRepository(mock).Find(context.Background(), MediaFilter{
			OwnerKind: ptr("member"),
			OwnerID:   ptr("mem-1"),
			IsDeleted: ptr(false),
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 64, *items[0].Width)
		assert.Nil(t, items[0].Duration)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("soft delete twice is not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE media SET is_deleted = TRUE`).
			WithArgs("media-1", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := NewMediaRepository(mock).SoftDelete(context.Background(), "media-1")
		assert.True(t, apierror.Is(err, apierror.KindNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
