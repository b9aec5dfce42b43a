package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"go-membership-api/internal/model"
	"go-membership-api/pkg/apierror"
)

const userColumns = `id, member_id, contact, email, password_hash, salt, role, is_password_changed, created_at, updated_at`

type UserRepository struct {
	pool Pool
}

func NewUserRepository(pool Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row scanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.MemberID, &u.Contact, &u.Email, &u.PasswordHash, &u.Salt,
		&u.Role, &u.IsPasswordChanged, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func insertUser(ctx context.Context, q Querier, u model.User) (string, error) {
	var id string
	err := q.QueryRow(ctx,
		`INSERT INTO users (member_id, contact, email, password_hash, salt, role, is_password_changed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		u.MemberID, u.Contact, u.Email, u.PasswordHash, u.Salt, u.Role, u.IsPasswordChanged,
		u.CreatedAt, u.UpdatedAt).Scan(&id)
	if isUniqueViolation(err) {
		return "", apierror.Duplicate(fmt.Sprintf("User With Contact %s Exists", u.Contact), "")
	}
	if err != nil {
		return "", classify("insert user", err)
	}
	return id, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) (string, error) {
	return insertUser(ctx, r.pool, u)
}

func (r *UserRepository) FindByContact(ctx context.Context, contact string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE contact = $1`, strings.TrimSpace(contact)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.NotFound("User", contact)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by contact: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByMemberID(ctx context.Context, memberID string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE member_id = $1`, memberID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.NotFound("User", memberID)
	}
	if err != nil {
		return model.User{}, classify("find user by member", err)
	}
	return u, nil
}

// UpdatePasswordHash replaces the stored hash, keeping the salt.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		userID, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("User", userID)
	}
	return nil
}
