package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"go-membership-api/internal/model"
	"go-membership-api/pkg/apierror"
)

const organizationColumns = `id, name, email, contact, address, is_blocked, created_at, updated_at`

type OrganizationFilter struct {
	ID        *string
	Contact   *string
	IsBlocked *bool
}

func (f OrganizationFilter) conditions() *conditions {
	c := &conditions{}
	addEq(c, "id", f.ID)
	addEq(c, "contact", f.Contact)
	addEq(c, "is_blocked", f.IsBlocked)
	return c
}

type OrganizationRepository struct {
	pool Pool
}

func NewOrganizationRepository(pool Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

func scanOrganization(row scanner) (model.Organization, error) {
	var o model.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Email, &o.Contact, &o.Address, &o.IsBlocked, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func duplicateOrganization(contact string) *apierror.APIError {
	return apierror.Duplicate(fmt.Sprintf("Organization With Contact %s Exists", contact), "")
}

func insertOrganization(ctx context.Context, q Querier, o model.Organization) (string, error) {
	var id string
	err := q.QueryRow(ctx,
		`INSERT INTO organizations (name, email, contact, address, is_blocked, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		o.Name, o.Email, o.Contact, o.Address, o.IsBlocked, o.CreatedAt, o.UpdatedAt).Scan(&id)
	if isUniqueViolation(err) {
		return "", duplicateOrganization(o.Contact)
	}
	if err != nil {
		return "", classify("insert organization", err)
	}
	return id, nil
}

// Register inserts the organization, its primary member and that member's
// login principal in one transaction. Either all three rows exist afterwards
// or none do.
func (r *OrganizationRepository) Register(ctx context.Context, o model.Organization, m model.Member, u model.User) (string, string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", "", fmt.Errorf("begin registration: %w", err)
	}

	orgID, err := insertOrganization(ctx, tx, o)
	if err != nil {
		rollback(ctx, tx)
		return "", "", err
	}

	m.OrganizationID = orgID
	memberID, err := insertMember(ctx, tx, m)
	if err != nil {
		rollback(ctx, tx)
		return "", "", err
	}

	u.MemberID = memberID
	if _, err := insertUser(ctx, tx, u); err != nil {
		rollback(ctx, tx)
		return "", "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", "", fmt.Errorf("commit registration: %w", err)
	}

	return orgID, memberID, nil
}

func (r *OrganizationRepository) FindOne(ctx context.Context, filter OrganizationFilter) (model.Organization, error) {
	c := filter.conditions()
	o, err := scanOrganization(r.pool.QueryRow(ctx,
		`SELECT `+organizationColumns+` FROM organizations`+c.where()+` LIMIT 1`, c.args...))
	if errors.Is(err, pgx.ErrNoRows) {
		id := ""
		if filter.ID != nil {
			id = *filter.ID
		}
		return model.Organization{}, apierror.NotFound("Organization", id)
	}
	if err != nil {
		return model.Organization{}, classify("find organization", err)
	}
	return o, nil
}

func (r *OrganizationRepository) Find(ctx context.Context, filter OrganizationFilter) ([]model.Organization, error) {
	c := filter.conditions()
	rows, err := r.pool.Query(ctx,
		`SELECT `+organizationColumns+` FROM organizations`+c.where()+` ORDER BY created_at DESC`, c.args...)
	if err != nil {
		return nil, classify("list organizations", err)
	}
	defer rows.Close()

	out := make([]model.Organization, 0)
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrganizationRepository) Exists(ctx context.Context, filter OrganizationFilter) (bool, error) {
	c := filter.conditions()
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM organizations`+c.where()+`)`, c.args...).Scan(&exists)
	if err != nil {
		return false, classify("check organization exists", err)
	}
	return exists, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, o model.Organization) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE organizations
		 SET name = $2, email = $3, contact = $4, address = $5, is_blocked = $6, updated_at = $7
		 WHERE id = $1`,
		o.ID, o.Name, o.Email, o.Contact, o.Address, o.IsBlocked, o.UpdatedAt)
	if isUniqueViolation(err) {
		return duplicateOrganization(o.Contact)
	}
	if err != nil {
		return classify("update organization", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("Organization", o.ID)
	}
	return nil
}
