package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"go-membership-api/internal/model"
	"go-membership-api/pkg/apierror"
)

const memberColumns = `id, organization_id, first_name, last_name, email, contact, gender, date_of_birth,
	residential_address, date_joined, department, sub_department, aux_department, member_type,
	alias, added_by, is_blocked, created_at, updated_at`

type MemberFilter struct {
	ID             *string
	OrganizationID *string
	Contact        *string
	IsBlocked      *bool
}

func (f MemberFilter) conditions() *conditions {
	c := &conditions{}
	addEq(c, "id", f.ID)
	addEq(c, "organization_id", f.OrganizationID)
	addEq(c, "contact", f.Contact)
	addEq(c, "is_blocked", f.IsBlocked)
	return c
}

type MemberRepository struct {
	pool Pool
}

func NewMemberRepository(pool Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

func scanMember(row scanner) (model.Member, error) {
	var m model.Member
	err := row.Scan(&m.ID, &m.OrganizationID, &m.FirstName, &m.LastName, &m.Email, &m.Contact,
		&m.Gender, &m.DateOfBirth, &m.ResidentialAddress, &m.DateJoined, &m.Department,
		&m.SubDepartment, &m.AuxDepartment, &m.MemberType, &m.Alias, &m.AddedBy, &m.IsBlocked,
		&m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func duplicateMember(contact string) *apierror.APIError {
	return apierror.Duplicate(fmt.Sprintf("Member With Contact %s Exists", contact), "")
}

func insertMember(ctx context.Context, q Querier, m model.Member) (string, error) {
	var id string
	err := q.QueryRow(ctx,
		`INSERT INTO members (organization_id, first_name, last_name, email, contact, gender,
		        date_of_birth, residential_address, date_joined, department, sub_department,
		        aux_department, member_type, alias, added_by, is_blocked, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING id`,
		m.OrganizationID, m.FirstName, m.LastName, m.Email, m.Contact, m.Gender,
		m.DateOfBirth, m.ResidentialAddress, m.DateJoined, m.Department, m.SubDepartment,
		m.AuxDepartment, m.MemberType, m.Alias, m.AddedBy, m.IsBlocked, m.CreatedAt, m.UpdatedAt).Scan(&id)
	if isUniqueViolation(err) {
		return "", duplicateMember(m.Contact)
	}
	if err != nil {
		return "", classify("insert member", err)
	}
	return id, nil
}

func (r *MemberRepository) Create(ctx context.Context, m model.Member) (string, error) {
	return insertMember(ctx, r.pool, m)
}

func (r *MemberRepository) FindOne(ctx context.Context, filter MemberFilter) (model.Member, error) {
	c := filter.conditions()
	m, err := scanMember(r.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members`+c.where()+` LIMIT 1`, c.args...))
	if errors.Is(err, pgx.ErrNoRows) {
		id := ""
		if filter.ID != nil {
			id = *filter.ID
		}
		return model.Member{}, apierror.NotFound("Member", id)
	}
	if err != nil {
		return model.Member{}, classify("find member", err)
	}
	return m, nil
}

func (r *MemberRepository) Find(ctx context.Context, filter MemberFilter) ([]model.Member, error) {
	c := filter.conditions()
	rows, err := r.pool.Query(ctx,
		`SELECT `+memberColumns+` FROM members`+c.where()+` ORDER BY last_name, first_name`, c.args...)
	if err != nil {
		return nil, classify("list members", err)
	}
	defer rows.Close()

	out := make([]model.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MemberRepository) Exists(ctx context.Context, filter MemberFilter) (bool, error) {
	c := filter.conditions()
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM members`+c.where()+`)`, c.args...).Scan(&exists)
	if err != nil {
		return false, classify("check member exists", err)
	}
	return exists, nil
}

func (r *MemberRepository) Update(ctx context.Context, m model.Member) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE members
		 SET first_name = $2, last_name = $3, email = $4, contact = $5, gender = $6,
		     date_of_birth = $7, residential_address = $8, date_joined = $9, department = $10,
		     sub_department = $11, aux_department = $12, member_type = $13, alias = $14,
		     is_blocked = $15, updated_at = $16
		 WHERE id = $1`,
		m.ID, m.FirstName, m.LastName, m.Email, m.Contact, m.Gender,
		m.DateOfBirth, m.ResidentialAddress, m.DateJoined, m.Department,
		m.SubDepartment, m.AuxDepartment, m.MemberType, m.Alias,
		m.IsBlocked, m.UpdatedAt)
	if isUniqueViolation(err) {
		return duplicateMember(m.Contact)
	}
	if err != nil {
		return classify("update member", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("Member", m.ID)
	}
	return nil
}
