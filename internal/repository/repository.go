// Package repository persists organizations, members, login principals and
// media metadata in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"go-membership-api/pkg/apierror"
)

// Querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Pool interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

type scanner interface {
	Scan(dest ...any) error
}

// conditions accumulates conjunctive equality predicates with positional
// placeholders.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) eq(column string, value any) {
	c.args = append(c.args, value)
	c.clauses = append(c.clauses, fmt.Sprintf("%s = $%d", column, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

func addEq[T any](c *conditions, column string, value *T) {
	if value != nil {
		c.eq(column, *value)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// classify turns constraint violations into client errors. Anything else is
// wrapped with the operation name and left for the service to report.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return apierror.BadRequest("Request violates a data constraint", pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return apierror.NotFound("Referenced resource", pgErr.ConstraintName)
		case pgerrcode.InvalidTextRepresentation:
			return apierror.BadRequest("Malformed identifier", "")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func rollback(ctx context.Context, tx pgx.Tx) {
	_ = tx.Rollback(ctx)
}
