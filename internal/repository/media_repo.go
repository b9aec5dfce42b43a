package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"go-membership-api/internal/model"
	"go-membership-api/pkg/apierror"
)

const mediaColumns = `id, owner_kind, owner_id, file_name, file_path, mime_type, file_size, media_type,
	width, height, duration, is_deleted, created_at, updated_at`

type MediaFilter struct {
	ID        *string
	OwnerKind *string
	OwnerID   *string
	IsDeleted *bool
}

func (f MediaFilter) conditions() *conditions {
	c := &conditions{}
	addEq(c, "id", f.ID)
	addEq(c, "owner_kind", f.OwnerKind)
	addEq(c, "owner_id", f.OwnerID)
	addEq(c, "is_deleted", f.IsDeleted)
	return c
}

type MediaRepository struct {
	pool Pool
}

func NewMediaRepository(pool Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

func scanMedia(row scanner) (model.Media, error) {
	var m model.Media
	err := row.Scan(&m.ID, &m.OwnerKind, &m.OwnerID, &m.FileName, &m.FilePath, &m.MimeType,
		&m.FileSize, &m.MediaType, &m.Width, &m.Height, &m.Duration, &m.IsDeleted,
		&m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// Create stores a row whose id was chosen by the caller.
func (r *MediaRepository) Create(ctx context.Context, m model.Media) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO media (id, owner_kind, owner_id, file_name, file_path, mime_type, file_size,
		        media_type, width, height, duration, is_deleted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id`,
		m.ID, m.OwnerKind, m.OwnerID, m.FileName, m.FilePath, m.MimeType, m.FileSize,
		m.MediaType, m.Width, m.Height, m.Duration, m.IsDeleted, m.CreatedAt, m.UpdatedAt).Scan(&id)
	if isUniqueViolation(err) {
		return "", apierror.Duplicate("Media already exists", m.ID)
	}
	if err != nil {
		return "", classify("insert media", err)
	}
	return id, nil
}

func (r *MediaRepository) FindOne(ctx context.Context, filter MediaFilter) (model.Media, error) {
	c := filter.conditions()
	m, err := scanMedia(r.pool.QueryRow(ctx,
		`SELECT `+mediaColumns+` FROM media`+c.where()+` LIMIT 1`, c.args...))
	if errors.Is(err, pgx.ErrNoRows) {
		id := ""
		if filter.ID != nil {
			id = *filter.ID
		}
		return model.Media{}, apierror.New("NOT_FOUND", "Media not found", id, http.StatusNotFound)
	}
	if err != nil {
		return model.Media{}, classify("find media", err)
	}
	return m, nil
}

func (r *MediaRepository) Find(ctx context.Context, filter MediaFilter) ([]model.Media, error) {
	c := filter.conditions()
	rows, err := r.pool.Query(ctx,
		`SELECT `+mediaColumns+` FROM media`+c.where()+` ORDER BY created_at DESC`, c.args...)
	if err != nil {
		return nil, classify("list media", err)
	}
	defer rows.Close()

	out := make([]model.Media, 0)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MediaRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE media SET is_deleted = TRUE, updated_at = $2 WHERE id = $1 AND is_deleted = FALSE`,
		id, time.Now().UTC())
	if err != nil {
		return classify("delete media", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.New("NOT_FOUND", "Media not found", id, http.StatusNotFound)
	}
	return nil
}
