package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/z3by/arabtree-sub000/internal/domain"
)

type MediaRepository interface {
	Create(ctx context.Context, media *domain.Media) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, nodeID *uuid.UUID, params domain.PaginationParams) ([]domain.Media, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MediaStatus) error
}

type mediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *domain.Media) error {
	query := `
		INSERT INTO media (id, node_id, uploaded_by, file_name, file_size, mime_type, storage_path, caption, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		media.ID, media.NodeID, media.UploadedBy, media.FileName, media.FileSize,
		media.MimeType, media.StoragePath, media.Caption, media.Status,
	).Scan(&media.CreatedAt)
}

func (r *mediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Media, error) {
	var media domain.Media
	query := `SELECT * FROM media WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &media, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE media SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *mediaRepository) List(ctx context.Context, nodeID *uuid.UUID, params domain.PaginationParams) ([]domain.Media, int64, error) {
	params.Validate()

	var total int64
	var items []domain.Media

	if nodeID != nil {
		countQuery := `SELECT COUNT(*) FROM media WHERE node_id = $1 AND deleted_at IS NULL`
		if err := r.db.GetContext(ctx, &total, countQuery, *nodeID); err != nil {
			return nil, 0, err
		}

		query := `
			SELECT * FROM media
			WHERE node_id = $1 AND deleted_at IS NULL
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`
		err := r.db.SelectContext(ctx, &items, query, *nodeID, params.PageSize, params.Offset())
		return items, total, err
	}

	countQuery := `SELECT COUNT(*) FROM media WHERE deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM media
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &items, query, params.PageSize, params.Offset())
	return items, total, err
}

func (r *mediaRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MediaStatus) error {
	query := `UPDATE media SET status = $2 WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}
