package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/z3by/arabtree-sub000/internal/domain"
)

type DnaMarkerRepository interface {
	Create(ctx context.Context, marker *domain.DnaMarker) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DnaMarker, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByNode(ctx context.Context, nodeID uuid.UUID) ([]domain.DnaMarker, error)
}

type dnaMarkerRepository struct {
	db *sqlx.DB
}

func NewDnaMarkerRepository(db *sqlx.DB) DnaMarkerRepository {
	return &dnaMarkerRepository{db: db}
}

func (r *dnaMarkerRepository) Create(ctx context.Context, marker *domain.DnaMarker) error {
	query := `
		INSERT INTO dna_markers (id, node_id, haplogroup, marker_type, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		marker.ID, marker.NodeID, marker.Haplogroup, marker.MarkerType, marker.Notes, marker.CreatedBy,
	).Scan(&marker.CreatedAt)
}

func (r *dnaMarkerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DnaMarker, error) {
	var marker domain.DnaMarker
	query := `SELECT * FROM dna_markers WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &marker, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &marker, nil
}

func (r *dnaMarkerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE dna_markers SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *dnaMarkerRepository) ListByNode(ctx context.Context, nodeID uuid.UUID) ([]domain.DnaMarker, error) {
	query := `
		SELECT * FROM dna_markers
		WHERE node_id = $1 AND deleted_at IS NULL
		ORDER BY created_at`

	var markers []domain.DnaMarker
	err := r.db.SelectContext(ctx, &markers, query, nodeID)
	return markers, err
}
