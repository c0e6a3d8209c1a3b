package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/z3by/arabtree-sub000/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.HistoricalEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.HistoricalEvent, error)
	Update(ctx context.Context, event *domain.HistoricalEvent) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByNode(ctx context.Context, nodeID uuid.UUID) ([]domain.HistoricalEvent, error)
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.HistoricalEvent) error {
	query := `
		INSERT INTO historical_events (id, node_id, type, title, title_ar, year, year_hijri, place, description, metadata, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		event.ID, event.NodeID, event.Type, event.Title, event.TitleAr,
		event.Year, event.YearHijri, event.Place, event.Description, event.Metadata, event.CreatedBy,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.HistoricalEvent, error) {
	var event domain.HistoricalEvent
	query := `SELECT * FROM historical_events WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &event, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *domain.HistoricalEvent) error {
	query := `
		UPDATE historical_events
		SET type = $2, title = $3, title_ar = $4, year = $5, year_hijri = $6,
			place = $7, description = $8, metadata = $9, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		event.ID, event.Type, event.Title, event.TitleAr, event.Year, event.YearHijri,
		event.Place, event.Description, event.Metadata,
	).Scan(&event.UpdatedAt)
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE historical_events SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *eventRepository) ListByNode(ctx context.Context, nodeID uuid.UUID) ([]domain.HistoricalEvent, error) {
	query := `
		SELECT * FROM historical_events
		WHERE node_id = $1 AND deleted_at IS NULL
		ORDER BY COALESCE(year, year_hijri), created_at`

	var events []domain.HistoricalEvent
	err := r.db.SelectContext(ctx, &events, query, nodeID)
	return events, err
}
