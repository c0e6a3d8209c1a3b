package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/z3by/arabtree-sub000/internal/domain"
)

// LeaderboardEntry is one row of the contributor leaderboard.
type LeaderboardEntry struct {
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	FullName      string    `json:"full_name" db:"full_name"`
	ApprovedCount int64     `json:"approved_count" db:"approved_count"`
}

type ContributionRepository interface {
	Create(ctx context.Context, c *domain.Contribution) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contribution, error)
	List(ctx context.Context, status *domain.ContributionStatus, params domain.PaginationParams) ([]domain.Contribution, int64, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, params domain.PaginationParams) ([]domain.Contribution, int64, error)
	// UpdateTransition writes every transition-owned column, guarded by a
	// compare-and-set on the expected current status. Returns
	// domain.ErrConflict when another writer moved the contribution first.
	UpdateTransition(ctx context.Context, c *domain.Contribution, expected domain.ContributionStatus) error
	CountPending(ctx context.Context) (int64, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type contributionRepository struct {
	db *sqlx.DB
}

func NewContributionRepository(db *sqlx.DB) ContributionRepository {
	return &contributionRepository{db: db}
}

func (r *contributionRepository) Create(ctx context.Context, c *domain.Contribution) error {
	query := `
		INSERT INTO contributions (id, author_id, type, node_id, payload, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		c.ID, c.AuthorID, c.Type, c.NodeID, c.Payload, c.Status, c.SubmittedAt,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *contributionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contribution, error) {
	var c domain.Contribution
	query := `SELECT * FROM contributions WHERE id = $1`

	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contributionRepository) List(ctx context.Context, status *domain.ContributionStatus, params domain.PaginationParams) ([]domain.Contribution, int64, error) {
	params.Validate()

	var total int64
	var contributions []domain.Contribution

	if status != nil {
		countQuery := `SELECT COUNT(*) FROM contributions WHERE status = $1`
		if err := r.db.GetContext(ctx, &total, countQuery, *status); err != nil {
			return nil, 0, err
		}

		query := `
			SELECT * FROM contributions
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`
		err := r.db.SelectContext(ctx, &contributions, query, *status, params.PageSize, params.Offset())
		return contributions, total, err
	}

	countQuery := `SELECT COUNT(*) FROM contributions`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM contributions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &contributions, query, params.PageSize, params.Offset())
	return contributions, total, err
}

func (r *contributionRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, params domain.PaginationParams) ([]domain.Contribution, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM contributions WHERE author_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, authorID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM contributions
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var contributions []domain.Contribution
	err := r.db.SelectContext(ctx, &contributions, query, authorID, params.PageSize, params.Offset())
	return contributions, total, err
}

func (r *contributionRepository) UpdateTransition(ctx context.Context, c *domain.Contribution, expected domain.ContributionStatus) error {
	query := `
		UPDATE contributions
		SET status = $2, reviewer_id = $3, review_note = $4, rejection_count = $5,
			submitted_at = $6, reviewed_at = $7, updated_at = NOW()
		WHERE id = $1 AND status = $8
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		c.ID, c.Status, c.ReviewerID, c.ReviewNote, c.RejectionCount,
		c.SubmittedAt, c.ReviewedAt, expected,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrConflict
	}
	return err
}

func (r *contributionRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM contributions WHERE status = $1`, domain.ContribPending)
	return count, err
}

func (r *contributionRepository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	query := `
		SELECT c.author_id AS user_id, u.full_name, COUNT(*) AS approved_count
		FROM contributions c
		JOIN users u ON u.id = c.author_id
		WHERE c.status = $1
		GROUP BY c.author_id, u.full_name
		ORDER BY approved_count DESC
		LIMIT $2`

	var entries []LeaderboardEntry
	err := r.db.SelectContext(ctx, &entries, query, domain.ContribApproved, limit)
	return entries, err
}
