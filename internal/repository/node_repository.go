package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/z3by/arabtree-sub000/internal/domain"
)

// MaxAncestorHops bounds the parent-pointer walk as defense in depth against
// a corrupted tree; hierarchy validation at write time should make cycles
// impossible.
const MaxAncestorHops = 100

type NodeRepository interface {
	// Create persists the node and increments the parent's child_count in the
	// same transaction. A missing parent yields domain.ErrNodeNotFound.
	Create(ctx context.Context, node *domain.LineageNode) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LineageNode, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.LineageNode, error)
	Update(ctx context.Context, node *domain.LineageNode) error
	// Archive soft-deletes the node and decrements the parent's child_count
	// in the same transaction. Blocked with domain.HasActiveChildrenError
	// while non-archived children exist.
	Archive(ctx context.Context, id uuid.UUID) error
	CountActiveChildren(ctx context.Context, id uuid.UUID) (int, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]domain.LineageNode, error)
	ListChildrenOf(ctx context.Context, parentIDs []uuid.UUID) ([]domain.LineageNode, error)
	List(ctx context.Context, status *domain.NodeStatus, params domain.PaginationParams) ([]domain.LineageNode, int64, error)
	ListRoots(ctx context.Context) ([]domain.LineageNode, error)
	Search(ctx context.Context, query string, limit int) ([]domain.LineageNode, error)
	ListGeotagged(ctx context.Context) ([]domain.MapNode, error)
	AncestorPath(ctx context.Context, id uuid.UUID) ([]domain.LineageNode, error)
	CountByStatus(ctx context.Context, status domain.NodeStatus) (int64, error)
	CountByType(ctx context.Context, nodeType domain.NodeType) (int64, error)
}

type nodeRepository struct {
	db *sqlx.DB
}

func NewNodeRepository(db *sqlx.DB) NodeRepository {
	return &nodeRepository{db: db}
}

const nodeInsert = `
	INSERT INTO lineage_nodes (id, type, status, name, name_ar, title, epithet, alternate_names,
		parent_id, generation_depth, biography, biography_ar,
		birth_year, death_year, birth_year_hijri, death_year_hijri, birth_place, era,
		latitude, longitude, created_by, is_direct_ancestor, is_confirmed)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	RETURNING child_count, created_at, updated_at`

func (r *nodeRepository) Create(ctx context.Context, node *domain.LineageNode) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowxContext(ctx, nodeInsert,
		node.ID, node.Type, node.Status, node.Name, node.NameAr, node.Title, node.Epithet, node.AlternateNames,
		node.ParentID, node.GenerationDepth, node.Biography, node.BiographyAr,
		node.BirthYear, node.DeathYear, node.BirthYearHijri, node.DeathYearHijri, node.BirthPlace, node.Era,
		node.Latitude, node.Longitude, node.CreatedBy, node.IsDirectAncestor, node.IsConfirmed,
	).Scan(&node.ChildCount, &node.CreatedAt, &node.UpdatedAt)
	if err != nil {
		return err
	}

	if node.ParentID != nil {
		res, err := tx.ExecContext(ctx,
			`UPDATE lineage_nodes SET child_count = child_count + 1, updated_at = NOW() WHERE id = $1`,
			*node.ParentID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNodeNotFound
		}
	}

	return tx.Commit()
}

func (r *nodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LineageNode, error) {
	var node domain.LineageNode
	query := `SELECT * FROM lineage_nodes WHERE id = $1`

	err := r.db.GetContext(ctx, &node, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (r *nodeRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.LineageNode, error) {
	if len(ids) == 0 {
		return []domain.LineageNode{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM lineage_nodes WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var nodes []domain.LineageNode
	err = r.db.SelectContext(ctx, &nodes, r.db.Rebind(query), args...)
	return nodes, err
}

func (r *nodeRepository) Update(ctx context.Context, node *domain.LineageNode) error {
	// type, parent_id, generation_depth and child_count are deliberately
	// absent from this statement.
	query := `
		UPDATE lineage_nodes
		SET name = $2, name_ar = $3, title = $4, epithet = $5, alternate_names = $6,
			biography = $7, biography_ar = $8,
			birth_year = $9, death_year = $10, birth_year_hijri = $11, death_year_hijri = $12,
			birth_place = $13, era = $14, latitude = $15, longitude = $16,
			is_direct_ancestor = $17, is_confirmed = $18, status = $19, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		node.ID, node.Name, node.NameAr, node.Title, node.Epithet, node.AlternateNames,
		node.Biography, node.BiographyAr,
		node.BirthYear, node.DeathYear, node.BirthYearHijri, node.DeathYearHijri,
		node.BirthPlace, node.Era, node.Latitude, node.Longitude,
		node.IsDirectAncestor, node.IsConfirmed, node.Status,
	).Scan(&node.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNodeNotFound
	}
	return err
}

func (r *nodeRepository) Archive(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var node struct {
		ParentID *uuid.UUID        `db:"parent_id"`
		Status   domain.NodeStatus `db:"status"`
	}
	err = tx.GetContext(ctx, &node,
		`SELECT parent_id, status FROM lineage_nodes WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNodeNotFound
	}
	if err != nil {
		return err
	}
	if node.Status == domain.NodeArchived {
		return tx.Commit()
	}

	var active int
	err = tx.GetContext(ctx, &active,
		`SELECT COUNT(*) FROM lineage_nodes WHERE parent_id = $1 AND status != $2`,
		id, domain.NodeArchived)
	if err != nil {
		return err
	}
	if active > 0 {
		return &domain.HasActiveChildrenError{NodeID: id, ActiveChildren: active}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE lineage_nodes SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, domain.NodeArchived); err != nil {
		return err
	}

	if node.ParentID != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE lineage_nodes SET child_count = child_count - 1, updated_at = NOW() WHERE id = $1`,
			*node.ParentID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *nodeRepository) CountActiveChildren(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM lineage_nodes WHERE parent_id = $1 AND status != $2`
	err := r.db.GetContext(ctx, &count, query, id, domain.NodeArchived)
	return count, err
}

func (r *nodeRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]domain.LineageNode, error) {
	query := `
		SELECT * FROM lineage_nodes
		WHERE parent_id = $1 AND status != $2
		ORDER BY name`

	var nodes []domain.LineageNode
	err := r.db.SelectContext(ctx, &nodes, query, parentID, domain.NodeArchived)
	return nodes, err
}

func (r *nodeRepository) ListChildrenOf(ctx context.Context, parentIDs []uuid.UUID) ([]domain.LineageNode, error) {
	if len(parentIDs) == 0 {
		return []domain.LineageNode{}, nil
	}

	query, args, err := sqlx.In(
		`SELECT * FROM lineage_nodes WHERE parent_id IN (?) AND status != ?`,
		parentIDs, domain.NodeArchived)
	if err != nil {
		return nil, err
	}

	var nodes []domain.LineageNode
	err = r.db.SelectContext(ctx, &nodes, r.db.Rebind(query), args...)
	return nodes, err
}

func (r *nodeRepository) List(ctx context.Context, status *domain.NodeStatus, params domain.PaginationParams) ([]domain.LineageNode, int64, error) {
	params.Validate()

	var total int64
	var nodes []domain.LineageNode

	if status != nil {
		countQuery := `SELECT COUNT(*) FROM lineage_nodes WHERE status = $1`
		if err := r.db.GetContext(ctx, &total, countQuery, *status); err != nil {
			return nil, 0, err
		}

		query := `
			SELECT * FROM lineage_nodes
			WHERE status = $1
			ORDER BY generation_depth, name
			LIMIT $2 OFFSET $3`
		err := r.db.SelectContext(ctx, &nodes, query, *status, params.PageSize, params.Offset())
		return nodes, total, err
	}

	countQuery := `SELECT COUNT(*) FROM lineage_nodes WHERE status != $1`
	if err := r.db.GetContext(ctx, &total, countQuery, domain.NodeArchived); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM lineage_nodes
		WHERE status != $1
		ORDER BY generation_depth, name
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &nodes, query, domain.NodeArchived, params.PageSize, params.Offset())
	return nodes, total, err
}

func (r *nodeRepository) ListRoots(ctx context.Context) ([]domain.LineageNode, error) {
	query := `
		SELECT * FROM lineage_nodes
		WHERE type = $1 AND status != $2
		ORDER BY generation_depth, name`

	var nodes []domain.LineageNode
	err := r.db.SelectContext(ctx, &nodes, query, domain.TypeRoot, domain.NodeArchived)
	return nodes, err
}

func (r *nodeRepository) Search(ctx context.Context, query string, limit int) ([]domain.LineageNode, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	sqlQuery := `
		SELECT * FROM lineage_nodes
		WHERE status != $3
			AND (
				name ILIKE '%' || $1 || '%'
				OR name_ar ILIKE '%' || $1 || '%'
				OR EXISTS (
					SELECT 1 FROM unnest(alternate_names) AS alt
					WHERE alt ILIKE '%' || $1 || '%'
				)
			)
		ORDER BY generation_depth, name
		LIMIT $2`

	var nodes []domain.LineageNode
	err := r.db.SelectContext(ctx, &nodes, sqlQuery, query, limit, domain.NodeArchived)
	return nodes, err
}

func (r *nodeRepository) ListGeotagged(ctx context.Context) ([]domain.MapNode, error) {
	query := `
		SELECT id, type, name, name_ar, latitude, longitude
		FROM lineage_nodes
		WHERE status = $1 AND latitude IS NOT NULL AND longitude IS NOT NULL`

	var nodes []domain.MapNode
	err := r.db.SelectContext(ctx, &nodes, query, domain.NodePublished)
	return nodes, err
}

// AncestorPath walks parent pointers from the node up to its root, nearest
// ancestor first. The walk is capped at MaxAncestorHops.
func (r *nodeRepository) AncestorPath(ctx context.Context, id uuid.UUID) ([]domain.LineageNode, error) {
	node, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, domain.ErrNodeNotFound
	}

	path := []domain.LineageNode{}
	current := node
	for hops := 0; current.ParentID != nil && hops < MaxAncestorHops; hops++ {
		parent, err := r.GetByID(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		path = append(path, *parent)
		current = parent
	}
	return path, nil
}

func (r *nodeRepository) CountByStatus(ctx context.Context, status domain.NodeStatus) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM lineage_nodes WHERE status = $1`, status)
	return count, err
}

func (r *nodeRepository) CountByType(ctx context.Context, nodeType domain.NodeType) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM lineage_nodes WHERE type = $1 AND status != $2`,
		nodeType, domain.NodeArchived)
	return count, err
}
