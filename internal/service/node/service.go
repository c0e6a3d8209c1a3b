package node

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/repository"
	"github.com/z3by/arabtree-sub000/internal/service/hierarchy"
	"github.com/z3by/arabtree-sub000/internal/service/notification"
)

// PublicTreeCacheKey holds the cached published tree; every tree mutation
// invalidates it.
const PublicTreeCacheKey = "tree:public"

type Service interface {
	Create(ctx context.Context, actor *domain.User, input domain.CreateNodeInput) (*domain.LineageNode, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LineageNode, error)
	GetWithChildren(ctx context.Context, id uuid.UUID) (*domain.NodeWithChildren, error)
	Update(ctx context.Context, id uuid.UUID, actor *domain.User, input domain.UpdateNodeInput) (*domain.LineageNode, error)
	Archive(ctx context.Context, id uuid.UUID, actor *domain.User) error
	List(ctx context.Context, status *domain.NodeStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.LineageNode], error)
	Search(ctx context.Context, query string, limit int) ([]domain.LineageNode, error)
	Ancestors(ctx context.Context, id uuid.UUID) ([]domain.LineageNode, error)
	Subtree(ctx context.Context, rootID uuid.UUID, maxDepth int) ([]domain.NodeWithChildren, error)
	MapNodes(ctx context.Context) ([]domain.MapNode, error)
	Roots(ctx context.Context) ([]domain.LineageNode, error)

	// ApplyAddition and ApplyEdit are the contribution applier's entry
	// points; all tree mutations funnel through this service so child_count
	// is never maintained anywhere else.
	ApplyAddition(ctx context.Context, parentID, authorID uuid.UUID, payload domain.AddNodePayload) (*domain.LineageNode, error)
	ApplyEdit(ctx context.Context, nodeID uuid.UUID, payload domain.EditNodePayload) (*domain.LineageNode, error)

	SetNotificationService(notifSvc notification.Service)
}

type service struct {
	nodeRepo  repository.NodeRepository
	auditRepo repository.AuditLogRepository
	redis     *redis.Client
	notifSvc  notification.Service
}

func NewService(nodeRepo repository.NodeRepository, auditRepo repository.AuditLogRepository, redis *redis.Client) Service {
	return &service{
		nodeRepo:  nodeRepo,
		auditRepo: auditRepo,
		redis:     redis,
	}
}

func (s *service) SetNotificationService(notifSvc notification.Service) {
	s.notifSvc = notifSvc
}

func (s *service) Create(ctx context.Context, actor *domain.User, input domain.CreateNodeInput) (*domain.LineageNode, error) {
	if input.Type == domain.TypeRoot && input.ParentID != nil {
		return nil, domain.NewInvalidInput("parent_id", "must be null for root nodes")
	}

	var depth int
	var parentType *domain.NodeType
	if input.ParentID != nil {
		parent, err := s.nodeRepo.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrNodeNotFound
		}
		depth = parent.GenerationDepth + 1
		parentType = &parent.Type
	}

	if err := hierarchy.ValidateChild(parentType, input.Type); err != nil {
		return nil, err
	}

	isDirect := false
	if input.IsDirectAncestor != nil {
		isDirect = *input.IsDirectAncestor
	}

	node := &domain.LineageNode{
		ID:               uuid.New(),
		Type:             input.Type,
		Status:           domain.NodeDraft,
		Name:             input.Name,
		NameAr:           input.NameAr,
		Title:            input.Title,
		Epithet:          input.Epithet,
		AlternateNames:   input.AlternateNames,
		ParentID:         input.ParentID,
		GenerationDepth:  depth,
		Biography:        input.Biography,
		BiographyAr:      input.BiographyAr,
		BirthYear:        input.BirthYear,
		DeathYear:        input.DeathYear,
		BirthYearHijri:   input.BirthYearHijri,
		DeathYearHijri:   input.DeathYearHijri,
		BirthPlace:       input.BirthPlace,
		Era:              input.Era,
		Latitude:         input.Latitude,
		Longitude:        input.Longitude,
		CreatedBy:        actor.ID,
		IsDirectAncestor: isDirect,
	}

	if err := s.nodeRepo.Create(ctx, node); err != nil {
		return nil, err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     actor.ID,
		Action:     domain.AuditCreate,
		EntityType: "NODE",
		EntityID:   node.ID,
		NewValue:   node,
	})

	s.invalidateTreeCache(ctx)

	return node, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.LineageNode, error) {
	node, err := s.nodeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, domain.ErrNodeNotFound
	}
	return node, nil
}

func (s *service) GetWithChildren(ctx context.Context, id uuid.UUID) (*domain.NodeWithChildren, error) {
	node, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	children, err := s.nodeRepo.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.NodeWithChildren{LineageNode: *node, Children: children}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, actor *domain.User, input domain.UpdateNodeInput) (*domain.LineageNode, error) {
	node, err := s.nodeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, domain.ErrNodeNotFound
	}

	if node.CreatedBy != actor.ID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	before := *node
	applyUpdate(node, input)

	if err := s.nodeRepo.Update(ctx, node); err != nil {
		return nil, err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     actor.ID,
		Action:     domain.AuditUpdate,
		EntityType: "NODE",
		EntityID:   node.ID,
		OldValue:   before,
		NewValue:   node,
	})

	s.invalidateTreeCache(ctx)

	return node, nil
}

// applyUpdate copies only the provided fields. Type, parent, generation
// depth and child count never pass through here.
func applyUpdate(node *domain.LineageNode, input domain.UpdateNodeInput) {
	if input.Name != nil {
		node.Name = *input.Name
	}
	if input.NameAr != nil {
		node.NameAr = *input.NameAr
	}
	if input.Title.Set {
		node.Title = input.Title.Value
	}
	if input.Epithet.Set {
		node.Epithet = input.Epithet.Value
	}
	if input.AlternateNames != nil {
		node.AlternateNames = input.AlternateNames
	}
	if input.Biography.Set {
		node.Biography = input.Biography.Value
	}
	if input.BiographyAr.Set {
		node.BiographyAr = input.BiographyAr.Value
	}
	if input.BirthYear.Set {
		node.BirthYear = input.BirthYear.Value
	}
	if input.DeathYear.Set {
		node.DeathYear = input.DeathYear.Value
	}
	if input.BirthYearHijri.Set {
		node.BirthYearHijri = input.BirthYearHijri.Value
	}
	if input.DeathYearHijri.Set {
		node.DeathYearHijri = input.DeathYearHijri.Value
	}
	if input.BirthPlace.Set {
		node.BirthPlace = input.BirthPlace.Value
	}
	if input.Era.Set {
		node.Era = input.Era.Value
	}
	if input.Latitude.Set {
		node.Latitude = input.Latitude.Value
	}
	if input.Longitude.Set {
		node.Longitude = input.Longitude.Value
	}
	if input.IsDirectAncestor != nil {
		node.IsDirectAncestor = *input.IsDirectAncestor
	}
	if input.IsConfirmed != nil {
		node.IsConfirmed = *input.IsConfirmed
	}
}

func (s *service) Archive(ctx context.Context, id uuid.UUID, actor *domain.User) error {
	node, err := s.nodeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if node == nil {
		return domain.ErrNodeNotFound
	}

	if node.CreatedBy != actor.ID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	// The repository re-checks under the transaction; this early check just
	// avoids opening one for the common failure.
	active, err := s.nodeRepo.CountActiveChildren(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return &domain.HasActiveChildrenError{NodeID: id, ActiveChildren: active}
	}

	if err := s.nodeRepo.Archive(ctx, id); err != nil {
		return err
	}

	_ = repository.CreateAuditLog(s.auditRepo, ctx, domain.CreateAuditLogInput{
		UserID:     actor.ID,
		Action:     domain.AuditDelete,
		EntityType: "NODE",
		EntityID:   id,
		OldValue:   node,
	})

	s.invalidateTreeCache(ctx)

	return nil
}

func (s *service) List(ctx context.Context, status *domain.NodeStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.LineageNode], error) {
	nodes, total, err := s.nodeRepo.List(ctx, status, params)
	if err != nil {
		return domain.PaginatedResponse[domain.LineageNode]{}, err
	}
	return domain.NewPaginatedResponse(nodes, params.Page, params.PageSize, total), nil
}

func (s *service) Search(ctx context.Context, query string, limit int) ([]domain.LineageNode, error) {
	return s.nodeRepo.Search(ctx, query, limit)
}

func (s *service) Ancestors(ctx context.Context, id uuid.UUID) ([]domain.LineageNode, error) {
	return s.nodeRepo.AncestorPath(ctx, id)
}

// Subtree returns the node and its descendants down to maxDepth levels,
// grouped with their direct children, walking the tree level by level.
func (s *service) Subtree(ctx context.Context, rootID uuid.UUID, maxDepth int) ([]domain.NodeWithChildren, error) {
	if maxDepth <= 0 || maxDepth > 20 {
		maxDepth = 5
	}

	root, err := s.GetByID(ctx, rootID)
	if err != nil {
		return nil, err
	}

	result := []domain.NodeWithChildren{}
	level := []domain.LineageNode{*root}

	for depth := 0; depth < maxDepth && len(level) > 0; depth++ {
		ids := make([]uuid.UUID, len(level))
		for i, n := range level {
			ids[i] = n.ID
		}

		children, err := s.nodeRepo.ListChildrenOf(ctx, ids)
		if err != nil {
			return nil, err
		}

		byParent := make(map[uuid.UUID][]domain.LineageNode)
		for _, c := range children {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}

		for _, n := range level {
			result = append(result, domain.NodeWithChildren{
				LineageNode: n,
				Children:    byParent[n.ID],
			})
		}

		level = children
	}

	return result, nil
}

func (s *service) MapNodes(ctx context.Context) ([]domain.MapNode, error) {
	return s.nodeRepo.ListGeotagged(ctx)
}

func (s *service) Roots(ctx context.Context) ([]domain.LineageNode, error) {
	return s.nodeRepo.ListRoots(ctx)
}

// ApplyAddition creates a node from an approved ADD_NODE contribution. The
// node goes in one generation below the parent, already PUBLISHED since the
// content has passed review, owned by the contribution's author.
func (s *service) ApplyAddition(ctx context.Context, parentID, authorID uuid.UUID, payload domain.AddNodePayload) (*domain.LineageNode, error) {
	parent, err := s.nodeRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNodeNotFound
	}

	nodeType := payload.Type
	if nodeType == "" {
		nodeType = domain.TypeIndividual
	}

	if err := hierarchy.ValidateChild(&parent.Type, nodeType); err != nil {
		return nil, err
	}

	node := &domain.LineageNode{
		ID:              uuid.New(),
		Type:            nodeType,
		Status:          domain.NodePublished,
		Name:            payload.Name,
		NameAr:          payload.NameAr,
		Title:           payload.Title,
		Epithet:         payload.Epithet,
		ParentID:        &parent.ID,
		GenerationDepth: parent.GenerationDepth + 1,
		Biography:       payload.Biography,
		BiographyAr:     payload.BiographyAr,
		BirthYear:       payload.BirthYear,
		DeathYear:       payload.DeathYear,
		BirthYearHijri:  payload.BirthYearHijri,
		DeathYearHijri:  payload.DeathYearHijri,
		BirthPlace:      payload.BirthPlace,
		Era:             payload.Era,
		Latitude:        payload.Latitude,
		Longitude:       payload.Longitude,
		CreatedBy:       authorID,
	}

	if err := s.nodeRepo.Create(ctx, node); err != nil {
		return nil, err
	}

	s.invalidateTreeCache(ctx)

	if s.notifSvc != nil {
		go func() {
			_ = s.notifSvc.NotifyNodePublished(context.Background(), node.ID, authorID)
		}()
	}

	return node, nil
}

// ApplyEdit copies the EDIT_NODE allow-list onto the target node, skipping
// absent fields. Node type is immutable through this path.
func (s *service) ApplyEdit(ctx context.Context, nodeID uuid.UUID, payload domain.EditNodePayload) (*domain.LineageNode, error) {
	node, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, domain.ErrNodeNotFound
	}

	if payload.Name != nil {
		node.Name = *payload.Name
	}
	if payload.NameAr != nil {
		node.NameAr = *payload.NameAr
	}
	if payload.Title != nil {
		node.Title = payload.Title
	}
	if payload.Epithet != nil {
		node.Epithet = payload.Epithet
	}
	if payload.Biography != nil {
		node.Biography = payload.Biography
	}
	if payload.BirthYear != nil {
		node.BirthYear = payload.BirthYear
	}
	if payload.DeathYear != nil {
		node.DeathYear = payload.DeathYear
	}

	if err := s.nodeRepo.Update(ctx, node); err != nil {
		return nil, err
	}

	s.invalidateTreeCache(ctx)

	return node, nil
}

func (s *service) invalidateTreeCache(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, PublicTreeCacheKey).Err()
	}
}
