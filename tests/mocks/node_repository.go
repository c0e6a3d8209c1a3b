package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/z3by/arabtree-sub000/internal/domain"
)

type NodeRepository struct {
	mock.Mock
}

func (m *NodeRepository) Create(ctx context.Context, node *domain.LineageNode) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *NodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LineageNode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LineageNode), args.Error(1)
}

func (m *NodeRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.LineageNode, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.LineageNode), args.Error(1)
}

func (m *NodeRepository) Update(ctx context.Context, node *domain.LineageNode) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *NodeRepository) Archive(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NodeRepository) CountActiveChildren(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *NodeRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]domain.LineageNode, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]domain.LineageNode), args.Error(1)
}

func (m *NodeRepository) ListChildrenOf(ctx context.Context, parentIDs []uuid.UUID) ([]domain.LineageNode, error) {
	args := m.Called(ctx, parentIDs)
	return args.Get(0).([]domain.LineageNode), args.Error(1)
}

func (m *NodeRepository) List(ctx context.Context, status *domain.NodeStatus, params domain.PaginationParams) ([]domain.LineageNode, int64, error) {
	args := m.Called(ctx, status, params)
	return args.Get(0).([]domain.LineageNode), args.Get(1).(int64), args.Error(2)
}

func (m *NodeRepository) ListRoots(ctx context.Context) ([]domain.LineageNode, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.LineageNode), args.Error(1)
}

func (m *NodeRepository) Search(ctx context.Context, query string, limit int) ([]domain.LineageNode, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]domain.LineageNode), args.Error(1)
}

func (m *NodeRepository) ListGeotagged(ctx context.Context) ([]domain.MapNode, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.MapNode), args.Error(1)
}

func (m *NodeRepository) AncestorPath(ctx context.Context, id uuid.UUID) ([]domain.LineageNode, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.LineageNode), args.Error(1)
}

func (m *NodeRepository) CountByStatus(ctx context.Context, status domain.NodeStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NodeRepository) CountByType(ctx context.Context, nodeType domain.NodeType) (int64, error) {
	args := m.Called(ctx, nodeType)
	return args.Get(0).(int64), args.Error(1)
}
