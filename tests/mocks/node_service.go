package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/service/notification"
)

type NodeService struct {
	mock.Mock
}

func (m *NodeService) Create(ctx context.Context, actor *domain.User, input domain.CreateNodeInput) (*domain.LineageNode, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LineageNode), args.Error(1)
}

func (m *NodeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LineageNode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LineageNode), args.Error(1)
}

func (m *NodeService) GetWithChildren(ctx context.Context, id uuid.UUID) (*domain.NodeWithChildren, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NodeWithChildren), args.Error(1)
}

func (m *NodeService) Update(ctx context.Context, id uuid.UUID, actor *domain.User, input domain.UpdateNodeInput) (*domain.LineageNode, error) {
	args := m.Called(ctx, id, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LineageNode), args.Error(1)
}

func (m *NodeService) Archive(ctx context.Context, id uuid.UUID, actor *domain.User) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

func (m *NodeService) List(ctx context.Context, status *domain.NodeStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.LineageNode], error) {
	args := m.Called(ctx, status, params)
	return args.Get(0).(domain.PaginatedResponse[domain.LineageNode]), args.Error(1)
}

func (m *NodeService) Search(ctx context.Context, query string, limit int) ([]domain.LineageNode, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]domain.LineageNode), args.Error(1)
}

func (m *NodeService) Ancestors(ctx context.Context, id uuid.UUID) ([]domain.LineageNode, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.LineageNode), args.Error(1)
}

func (m *NodeService) Subtree(ctx context.Context, rootID uuid.UUID, maxDepth int) ([]domain.NodeWithChildren, error) {
	args := m.Called(ctx, rootID, maxDepth)
	return args.Get(0).([]domain.NodeWithChildren), args.Error(1)
}

func (m *NodeService) MapNodes(ctx context.Context) ([]domain.MapNode, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.MapNode), args.Error(1)
}

func (m *NodeService) Roots(ctx context.Context) ([]domain.LineageNode, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.LineageNode), args.Error(1)
}

func (m *NodeService) ApplyAddition(ctx context.Context, parentID, authorID uuid.UUID, payload domain.AddNodePayload) (*domain.LineageNode, error) {
	args := m.Called(ctx, parentID, authorID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LineageNode), args.Error(1)
}

func (m *NodeService) ApplyEdit(ctx context.Context, nodeID uuid.UUID, payload domain.EditNodePayload) (*domain.LineageNode, error) {
	args := m.Called(ctx, nodeID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LineageNode), args.Error(1)
}

func (m *NodeService) SetNotificationService(notifSvc notification.Service) {
	m.Called(notifSvc)
}
