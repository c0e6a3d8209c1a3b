package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/repository"
)

type ContributionRepository struct {
	mock.Mock
}

func (m *ContributionRepository) Create(ctx context.Context, c *domain.Contribution) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ContributionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contribution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contribution), args.Error(1)
}

func (m *ContributionRepository) List(ctx context.Context, status *domain.ContributionStatus, params domain.PaginationParams) ([]domain.Contribution, int64, error) {
	args := m.Called(ctx, status, params)
	return args.Get(0).([]domain.Contribution), args.Get(1).(int64), args.Error(2)
}

func (m *ContributionRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, params domain.PaginationParams) ([]domain.Contribution, int64, error) {
	args := m.Called(ctx, authorID, params)
	return args.Get(0).([]domain.Contribution), args.Get(1).(int64), args.Error(2)
}

func (m *ContributionRepository) UpdateTransition(ctx context.Context, c *domain.Contribution, expected domain.ContributionStatus) error {
	args := m.Called(ctx, c, expected)
	return args.Error(0)
}

func (m *ContributionRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ContributionRepository) Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]repository.LeaderboardEntry), args.Error(1)
}
