package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/z3by/arabtree-sub000/internal/domain"
)

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) NotifyContributionSubmitted(ctx context.Context, contributionID, authorID uuid.UUID) error {
	args := m.Called(ctx, contributionID, authorID)
	return args.Error(0)
}

func (m *NotificationService) NotifyContributionReviewed(ctx context.Context, contributionID uuid.UUID, status domain.ContributionStatus, reviewerID uuid.UUID, note *string) error {
	args := m.Called(ctx, contributionID, status, reviewerID, note)
	return args.Error(0)
}

func (m *NotificationService) NotifyNodePublished(ctx context.Context, nodeID, authorID uuid.UUID) error {
	args := m.Called(ctx, nodeID, authorID)
	return args.Error(0)
}
