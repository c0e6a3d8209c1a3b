package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error {
	args := m.Called(ctx, toEmail, fullName)
	return args.Error(0)
}

func (m *EmailService) SendContributionSubmittedEmail(ctx context.Context, toEmail, recipientName, authorName, contributionType string) error {
	args := m.Called(ctx, toEmail, recipientName, authorName, contributionType)
	return args.Error(0)
}

func (m *EmailService) SendContributionReviewedEmail(ctx context.Context, toEmail, recipientName, contributionType, status string, note *string) error {
	args := m.Called(ctx, toEmail, recipientName, contributionType, status, note)
	return args.Error(0)
}
