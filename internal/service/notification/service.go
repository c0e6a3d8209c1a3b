package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/pkg/i18n"
	"github.com/z3by/arabtree-sub000/internal/repository"
	"github.com/z3by/arabtree-sub000/internal/service/email"
)

// notificationLocale is the locale notification rows are rendered in.
// Arabic is the primary audience of the application.
const notificationLocale = "ar"

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	NotifyContributionSubmitted(ctx context.Context, contributionID, authorID uuid.UUID) error
	NotifyContributionReviewed(ctx context.Context, contributionID uuid.UUID, status domain.ContributionStatus, reviewerID uuid.UUID, note *string) error
	NotifyNodePublished(ctx context.Context, nodeID, authorID uuid.UUID) error
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	crRepo    repository.ContributionRepository
	nodeRepo  repository.NodeRepository
	emailSvc  email.Service
}

func NewService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	crRepo repository.ContributionRepository,
	nodeRepo repository.NodeRepository,
	emailSvc email.Service,
) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		crRepo:    crRepo,
		nodeRepo:  nodeRepo,
		emailSvc:  emailSvc,
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, id)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

// NotifyContributionSubmitted fans a notification out to every verifier and
// admin except the author.
func (s *service) NotifyContributionSubmitted(ctx context.Context, contributionID, authorID uuid.UUID) error {
	cr, err := s.crRepo.GetByID(ctx, contributionID)
	if err != nil {
		return fmt.Errorf("failed to get contribution: %w", err)
	}
	if cr == nil {
		return domain.ErrContributionNotFound
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil || author == nil {
		return fmt.Errorf("failed to get author: %w", err)
	}

	reviewers, err := s.userRepo.GetByRoles(ctx, []domain.UserRole{domain.RoleVerifier, domain.RoleAdmin})
	if err != nil {
		return fmt.Errorf("failed to get reviewers: %w", err)
	}

	typeLabel := i18n.Translate(notificationLocale, "contrib_type."+string(cr.Type))
	data, _ := json.Marshal(map[string]string{
		"contribution_id": cr.ID.String(),
		"node_id":         cr.NodeID.String(),
		"type":            string(cr.Type),
	})

	for _, reviewer := range reviewers {
		if reviewer.ID == authorID {
			continue
		}

		notif := &domain.Notification{
			ID:      uuid.New(),
			UserID:  reviewer.ID,
			Type:    domain.NotifContributionSubmitted,
			Title:   i18n.Translate(notificationLocale, "notif.contribution_submitted.title"),
			Message: fmt.Sprintf(i18n.Translate(notificationLocale, "notif.contribution_submitted.message"), author.FullName, typeLabel),
			Data:    data,
		}

		if err := s.notifRepo.Create(ctx, notif); err != nil {
			log.Printf("failed to create notification for user %s: %v", reviewer.ID, err)
		}

		if s.emailSvc != nil && reviewer.Email != "" {
			go func(toEmail, recipientName string) {
				_ = s.emailSvc.SendContributionSubmittedEmail(context.Background(), toEmail, recipientName, author.FullName, string(cr.Type))
			}(reviewer.Email, reviewer.FullName)
		}
	}

	return nil
}

// NotifyContributionReviewed tells the author the outcome of a review.
func (s *service) NotifyContributionReviewed(ctx context.Context, contributionID uuid.UUID, status domain.ContributionStatus, reviewerID uuid.UUID, note *string) error {
	cr, err := s.crRepo.GetByID(ctx, contributionID)
	if err != nil {
		return fmt.Errorf("failed to get contribution: %w", err)
	}
	if cr == nil {
		return domain.ErrContributionNotFound
	}

	author, err := s.userRepo.GetByID(ctx, cr.AuthorID)
	if err != nil || author == nil {
		return fmt.Errorf("failed to get author: %w", err)
	}

	notifType := domain.NotifContributionApproved
	titleKey := "notif.contribution_approved.title"
	messageKey := "notif.contribution_approved.message"
	if status == domain.ContribRejected {
		notifType = domain.NotifContributionRejected
		titleKey = "notif.contribution_rejected.title"
		messageKey = "notif.contribution_rejected.message"
	}

	message := i18n.Translate(notificationLocale, messageKey)
	if note != nil && *note != "" {
		message += ": " + *note
	}

	data, _ := json.Marshal(map[string]string{
		"contribution_id": cr.ID.String(),
		"status":          string(status),
	})

	notif := &domain.Notification{
		ID:      uuid.New(),
		UserID:  cr.AuthorID,
		Type:    notifType,
		Title:   i18n.Translate(notificationLocale, titleKey),
		Message: message,
		Data:    data,
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return err
	}

	if s.emailSvc != nil && author.Email != "" {
		go func() {
			_ = s.emailSvc.SendContributionReviewedEmail(context.Background(), author.Email, author.FullName, string(cr.Type), string(status), note)
		}()
	}

	return nil
}

func (s *service) NotifyNodePublished(ctx context.Context, nodeID, authorID uuid.UUID) error {
	node, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil || node == nil {
		return fmt.Errorf("failed to get node: %w", err)
	}

	data, _ := json.Marshal(map[string]string{"node_id": nodeID.String()})

	notif := &domain.Notification{
		ID:      uuid.New(),
		UserID:  authorID,
		Type:    domain.NotifNodePublished,
		Title:   i18n.Translate(notificationLocale, "notif.node_published.title"),
		Message: fmt.Sprintf(i18n.Translate(notificationLocale, "notif.node_published.message"), node.NameAr),
		Data:    data,
	}

	return s.notifRepo.Create(ctx, notif)
}
