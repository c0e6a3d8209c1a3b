package contribution

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/repository"
	"github.com/z3by/arabtree-sub000/internal/service/node"
	"github.com/z3by/arabtree-sub000/internal/service/notification"
)

// RequestMeta carries request attribution into the audit trail.
type RequestMeta struct {
	IPAddress *string
	UserAgent *string
}

type Service interface {
	Create(ctx context.Context, actor *domain.User, input domain.CreateContributionInput, meta RequestMeta) (*domain.Contribution, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contribution, error)
	List(ctx context.Context, status *domain.ContributionStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Contribution], error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Contribution], error)

	Submit(ctx context.Context, id uuid.UUID, actor *domain.User, meta RequestMeta) (*domain.Contribution, error)
	Withdraw(ctx context.Context, id uuid.UUID, actor *domain.User, meta RequestMeta) (*domain.Contribution, error)
	Approve(ctx context.Context, id uuid.UUID, actor *domain.User, note *string, meta RequestMeta) (*domain.Contribution, error)
	Reject(ctx context.Context, id uuid.UUID, actor *domain.User, note *string, meta RequestMeta) (*domain.Contribution, error)

	SetNotificationService(notifSvc notification.Service)
}

type service struct {
	crRepo    repository.ContributionRepository
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
	nodeSvc   node.Service
	notifSvc  notification.Service
	validate  *validator.Validate
}

func NewService(
	crRepo repository.ContributionRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	nodeSvc node.Service,
) Service {
	return &service{
		crRepo:    crRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		nodeSvc:   nodeSvc,
		validate:  validator.New(),
	}
}

func (s *service) SetNotificationService(notifSvc notification.Service) {
	s.notifSvc = notifSvc
}

// Create validates the typed payload for the contribution type and stores the
// contribution as DRAFT or PENDING. The NodeID must already exist: it is the
// intended parent for ADD_NODE and the edit target for every other type.
func (s *service) Create(ctx context.Context, actor *domain.User, input domain.CreateContributionInput, meta RequestMeta) (*domain.Contribution, error) {
	if !input.Type.IsValid() {
		return nil, domain.NewInvalidInput("type", fmt.Sprintf("unknown contribution type %q", input.Type))
	}
	if len(input.Payload) == 0 {
		return nil, domain.NewInvalidInput("payload", "is required")
	}

	if err := s.validatePayload(input.Type, input.Payload); err != nil {
		return nil, err
	}

	if _, err := s.nodeSvc.GetByID(ctx, input.NodeID); err != nil {
		return nil, err
	}

	cr := &domain.Contribution{
		ID:       uuid.New(),
		AuthorID: actor.ID,
		Type:     input.Type,
		NodeID:   input.NodeID,
		Payload:  input.Payload,
		Status:   domain.ContribPending,
	}
	if input.Draft {
		cr.Status = domain.ContribDraft
	} else {
		now := time.Now()
		cr.SubmittedAt = &now
	}

	if err := s.crRepo.Create(ctx, cr); err != nil {
		return nil, fmt.Errorf("failed to create contribution: %w", err)
	}

	s.audit(actor.ID, domain.AuditCreate, cr.ID, nil, cr, meta)

	if cr.Status == domain.ContribPending && s.notifSvc != nil {
		go func() {
			if err := s.notifSvc.NotifyContributionSubmitted(context.Background(), cr.ID, cr.AuthorID); err != nil {
				log.Printf("failed to notify reviewers for contribution %s: %v", cr.ID, err)
			}
		}()
	}

	cr.AllowedNext = domain.AllowedTransitions(cr.Status)
	return cr, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contribution, error) {
	cr, err := s.crRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cr == nil {
		return nil, domain.ErrContributionNotFound
	}

	s.hydrate(ctx, cr)
	return cr, nil
}

func (s *service) List(ctx context.Context, status *domain.ContributionStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Contribution], error) {
	if status != nil && !status.IsValid() {
		return domain.PaginatedResponse[domain.Contribution]{}, domain.NewInvalidInput("status", fmt.Sprintf("unknown status %q", *status))
	}

	contributions, total, err := s.crRepo.List(ctx, status, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Contribution]{}, err
	}

	for i := range contributions {
		contributions[i].AllowedNext = domain.AllowedTransitions(contributions[i].Status)
	}
	return domain.NewPaginatedResponse(contributions, params.Page, params.PageSize, total), nil
}

func (s *service) ListByAuthor(ctx context.Context, authorID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Contribution], error) {
	contributions, total, err := s.crRepo.ListByAuthor(ctx, authorID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Contribution]{}, err
	}

	for i := range contributions {
		contributions[i].AllowedNext = domain.AllowedTransitions(contributions[i].Status)
	}
	return domain.NewPaginatedResponse(contributions, params.Page, params.PageSize, total), nil
}

func (s *service) Submit(ctx context.Context, id uuid.UUID, actor *domain.User, meta RequestMeta) (*domain.Contribution, error) {
	return s.transition(ctx, id, actor, domain.ContribPending, nil, meta)
}

func (s *service) Withdraw(ctx context.Context, id uuid.UUID, actor *domain.User, meta RequestMeta) (*domain.Contribution, error) {
	return s.transition(ctx, id, actor, domain.ContribWithdrawn, nil, meta)
}

func (s *service) Approve(ctx context.Context, id uuid.UUID, actor *domain.User, note *string, meta RequestMeta) (*domain.Contribution, error) {
	return s.transition(ctx, id, actor, domain.ContribApproved, note, meta)
}

func (s *service) Reject(ctx context.Context, id uuid.UUID, actor *domain.User, note *string, meta RequestMeta) (*domain.Contribution, error) {
	return s.transition(ctx, id, actor, domain.ContribRejected, note, meta)
}

// transition moves a contribution to target through the lifecycle table. All
// four public transition operations funnel through here so the table check,
// permission check, side effects and audit write happen exactly once.
//
// The write is a compare-and-set on the status read at the top, so two
// reviewers racing on the same contribution resolve to one winner; the loser
// gets domain.ErrConflict. Approval validates its apply target before
// claiming the contribution, then applies from the pre-claim snapshot.
func (s *service) transition(ctx context.Context, id uuid.UUID, actor *domain.User, target domain.ContributionStatus, note *string, meta RequestMeta) (*domain.Contribution, error) {
	cr, err := s.crRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cr == nil {
		return nil, domain.ErrContributionNotFound
	}

	if !cr.Status.CanTransitionTo(target) {
		return nil, &domain.InvalidTransitionError{
			From:      cr.Status,
			Requested: target,
			Allowed:   domain.AllowedTransitions(cr.Status),
		}
	}

	if err := checkTransitionPermission(cr, actor, target); err != nil {
		return nil, err
	}

	if target == domain.ContribApproved {
		if err := s.validateApplyTarget(ctx, cr); err != nil {
			return nil, err
		}
	}

	expected := cr.Status
	before := *cr
	now := time.Now()

	cr.Status = target
	switch target {
	case domain.ContribPending:
		cr.SubmittedAt = &now
		// Resubmission starts a fresh review round.
		cr.ReviewerID = nil
		cr.ReviewedAt = nil
		cr.ReviewNote = nil
	case domain.ContribApproved:
		cr.ReviewerID = &actor.ID
		cr.ReviewedAt = &now
		cr.ReviewNote = note
	case domain.ContribRejected:
		cr.ReviewerID = &actor.ID
		cr.ReviewedAt = &now
		cr.ReviewNote = note
		cr.RejectionCount++
	}

	if err := s.crRepo.UpdateTransition(ctx, cr, expected); err != nil {
		return nil, err
	}

	if target == domain.ContribApproved {
		// Apply from the pre-claim snapshot. The target was validated above;
		// a failure here means it vanished in the window since, which is too
		// narrow to unwind the approval for.
		if err := s.apply(ctx, &before); err != nil {
			log.Printf("failed to apply approved contribution %s: %v", cr.ID, err)
		}
	}

	s.audit(actor.ID, domain.AuditUpdate, cr.ID, &before, cr, meta)

	if s.notifSvc != nil {
		switch target {
		case domain.ContribPending:
			go func() {
				_ = s.notifSvc.NotifyContributionSubmitted(context.Background(), cr.ID, cr.AuthorID)
			}()
		case domain.ContribApproved, domain.ContribRejected:
			go func() {
				_ = s.notifSvc.NotifyContributionReviewed(context.Background(), cr.ID, target, actor.ID, note)
			}()
		}
	}

	cr.AllowedNext = domain.AllowedTransitions(cr.Status)
	return cr, nil
}

// checkTransitionPermission gates each target status by role. Review verdicts
// need verifier rank and never come from the author; submit and withdraw
// belong to the author, with admin override.
func checkTransitionPermission(cr *domain.Contribution, actor *domain.User, target domain.ContributionStatus) error {
	switch target {
	case domain.ContribApproved, domain.ContribRejected:
		if !actor.HasRole(string(domain.RoleVerifier)) {
			return domain.ErrForbidden
		}
		if cr.AuthorID == actor.ID {
			return domain.ErrForbidden
		}
	case domain.ContribPending, domain.ContribWithdrawn:
		if cr.AuthorID != actor.ID && !actor.IsAdmin() {
			return domain.ErrForbidden
		}
	}
	return nil
}

// validateApplyTarget makes sure the node an approval would mutate still
// exists, so a missing target fails the transition instead of leaving an
// approved contribution that was never applied.
func (s *service) validateApplyTarget(ctx context.Context, cr *domain.Contribution) error {
	if !cr.Type.AutoApplies() {
		return nil
	}

	_, err := s.nodeSvc.GetByID(ctx, cr.NodeID)
	return err
}

// apply dispatches an approved contribution's payload to the tree mutation
// engine. Types without an automatic applier are approved for manual
// processing and leave the tree alone.
func (s *service) apply(ctx context.Context, cr *domain.Contribution) error {
	switch cr.Type {
	case domain.ContribAddNode:
		var payload domain.AddNodePayload
		if err := json.Unmarshal(cr.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode ADD_NODE payload: %w", err)
		}
		_, err := s.nodeSvc.ApplyAddition(ctx, cr.NodeID, cr.AuthorID, payload)
		return err

	case domain.ContribEditNode:
		var payload domain.EditNodePayload
		if err := json.Unmarshal(cr.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode EDIT_NODE payload: %w", err)
		}
		_, err := s.nodeSvc.ApplyEdit(ctx, cr.NodeID, payload)
		return err

	default:
		log.Printf("contribution %s of type %s approved, awaiting manual application", cr.ID, cr.Type)
		return nil
	}
}

func (s *service) validatePayload(t domain.ContributionType, raw json.RawMessage) error {
	switch t {
	case domain.ContribAddNode:
		var payload domain.AddNodePayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return domain.NewInvalidInput("payload", "is not a valid ADD_NODE payload")
		}
		if payload.Type != "" && !payload.Type.IsValid() {
			return domain.NewInvalidInput("payload.type", fmt.Sprintf("unknown node type %q", payload.Type))
		}
		if err := s.validate.Struct(payload); err != nil {
			return domain.NewInvalidInput("payload", err.Error())
		}

	case domain.ContribEditNode:
		var payload domain.EditNodePayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return domain.NewInvalidInput("payload", "is not a valid EDIT_NODE payload")
		}
		if err := s.validate.Struct(payload); err != nil {
			return domain.NewInvalidInput("payload", err.Error())
		}
		if payload.Name == nil && payload.NameAr == nil && payload.Title == nil &&
			payload.Epithet == nil && payload.Biography == nil &&
			payload.BirthYear == nil && payload.DeathYear == nil {
			return domain.NewInvalidInput("payload", "must change at least one field")
		}

	default:
		// Free-form payloads are reviewed by hand; only well-formed JSON is
		// required.
		if !json.Valid(raw) {
			return domain.NewInvalidInput("payload", "is not valid JSON")
		}
	}
	return nil
}

func (s *service) hydrate(ctx context.Context, cr *domain.Contribution) {
	if author, err := s.userRepo.GetByID(ctx, cr.AuthorID); err == nil && author != nil {
		cr.Author = author
	}
	if cr.ReviewerID != nil {
		if reviewer, err := s.userRepo.GetByID(ctx, *cr.ReviewerID); err == nil && reviewer != nil {
			cr.Reviewer = reviewer
		}
	}
	cr.AllowedNext = domain.AllowedTransitions(cr.Status)
}

func (s *service) audit(userID uuid.UUID, action domain.AuditAction, entityID uuid.UUID, oldValue, newValue interface{}, meta RequestMeta) {
	go func() {
		if err := repository.CreateAuditLog(s.auditRepo, context.Background(), domain.CreateAuditLogInput{
			UserID:     userID,
			Action:     action,
			EntityType: "CONTRIBUTION",
			EntityID:   entityID,
			OldValue:   oldValue,
			NewValue:   newValue,
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		}); err != nil {
			log.Printf("failed to write audit log for contribution %s: %v", entityID, err)
		}
	}()
}
