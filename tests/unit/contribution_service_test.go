package unit_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/service/contribution"
	"github.com/z3by/arabtree-sub000/tests/mocks"
)

var allContributionStatuses = []domain.ContributionStatus{
	domain.ContribDraft,
	domain.ContribPending,
	domain.ContribApproved,
	domain.ContribRejected,
	domain.ContribWithdrawn,
}

func stringPtr(s string) *string { return &s }

func newContributor() *domain.User {
	return &domain.User{ID: uuid.New(), Email: "author@example.com", FullName: "Author", Role: string(domain.RoleContributor)}
}

func newVerifier() *domain.User {
	return &domain.User{ID: uuid.New(), Email: "verifier@example.com", FullName: "Verifier", Role: string(domain.RoleVerifier)}
}

func addNodePayload(t *testing.T) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(domain.AddNodePayload{
		Name:   "Madhhij",
		NameAr: "مذحج",
	})
	assert.NoError(t, err)
	return payload
}

func TestContributionService_Create(t *testing.T) {
	ctx := context.Background()
	author := newContributor()
	parentID := uuid.New()
	parent := &domain.LineageNode{ID: parentID, Type: domain.TypeFamily, Status: domain.NodePublished}

	newService := func() (contribution.Service, *mocks.ContributionRepository, *mocks.NodeService, *mocks.AuditLogRepository) {
		crRepo := new(mocks.ContributionRepository)
		userRepo := new(mocks.UserRepository)
		auditRepo := new(mocks.AuditLogRepository)
		nodeSvc := new(mocks.NodeService)
		svc := contribution.NewService(crRepo, userRepo, auditRepo, nodeSvc)
		return svc, crRepo, nodeSvc, auditRepo
	}

	t.Run("submitted contribution starts PENDING with submission time", func(t *testing.T) {
		svc, crRepo, nodeSvc, auditRepo := newService()
		nodeSvc.On("GetByID", ctx, parentID).Return(parent, nil).Once()
		crRepo.On("Create", ctx, mock.MatchedBy(func(cr *domain.Contribution) bool {
			return cr.AuthorID == author.ID &&
				cr.Status == domain.ContribPending &&
				cr.SubmittedAt != nil
		})).Return(nil).Once()
		auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()

		cr, err := svc.Create(ctx, author, domain.CreateContributionInput{
			Type:    domain.ContribAddNode,
			NodeID:  parentID,
			Payload: addNodePayload(t),
		}, contribution.RequestMeta{})

		assert.NoError(t, err)
		assert.Equal(t, domain.ContribPending, cr.Status)
		assert.ElementsMatch(t, domain.AllowedTransitions(domain.ContribPending), cr.AllowedNext)
		crRepo.AssertExpectations(t)
	})

	t.Run("draft contribution starts DRAFT without submission time", func(t *testing.T) {
		svc, crRepo, nodeSvc, auditRepo := newService()
		nodeSvc.On("GetByID", ctx, parentID).Return(parent, nil).Once()
		crRepo.On("Create", ctx, mock.MatchedBy(func(cr *domain.Contribution) bool {
			return cr.Status == domain.ContribDraft && cr.SubmittedAt == nil
		})).Return(nil).Once()
		auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()

		cr, err := svc.Create(ctx, author, domain.CreateContributionInput{
			Type:    domain.ContribAddNode,
			NodeID:  parentID,
			Payload: addNodePayload(t),
			Draft:   true,
		}, contribution.RequestMeta{})

		assert.NoError(t, err)
		assert.Equal(t, domain.ContribDraft, cr.Status)
		crRepo.AssertExpectations(t)
	})

	t.Run("unknown contribution type rejected", func(t *testing.T) {
		svc, _, _, _ := newService()

		_, err := svc.Create(ctx, author, domain.CreateContributionInput{
			Type:    domain.ContributionType("RENAME_TRIBE"),
			NodeID:  parentID,
			Payload: json.RawMessage(`{}`),
		}, contribution.RequestMeta{})

		var invalidInput *domain.InvalidInputError
		assert.ErrorAs(t, err, &invalidInput)
	})

	t.Run("ADD_NODE payload missing names rejected", func(t *testing.T) {
		svc, _, _, _ := newService()

		_, err := svc.Create(ctx, author, domain.CreateContributionInput{
			Type:    domain.ContribAddNode,
			NodeID:  parentID,
			Payload: json.RawMessage(`{"title":"sheikh"}`),
		}, contribution.RequestMeta{})

		var invalidInput *domain.InvalidInputError
		assert.ErrorAs(t, err, &invalidInput)
	})

	t.Run("EDIT_NODE payload with no fields rejected", func(t *testing.T) {
		svc, _, _, _ := newService()

		_, err := svc.Create(ctx, author, domain.CreateContributionInput{
			Type:    domain.ContribEditNode,
			NodeID:  parentID,
			Payload: json.RawMessage(`{}`),
		}, contribution.RequestMeta{})

		var invalidInput *domain.InvalidInputError
		assert.ErrorAs(t, err, &invalidInput)
	})

	t.Run("missing target node rejected", func(t *testing.T) {
		svc, _, nodeSvc, _ := newService()
		nodeSvc.On("GetByID", ctx, parentID).Return(nil, domain.ErrNodeNotFound).Once()

		_, err := svc.Create(ctx, author, domain.CreateContributionInput{
			Type:    domain.ContribAddNode,
			NodeID:  parentID,
			Payload: addNodePayload(t),
		}, contribution.RequestMeta{})

		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})
}

// TestContributionService_TransitionTotality drives every (from, target) pair
// through the service and checks the outcome agrees with the lifecycle table
// in both directions: allowed pairs succeed, everything else fails with
// InvalidTransitionError.
func TestContributionService_TransitionTotality(t *testing.T) {
	ctx := context.Background()
	author := newContributor()
	verifier := newVerifier()

	targets := []domain.ContributionStatus{
		domain.ContribPending,
		domain.ContribApproved,
		domain.ContribRejected,
		domain.ContribWithdrawn,
	}

	for _, from := range allContributionStatuses {
		// No operation targets DRAFT; the table must agree.
		assert.False(t, from.CanTransitionTo(domain.ContribDraft), "nothing may re-enter DRAFT from %s", from)

		for _, target := range targets {
			crRepo := new(mocks.ContributionRepository)
			userRepo := new(mocks.UserRepository)
			auditRepo := new(mocks.AuditLogRepository)
			nodeSvc := new(mocks.NodeService)
			svc := contribution.NewService(crRepo, userRepo, auditRepo, nodeSvc)

			crID := uuid.New()
			cr := &domain.Contribution{
				ID:       crID,
				AuthorID: author.ID,
				Type:     domain.ContribAddSource,
				NodeID:   uuid.New(),
				Payload:  json.RawMessage(`{"source":"Jamharat Ansab al-Arab"}`),
				Status:   from,
			}
			crRepo.On("GetByID", ctx, crID).Return(cr, nil).Once()
			crRepo.On("UpdateTransition", ctx, mock.Anything, from).Return(nil).Maybe()
			auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()

			// Review verdicts come from the verifier, everything else from
			// the author, so permission checks never mask the table check.
			actor := author
			if target == domain.ContribApproved || target == domain.ContribRejected {
				actor = verifier
			}

			var err error
			switch target {
			case domain.ContribPending:
				_, err = svc.Submit(ctx, crID, actor, contribution.RequestMeta{})
			case domain.ContribApproved:
				_, err = svc.Approve(ctx, crID, actor, nil, contribution.RequestMeta{})
			case domain.ContribRejected:
				_, err = svc.Reject(ctx, crID, actor, nil, contribution.RequestMeta{})
			case domain.ContribWithdrawn:
				_, err = svc.Withdraw(ctx, crID, actor, contribution.RequestMeta{})
			}

			if from.CanTransitionTo(target) {
				assert.NoError(t, err, "%s -> %s should be allowed", from, target)
			} else {
				var invalidTransition *domain.InvalidTransitionError
				assert.ErrorAs(t, err, &invalidTransition, "%s -> %s should be rejected", from, target)
				if invalidTransition != nil {
					assert.Equal(t, from, invalidTransition.From)
					assert.Equal(t, target, invalidTransition.Requested)
				}
			}
		}
	}
}

func TestContributionService_Permissions(t *testing.T) {
	ctx := context.Background()
	author := newContributor()

	setup := func(status domain.ContributionStatus) (contribution.Service, uuid.UUID, *mocks.ContributionRepository) {
		crRepo := new(mocks.ContributionRepository)
		auditRepo := new(mocks.AuditLogRepository)
		auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
		svc := contribution.NewService(crRepo, new(mocks.UserRepository), auditRepo, new(mocks.NodeService))

		crID := uuid.New()
		crRepo.On("GetByID", ctx, crID).Return(&domain.Contribution{
			ID:       crID,
			AuthorID: author.ID,
			Type:     domain.ContribAddSource,
			NodeID:   uuid.New(),
			Payload:  json.RawMessage(`{}`),
			Status:   status,
		}, nil).Once()
		return svc, crID, crRepo
	}

	t.Run("contributor cannot approve", func(t *testing.T) {
		svc, crID, _ := setup(domain.ContribPending)
		other := newContributor()

		_, err := svc.Approve(ctx, crID, other, nil, contribution.RequestMeta{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("verifier cannot approve own contribution", func(t *testing.T) {
		crRepo := new(mocks.ContributionRepository)
		svc := contribution.NewService(crRepo, new(mocks.UserRepository), new(mocks.AuditLogRepository), new(mocks.NodeService))
		verifierAuthor := newVerifier()

		crID := uuid.New()
		crRepo.On("GetByID", ctx, crID).Return(&domain.Contribution{
			ID:       crID,
			AuthorID: verifierAuthor.ID,
			Type:     domain.ContribAddSource,
			Payload:  json.RawMessage(`{}`),
			Status:   domain.ContribPending,
		}, nil).Once()

		_, err := svc.Approve(ctx, crID, verifierAuthor, nil, contribution.RequestMeta{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("verifier cannot withdraw someone else's contribution", func(t *testing.T) {
		svc, crID, _ := setup(domain.ContribPending)
		verifier := newVerifier()

		_, err := svc.Withdraw(ctx, crID, verifier, contribution.RequestMeta{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("other contributor cannot submit author's draft", func(t *testing.T) {
		svc, crID, _ := setup(domain.ContribDraft)
		other := newContributor()

		_, err := svc.Submit(ctx, crID, other, contribution.RequestMeta{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin may withdraw on the author's behalf", func(t *testing.T) {
		svc, crID, crRepo := setup(domain.ContribPending)
		admin := &domain.User{ID: uuid.New(), Role: string(domain.RoleAdmin)}
		crRepo.On("UpdateTransition", ctx, mock.Anything, domain.ContribPending).Return(nil).Once()

		cr, err := svc.Withdraw(ctx, crID, admin, contribution.RequestMeta{})
		assert.NoError(t, err)
		assert.Equal(t, domain.ContribWithdrawn, cr.Status)
	})
}

func TestContributionService_ReviewSideEffects(t *testing.T) {
	ctx := context.Background()
	author := newContributor()
	verifier := newVerifier()

	t.Run("reject stamps reviewer and increments rejection count", func(t *testing.T) {
		crRepo := new(mocks.ContributionRepository)
		auditRepo := new(mocks.AuditLogRepository)
		auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
		svc := contribution.NewService(crRepo, new(mocks.UserRepository), auditRepo, new(mocks.NodeService))

		crID := uuid.New()
		crRepo.On("GetByID", ctx, crID).Return(&domain.Contribution{
			ID:             crID,
			AuthorID:       author.ID,
			Type:           domain.ContribAddSource,
			Payload:        json.RawMessage(`{}`),
			Status:         domain.ContribPending,
			RejectionCount: 1,
		}, nil).Once()
		crRepo.On("UpdateTransition", ctx, mock.MatchedBy(func(cr *domain.Contribution) bool {
			return cr.Status == domain.ContribRejected &&
				cr.ReviewerID != nil && *cr.ReviewerID == verifier.ID &&
				cr.ReviewedAt != nil &&
				cr.RejectionCount == 2
		}), domain.ContribPending).Return(nil).Once()

		note := stringPtr("needs a source citation")
		cr, err := svc.Reject(ctx, crID, verifier, note, contribution.RequestMeta{})

		assert.NoError(t, err)
		assert.Equal(t, note, cr.ReviewNote)
		crRepo.AssertExpectations(t)
	})

	t.Run("resubmission clears review metadata but keeps rejection count", func(t *testing.T) {
		crRepo := new(mocks.ContributionRepository)
		svc := contribution.NewService(crRepo, new(mocks.UserRepository), new(mocks.AuditLogRepository), new(mocks.NodeService))

		reviewerID := uuid.New()
		reviewedAt := time.Now().Add(-time.Hour)
		crID := uuid.New()
		crRepo.On("GetByID", ctx, crID).Return(&domain.Contribution{
			ID:             crID,
			AuthorID:       author.ID,
			Type:           domain.ContribAddSource,
			Payload:        json.RawMessage(`{}`),
			Status:         domain.ContribRejected,
			ReviewerID:     &reviewerID,
			ReviewedAt:     &reviewedAt,
			ReviewNote:     stringPtr("rejected"),
			RejectionCount: 2,
		}, nil).Once()
		crRepo.On("UpdateTransition", ctx, mock.MatchedBy(func(cr *domain.Contribution) bool {
			return cr.Status == domain.ContribPending &&
				cr.ReviewerID == nil &&
				cr.ReviewedAt == nil &&
				cr.ReviewNote == nil &&
				cr.SubmittedAt != nil &&
				cr.RejectionCount == 2
		}), domain.ContribRejected).Return(nil).Once()

		cr, err := svc.Submit(ctx, crID, author, contribution.RequestMeta{})

		assert.NoError(t, err)
		assert.Equal(t, 2, cr.RejectionCount)
		crRepo.AssertExpectations(t)
	})

	t.Run("concurrent review loses the compare-and-set", func(t *testing.T) {
		crRepo := new(mocks.ContributionRepository)
		svc := contribution.NewService(crRepo, new(mocks.UserRepository), new(mocks.AuditLogRepository), new(mocks.NodeService))

		crID := uuid.New()
		crRepo.On("GetByID", ctx, crID).Return(&domain.Contribution{
			ID:       crID,
			AuthorID: author.ID,
			Type:     domain.ContribAddSource,
			Payload:  json.RawMessage(`{}`),
			Status:   domain.ContribPending,
		}, nil).Once()
		crRepo.On("UpdateTransition", ctx, mock.Anything, domain.ContribPending).Return(domain.ErrConflict).Once()

		_, err := svc.Reject(ctx, crID, verifier, nil, contribution.RequestMeta{})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestContributionService_ApproveApplies(t *testing.T) {
	ctx := context.Background()
	author := newContributor()
	verifier := newVerifier()

	t.Run("ADD_NODE approval creates the node under the parent", func(t *testing.T) {
		crRepo := new(mocks.ContributionRepository)
		nodeSvc := new(mocks.NodeService)
		auditRepo := new(mocks.AuditLogRepository)
		svc := contribution.NewService(crRepo, new(mocks.UserRepository), auditRepo, nodeSvc)

		parentID := uuid.New()
		payload := domain.AddNodePayload{Name: "Zayd", NameAr: "زيد"}
		raw, _ := json.Marshal(payload)

		crID := uuid.New()
		crRepo.On("GetByID", ctx, crID).Return(&domain.Contribution{
			ID:       crID,
			AuthorID: author.ID,
			Type:     domain.ContribAddNode,
			NodeID:   parentID,
			Payload:  raw,
			Status:   domain.ContribPending,
		}, nil).Once()

		parent := &domain.LineageNode{ID: parentID, Type: domain.TypeFamily, GenerationDepth: 3}
		nodeSvc.On("GetByID", ctx, parentID).Return(parent, nil).Once()
		crRepo.On("UpdateTransition", ctx, mock.Anything, domain.ContribPending).Return(nil).Once()
		nodeSvc.On("ApplyAddition", ctx, parentID, author.ID, payload).
			Return(&domain.LineageNode{ID: uuid.New(), ParentID: &parentID, GenerationDepth: 4}, nil).Once()
		auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()

		cr, err := svc.Approve(ctx, crID, verifier, nil, contribution.RequestMeta{})

		assert.NoError(t, err)
		assert.Equal(t, domain.ContribApproved, cr.Status)
		assert.Empty(t, cr.AllowedNext)
		nodeSvc.AssertExpectations(t)
	})

	t.Run("EDIT_NODE approval applies the allow-listed edit", func(t *testing.T) {
		crRepo := new(mocks.ContributionRepository)
		nodeSvc := new(mocks.NodeService)
		auditRepo := new(mocks.AuditLogRepository)
		auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
		svc := contribution.NewService(crRepo, new(mocks.UserRepository), auditRepo, nodeSvc)

		nodeID := uuid.New()
		payload := domain.EditNodePayload{Title: stringPtr("sheikh of the tribe")}
		raw, _ := json.Marshal(payload)

		crID := uuid.New()
		crRepo.On("GetByID", ctx, crID).Return(&domain.Contribution{
			ID:       crID,
			AuthorID: author.ID,
			Type:     domain.ContribEditNode,
			NodeID:   nodeID,
			Payload:  raw,
			Status:   domain.ContribPending,
		}, nil).Once()

		nodeSvc.On("GetByID", ctx, nodeID).Return(&domain.LineageNode{ID: nodeID, Type: domain.TypeIndividual}, nil).Once()
		crRepo.On("UpdateTransition", ctx, mock.Anything, domain.ContribPending).Return(nil).Once()
		nodeSvc.On("ApplyEdit", ctx, nodeID, payload).Return(&domain.LineageNode{ID: nodeID}, nil).Once()

		_, err := svc.Approve(ctx, crID, verifier, nil, contribution.RequestMeta{})

		assert.NoError(t, err)
		nodeSvc.AssertExpectations(t)
	})

	t.Run("approval of a vanished target fails before claiming", func(t *testing.T) {
		crRepo := new(mocks.ContributionRepository)
		nodeSvc := new(mocks.NodeService)
		svc := contribution.NewService(crRepo, new(mocks.UserRepository), new(mocks.AuditLogRepository), nodeSvc)

		nodeID := uuid.New()
		crID := uuid.New()
		crRepo.On("GetByID", ctx, crID).Return(&domain.Contribution{
			ID:       crID,
			AuthorID: author.ID,
			Type:     domain.ContribEditNode,
			NodeID:   nodeID,
			Payload:  json.RawMessage(`{"title":"x"}`),
			Status:   domain.ContribPending,
		}, nil).Once()
		nodeSvc.On("GetByID", ctx, nodeID).Return(nil, domain.ErrNodeNotFound).Once()

		_, err := svc.Approve(ctx, crID, verifier, nil, contribution.RequestMeta{})

		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
		crRepo.AssertNotCalled(t, "UpdateTransition", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("manual types approve without touching the tree", func(t *testing.T) {
		crRepo := new(mocks.ContributionRepository)
		nodeSvc := new(mocks.NodeService)
		auditRepo := new(mocks.AuditLogRepository)
		auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
		svc := contribution.NewService(crRepo, new(mocks.UserRepository), auditRepo, nodeSvc)

		crID := uuid.New()
		crRepo.On("GetByID", ctx, crID).Return(&domain.Contribution{
			ID:       crID,
			AuthorID: author.ID,
			Type:     domain.ContribMergeNodes,
			NodeID:   uuid.New(),
			Payload:  json.RawMessage(`{"duplicate_of":"..."}`),
			Status:   domain.ContribPending,
		}, nil).Once()
		crRepo.On("UpdateTransition", ctx, mock.Anything, domain.ContribPending).Return(nil).Once()

		_, err := svc.Approve(ctx, crID, verifier, nil, contribution.RequestMeta{})

		assert.NoError(t, err)
		nodeSvc.AssertNotCalled(t, "ApplyAddition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		nodeSvc.AssertNotCalled(t, "ApplyEdit", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestContributionService_GetByID_NotFound(t *testing.T) {
	crRepo := new(mocks.ContributionRepository)
	svc := contribution.NewService(crRepo, new(mocks.UserRepository), new(mocks.AuditLogRepository), new(mocks.NodeService))

	id := uuid.New()
	crRepo.On("GetByID", mock.Anything, id).Return(nil, nil).Once()

	_, err := svc.GetByID(context.Background(), id)
	assert.True(t, errors.Is(err, domain.ErrContributionNotFound))
}
