package unit_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/service/node"
	"github.com/z3by/arabtree-sub000/tests/mocks"
)

func newNodeService() (node.Service, *mocks.NodeRepository, *mocks.AuditLogRepository) {
	nodeRepo := new(mocks.NodeRepository)
	auditRepo := new(mocks.AuditLogRepository)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	return node.NewService(nodeRepo, auditRepo, nil), nodeRepo, auditRepo
}

func TestNodeService_Create(t *testing.T) {
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Role: string(domain.RoleContributor)}

	t.Run("root node starts at generation zero", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		nodeRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.LineageNode) bool {
			return n.Type == domain.TypeRoot &&
				n.ParentID == nil &&
				n.GenerationDepth == 0 &&
				n.Status == domain.NodeDraft &&
				n.CreatedBy == actor.ID
		})).Return(nil).Once()

		created, err := svc.Create(ctx, actor, domain.CreateNodeInput{
			Type:   domain.TypeRoot,
			Name:   "Adnan",
			NameAr: "عدنان",
		})

		assert.NoError(t, err)
		assert.Equal(t, 0, created.GenerationDepth)
		nodeRepo.AssertExpectations(t)
	})

	t.Run("child sits one generation below its parent", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		parentID := uuid.New()
		nodeRepo.On("GetByID", ctx, parentID).Return(&domain.LineageNode{
			ID:              parentID,
			Type:            domain.TypeFamily,
			GenerationDepth: 6,
		}, nil).Once()
		nodeRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.LineageNode) bool {
			return n.GenerationDepth == 7 && n.ParentID != nil && *n.ParentID == parentID
		})).Return(nil).Once()

		created, err := svc.Create(ctx, actor, domain.CreateNodeInput{
			Type:     domain.TypeIndividual,
			ParentID: &parentID,
			Name:     "Zayd ibn Thabit",
			NameAr:   "زيد بن ثابت",
		})

		assert.NoError(t, err)
		assert.Equal(t, 7, created.GenerationDepth)
		nodeRepo.AssertExpectations(t)
	})

	t.Run("root node may not have a parent", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		parentID := uuid.New()

		_, err := svc.Create(ctx, actor, domain.CreateNodeInput{
			Type:     domain.TypeRoot,
			ParentID: &parentID,
			Name:     "Qahtan",
			NameAr:   "قحطان",
		})

		var invalidInput *domain.InvalidInputError
		assert.ErrorAs(t, err, &invalidInput)
		nodeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("non-root node requires a parent", func(t *testing.T) {
		svc, _, _ := newNodeService()

		_, err := svc.Create(ctx, actor, domain.CreateNodeInput{
			Type:   domain.TypeClan,
			Name:   "Banu Tamim",
			NameAr: "بنو تميم",
		})

		var invalidInput *domain.InvalidInputError
		assert.ErrorAs(t, err, &invalidInput)
	})

	t.Run("child type may not be shallower than its parent", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		parentID := uuid.New()
		nodeRepo.On("GetByID", ctx, parentID).Return(&domain.LineageNode{
			ID:   parentID,
			Type: domain.TypeFamily,
		}, nil).Once()

		_, err := svc.Create(ctx, actor, domain.CreateNodeInput{
			Type:     domain.TypeTribe,
			ParentID: &parentID,
			Name:     "Kindah",
			NameAr:   "كندة",
		})

		var hierarchyErr *domain.InvalidHierarchyError
		assert.ErrorAs(t, err, &hierarchyErr)
		assert.Equal(t, domain.TypeFamily, hierarchyErr.ParentType)
		assert.Equal(t, domain.TypeTribe, hierarchyErr.ChildType)
		assert.NotContains(t, hierarchyErr.Allowed, domain.TypeRoot)
		nodeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing parent fails", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		parentID := uuid.New()
		nodeRepo.On("GetByID", ctx, parentID).Return(nil, nil).Once()

		_, err := svc.Create(ctx, actor, domain.CreateNodeInput{
			Type:     domain.TypeIndividual,
			ParentID: &parentID,
			Name:     "Amr",
			NameAr:   "عمرو",
		})

		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})
}

func TestNodeService_Update(t *testing.T) {
	ctx := context.Background()
	owner := &domain.User{ID: uuid.New(), Role: string(domain.RoleContributor)}

	t.Run("only the creator or an admin may update", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		nodeID := uuid.New()
		nodeRepo.On("GetByID", ctx, nodeID).Return(&domain.LineageNode{
			ID:        nodeID,
			CreatedBy: owner.ID,
		}, nil).Once()

		stranger := &domain.User{ID: uuid.New(), Role: string(domain.RoleContributor)}
		_, err := svc.Update(ctx, nodeID, stranger, domain.UpdateNodeInput{})

		assert.ErrorIs(t, err, domain.ErrForbidden)
		nodeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("explicit null clears a nullable field", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		nodeID := uuid.New()
		title := "al-amir"
		nodeRepo.On("GetByID", ctx, nodeID).Return(&domain.LineageNode{
			ID:        nodeID,
			Name:      "Hashim",
			Title:     &title,
			CreatedBy: owner.ID,
		}, nil).Once()
		nodeRepo.On("Update", ctx, mock.MatchedBy(func(n *domain.LineageNode) bool {
			return n.Title == nil && n.Name == "Hashim"
		})).Return(nil).Once()

		updated, err := svc.Update(ctx, nodeID, owner, domain.UpdateNodeInput{
			Title: domain.NullableString{Set: true, Value: nil},
		})

		assert.NoError(t, err)
		assert.Nil(t, updated.Title)
		nodeRepo.AssertExpectations(t)
	})

	t.Run("absent fields are left alone", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		nodeID := uuid.New()
		bio := "chief of the caravan trade"
		nodeRepo.On("GetByID", ctx, nodeID).Return(&domain.LineageNode{
			ID:        nodeID,
			Name:      "Hashim",
			Biography: &bio,
			CreatedBy: owner.ID,
		}, nil).Once()
		newName := "Hashim ibn Abd Manaf"
		nodeRepo.On("Update", ctx, mock.MatchedBy(func(n *domain.LineageNode) bool {
			return n.Name == newName && n.Biography != nil && *n.Biography == bio
		})).Return(nil).Once()

		_, err := svc.Update(ctx, nodeID, owner, domain.UpdateNodeInput{Name: &newName})

		assert.NoError(t, err)
		nodeRepo.AssertExpectations(t)
	})
}

func TestNodeService_Archive(t *testing.T) {
	ctx := context.Background()
	owner := &domain.User{ID: uuid.New(), Role: string(domain.RoleContributor)}

	t.Run("active children block archival", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		nodeID := uuid.New()
		nodeRepo.On("GetByID", ctx, nodeID).Return(&domain.LineageNode{
			ID:        nodeID,
			CreatedBy: owner.ID,
		}, nil).Once()
		nodeRepo.On("CountActiveChildren", ctx, nodeID).Return(3, nil).Once()

		err := svc.Archive(ctx, nodeID, owner)

		var hasChildren *domain.HasActiveChildrenError
		assert.ErrorAs(t, err, &hasChildren)
		assert.Equal(t, 3, hasChildren.ActiveChildren)
		nodeRepo.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything)
	})

	t.Run("leaf archives", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		nodeID := uuid.New()
		nodeRepo.On("GetByID", ctx, nodeID).Return(&domain.LineageNode{
			ID:        nodeID,
			CreatedBy: owner.ID,
		}, nil).Once()
		nodeRepo.On("CountActiveChildren", ctx, nodeID).Return(0, nil).Once()
		nodeRepo.On("Archive", ctx, nodeID).Return(nil).Once()

		err := svc.Archive(ctx, nodeID, owner)

		assert.NoError(t, err)
		nodeRepo.AssertExpectations(t)
	})

	t.Run("admin may archive another user's node", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		nodeID := uuid.New()
		nodeRepo.On("GetByID", ctx, nodeID).Return(&domain.LineageNode{
			ID:        nodeID,
			CreatedBy: owner.ID,
		}, nil).Once()
		nodeRepo.On("CountActiveChildren", ctx, nodeID).Return(0, nil).Once()
		nodeRepo.On("Archive", ctx, nodeID).Return(nil).Once()

		admin := &domain.User{ID: uuid.New(), Role: string(domain.RoleAdmin)}
		assert.NoError(t, svc.Archive(ctx, nodeID, admin))
	})
}

func TestNodeService_ApplyAddition(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()

	t.Run("approved addition publishes immediately", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		parentID := uuid.New()
		nodeRepo.On("GetByID", ctx, parentID).Return(&domain.LineageNode{
			ID:              parentID,
			Type:            domain.TypeFamily,
			GenerationDepth: 4,
		}, nil).Once()
		nodeRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.LineageNode) bool {
			return n.Status == domain.NodePublished &&
				n.Type == domain.TypeIndividual &&
				n.GenerationDepth == 5 &&
				n.CreatedBy == authorID
		})).Return(nil).Once()

		created, err := svc.ApplyAddition(ctx, parentID, authorID, domain.AddNodePayload{
			Name:   "Khalid",
			NameAr: "خالد",
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.NodePublished, created.Status)
		nodeRepo.AssertExpectations(t)
	})

	t.Run("payload type is honored when present", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		parentID := uuid.New()
		nodeRepo.On("GetByID", ctx, parentID).Return(&domain.LineageNode{
			ID:              parentID,
			Type:            domain.TypeClan,
			GenerationDepth: 2,
		}, nil).Once()
		nodeRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.LineageNode) bool {
			return n.Type == domain.TypeFamily
		})).Return(nil).Once()

		_, err := svc.ApplyAddition(ctx, parentID, authorID, domain.AddNodePayload{
			Type:   domain.TypeFamily,
			Name:   "Al Saud",
			NameAr: "آل سعود",
		})

		assert.NoError(t, err)
		nodeRepo.AssertExpectations(t)
	})

	t.Run("addition still honors the hierarchy", func(t *testing.T) {
		svc, nodeRepo, _ := newNodeService()
		parentID := uuid.New()
		nodeRepo.On("GetByID", ctx, parentID).Return(&domain.LineageNode{
			ID:   parentID,
			Type: domain.TypeIndividual,
		}, nil).Once()

		_, err := svc.ApplyAddition(ctx, parentID, authorID, domain.AddNodePayload{
			Type:   domain.TypeTribe,
			Name:   "Tayy",
			NameAr: "طيء",
		})

		var hierarchyErr *domain.InvalidHierarchyError
		assert.ErrorAs(t, err, &hierarchyErr)
		nodeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestNodeService_ApplyEdit(t *testing.T) {
	ctx := context.Background()

	svc, nodeRepo, _ := newNodeService()
	nodeID := uuid.New()
	nodeRepo.On("GetByID", ctx, nodeID).Return(&domain.LineageNode{
		ID:     nodeID,
		Name:   "Harithah",
		NameAr: "حارثة",
	}, nil).Once()

	newTitle := "sayyid"
	nodeRepo.On("Update", ctx, mock.MatchedBy(func(n *domain.LineageNode) bool {
		return n.Name == "Harithah" && n.Title != nil && *n.Title == newTitle
	})).Return(nil).Once()

	updated, err := svc.ApplyEdit(ctx, nodeID, domain.EditNodePayload{Title: &newTitle})

	assert.NoError(t, err)
	assert.Equal(t, newTitle, *updated.Title)
	nodeRepo.AssertExpectations(t)
}

func TestNodeService_Subtree(t *testing.T) {
	ctx := context.Background()
	svc, nodeRepo, _ := newNodeService()

	rootID := uuid.New()
	childID := uuid.New()
	root := &domain.LineageNode{ID: rootID, Type: domain.TypeRoot, Name: "Adnan"}
	child := domain.LineageNode{ID: childID, Type: domain.TypeTribe, ParentID: &rootID, Name: "Mudar"}

	nodeRepo.On("GetByID", ctx, rootID).Return(root, nil).Once()
	nodeRepo.On("ListChildrenOf", ctx, []uuid.UUID{rootID}).Return([]domain.LineageNode{child}, nil).Once()
	nodeRepo.On("ListChildrenOf", ctx, []uuid.UUID{childID}).Return([]domain.LineageNode{}, nil).Once()

	result, err := svc.Subtree(ctx, rootID, 2)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, rootID, result[0].ID)
	assert.Len(t, result[0].Children, 1)
	assert.Equal(t, childID, result[1].ID)
	assert.Empty(t, result[1].Children)
}
