package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/repository"
)

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetAll(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.User], error)
	UpdateProfile(ctx context.Context, id uuid.UUID, actor *domain.User, input domain.UpdateUserInput) (*domain.User, error)
	AssignRole(ctx context.Context, actor *domain.User, input domain.AssignRoleInput) (*domain.User, error)
	LinkToNode(ctx context.Context, id uuid.UUID, actor *domain.User, nodeID *uuid.UUID) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

type service struct {
	userRepo repository.UserRepository
	nodeRepo repository.NodeRepository
}

func NewService(userRepo repository.UserRepository, nodeRepo repository.NodeRepository) Service {
	return &service{userRepo: userRepo, nodeRepo: nodeRepo}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *service) GetAll(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.User], error) {
	users, total, err := s.userRepo.GetAll(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.User]{}, err
	}
	return domain.NewPaginatedResponse(users, params.Page, params.PageSize, total), nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, actor *domain.User, input domain.UpdateUserInput) (*domain.User, error) {
	if id != actor.ID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.FullNameAr.Set {
		user.FullNameAr = input.FullNameAr.Value
	}
	if input.AvatarURL.Set {
		user.AvatarURL = input.AvatarURL.Value
	}
	if input.Bio.Set {
		user.Bio = input.Bio.Value
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) AssignRole(ctx context.Context, actor *domain.User, input domain.AssignRoleInput) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !input.Role.IsValid() {
		return nil, domain.NewInvalidInput("role", "must be one of viewer, contributor, verifier, admin")
	}

	// An admin demoting themselves could lock the instance out of admin
	// actions entirely.
	if input.UserID == actor.ID && input.Role != domain.RoleAdmin {
		return nil, domain.NewInvalidInput("user_id", "admins cannot demote themselves")
	}

	if err := s.userRepo.AssignRole(ctx, input.UserID, input.Role); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, input.UserID)
}

// LinkToNode ties a user account to their own individual in the lineage tree.
func (s *service) LinkToNode(ctx context.Context, id uuid.UUID, actor *domain.User, nodeID *uuid.UUID) (*domain.User, error) {
	if id != actor.ID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if nodeID != nil {
		node, err := s.nodeRepo.GetByID(ctx, *nodeID)
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, domain.ErrNodeNotFound
		}
		if node.Type != domain.TypeIndividual {
			return nil, domain.NewInvalidInput("node_id", "users can only link to INDIVIDUAL nodes")
		}
	}

	user.NodeID = nodeID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if id == actor.ID {
		return domain.NewInvalidInput("id", "admins cannot delete themselves")
	}
	return s.userRepo.Delete(ctx, id)
}
