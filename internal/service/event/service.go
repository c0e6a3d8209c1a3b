package event

import (
	"context"

	"github.com/google/uuid"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/repository"
)

// Service manages the scholarly annotations on lineage nodes: historical
// events and DNA haplogroup markers.
type Service interface {
	CreateEvent(ctx context.Context, actor *domain.User, input domain.CreateEventInput) (*domain.HistoricalEvent, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*domain.HistoricalEvent, error)
	ListEventsByNode(ctx context.Context, nodeID uuid.UUID) ([]domain.HistoricalEvent, error)
	DeleteEvent(ctx context.Context, actor *domain.User, id uuid.UUID) error

	CreateDnaMarker(ctx context.Context, actor *domain.User, input domain.CreateDnaMarkerInput) (*domain.DnaMarker, error)
	ListDnaMarkersByNode(ctx context.Context, nodeID uuid.UUID) ([]domain.DnaMarker, error)
	DeleteDnaMarker(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

type service struct {
	eventRepo repository.EventRepository
	dnaRepo   repository.DnaMarkerRepository
	nodeRepo  repository.NodeRepository
}

func NewService(eventRepo repository.EventRepository, dnaRepo repository.DnaMarkerRepository, nodeRepo repository.NodeRepository) Service {
	return &service{
		eventRepo: eventRepo,
		dnaRepo:   dnaRepo,
		nodeRepo:  nodeRepo,
	}
}

func (s *service) CreateEvent(ctx context.Context, actor *domain.User, input domain.CreateEventInput) (*domain.HistoricalEvent, error) {
	if !input.Type.IsValid() {
		return nil, domain.NewInvalidInput("type", "must be one of BATTLE, MIGRATION, TREATY, FOUNDING, OTHER")
	}

	if err := s.requireNode(ctx, input.NodeID); err != nil {
		return nil, err
	}

	event := &domain.HistoricalEvent{
		ID:          uuid.New(),
		NodeID:      input.NodeID,
		Type:        input.Type,
		Title:       input.Title,
		TitleAr:     input.TitleAr,
		Year:        input.Year,
		YearHijri:   input.YearHijri,
		Place:       input.Place,
		Description: input.Description,
		Metadata:    input.Metadata,
		CreatedBy:   actor.ID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*domain.HistoricalEvent, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

func (s *service) ListEventsByNode(ctx context.Context, nodeID uuid.UUID) ([]domain.HistoricalEvent, error) {
	if err := s.requireNode(ctx, nodeID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListByNode(ctx, nodeID)
}

func (s *service) DeleteEvent(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event == nil {
		return domain.ErrEventNotFound
	}

	if event.CreatedBy != actor.ID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	return s.eventRepo.Delete(ctx, id)
}

func (s *service) CreateDnaMarker(ctx context.Context, actor *domain.User, input domain.CreateDnaMarkerInput) (*domain.DnaMarker, error) {
	if err := s.requireNode(ctx, input.NodeID); err != nil {
		return nil, err
	}

	marker := &domain.DnaMarker{
		ID:         uuid.New(),
		NodeID:     input.NodeID,
		Haplogroup: input.Haplogroup,
		MarkerType: input.MarkerType,
		Notes:      input.Notes,
		CreatedBy:  actor.ID,
	}

	if err := s.dnaRepo.Create(ctx, marker); err != nil {
		return nil, err
	}
	return marker, nil
}

func (s *service) ListDnaMarkersByNode(ctx context.Context, nodeID uuid.UUID) ([]domain.DnaMarker, error) {
	if err := s.requireNode(ctx, nodeID); err != nil {
		return nil, err
	}
	return s.dnaRepo.ListByNode(ctx, nodeID)
}

func (s *service) DeleteDnaMarker(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	marker, err := s.dnaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if marker == nil {
		return domain.ErrDnaMarkerNotFound
	}

	if marker.CreatedBy != actor.ID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	return s.dnaRepo.Delete(ctx, id)
}

func (s *service) requireNode(ctx context.Context, nodeID uuid.UUID) error {
	node, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return err
	}
	if node == nil {
		return domain.ErrNodeNotFound
	}
	return nil
}
