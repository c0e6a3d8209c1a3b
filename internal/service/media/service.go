package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/z3by/arabtree-sub000/internal/config"
	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/repository"
)

type Service interface {
	Upload(ctx context.Context, actor *domain.User, nodeID *uuid.UUID, caption *string, fileName string, fileSize int64, mimeType string, reader io.Reader) (*domain.Media, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Media, error)
	List(ctx context.Context, nodeID *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Media], error)
	Approve(ctx context.Context, actor *domain.User, id uuid.UUID) error
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

type service struct {
	mediaRepo   repository.MediaRepository
	nodeRepo    repository.NodeRepository
	minioClient *minio.Client
	cfg         *config.Config
}

func NewService(mediaRepo repository.MediaRepository, nodeRepo repository.NodeRepository, minioClient *minio.Client, cfg *config.Config) Service {
	return &service{
		mediaRepo:   mediaRepo,
		nodeRepo:    nodeRepo,
		minioClient: minioClient,
		cfg:         cfg,
	}
}

// Upload stores a source document scan in object storage and records it as
// PENDING until a verifier approves it.
func (s *service) Upload(ctx context.Context, actor *domain.User, nodeID *uuid.UUID, caption *string, fileName string, fileSize int64, mimeType string, reader io.Reader) (*domain.Media, error) {
	if nodeID != nil {
		node, err := s.nodeRepo.GetByID(ctx, *nodeID)
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, domain.ErrNodeNotFound
		}
	}

	mediaID := uuid.New()
	storagePath := fmt.Sprintf("sources/%s/%s", time.Now().Format("2006/01"), mediaID.String())

	_, err := s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, storagePath, reader, fileSize, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	media := &domain.Media{
		ID:          mediaID,
		NodeID:      nodeID,
		UploadedBy:  actor.ID,
		FileName:    fileName,
		FileSize:    fileSize,
		MimeType:    mimeType,
		StoragePath: storagePath,
		Caption:     caption,
		Status:      domain.MediaPending,
	}

	if err := s.mediaRepo.Create(ctx, media); err != nil {
		_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, storagePath, minio.RemoveObjectOptions{})
		return nil, err
	}

	media.URL = s.publicURL(storagePath)
	return media, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Media, error) {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, domain.ErrMediaNotFound
	}

	media.URL = s.publicURL(media.StoragePath)
	return media, nil
}

func (s *service) List(ctx context.Context, nodeID *uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Media], error) {
	mediaList, total, err := s.mediaRepo.List(ctx, nodeID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Media]{}, err
	}

	for i := range mediaList {
		mediaList[i].URL = s.publicURL(mediaList[i].StoragePath)
	}

	return domain.NewPaginatedResponse(mediaList, params.Page, params.PageSize, total), nil
}

func (s *service) Approve(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	if !actor.HasRole(string(domain.RoleVerifier)) {
		return domain.ErrForbidden
	}

	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if media == nil {
		return domain.ErrMediaNotFound
	}
	if media.Status != domain.MediaPending {
		return domain.NewInvalidInput("status", "media is not pending approval")
	}

	return s.mediaRepo.UpdateStatus(ctx, id, domain.MediaApproved)
}

func (s *service) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if media == nil {
		return domain.ErrMediaNotFound
	}

	if media.UploadedBy != actor.ID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	if err := s.mediaRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, media.StoragePath, minio.RemoveObjectOptions{})
	return nil
}

func (s *service) publicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, url.PathEscape(storagePath))
}
