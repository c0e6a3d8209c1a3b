package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"github.com/z3by/arabtree-sub000/internal/config"
	"github.com/z3by/arabtree-sub000/internal/repository"
	"github.com/z3by/arabtree-sub000/internal/service/audit"
	"github.com/z3by/arabtree-sub000/internal/service/auth"
	"github.com/z3by/arabtree-sub000/internal/service/contribution"
	"github.com/z3by/arabtree-sub000/internal/service/dashboard"
	"github.com/z3by/arabtree-sub000/internal/service/email"
	"github.com/z3by/arabtree-sub000/internal/service/event"
	"github.com/z3by/arabtree-sub000/internal/service/media"
	"github.com/z3by/arabtree-sub000/internal/service/node"
	"github.com/z3by/arabtree-sub000/internal/service/notification"
	"github.com/z3by/arabtree-sub000/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Node         node.Service
	Contribution contribution.Service
	Event        event.Service
	Media        media.Service
	Email        email.Service
	Audit        audit.Service
	Notification notification.Service
	Dashboard    dashboard.Service
}

func NewServices(repos *repository.Repositories, redis *redis.Client, minioClient *minio.Client, cfg *config.Config) *Services {
	emailService := email.NewService(cfg)
	authService := auth.NewService(repos.User, repos.Session, emailService, cfg)
	auditService := audit.NewService(repos.AuditLog)

	nodeService := node.NewService(repos.Node, repos.AuditLog, redis)
	contributionService := contribution.NewService(repos.Contribution, repos.User, repos.AuditLog, nodeService)
	notificationService := notification.NewService(repos.Notification, repos.User, repos.Contribution, repos.Node, emailService)
	nodeService.SetNotificationService(notificationService)
	contributionService.SetNotificationService(notificationService)

	eventService := event.NewService(repos.Event, repos.DnaMarker, repos.Node)
	mediaService := media.NewService(repos.Media, repos.Node, minioClient, cfg)
	dashboardService := dashboard.NewService(repos.Node, repos.Contribution, repos.AuditLog, redis)
	userService := user.NewService(repos.User, repos.Node)

	return &Services{
		Auth:         authService,
		User:         userService,
		Node:         nodeService,
		Contribution: contributionService,
		Event:        eventService,
		Media:        mediaService,
		Email:        emailService,
		Audit:        auditService,
		Notification: notificationService,
		Dashboard:    dashboardService,
	}
}
