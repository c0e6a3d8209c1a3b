package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Node         NodeRepository
	Contribution ContributionRepository
	Event        EventRepository
	DnaMarker    DnaMarkerRepository
	Media        MediaRepository
	AuditLog     AuditLogRepository
	Notification NotificationRepository
	Session      SessionRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Node:         NewNodeRepository(db),
		Contribution: NewContributionRepository(db),
		Event:        NewEventRepository(db),
		DnaMarker:    NewDnaMarkerRepository(db),
		Media:        NewMediaRepository(db),
		AuditLog:     NewAuditLogRepository(db),
		Notification: NewNotificationRepository(db),
		Session:      NewSessionRepository(db),
	}
}
