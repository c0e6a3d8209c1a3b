package domain

import (
	"time"

	"github.com/google/uuid"
)

type MediaStatus string

const (
	MediaPending  MediaStatus = "PENDING"
	MediaApproved MediaStatus = "APPROVED"
)

// Media is a scanned source document (manuscript page, published reference)
// attached to a lineage node and stored in object storage.
type Media struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	NodeID      *uuid.UUID  `json:"node_id,omitempty" db:"node_id"`
	UploadedBy  uuid.UUID   `json:"uploaded_by" db:"uploaded_by"`
	FileName    string      `json:"file_name" db:"file_name"`
	FileSize    int64       `json:"file_size" db:"file_size"`
	MimeType    string      `json:"mime_type" db:"mime_type"`
	StoragePath string      `json:"-" db:"storage_path"`
	Caption     *string     `json:"caption,omitempty" db:"caption"`
	Status      MediaStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	DeletedAt   *time.Time  `json:"-" db:"deleted_at"`

	URL string `json:"url,omitempty" db:"-"`
}
