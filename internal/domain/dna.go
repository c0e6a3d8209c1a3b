package domain

import (
	"time"

	"github.com/google/uuid"
)

// DnaMarker records a haplogroup marker associated with a lineage node.
type DnaMarker struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	NodeID     uuid.UUID  `json:"node_id" db:"node_id"`
	Haplogroup string     `json:"haplogroup" db:"haplogroup"`
	MarkerType string     `json:"marker_type" db:"marker_type"`
	Notes      *string    `json:"notes,omitempty" db:"notes"`
	CreatedBy  uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	DeletedAt  *time.Time `json:"-" db:"deleted_at"`
}

type CreateDnaMarkerInput struct {
	NodeID     uuid.UUID `json:"node_id" validate:"required"`
	Haplogroup string    `json:"haplogroup" validate:"required,max=50"`
	MarkerType string    `json:"marker_type" validate:"required,oneof=Y-DNA mtDNA autosomal"`
	Notes      *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
