package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBattle    EventType = "BATTLE"
	EventMigration EventType = "MIGRATION"
	EventTreaty    EventType = "TREATY"
	EventFounding  EventType = "FOUNDING"
	EventOther     EventType = "OTHER"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventBattle, EventMigration, EventTreaty, EventFounding, EventOther:
		return true
	}
	return false
}

// HistoricalEvent is an event attached to a lineage node (a battle a tribe
// fought, a migration, a founding). Years may be Hijri or Gregorian.
type HistoricalEvent struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	NodeID      uuid.UUID       `json:"node_id" db:"node_id"`
	Type        EventType       `json:"type" db:"type"`
	Title       string          `json:"title" db:"title"`
	TitleAr     *string         `json:"title_ar,omitempty" db:"title_ar"`
	Year        *int            `json:"year,omitempty" db:"year"`
	YearHijri   *int            `json:"year_hijri,omitempty" db:"year_hijri"`
	Place       *string         `json:"place,omitempty" db:"place"`
	Description *string         `json:"description,omitempty" db:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedBy   uuid.UUID       `json:"created_by" db:"created_by"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time      `json:"-" db:"deleted_at"`
}

type CreateEventInput struct {
	NodeID      uuid.UUID       `json:"node_id" validate:"required"`
	Type        EventType       `json:"type" validate:"required"`
	Title       string          `json:"title" validate:"required,min=1,max=200"`
	TitleAr     *string         `json:"title_ar,omitempty" validate:"omitempty,max=200"`
	Year        *int            `json:"year,omitempty"`
	YearHijri   *int            `json:"year_hijri,omitempty"`
	Place       *string         `json:"place,omitempty" validate:"omitempty,max=200"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}
