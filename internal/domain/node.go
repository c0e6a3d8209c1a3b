package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type NullableString struct {
	Value *string
	Set   bool
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

type NullableInt struct {
	Value *int
	Set   bool
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

type NullableFloat struct {
	Value *float64
	Set   bool
}

func (n *NullableFloat) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// NodeType classifies a lineage node. The ordering is fixed: a child's type
// may never be shallower than its parent's.
type NodeType string

const (
	TypeRoot       NodeType = "ROOT"
	TypeTribe      NodeType = "TRIBE"
	TypeClan       NodeType = "CLAN"
	TypeFamily     NodeType = "FAMILY"
	TypeIndividual NodeType = "INDIVIDUAL"
)

// NodeTypeOrder lists node types shallow to deep.
var NodeTypeOrder = []NodeType{TypeRoot, TypeTribe, TypeClan, TypeFamily, TypeIndividual}

// Index returns the position of t in the shallow-to-deep ordering, or -1 for
// an unknown type.
func (t NodeType) Index() int {
	for i, nt := range NodeTypeOrder {
		if nt == t {
			return i
		}
	}
	return -1
}

func (t NodeType) IsValid() bool {
	return t.Index() >= 0
}

type NodeStatus string

const (
	NodeDraft     NodeStatus = "DRAFT"
	NodePublished NodeStatus = "PUBLISHED"
	NodeArchived  NodeStatus = "ARCHIVED"
)

func (s NodeStatus) IsValid() bool {
	switch s {
	case NodeDraft, NodePublished, NodeArchived:
		return true
	}
	return false
}

// LineageNode is an entry in the genealogy tree: a root ancestor, tribe,
// clan, family, or individual.
type LineageNode struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	Type           NodeType       `json:"type" db:"type"`
	Status         NodeStatus     `json:"status" db:"status"`
	Name           string         `json:"name" db:"name"`
	NameAr         string         `json:"name_ar" db:"name_ar"`
	Title          *string        `json:"title,omitempty" db:"title"`
	Epithet        *string        `json:"epithet,omitempty" db:"epithet"`
	AlternateNames pq.StringArray `json:"alternate_names,omitempty" db:"alternate_names"`

	ParentID        *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	GenerationDepth int        `json:"generation_depth" db:"generation_depth"`
	ChildCount      int        `json:"child_count" db:"child_count"`

	Biography      *string  `json:"biography,omitempty" db:"biography"`
	BiographyAr    *string  `json:"biography_ar,omitempty" db:"biography_ar"`
	BirthYear      *int     `json:"birth_year,omitempty" db:"birth_year"`
	DeathYear      *int     `json:"death_year,omitempty" db:"death_year"`
	BirthYearHijri *int     `json:"birth_year_hijri,omitempty" db:"birth_year_hijri"`
	DeathYearHijri *int     `json:"death_year_hijri,omitempty" db:"death_year_hijri"`
	BirthPlace     *string  `json:"birth_place,omitempty" db:"birth_place"`
	Era            *string  `json:"era,omitempty" db:"era"`
	Latitude       *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude      *float64 `json:"longitude,omitempty" db:"longitude"`

	CreatedBy        uuid.UUID `json:"created_by" db:"created_by"`
	IsDirectAncestor bool      `json:"is_direct_ancestor" db:"is_direct_ancestor"`
	IsConfirmed      bool      `json:"is_confirmed" db:"is_confirmed"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

func (n *LineageNode) DisplayName() string {
	if n.Title != nil && *n.Title != "" {
		return *n.Title + " " + n.Name
	}
	return n.Name
}

type CreateNodeInput struct {
	Type           NodeType   `json:"type" validate:"required"`
	ParentID       *uuid.UUID `json:"parent_id,omitempty"`
	Name           string     `json:"name" validate:"required,min=1,max=200"`
	NameAr         string     `json:"name_ar" validate:"required,min=1,max=200"`
	Title          *string    `json:"title,omitempty" validate:"omitempty,max=100"`
	Epithet        *string    `json:"epithet,omitempty" validate:"omitempty,max=200"`
	AlternateNames []string   `json:"alternate_names,omitempty" validate:"omitempty,max=10,dive,max=200"`

	Biography      *string  `json:"biography,omitempty" validate:"omitempty,max=5000"`
	BiographyAr    *string  `json:"biography_ar,omitempty" validate:"omitempty,max=5000"`
	BirthYear      *int     `json:"birth_year,omitempty"`
	DeathYear      *int     `json:"death_year,omitempty"`
	BirthYearHijri *int     `json:"birth_year_hijri,omitempty"`
	DeathYearHijri *int     `json:"death_year_hijri,omitempty"`
	BirthPlace     *string  `json:"birth_place,omitempty" validate:"omitempty,max=200"`
	Era            *string  `json:"era,omitempty" validate:"omitempty,max=100"`
	Latitude       *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude      *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`

	IsDirectAncestor *bool `json:"is_direct_ancestor,omitempty"`
}

// UpdateNodeInput carries a partial field set. Type, parent, generation depth
// and child count are not updatable through this path.
type UpdateNodeInput struct {
	Name           *string        `json:"name" validate:"omitempty,min=1,max=200"`
	NameAr         *string        `json:"name_ar" validate:"omitempty,min=1,max=200"`
	Title          NullableString `json:"title" validate:"omitempty,max=100"`
	Epithet        NullableString `json:"epithet" validate:"omitempty,max=200"`
	AlternateNames []string       `json:"alternate_names,omitempty" validate:"omitempty,max=10,dive,max=200"`

	Biography      NullableString `json:"biography" validate:"omitempty,max=5000"`
	BiographyAr    NullableString `json:"biography_ar" validate:"omitempty,max=5000"`
	BirthYear      NullableInt    `json:"birth_year"`
	DeathYear      NullableInt    `json:"death_year"`
	BirthYearHijri NullableInt    `json:"birth_year_hijri"`
	DeathYearHijri NullableInt    `json:"death_year_hijri"`
	BirthPlace     NullableString `json:"birth_place" validate:"omitempty,max=200"`
	Era            NullableString `json:"era" validate:"omitempty,max=100"`
	Latitude       NullableFloat  `json:"latitude"`
	Longitude      NullableFloat  `json:"longitude"`

	IsDirectAncestor *bool `json:"is_direct_ancestor,omitempty"`
	IsConfirmed      *bool `json:"is_confirmed,omitempty"`
}

type NodeSearchInput struct {
	Query  string `json:"query" query:"q" validate:"required,min=2"`
	Limit  int    `json:"limit" query:"limit" validate:"omitempty,min=1,max=50"`
	Offset int    `json:"offset" query:"offset" validate:"omitempty,min=0"`
}

type NodeWithChildren struct {
	LineageNode
	Children []LineageNode `json:"children"`
}

// MapNode is the trimmed projection served to the map view.
type MapNode struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Type      NodeType  `json:"type" db:"type"`
	Name      string    `json:"name" db:"name"`
	NameAr    string    `json:"name_ar" db:"name_ar"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
}
