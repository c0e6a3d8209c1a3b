package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContributionType identifies the kind of change a contribution proposes.
// Only ADD_NODE and EDIT_NODE are applied automatically on approval; the
// remaining types are accepted into the review queue but applied by hand.
type ContributionType string

const (
	ContribAddNode    ContributionType = "ADD_NODE"
	ContribEditNode   ContributionType = "EDIT_NODE"
	ContribMergeNodes ContributionType = "MERGE_NODES"
	ContribAddSource  ContributionType = "ADD_SOURCE"
	ContribAddEvent   ContributionType = "ADD_EVENT"
)

func (t ContributionType) IsValid() bool {
	switch t {
	case ContribAddNode, ContribEditNode, ContribMergeNodes, ContribAddSource, ContribAddEvent:
		return true
	}
	return false
}

// AutoApplies reports whether approving a contribution of this type mutates
// the tree automatically.
func (t ContributionType) AutoApplies() bool {
	return t == ContribAddNode || t == ContribEditNode
}

type ContributionStatus string

const (
	ContribDraft     ContributionStatus = "DRAFT"
	ContribPending   ContributionStatus = "PENDING"
	ContribApproved  ContributionStatus = "APPROVED"
	ContribRejected  ContributionStatus = "REJECTED"
	ContribWithdrawn ContributionStatus = "WITHDRAWN"
)

func (s ContributionStatus) IsValid() bool {
	switch s {
	case ContribDraft, ContribPending, ContribApproved, ContribRejected, ContribWithdrawn:
		return true
	}
	return false
}

// contributionTransitions is the single source of truth for the review
// lifecycle. APPROVED and WITHDRAWN have no outgoing transitions.
var contributionTransitions = map[ContributionStatus][]ContributionStatus{
	ContribDraft:    {ContribPending, ContribWithdrawn},
	ContribPending:  {ContribApproved, ContribRejected, ContribWithdrawn},
	ContribRejected: {ContribPending, ContribWithdrawn},
}

// AllowedTransitions returns the statuses reachable from s. The slice is a
// copy; callers may not mutate the table through it.
func AllowedTransitions(s ContributionStatus) []ContributionStatus {
	allowed := contributionTransitions[s]
	out := make([]ContributionStatus, len(allowed))
	copy(out, allowed)
	return out
}

func (s ContributionStatus) CanTransitionTo(to ContributionStatus) bool {
	for _, a := range contributionTransitions[s] {
		if a == to {
			return true
		}
	}
	return false
}

func (s ContributionStatus) IsTerminal() bool {
	return len(contributionTransitions[s]) == 0 && s.IsValid()
}

// Contribution is a proposed change to the lineage tree. NodeID is the node
// being edited, or the intended parent when adding a node.
type Contribution struct {
	ID             uuid.UUID          `json:"id" db:"id"`
	AuthorID       uuid.UUID          `json:"author_id" db:"author_id"`
	Type           ContributionType   `json:"type" db:"type"`
	NodeID         uuid.UUID          `json:"node_id" db:"node_id"`
	Payload        json.RawMessage    `json:"payload" db:"payload"`
	Status         ContributionStatus `json:"status" db:"status"`
	ReviewerID     *uuid.UUID         `json:"reviewer_id,omitempty" db:"reviewer_id"`
	ReviewNote     *string            `json:"review_note,omitempty" db:"review_note"`
	RejectionCount int                `json:"rejection_count" db:"rejection_count"`
	SubmittedAt    *time.Time         `json:"submitted_at,omitempty" db:"submitted_at"`
	ReviewedAt     *time.Time         `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`

	Author   *User `json:"author,omitempty" db:"-"`
	Reviewer *User `json:"reviewer,omitempty" db:"-"`

	// AllowedNext is filled on read so callers can render what can happen
	// next without duplicating the transition table client-side.
	AllowedNext []ContributionStatus `json:"allowed_next,omitempty" db:"-"`
}

// AddNodePayload is the typed payload of an ADD_NODE contribution. The
// contribution's NodeID names the intended parent.
type AddNodePayload struct {
	Type           NodeType `json:"type,omitempty"`
	Name           string   `json:"name" validate:"required,min=1,max=200"`
	NameAr         string   `json:"name_ar" validate:"required,min=1,max=200"`
	Title          *string  `json:"title,omitempty" validate:"omitempty,max=100"`
	Epithet        *string  `json:"epithet,omitempty" validate:"omitempty,max=200"`
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
}

// EditNodePayload holds the editable field allow-list for EDIT_NODE
// contributions. Fields outside this set are never applied.
type EditNodePayload struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	NameAr    *string `json:"name_ar,omitempty" validate:"omitempty,min=1,max=200"`
	Title     *string `json:"title,omitempty" validate:"omitempty,max=100"`
	Epithet   *string `json:"epithet,omitempty" validate:"omitempty,max=200"`
	Biography *string `json:"biography,omitempty" validate:"omitempty,max=5000"`
	BirthYear *int    `json:"birth_year,omitempty"`
	DeathYear *int    `json:"death_year,omitempty"`
}

type CreateContributionInput struct {
	Type    ContributionType `json:"type" validate:"required"`
	NodeID  uuid.UUID        `json:"node_id" validate:"required"`
	Payload json.RawMessage  `json:"payload" validate:"required"`
	// Draft keeps the contribution out of the review queue until the author
	// submits it explicitly.
	Draft bool `json:"draft,omitempty"`
}

type ReviewContributionInput struct {
	Note *string `json:"note,omitempty" validate:"omitempty,max=500"`
}
