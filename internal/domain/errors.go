package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNodeNotFound         = errors.New("lineage node not found")
	ErrContributionNotFound = errors.New("contribution not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrMediaNotFound        = errors.New("media not found")
	ErrEventNotFound        = errors.New("historical event not found")
	ErrDnaMarkerNotFound    = errors.New("dna marker not found")
	ErrForbidden            = errors.New("insufficient permissions")
	// ErrConflict is returned when a compare-and-set against the store fails
	// because another writer got there first.
	ErrConflict = errors.New("resource was modified concurrently")
)

// InvalidInputError names the missing or malformed field so the caller can
// render an actionable message.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// InvalidHierarchyError reports a child type shallower than its parent's,
// together with the set of types that would have been acceptable.
type InvalidHierarchyError struct {
	ParentType NodeType
	ChildType  NodeType
	Allowed    []NodeType
}

func (e *InvalidHierarchyError) Error() string {
	return fmt.Sprintf("invalid hierarchy: %s cannot be a child of %s (acceptable: %v)",
		e.ChildType, e.ParentType, e.Allowed)
}

// InvalidTransitionError reports a contribution status transition outside the
// allowed table. Allowed is empty when From is terminal.
type InvalidTransitionError struct {
	From      ContributionStatus
	Requested ContributionStatus
	Allowed   []ContributionStatus
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid transition: %s is terminal, cannot move to %s", e.From, e.Requested)
	}
	return fmt.Sprintf("invalid transition: %s -> %s (allowed: %v)", e.From, e.Requested, e.Allowed)
}

// HasActiveChildrenError blocks archiving a node that still has non-archived
// children.
type HasActiveChildrenError struct {
	NodeID         uuid.UUID
	ActiveChildren int
}

func (e *HasActiveChildrenError) Error() string {
	return fmt.Sprintf("node %s has %d active children and cannot be archived", e.NodeID, e.ActiveChildren)
}
