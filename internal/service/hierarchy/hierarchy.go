// Package hierarchy enforces the node-type ordering of the lineage tree:
// ROOT < TRIBE < CLAN < FAMILY < INDIVIDUAL. A child may be the same type as
// its parent or deeper, never shallower — the tree narrows downward and never
// widens back up.
package hierarchy

import (
	"github.com/z3by/arabtree-sub000/internal/domain"
)

// AllowedChildTypes returns the node types acceptable directly under a
// parent of the given type. ROOT is never acceptable as a child: a root node
// has no parent by definition.
func AllowedChildTypes(parentType domain.NodeType) []domain.NodeType {
	idx := parentType.Index()
	if idx < 0 {
		return nil
	}

	var allowed []domain.NodeType
	for _, t := range domain.NodeTypeOrder {
		if t == domain.TypeRoot {
			continue
		}
		if t.Index() >= idx {
			allowed = append(allowed, t)
		}
	}
	return allowed
}

// ValidateChild checks a prospective child's type against its parent's.
// parentType is nil when creating a parentless node, which only a ROOT may
// be. The check is pure; it is run at node creation and would equally apply
// to re-parenting if that were ever supported.
func ValidateChild(parentType *domain.NodeType, childType domain.NodeType) error {
	if !childType.IsValid() {
		return domain.NewInvalidInput("type", "must be one of ROOT, TRIBE, CLAN, FAMILY, INDIVIDUAL")
	}

	if parentType == nil {
		if childType != domain.TypeRoot {
			return domain.NewInvalidInput("parent_id", "is required for non-root nodes")
		}
		return nil
	}

	if !parentType.IsValid() {
		return domain.NewInvalidInput("parent type", "is not a known node type")
	}

	if childType == domain.TypeRoot || childType.Index() < parentType.Index() {
		return &domain.InvalidHierarchyError{
			ParentType: *parentType,
			ChildType:  childType,
			Allowed:    AllowedChildTypes(*parentType),
		}
	}

	return nil
}
