package ui

import "fmt"

// LayoutErrorKind classifies layout failures.
type LayoutErrorKind uint8

const (
	// UnresolvedConstraint marks a cyclic or contradictory sizing
	// configuration. Fatal to the affected subtree only: it is laid out at
	// zero size and the error surfaces to the caller.
	UnresolvedConstraint LayoutErrorKind = iota

	// InvalidTree marks a dangling parent/child reference. This is a
	// programming error and is never recovered.
	InvalidTree
)

func (k LayoutErrorKind) String() string {
	switch k {
	case UnresolvedConstraint:
		return "unresolved constraint"
	case InvalidTree:
		return "invalid tree"
	default:
		return fmt.Sprintf("layout error(%d)", uint8(k))
	}
}

// LayoutError reports a layout failure with the node that caused it.
type LayoutError struct {
	Kind   LayoutErrorKind
	Node   NodeID
	Detail string
}

func (e *LayoutError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("layout: %s at %s", e.Kind, e.Node)
	}
	return fmt.Sprintf("layout: %s at %s: %s", e.Kind, e.Node, e.Detail)
}

func unresolvedErr(id NodeID, detail string) *LayoutError {
	return &LayoutError{Kind: UnresolvedConstraint, Node: id, Detail: detail}
}

func invalidTreeErr(id NodeID, detail string) *LayoutError {
	return &LayoutError{Kind: InvalidTree, Node: id, Detail: detail}
}
