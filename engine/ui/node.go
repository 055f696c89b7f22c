package ui

import (
	"fmt"

	"github.com/sqgui/sqgui/engine/geom"
)

// NodeID is a stable generational handle into the tree's node arena. Removing
// a subtree bumps the generation of its slots, so stale ids held by the
// application can never alias a node created later in the same slot.
type NodeID struct {
	idx uint32
	gen uint32
}

// Valid reports whether the id was ever issued. It says nothing about whether
// the node is still alive; use Tree.Get for that.
func (id NodeID) Valid() bool { return id.gen != 0 }

func (id NodeID) String() string {
	if !id.Valid() {
		return "node(nil)"
	}
	return fmt.Sprintf("node(%d.%d)", id.idx, id.gen)
}

// Kind is the closed set of element kinds. Layout and paint resolution switch
// over it exhaustively instead of using open-ended dynamic dispatch.
type Kind uint8

const (
	KindPanel Kind = iota
	KindLabel
	KindButton
	KindImage
	KindSlider
	KindTextInput
)

func (k Kind) String() string {
	switch k {
	case KindPanel:
		return "panel"
	case KindLabel:
		return "label"
	case KindButton:
		return "button"
	case KindImage:
		return "image"
	case KindSlider:
		return "slider"
	case KindTextInput:
		return "textinput"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// StateFlags are the router-mutated visual states fed to the paint resolver.
type StateFlags uint8

const (
	StateHovered StateFlags = 1 << iota
	StatePressed
	StateFocused
	StateDisabled
)

func (s StateFlags) Has(f StateFlags) bool { return s&f != 0 }

// Node is one UI component instance. The tree's arena owns all nodes;
// parent references are id back-links, never ownership.
type Node struct {
	id       NodeID
	parent   NodeID
	children []NodeID

	Kind  Kind
	Style Style

	// Content. Which fields matter depends on Kind.
	Text     string
	Font     string
	FontSize float32
	Texture  string  // named texture for KindImage and 9-patch backgrounds
	Value    float32 // slider position in [0,1]

	// Paint-order and input flags.
	Z             int
	Visible       bool
	PassThrough   bool // input-transparent: never a hit target, children still are
	ClipToBounds  bool // point outside the rect cannot hit descendants
	OpaqueContent bool // fills its whole rect; enables occlusion culling behind it

	// Router-mutated state.
	State StateFlags

	// Layout output. rect is valid only after layout has run.
	rect        geom.Rect
	measured    geom.Size
	measureVer  uint64
	measureCons Constraints
	overflowing bool
	failed      bool // subtree hit an unresolved constraint; laid out at zero size

	dirty bool
}

// ID returns the node's stable identifier.
func (n *Node) ID() NodeID { return n.id }

// Parent returns the parent id, invalid for the root.
func (n *Node) Parent() NodeID { return n.parent }

// Children returns the ordered child ids. The slice is owned by the tree;
// callers must not mutate it.
func (n *Node) Children() []NodeID { return n.children }

// Rect returns the resolved rectangle from the most recent layout.
func (n *Node) Rect() geom.Rect { return n.rect }

// Overflowing reports whether the last arrange pass found the children's
// preferred sizes exceeding the available space. The scroll/overflow
// collaborator decides between clipping and scrolling; the engine does not
// shrink children silently.
func (n *Node) Overflowing() bool { return n.overflowing }

// Failed reports whether this node's subtree was zero-sized because of an
// unresolved constraint.
func (n *Node) Failed() bool { return n.failed }
