package ui

import (
	"sort"

	"github.com/sqgui/sqgui/engine/geom"
)

type slot struct {
	node Node
	gen  uint32
	live bool
}

// Tree is the full ordered hierarchy of nodes rooted at a viewport node.
// Nodes live in a slot arena keyed by generational ids: children are owned
// top-down, parent links are back-references, and deletion walks down, never
// up. The tree is exclusively owned by the render thread; no locking.
type Tree struct {
	slots []slot
	free  []uint32
	root  NodeID

	// onMutate fires for every structural or content mutation so the frame
	// orchestrator can hook dirty tracking without the tree importing it.
	onMutate func(NodeID)
}

func NewTree() *Tree { return &Tree{} }

// SetMutateHook installs the dirty-marking callback. Passing nil detaches it.
func (t *Tree) SetMutateHook(fn func(NodeID)) { t.onMutate = fn }

func (t *Tree) notify(id NodeID) {
	if t.onMutate != nil {
		t.onMutate(id)
	}
}

// Root returns the viewport node id, invalid when the tree is empty.
func (t *Tree) Root() NodeID { return t.root }

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].live {
			n++
		}
	}
	return n
}

// Get resolves an id to its node, or nil when the id is stale or invalid.
func (t *Tree) Get(id NodeID) *Node {
	if !id.Valid() || int(id.idx) >= len(t.slots) {
		return nil
	}
	s := &t.slots[id.idx]
	if !s.live || s.gen != id.gen {
		return nil
	}
	return &s.node
}

func (t *Tree) alloc(kind Kind, style Style) NodeID {
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		idx = uint32(len(t.slots) - 1)
	}
	s := &t.slots[idx]
	s.gen++
	s.live = true
	id := NodeID{idx: idx, gen: s.gen}
	s.node = Node{
		id:      id,
		Kind:    kind,
		Style:   style,
		Visible: true,
		dirty:   true,
	}
	return id
}

// NewRoot creates the viewport node. Any previous tree content is destroyed.
func (t *Tree) NewRoot(style Style) NodeID {
	if t.root.Valid() {
		t.Remove(t.root)
	}
	t.root = t.alloc(KindPanel, style)
	t.notify(t.root)
	return t.root
}

// New creates a node of the given kind under parent and returns its id.
func (t *Tree) New(parent NodeID, kind Kind, style Style) (NodeID, error) {
	if t.Get(parent) == nil {
		return NodeID{}, invalidTreeErr(parent, "parent does not exist")
	}
	id := t.alloc(kind, style)
	t.Get(id).parent = parent
	// alloc can grow the slot arena, invalidating node pointers taken before
	// it; the parent must be re-resolved here.
	p := t.Get(parent)
	p.children = append(p.children, id)
	t.notify(parent)
	return id, nil
}

// Remove destroys the node and its whole subtree. Removing the root empties
// the tree. Stale ids into the removed subtree resolve to nil afterwards.
func (t *Tree) Remove(id NodeID) error {
	n := t.Get(id)
	if n == nil {
		return invalidTreeErr(id, "remove of dead node")
	}
	parent := n.parent

	// Notify before destruction so the tracker can capture the dying rect.
	t.notify(id)

	if p := t.Get(parent); p != nil {
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
		t.notify(parent)
	}

	t.destroy(id)
	if id == t.root {
		t.root = NodeID{}
	}
	return nil
}

func (t *Tree) destroy(id NodeID) {
	n := t.Get(id)
	if n == nil {
		return
	}
	for _, c := range n.children {
		t.destroy(c)
	}
	s := &t.slots[id.idx]
	s.live = false
	s.node = Node{}
	t.free = append(t.free, id.idx)
}

// --- content mutation ---

// SetText replaces a node's text content and marks it dirty.
func (t *Tree) SetText(id NodeID, text string) {
	n := t.Get(id)
	if n == nil || n.Text == text {
		return
	}
	n.Text = text
	t.notify(id)
}

// SetStyle replaces a node's layout constraints and marks it dirty.
func (t *Tree) SetStyle(id NodeID, style Style) {
	n := t.Get(id)
	if n == nil {
		return
	}
	n.Style = style
	t.notify(id)
}

// SetVisible toggles visibility and marks the node dirty.
func (t *Tree) SetVisible(id NodeID, v bool) {
	n := t.Get(id)
	if n == nil || n.Visible == v {
		return
	}
	n.Visible = v
	t.notify(id)
}

// SetValue updates a slider position (clamped to [0,1]) and marks it dirty.
func (t *Tree) SetValue(id NodeID, v float32) {
	n := t.Get(id)
	if n == nil {
		return
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	if n.Value == v {
		return
	}
	n.Value = v
	t.notify(id)
}

func (t *Tree) setState(id NodeID, flags StateFlags, on bool) {
	n := t.Get(id)
	if n == nil {
		return
	}
	old := n.State
	if on {
		n.State |= flags
	} else {
		n.State &^= flags
	}
	if n.State != old {
		// Paint depends on state; geometry does not, but the damage region
		// must cover the repaint.
		t.notify(id)
	}
}

// --- traversal ---

// Walk visits the subtree rooted at id depth-first in child order.
// Returning false from fn skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(*Node) bool) {
	n := t.Get(id)
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		t.Walk(c, fn)
	}
}

// paintChildren returns the children of n sorted back-to-front: ascending Z,
// insertion order for equal Z. The slice is freshly allocated.
func (t *Tree) paintChildren(n *Node) []NodeID {
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := t.Get(out[i]), t.Get(out[j])
		if a == nil || b == nil {
			return false
		}
		return a.Z < b.Z
	})
	return out
}

// Validate checks the structural invariants: acyclic, single root, every
// child's parent back-reference matches, no dangling ids. A violation is a
// programming error surfaced as InvalidTree.
func (t *Tree) Validate() error {
	if !t.root.Valid() {
		return nil // empty tree is valid
	}
	if t.Get(t.root) == nil {
		return invalidTreeErr(t.root, "root id is stale")
	}

	seen := map[NodeID]bool{}
	var check func(id NodeID) error
	check = func(id NodeID) error {
		if seen[id] {
			return invalidTreeErr(id, "node reachable twice (cycle or shared child)")
		}
		seen[id] = true
		n := t.Get(id)
		if n == nil {
			return invalidTreeErr(id, "dangling child reference")
		}
		for _, c := range n.children {
			cn := t.Get(c)
			if cn == nil {
				return invalidTreeErr(c, "dangling child reference")
			}
			if cn.parent != id {
				return invalidTreeErr(c, "parent back-reference mismatch")
			}
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(t.root); err != nil {
		return err
	}

	// Every live slot must be reachable from the root.
	for i := range t.slots {
		s := &t.slots[i]
		if s.live && !seen[s.node.id] {
			return invalidTreeErr(s.node.id, "live node not reachable from root")
		}
	}
	return nil
}

// contentRect returns the node's rect minus padding.
func (n *Node) contentRect() geom.Rect { return n.rect.Inset(n.Style.Padding) }
