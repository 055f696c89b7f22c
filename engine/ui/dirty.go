package ui

import "github.com/sqgui/sqgui/engine/geom"

// DirtyTracker accumulates invalidation between frames. Every mutation marks
// its node here (via the tree's mutate hook); the frame orchestrator drains
// the tracker once per frame and feeds the frontier to the layout engine and
// the damage bounds to the batcher.
//
// Damage captured at mark time is the node's rect from the previous layout
// (the "old" rect). New rects join the damage after layout, from the rect
// changes it reports. Marking is idempotent: re-marking an already dirty node
// is a no-op beyond the rect union.
type DirtyTracker struct {
	tree     *Tree
	frontier map[NodeID]bool
	damage   geom.Rect
	full     bool
}

// NewDirtyTracker creates a tracker and installs it as the tree's mutate
// hook, replacing any previous hook.
func NewDirtyTracker(t *Tree) *DirtyTracker {
	dt := &DirtyTracker{tree: t, frontier: make(map[NodeID]bool)}
	t.SetMutateHook(dt.Mark)
	return dt
}

// Mark flags a node as needing relayout and repaint. The dirty flag walks up
// the ancestor chain until it hits a size-locked node, since only ancestors
// whose measure can be affected need to participate in the next pass.
func (dt *DirtyTracker) Mark(id NodeID) {
	n := dt.tree.Get(id)
	if n == nil {
		return
	}
	if !dt.frontier[id] {
		dt.frontier[id] = true
		n.dirty = true
	}
	dt.damage = dt.damage.Union(n.rect)

	for cur := n; !cur.Style.SizeLocked(); {
		p := dt.tree.Get(cur.parent)
		if p == nil {
			break
		}
		if dt.frontier[p.id] {
			break
		}
		dt.frontier[p.id] = true
		p.dirty = true
		cur = p
	}
}

// MarkRect adds raw damage without touching layout, for paint-only changes
// such as state-driven color swaps that are tracked outside the tree.
func (dt *DirtyTracker) MarkRect(r geom.Rect) {
	dt.damage = dt.damage.Union(r)
}

// MarkAll requests a full relayout and rebuild, used on viewport resize.
func (dt *DirtyTracker) MarkAll() {
	dt.full = true
}

// Dirty reports whether anything has been marked since the last Take.
func (dt *DirtyTracker) Dirty() bool {
	return dt.full || len(dt.frontier) > 0 || !dt.damage.Empty()
}

// Take drains the tracker and resets it for the next frame. frontier is nil
// when a full relayout was requested.
func (dt *DirtyTracker) Take() (frontier map[NodeID]bool, damage geom.Rect, full bool) {
	frontier, damage, full = dt.frontier, dt.damage, dt.full
	if full {
		frontier = nil
	}
	dt.frontier = make(map[NodeID]bool)
	dt.damage = geom.Rect{}
	dt.full = false
	return frontier, damage, full
}
