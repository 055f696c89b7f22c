package ui

import "github.com/sqgui/sqgui/engine/geom"

// HitRecord is the ephemeral result of a hit test: the node chain ordered
// from the innermost hit node to the outermost ancestor (the bubbling path).
// Records are built against one layout pass and must not be kept across
// frames.
type HitRecord struct {
	Path  []NodeID
	Local geom.Point // point relative to the innermost node's origin
}

// Empty reports whether the hit missed everything.
func (r HitRecord) Empty() bool { return len(r.Path) == 0 }

// Target returns the innermost hit node, invalid on a miss.
func (r HitRecord) Target() NodeID {
	if len(r.Path) == 0 {
		return NodeID{}
	}
	return r.Path[0]
}

// HitTest resolves the topmost visible node containing p, against the most
// recently resolved layout. Children are tested front-to-back (descending Z,
// later siblings first for equal Z), so overlap resolves to whatever paints
// on top. Pass-through nodes are transparent to input themselves but their
// children remain targets. A clipping node whose rect excludes p hides its
// whole subtree. An empty tree returns an empty record.
func (t *Tree) HitTest(p geom.Point) HitRecord {
	root := t.Root()
	if !root.Valid() {
		return HitRecord{}
	}
	id, ok := t.hitNode(root, p)
	if !ok {
		return HitRecord{}
	}

	rec := HitRecord{Path: []NodeID{id}}
	n := t.Get(id)
	rec.Local = geom.Pt(p.X-n.rect.X, p.Y-n.rect.Y)
	for cur := n.parent; cur.Valid(); {
		pn := t.Get(cur)
		if pn == nil {
			break
		}
		rec.Path = append(rec.Path, cur)
		cur = pn.parent
	}
	return rec
}

func (t *Tree) hitNode(id NodeID, p geom.Point) (NodeID, bool) {
	n := t.Get(id)
	if n == nil || !n.Visible {
		return NodeID{}, false
	}
	inside := n.rect.Contains(p)
	if n.ClipToBounds && !inside {
		return NodeID{}, false
	}

	// Front-to-back: reverse paint order.
	order := t.paintChildren(n)
	for i := len(order) - 1; i >= 0; i-- {
		if hit, ok := t.hitNode(order[i], p); ok {
			return hit, true
		}
	}

	if inside && !n.PassThrough {
		return id, true
	}
	return NodeID{}, false
}
