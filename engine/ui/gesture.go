package ui

import (
	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
)

const defaultDragThreshold = 4

// pointerTrack is the per-pointer state between press and release.
type pointerTrack struct {
	pointer  core.PointerID
	target   NodeID
	path     []NodeID
	start    geom.Point
	prev     geom.Point
	pos      geom.Point
	dragging bool
	pinched  bool
}

// gestureState is the router's stateful gesture sub-protocol, keyed by
// pointer id. A drag begins when one tracked pointer moves past the distance
// threshold; a pinch begins as soon as a second pointer goes down, claiming
// both pointers for the remainder of their contact. Cancellation resets
// everything without emitting end-phase events.
type gestureState struct {
	threshold float32
	tracks    map[core.PointerID]*pointerTrack
	order     []core.PointerID

	pinch     bool
	pinchBase float32
	pinchPath []NodeID
}

func (g *gestureState) init(threshold float32) {
	g.threshold = threshold
	g.tracks = make(map[core.PointerID]*pointerTrack)
}

func (g *gestureState) down(r *Router, id core.PointerID, rec HitRecord, p geom.Point) {
	if _, exists := g.tracks[id]; exists {
		return
	}
	g.tracks[id] = &pointerTrack{
		pointer: id,
		target:  rec.Target(),
		path:    rec.Path,
		start:   p,
		prev:    p,
		pos:     p,
	}
	g.order = append(g.order, id)

	if !g.pinch && len(g.order) >= 2 {
		a, b := g.tracks[g.order[0]], g.tracks[g.order[1]]
		base := a.pos.Dist(b.pos)
		if base > 0 {
			g.pinch = true
			g.pinchBase = base
			g.pinchPath = a.path
			a.pinched, b.pinched = true, true
			// A drag in progress yields to the pinch.
			if a.dragging {
				a.dragging = false
				r.bubble(a.path, DragEvent{
					Target: a.target, Pointer: a.pointer, Phase: GestureEnd,
					Start: a.start, Pos: a.pos,
				})
			}
			r.bubble(g.pinchPath, g.pinchEvent(GestureBegin))
		}
	}
}

func (g *gestureState) move(r *Router, id core.PointerID, p geom.Point) {
	t := g.tracks[id]
	if t == nil {
		return
	}
	t.prev = t.pos
	t.pos = p

	if g.pinch {
		if t.pinched {
			r.bubble(g.pinchPath, g.pinchEvent(GestureUpdate))
		}
		return
	}
	if t.pinched {
		// Finger left over from a finished pinch: it stays claimed by the
		// gesture until release and cannot start a drag.
		return
	}

	if !t.dragging {
		if t.start.Dist(p) < g.threshold {
			return
		}
		t.dragging = true
		r.bubble(t.path, DragEvent{
			Target: t.target, Pointer: id, Phase: GestureBegin,
			Start: t.start, Pos: p,
			Delta: p.Sub(t.start),
		})
		return
	}
	r.bubble(t.path, DragEvent{
		Target: t.target, Pointer: id, Phase: GestureUpdate,
		Start: t.start, Pos: p,
		Delta: p.Sub(t.prev),
	})
}

// up releases a pointer and returns its track plus whether a gesture consumed
// the press (suppressing the click).
func (g *gestureState) up(r *Router, id core.PointerID, p geom.Point) (*pointerTrack, bool) {
	t := g.tracks[id]
	if t == nil {
		return nil, false
	}
	t.pos = p

	if t.pinched {
		if g.pinch {
			ev := g.pinchEvent(GestureEnd)
			g.pinch = false
			g.remove(id)
			r.bubble(g.pinchPath, ev)
			g.pinchPath = nil
			return t, true
		}
		// The pinch already ended with the other finger; this press was still
		// consumed by it, so no click may come out of the release.
		g.remove(id)
		return t, true
	}
	g.remove(id)
	if t.dragging {
		r.bubble(t.path, DragEvent{
			Target: t.target, Pointer: id, Phase: GestureEnd,
			Start: t.start, Pos: p,
			Delta: p.Sub(t.prev),
		})
		return t, true
	}
	return t, false
}

// cancel aborts every gesture deterministically: cancel-phase events go out,
// pressed flags clear, and all tracking state resets.
func (g *gestureState) cancel(r *Router) {
	if g.pinch {
		g.pinch = false
		r.bubble(g.pinchPath, g.pinchEvent(GestureCancel))
	}
	for _, id := range g.order {
		t := g.tracks[id]
		if t == nil {
			continue
		}
		if t.dragging {
			r.bubble(t.path, DragEvent{
				Target: t.target, Pointer: t.pointer, Phase: GestureCancel,
				Start: t.start, Pos: t.pos,
			})
		}
		r.tree.setState(t.target, StatePressed, false)
	}
	g.tracks = make(map[core.PointerID]*pointerTrack)
	g.order = g.order[:0]
	g.pinchPath = nil
	g.pinchBase = 0
}

// pinchEvent computes the current pinch center and scale from the two oldest
// tracked pointers.
func (g *gestureState) pinchEvent(phase GesturePhase) PinchEvent {
	a, b := g.tracks[g.order[0]], g.tracks[g.order[1]]
	target := NodeID{}
	if len(g.pinchPath) > 0 {
		target = g.pinchPath[0]
	}
	scale := float32(1)
	if g.pinchBase > 0 {
		scale = a.pos.Dist(b.pos) / g.pinchBase
	}
	return PinchEvent{
		Target: target,
		Phase:  phase,
		Center: geom.Pt((a.pos.X+b.pos.X)/2, (a.pos.Y+b.pos.Y)/2),
		Scale:  scale,
	}
}

func (g *gestureState) remove(id core.PointerID) {
	delete(g.tracks, id)
	for i, o := range g.order {
		if o == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}
