package ui

import (
	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
)

// Event is the closed set of routed UI events. Every variant carries Target,
// the innermost node of the hit path; handlers also receive the node the
// event is currently visiting while it bubbles.
type Event interface{ isUIEvent() }

// GesturePhase tracks the lifecycle of a recognized gesture.
type GesturePhase uint8

const (
	GestureBegin GesturePhase = iota
	GestureUpdate
	GestureEnd
	GestureCancel
)

func (p GesturePhase) String() string {
	switch p {
	case GestureBegin:
		return "begin"
	case GestureUpdate:
		return "update"
	case GestureEnd:
		return "end"
	default:
		return "cancel"
	}
}

type PointerDownEvent struct {
	Target  NodeID
	Pointer core.PointerID
	Button  core.MouseButton
	Pos     geom.Point
	Local   geom.Point
}

type PointerUpEvent struct {
	Target  NodeID
	Pointer core.PointerID
	Button  core.MouseButton
	Pos     geom.Point
}

type PointerMoveEvent struct {
	Target  NodeID
	Pointer core.PointerID
	Pos     geom.Point
}

// ClickEvent fires on pointer-up over the same target the press started on,
// provided no drag began in between.
type ClickEvent struct {
	Target NodeID
	Button core.MouseButton
	Pos    geom.Point
}

type ScrollEvent struct {
	Target NodeID
	Pos    geom.Point
	DX, DY float32
}

type KeyEvent struct {
	Target NodeID
	Key    core.Key
	Down   bool
	Mods   core.Mod
}

type CharEvent struct {
	Target NodeID
	Rune   rune
}

type FocusEvent struct {
	Target NodeID
	Gained bool
}

// DragEvent reports single-pointer drag progress on the press target.
type DragEvent struct {
	Target  NodeID
	Pointer core.PointerID
	Phase   GesturePhase
	Start   geom.Point
	Pos     geom.Point
	Delta   geom.Point // movement since the previous drag event
}

// PinchEvent reports two-pointer scale gestures.
type PinchEvent struct {
	Target NodeID
	Phase  GesturePhase
	Center geom.Point
	Scale  float32 // current spread relative to the spread at pinch start
}

func (PointerDownEvent) isUIEvent() {}
func (PointerUpEvent) isUIEvent()   {}
func (PointerMoveEvent) isUIEvent() {}
func (ClickEvent) isUIEvent()       {}
func (ScrollEvent) isUIEvent()      {}
func (KeyEvent) isUIEvent()         {}
func (CharEvent) isUIEvent()        {}
func (FocusEvent) isUIEvent()       {}
func (DragEvent) isUIEvent()        {}
func (PinchEvent) isUIEvent()       {}

// Handler receives an event while it visits node id on the bubbling path.
// Returning true consumes the event and stops further bubbling.
type Handler func(id NodeID, ev Event) bool

// Router turns raw platform events into routed UI events against the latest
// layout: hit test, bubbling with consumption, focus bookkeeping, and the
// hover/pressed state flags the paint resolver reads. One router owns one
// tree's input state.
type Router struct {
	tree     *Tree
	handlers map[NodeID]Handler

	focus   NodeID
	hovered NodeID

	gestures gestureState
}

// NewRouter creates a router over the tree. dragThresholdPx is the movement
// (in pixels) before a press turns into a drag; zero selects the default.
func NewRouter(t *Tree, dragThresholdPx float32) *Router {
	if dragThresholdPx <= 0 {
		dragThresholdPx = defaultDragThreshold
	}
	r := &Router{
		tree:     t,
		handlers: make(map[NodeID]Handler),
	}
	r.gestures.init(dragThresholdPx)
	return r
}

// Handle registers the handler bubbled events visit at node id. A nil handler
// unregisters.
func (r *Router) Handle(id NodeID, h Handler) {
	if h == nil {
		delete(r.handlers, id)
		return
	}
	r.handlers[id] = h
}

// Focus returns the currently focused node, invalid if none.
func (r *Router) Focus() NodeID { return r.focus }

// SetFocus moves keyboard focus, emitting FocusEvents to the old and new
// holders. An invalid id clears focus.
func (r *Router) SetFocus(id NodeID) {
	if id == r.focus {
		return
	}
	if old := r.tree.Get(r.focus); old != nil {
		r.tree.setState(r.focus, StateFocused, false)
		r.deliver(r.focus, FocusEvent{Target: r.focus, Gained: false})
	}
	r.focus = NodeID{}
	n := r.tree.Get(id)
	if n == nil {
		return
	}
	r.focus = id
	r.tree.setState(id, StateFocused, true)
	r.deliver(id, FocusEvent{Target: id, Gained: true})
}

// Dispatch routes one platform event against the most recent layout.
// It returns true when some handler consumed the event.
func (r *Router) Dispatch(ev core.Event) bool {
	switch e := ev.(type) {
	case core.EventPointerDown:
		return r.pointerDown(e)
	case core.EventPointerUp:
		return r.pointerUp(e)
	case core.EventPointerMove:
		return r.pointerMove(e)
	case core.EventScroll:
		return r.scroll(e)
	case core.EventKey:
		return r.routeKey(KeyEvent{Target: r.focus, Key: e.Key, Down: e.Down, Mods: e.Mods})
	case core.EventChar:
		return r.routeKey(CharEvent{Target: r.focus, Rune: e.Rune})
	case core.EventWindowFocus:
		if !e.Focused {
			r.windowBlurred()
		}
		return false
	default:
		return false
	}
}

func (r *Router) pointerDown(e core.EventPointerDown) bool {
	p := geom.Pt(e.X, e.Y)
	rec := r.tree.HitTest(p)
	target := rec.Target()
	n := r.tree.Get(target)

	if n != nil && !n.State.Has(StateDisabled) {
		r.tree.setState(target, StatePressed, true)
		if focusable(n.Kind) {
			r.SetFocus(target)
		} else {
			r.SetFocus(NodeID{})
		}
	} else if n == nil {
		r.SetFocus(NodeID{})
	}

	r.gestures.down(r, e.Pointer, rec, p)
	if rec.Empty() {
		return false
	}
	return r.bubble(rec.Path, PointerDownEvent{
		Target:  target,
		Pointer: e.Pointer,
		Button:  e.Button,
		Pos:     p,
		Local:   rec.Local,
	})
}

func (r *Router) pointerUp(e core.EventPointerUp) bool {
	p := geom.Pt(e.X, e.Y)
	track, dragged := r.gestures.up(r, e.Pointer, p)

	if track != nil {
		if t := r.tree.Get(track.target); t != nil {
			r.tree.setState(track.target, StatePressed, false)
		}
	}

	rec := r.tree.HitTest(p)
	consumed := false
	if !rec.Empty() {
		consumed = r.bubble(rec.Path, PointerUpEvent{
			Target:  rec.Target(),
			Pointer: e.Pointer,
			Button:  e.Button,
			Pos:     p,
		})
	}

	// A click requires press and release on the same target with no drag.
	if track != nil && !dragged && rec.Target() == track.target && track.target.Valid() {
		if n := r.tree.Get(track.target); n != nil && !n.State.Has(StateDisabled) {
			if r.bubble(track.path, ClickEvent{Target: track.target, Button: e.Button, Pos: p}) {
				consumed = true
			}
		}
	}
	return consumed
}

func (r *Router) pointerMove(e core.EventPointerMove) bool {
	p := geom.Pt(e.X, e.Y)
	rec := r.tree.HitTest(p)
	r.updateHover(rec.Target())
	r.gestures.move(r, e.Pointer, p)
	if rec.Empty() {
		return false
	}
	return r.bubble(rec.Path, PointerMoveEvent{
		Target:  rec.Target(),
		Pointer: e.Pointer,
		Pos:     p,
	})
}

func (r *Router) scroll(e core.EventScroll) bool {
	p := geom.Pt(e.X, e.Y)
	rec := r.tree.HitTest(p)
	if rec.Empty() {
		return false
	}
	return r.bubble(rec.Path, ScrollEvent{Target: rec.Target(), Pos: p, DX: e.Xoff, DY: e.Yoff})
}

// routeKey sends keyboard input to the focused node first, bubbling up from
// it; without focus it falls back to the viewport root.
func (r *Router) routeKey(ev Event) bool {
	start := r.focus
	if !start.Valid() {
		start = r.tree.Root()
	}
	n := r.tree.Get(start)
	if n == nil {
		return false
	}
	path := []NodeID{start}
	for cur := n.parent; cur.Valid(); {
		pn := r.tree.Get(cur)
		if pn == nil {
			break
		}
		path = append(path, cur)
		cur = pn.parent
	}
	return r.bubble(path, ev)
}

func (r *Router) updateHover(target NodeID) {
	if target == r.hovered {
		return
	}
	if old := r.tree.Get(r.hovered); old != nil {
		r.tree.setState(r.hovered, StateHovered, false)
	}
	r.hovered = target
	if n := r.tree.Get(target); n != nil && !n.State.Has(StateDisabled) {
		r.tree.setState(target, StateHovered, true)
	} else {
		r.hovered = NodeID{}
	}
}

// windowBlurred resets all transient input state deterministically: gestures
// cancel, hover and pressed flags clear. Focus survives blur.
func (r *Router) windowBlurred() {
	r.CancelGestures()
	r.updateHover(NodeID{})
}

// CancelGestures aborts every in-flight gesture, emitting cancel-phase events
// to their targets and clearing pressed state. Safe to call with no gesture
// active.
func (r *Router) CancelGestures() {
	r.gestures.cancel(r)
}

// bubble delivers ev from the innermost node outward, stopping at the first
// handler that consumes it.
func (r *Router) bubble(path []NodeID, ev Event) bool {
	for _, id := range path {
		if h := r.handlers[id]; h != nil && h(id, ev) {
			return true
		}
	}
	return false
}

// deliver invokes a single node's handler without bubbling.
func (r *Router) deliver(id NodeID, ev Event) {
	if h := r.handlers[id]; h != nil {
		h(id, ev)
	}
}

func focusable(k Kind) bool {
	switch k {
	case KindButton, KindSlider, KindTextInput:
		return true
	default:
		return false
	}
}
