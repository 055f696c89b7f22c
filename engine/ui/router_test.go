package ui

import (
	"testing"

	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
)

// overlapTree builds a root with two overlapping siblings: a at z=1 and b at
// z=2, both covering (100,100)-(300,200).
func overlapTree(t *testing.T) (*Tree, NodeID, NodeID, NodeID) {
	t.Helper()
	tr := NewTree()
	rootStyle := DefaultStyle()
	rootStyle.Mode = ModeStack
	root := tr.NewRoot(rootStyle)

	st := fixedStyle(200, 100)
	st.Margin = geom.Insets{L: 100, T: 100}
	a, _ := tr.New(root, KindPanel, st)
	b, _ := tr.New(root, KindPanel, st)
	tr.Get(a).Z = 1
	tr.Get(b).Z = 2

	le := NewLayoutEngine(nil)
	if _, err := le.Layout(tr, geom.Size{W: 800, H: 600}, nil); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return tr, root, a, b
}

func TestHitTest_TopmostZOrderWins(t *testing.T) {
	tr, root, a, b := overlapTree(t)

	rec := tr.HitTest(geom.Pt(150, 150))
	if rec.Empty() {
		t.Fatalf("hit missed covered point")
	}
	if rec.Target() != b {
		t.Errorf("target = %v, want higher-z sibling %v (not %v)", rec.Target(), b, a)
	}
	if len(rec.Path) != 2 || rec.Path[1] != root {
		t.Errorf("path = %v, want [b root]", rec.Path)
	}
	if rec.Local != geom.Pt(50, 50) {
		t.Errorf("local = %+v, want (50,50)", rec.Local)
	}
}

func TestHitTest_PassThroughSkipsNodeNotChildren(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	overlay, _ := tr.New(root, KindPanel, fixedStyle(400, 400))
	tr.Get(overlay).PassThrough = true
	btn, _ := tr.New(overlay, KindButton, fixedStyle(100, 50))

	le := NewLayoutEngine(nil)
	le.Layout(tr, geom.Size{W: 800, H: 600}, nil)

	if got := tr.HitTest(geom.Pt(50, 25)).Target(); got != btn {
		t.Errorf("hit inside child = %v, want %v", got, btn)
	}
	// Outside the child but inside the pass-through overlay: falls to root.
	if got := tr.HitTest(geom.Pt(300, 300)).Target(); got != root {
		t.Errorf("hit on pass-through body = %v, want root %v", got, root)
	}
}

func TestHitTest_ClipToBoundsHidesOverflowingChild(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	clip, _ := tr.New(root, KindPanel, fixedStyle(100, 100))
	tr.Get(clip).ClipToBounds = true
	// Child overflows its clipping parent.
	inner, _ := tr.New(clip, KindPanel, fixedStyle(300, 50))

	le := NewLayoutEngine(nil)
	le.Layout(tr, geom.Size{W: 800, H: 600}, nil)

	if got := tr.HitTest(geom.Pt(50, 25)).Target(); got != inner {
		t.Errorf("hit inside clip = %v, want %v", got, inner)
	}
	if got := tr.HitTest(geom.Pt(200, 25)).Target(); got == inner {
		t.Errorf("overflowing child hit outside clip bounds")
	}
}

func TestHitTest_EmptyTree(t *testing.T) {
	tr := NewTree()
	if rec := tr.HitTest(geom.Pt(10, 10)); !rec.Empty() {
		t.Errorf("empty tree hit = %v, want miss", rec.Path)
	}
}

func TestRouter_BubblingStopsAtConsumption(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	mid, _ := tr.New(root, KindPanel, fixedStyle(400, 400))
	leaf, _ := tr.New(mid, KindButton, fixedStyle(100, 50))

	le := NewLayoutEngine(nil)
	le.Layout(tr, geom.Size{W: 800, H: 600}, nil)

	var visits []NodeID
	r := NewRouter(tr, 0)
	r.Handle(leaf, func(id NodeID, ev Event) bool {
		if _, ok := ev.(PointerDownEvent); ok {
			visits = append(visits, id)
		}
		return false
	})
	r.Handle(mid, func(id NodeID, ev Event) bool {
		if _, ok := ev.(PointerDownEvent); ok {
			visits = append(visits, id)
			return true // consume here
		}
		return false
	})
	r.Handle(root, func(id NodeID, ev Event) bool {
		if _, ok := ev.(PointerDownEvent); ok {
			visits = append(visits, id)
		}
		return false
	})

	consumed := r.Dispatch(core.EventPointerDown{Button: core.MouseButtonLeft, X: 50, Y: 25})
	if !consumed {
		t.Errorf("Dispatch() = false, want consumed")
	}
	if len(visits) != 2 || visits[0] != leaf || visits[1] != mid {
		t.Errorf("visits = %v, want [leaf mid] with root never reached", visits)
	}
}

func TestRouter_ClickSetsStateAndFocus(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	btn, _ := tr.New(root, KindButton, fixedStyle(100, 50))

	le := NewLayoutEngine(nil)
	le.Layout(tr, geom.Size{W: 800, H: 600}, nil)

	var clicks int
	r := NewRouter(tr, 0)
	r.Handle(btn, func(id NodeID, ev Event) bool {
		if _, ok := ev.(ClickEvent); ok {
			clicks++
		}
		return false
	})

	r.Dispatch(core.EventPointerDown{Button: core.MouseButtonLeft, X: 50, Y: 25})
	if !tr.Get(btn).State.Has(StatePressed) {
		t.Errorf("pressed flag not set after pointer down")
	}
	if r.Focus() != btn {
		t.Errorf("focus = %v, want %v", r.Focus(), btn)
	}

	r.Dispatch(core.EventPointerUp{Button: core.MouseButtonLeft, X: 52, Y: 26})
	if tr.Get(btn).State.Has(StatePressed) {
		t.Errorf("pressed flag not cleared after pointer up")
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}

	// Clicking empty space clears focus.
	r.Dispatch(core.EventPointerDown{Button: core.MouseButtonLeft, X: 700, Y: 500})
	if r.Focus() == btn {
		t.Errorf("focus not cleared by press outside")
	}
}

func TestRouter_HoverTracksPointer(t *testing.T) {
	tr, _, _, b := overlapTree(t)
	r := NewRouter(tr, 0)

	r.Dispatch(core.EventPointerMove{X: 150, Y: 150})
	if !tr.Get(b).State.Has(StateHovered) {
		t.Errorf("hovered flag not set on entry")
	}
	r.Dispatch(core.EventPointerMove{X: 700, Y: 500})
	if tr.Get(b).State.Has(StateHovered) {
		t.Errorf("hovered flag not cleared on exit")
	}
}

func TestRouter_DragThresholdAndPhases(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	panel, _ := tr.New(root, KindPanel, fixedStyle(400, 400))

	le := NewLayoutEngine(nil)
	le.Layout(tr, geom.Size{W: 800, H: 600}, nil)

	var phases []GesturePhase
	var clicks int
	r := NewRouter(tr, 10)
	r.Handle(panel, func(id NodeID, ev Event) bool {
		switch e := ev.(type) {
		case DragEvent:
			phases = append(phases, e.Phase)
		case ClickEvent:
			clicks++
		}
		return false
	})

	r.Dispatch(core.EventPointerDown{X: 100, Y: 100})
	r.Dispatch(core.EventPointerMove{X: 104, Y: 100}) // below threshold
	if len(phases) != 0 {
		t.Fatalf("drag began below threshold: %v", phases)
	}
	r.Dispatch(core.EventPointerMove{X: 120, Y: 100}) // crosses threshold
	r.Dispatch(core.EventPointerMove{X: 140, Y: 100})
	r.Dispatch(core.EventPointerUp{X: 140, Y: 100})

	want := []GesturePhase{GestureBegin, GestureUpdate, GestureEnd}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase[%d] = %v, want %v", i, phases[i], want[i])
		}
	}
	if clicks != 0 {
		t.Errorf("drag release also produced a click")
	}
}

func TestRouter_PinchScale(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	panel, _ := tr.New(root, KindPanel, fixedStyle(400, 400))

	le := NewLayoutEngine(nil)
	le.Layout(tr, geom.Size{W: 800, H: 600}, nil)

	var last PinchEvent
	var got bool
	r := NewRouter(tr, 0)
	r.Handle(panel, func(id NodeID, ev Event) bool {
		if e, ok := ev.(PinchEvent); ok {
			last = e
			got = true
		}
		return false
	})

	r.Dispatch(core.EventPointerDown{Pointer: 0, X: 100, Y: 200})
	r.Dispatch(core.EventPointerDown{Pointer: 1, X: 200, Y: 200})
	if !got || last.Phase != GestureBegin {
		t.Fatalf("pinch did not begin on second pointer, last = %+v", last)
	}
	r.Dispatch(core.EventPointerMove{Pointer: 1, X: 300, Y: 200})
	if last.Phase != GestureUpdate || last.Scale != 2 {
		t.Errorf("pinch update = %+v, want scale 2", last)
	}
	if last.Center != geom.Pt(200, 200) {
		t.Errorf("pinch center = %+v, want (200,200)", last.Center)
	}
	r.Dispatch(core.EventPointerUp{Pointer: 0, X: 100, Y: 200})
	if last.Phase != GestureEnd {
		t.Errorf("pinch did not end on pointer release, last = %+v", last)
	}
}

func TestRouter_PinchReleaseNeverClicks(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	panel, _ := tr.New(root, KindPanel, fixedStyle(400, 400))

	le := NewLayoutEngine(nil)
	le.Layout(tr, geom.Size{W: 800, H: 600}, nil)

	var clicks int
	var phases []GesturePhase
	r := NewRouter(tr, 0)
	r.Handle(panel, func(id NodeID, ev Event) bool {
		switch e := ev.(type) {
		case ClickEvent:
			clicks++
		case PinchEvent:
			phases = append(phases, e.Phase)
		}
		return false
	})

	r.Dispatch(core.EventPointerDown{Pointer: 0, X: 100, Y: 200})
	r.Dispatch(core.EventPointerDown{Pointer: 1, X: 200, Y: 200})
	r.Dispatch(core.EventPointerUp{Pointer: 0, X: 100, Y: 200})
	if len(phases) == 0 || phases[len(phases)-1] != GestureEnd {
		t.Fatalf("pinch phases = %v, want trailing end", phases)
	}

	// The second finger releases over its original press target, but the
	// press was consumed by the pinch: no click on either release.
	r.Dispatch(core.EventPointerUp{Pointer: 1, X: 200, Y: 200})
	if clicks != 0 {
		t.Errorf("clicks = %d after pinch, want 0", clicks)
	}
	if tr.Get(panel).State.Has(StatePressed) {
		t.Errorf("pressed flag survived pinch release")
	}

	// The pointers are fully released; a plain press/release clicks again.
	r.Dispatch(core.EventPointerDown{Pointer: 0, X: 150, Y: 200})
	r.Dispatch(core.EventPointerUp{Pointer: 0, X: 150, Y: 200})
	if clicks != 1 {
		t.Errorf("clicks = %d after fresh tap, want 1", clicks)
	}
}

func TestRouter_WindowBlurCancelsGestures(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	panel, _ := tr.New(root, KindPanel, fixedStyle(400, 400))

	le := NewLayoutEngine(nil)
	le.Layout(tr, geom.Size{W: 800, H: 600}, nil)

	var phases []GesturePhase
	r := NewRouter(tr, 5)
	r.Handle(panel, func(id NodeID, ev Event) bool {
		if e, ok := ev.(DragEvent); ok {
			phases = append(phases, e.Phase)
		}
		return false
	})

	r.Dispatch(core.EventPointerDown{X: 100, Y: 100})
	r.Dispatch(core.EventPointerMove{X: 150, Y: 100})
	r.Dispatch(core.EventWindowFocus{Focused: false})

	if len(phases) == 0 || phases[len(phases)-1] != GestureCancel {
		t.Fatalf("phases = %v, want trailing cancel", phases)
	}
	if tr.Get(panel).State.Has(StatePressed) {
		t.Errorf("pressed flag survived window blur")
	}
	if tr.Get(panel).State.Has(StateHovered) {
		t.Errorf("hovered flag survived window blur")
	}

	// Cancellation is deterministic: a second blur is a no-op.
	n := len(phases)
	r.Dispatch(core.EventWindowFocus{Focused: false})
	if len(phases) != n {
		t.Errorf("second blur emitted more gesture events")
	}
}

func TestRouter_KeyRoutesToFocused(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	input, _ := tr.New(root, KindTextInput, fixedStyle(200, 30))

	le := NewLayoutEngine(nil)
	le.Layout(tr, geom.Size{W: 800, H: 600}, nil)

	var runes []rune
	var rootSaw int
	r := NewRouter(tr, 0)
	r.Handle(input, func(id NodeID, ev Event) bool {
		if e, ok := ev.(CharEvent); ok {
			runes = append(runes, e.Rune)
			return true
		}
		return false
	})
	r.Handle(root, func(id NodeID, ev Event) bool {
		if _, ok := ev.(CharEvent); ok {
			rootSaw++
		}
		return false
	})

	// Without focus, chars bubble from the root.
	r.Dispatch(core.EventChar{Rune: 'x'})
	if rootSaw != 1 || len(runes) != 0 {
		t.Fatalf("unfocused char: rootSaw=%d runes=%v", rootSaw, runes)
	}

	r.SetFocus(input)
	if !tr.Get(input).State.Has(StateFocused) {
		t.Errorf("focused flag not set")
	}
	r.Dispatch(core.EventChar{Rune: 'a'})
	if len(runes) != 1 || runes[0] != 'a' {
		t.Errorf("focused char runes = %v, want [a]", runes)
	}
	if rootSaw != 1 {
		t.Errorf("consumed char still bubbled to root")
	}
}
