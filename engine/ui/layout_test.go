package ui

import (
	"errors"
	"testing"

	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
	"github.com/sqgui/sqgui/engine/gfx/batch"
)

// fakeText sizes every rune at 8x16 and wraps at maxWidth.
type fakeText struct{}

func (fakeText) Measure(_ string, _ float32, s string, maxWidth float32) geom.Size {
	w := float32(len(s)) * 8
	h := float32(16)
	if maxWidth > 0 && w > maxWidth {
		lines := float32(int((w + maxWidth - 1) / maxWidth))
		w = maxWidth
		h = 16 * lines
	}
	return geom.Size{W: w, H: h}
}

func (ft fakeText) Glyphs(font string, size float32, s string, maxWidth float32) ([]PlacedGlyph, core.Texture) {
	out := make([]PlacedGlyph, 0, len(s))
	for i := range s {
		out = append(out, PlacedGlyph{
			Rect: geom.Rect{X: float32(i) * 8, Y: 0, W: 8, H: 16},
			UV:   batch.FullUV,
		})
	}
	return out, stubTex{8, 16}
}

type stubTex struct{ w, h int }

func (t stubTex) Size() (int, int) { return t.w, t.h }

func fixedStyle(w, h float32) Style {
	st := DefaultStyle()
	st.Width = Fixed(w)
	st.Height = Fixed(h)
	return st
}

func TestLayout_RowOverflowKeepsPreferredSizes(t *testing.T) {
	tr := NewTree()
	rootStyle := DefaultStyle()
	rootStyle.Mode = ModeRow
	root := tr.NewRoot(rootStyle)
	a, _ := tr.New(root, KindPanel, fixedStyle(300, 100))
	b, _ := tr.New(root, KindPanel, fixedStyle(600, 100))

	le := NewLayoutEngine(nil)
	if _, err := le.Layout(tr, geom.Size{W: 800, H: 600}, nil); err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if !tr.Get(root).Overflowing() {
		t.Errorf("container not marked overflowing at 900 > 800")
	}
	if got := tr.Get(a).Rect(); got.W != 300 {
		t.Errorf("child a width = %v, want preferred 300", got.W)
	}
	if got := tr.Get(b).Rect(); got.W != 600 || got.X != 300 {
		t.Errorf("child b rect = %+v, want width 600 at x=300", got)
	}
}

func TestLayout_FlexDistributesLeftover(t *testing.T) {
	tr := NewTree()
	rootStyle := DefaultStyle()
	rootStyle.Mode = ModeRow
	root := tr.NewRoot(rootStyle)
	tr.New(root, KindPanel, fixedStyle(200, 50))

	flexStyle := DefaultStyle()
	flexStyle.Height = Fixed(50)
	flexStyle.Flex = 1
	b, _ := tr.New(root, KindPanel, flexStyle)

	flex2 := flexStyle
	flex2.Flex = 3
	c, _ := tr.New(root, KindPanel, flex2)

	le := NewLayoutEngine(nil)
	if _, err := le.Layout(tr, geom.Size{W: 800, H: 600}, nil); err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if got := tr.Get(b).Rect().W; got != 150 {
		t.Errorf("flex 1 child width = %v, want 150", got)
	}
	if got := tr.Get(c).Rect().W; got != 450 {
		t.Errorf("flex 3 child width = %v, want 450", got)
	}
}

func TestLayout_PercentAndAlignment(t *testing.T) {
	tr := NewTree()
	rootStyle := DefaultStyle()
	rootStyle.MainAlign = AlignCenter
	rootStyle.CrossAlign = AlignCenter
	root := tr.NewRoot(rootStyle)

	st := DefaultStyle()
	st.Width = Percent(50)
	st.Height = Fixed(100)
	a, _ := tr.New(root, KindPanel, st)

	le := NewLayoutEngine(nil)
	if _, err := le.Layout(tr, geom.Size{W: 600, H: 400}, nil); err != nil {
		t.Fatalf("Layout: %v", err)
	}

	got := tr.Get(a).Rect()
	want := geom.Rect{X: 150, Y: 150, W: 300, H: 100}
	if got != want {
		t.Errorf("rect = %+v, want %+v", got, want)
	}
}

func TestLayout_Idempotent(t *testing.T) {
	tr := NewTree()
	dt := NewDirtyTracker(tr)
	rootStyle := DefaultStyle()
	rootStyle.Mode = ModeRow
	rootStyle.Gap = 10
	root := tr.NewRoot(rootStyle)
	tr.New(root, KindPanel, fixedStyle(100, 100))
	lbl, _ := tr.New(root, KindLabel, DefaultStyle())
	tr.SetText(lbl, "stable")

	le := NewLayoutEngine(fakeText{})
	frontier, _, _ := dt.Take()
	if _, err := le.Layout(tr, geom.Size{W: 800, H: 600}, frontier); err != nil {
		t.Fatalf("first layout: %v", err)
	}
	first := map[NodeID]geom.Rect{}
	tr.Walk(root, func(n *Node) bool {
		first[n.ID()] = n.Rect()
		return true
	})

	frontier, _, _ = dt.Take()
	changes, err := le.Layout(tr, geom.Size{W: 800, H: 600}, frontier)
	if err != nil {
		t.Fatalf("second layout: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("second layout reported %d rect changes, want 0", len(changes))
	}
	if le.MeasuredCount() != 0 {
		t.Errorf("second layout measured %d nodes fresh, want 0", le.MeasuredCount())
	}
	tr.Walk(root, func(n *Node) bool {
		if n.Rect() != first[n.ID()] {
			t.Errorf("node %v rect drifted: %+v -> %+v", n.ID(), first[n.ID()], n.Rect())
		}
		return true
	})
}

func TestLayout_DirtyFrontierSkipsSiblings(t *testing.T) {
	tr := NewTree()
	dt := NewDirtyTracker(tr)
	root := tr.NewRoot(DefaultStyle())
	panel, _ := tr.New(root, KindPanel, DefaultStyle())
	lbl, _ := tr.New(panel, KindLabel, DefaultStyle())
	sibling, _ := tr.New(panel, KindLabel, DefaultStyle())
	tr.SetText(lbl, "one")
	tr.SetText(sibling, "two")

	le := NewLayoutEngine(fakeText{})
	frontier, _, _ := dt.Take()
	if _, err := le.Layout(tr, geom.Size{W: 800, H: 600}, frontier); err != nil {
		t.Fatalf("first layout: %v", err)
	}

	tr.SetText(lbl, "changed text")
	frontier, _, _ = dt.Take()
	if _, err := le.Layout(tr, geom.Size{W: 800, H: 600}, frontier); err != nil {
		t.Fatalf("second layout: %v", err)
	}

	// Fresh measures: the label, its panel, the root. Never the sibling.
	if got := le.MeasuredCount(); got != 3 {
		t.Errorf("measured %d nodes fresh, want 3 (leaf + ancestor chain)", got)
	}
}

func TestLayout_UnresolvedPercentInsideScroll(t *testing.T) {
	tr := NewTree()
	rootStyle := DefaultStyle()
	rootStyle.Scroll = ScrollVertical
	root := tr.NewRoot(rootStyle)

	bad := DefaultStyle()
	bad.Height = Percent(50) // percent of an unbounded axis
	a, _ := tr.New(root, KindPanel, bad)
	b, _ := tr.New(root, KindPanel, fixedStyle(100, 40))

	le := NewLayoutEngine(nil)
	_, err := le.Layout(tr, geom.Size{W: 800, H: 600}, nil)
	if err == nil {
		t.Fatalf("Layout: expected unresolved constraint error")
	}
	var lerr *LayoutError
	if !errors.As(err, &lerr) || lerr.Kind != UnresolvedConstraint || lerr.Node != a {
		t.Errorf("error = %v, want UnresolvedConstraint at %v", err, a)
	}

	if !tr.Get(a).Failed() {
		t.Errorf("failed node not flagged")
	}
	if got := tr.Get(a).Rect(); got.W != 0 || got.H != 0 {
		t.Errorf("failed subtree rect = %+v, want zero size", got)
	}
	if got := tr.Get(b).Rect(); got.W != 100 || got.H != 40 {
		t.Errorf("sibling rect = %+v, want 100x40 despite failed sibling", got)
	}
}

func TestLayout_ZeroViewport(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	st := DefaultStyle()
	st.Width = Percent(100)
	st.Height = Percent(100)
	a, _ := tr.New(root, KindPanel, st)

	le := NewLayoutEngine(nil)
	if _, err := le.Layout(tr, geom.Size{}, nil); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	got := tr.Get(a).Rect()
	if got.W != 0 || got.H != 0 {
		t.Errorf("rect = %+v, want zero size", got)
	}
	if got.W != got.W || got.H != got.H { // NaN check
		t.Errorf("rect has NaN components: %+v", got)
	}
}

func TestLayout_FlowWraps(t *testing.T) {
	tr := NewTree()
	rootStyle := DefaultStyle()
	rootStyle.Mode = ModeFlow
	rootStyle.Gap = 0
	root := tr.NewRoot(rootStyle)
	var kids []NodeID
	for i := 0; i < 3; i++ {
		id, _ := tr.New(root, KindPanel, fixedStyle(60, 20))
		kids = append(kids, id)
	}

	le := NewLayoutEngine(nil)
	if _, err := le.Layout(tr, geom.Size{W: 150, H: 100}, nil); err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if r := tr.Get(kids[1]).Rect(); r.X != 60 || r.Y != 0 {
		t.Errorf("second child rect = %+v, want same line at x=60", r)
	}
	if r := tr.Get(kids[2]).Rect(); r.X != 0 || r.Y != 20 {
		t.Errorf("third child rect = %+v, want wrapped to next line", r)
	}
}

func TestLayout_LabelMeasuresText(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	lbl, _ := tr.New(root, KindLabel, DefaultStyle())
	tr.SetText(lbl, "abcd")

	le := NewLayoutEngine(fakeText{})
	if _, err := le.Layout(tr, geom.Size{W: 800, H: 600}, nil); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	got := tr.Get(lbl).Rect()
	if got.W != 32 || got.H != 16 {
		t.Errorf("label rect = %+v, want 32x16 from text metrics", got)
	}
}
