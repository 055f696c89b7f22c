package ui

import (
	"testing"
	"time"

	"github.com/sqgui/sqgui/engine/colors"
	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/gfx/batch"
)

type recordSubmitter struct {
	frames [][]*batch.Batch
}

func (r *recordSubmitter) Submit(bs []*batch.Batch) error {
	r.frames = append(r.frames, bs)
	return nil
}

func (r *recordSubmitter) last() []*batch.Batch {
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// testPaints fills per kind and leaves everything else flat.
type testPaints struct {
	fill map[Kind]colors.Color
}

func (p testPaints) Resolve(kind Kind, _ StateFlags) Paint {
	return Paint{Fill: p.fill[kind], TextColor: colors.White, Opacity: 1}
}

type testTextures map[string]core.Texture

func (t testTextures) Texture(name string) (core.Texture, bool) {
	tex, ok := t[name]
	return tex, ok
}

func (t testTextures) Patch(string) (core.Texture, batch.NinePatch, bool) {
	return nil, batch.NinePatch{}, false
}

func findBatch(bs []*batch.Batch, tex core.Texture) *batch.Batch {
	for _, b := range bs {
		if b.Key.Texture == tex {
			return b
		}
	}
	return nil
}

func TestFrame_SiblingBatchRetainedWhenLeafChanges(t *testing.T) {
	tr := NewTree()
	sub := &recordSubmitter{}
	f := NewFrame(tr, sub, testPaints{}, fakeText{}, FrameConfig{})
	icon := stubTex{32, 32}
	f.SetTextures(testTextures{"icon": icon})
	f.Resize(800, 600)

	rootStyle := DefaultStyle()
	rootStyle.Mode = ModeRow
	root := tr.NewRoot(rootStyle)
	img, _ := tr.New(root, KindImage, fixedStyle(100, 100))
	tr.Get(img).Texture = "icon"
	lbl, _ := tr.New(root, KindLabel, DefaultStyle())
	tr.SetText(lbl, "aa")

	if err := f.Tick(0); err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	first := findBatch(sub.last(), icon)
	if first == nil {
		t.Fatalf("no image batch in first frame")
	}

	// Changing the label's text damages only the label's region; the image
	// sibling's batch must come back untouched.
	tr.SetText(lbl, "aaaa")
	if err := f.Tick(time.Millisecond * 16); err != nil {
		t.Fatalf("tick 2: %v", err)
	}
	second := findBatch(sub.last(), icon)
	if second == nil {
		t.Fatalf("no image batch in second frame")
	}
	if first != second {
		t.Errorf("image batch regenerated; want retained pointer-identical batch")
	}

	glyphs := findBatch(sub.last(), stubTex{8, 16})
	if glyphs == nil || glyphs.QuadCount != 4 {
		t.Errorf("glyph batch not rebuilt for new text: %+v", glyphs)
	}
}

func TestFrame_OcclusionCullsCoveredSibling(t *testing.T) {
	tr := NewTree()
	sub := &recordSubmitter{}
	f := NewFrame(tr, sub, testPaints{}, nil, FrameConfig{OcclusionCulling: true})
	texA, texB := stubTex{16, 16}, stubTex{64, 64}
	f.SetTextures(testTextures{"a": texA, "b": texB})
	f.Resize(800, 600)

	rootStyle := DefaultStyle()
	rootStyle.Mode = ModeStack
	root := tr.NewRoot(rootStyle)
	a, _ := tr.New(root, KindImage, fixedStyle(100, 100))
	tr.Get(a).Texture = "a"
	tr.Get(a).Z = 1
	b, _ := tr.New(root, KindImage, fixedStyle(100, 100))
	tr.Get(b).Texture = "b"
	tr.Get(b).Z = 2
	tr.Get(b).OpaqueContent = true

	if err := f.Tick(0); err != nil {
		t.Fatalf("tick: %v", err)
	}

	if findBatch(sub.last(), texA) != nil {
		t.Errorf("fully covered node still submitted geometry")
	}
	if findBatch(sub.last(), texB) == nil {
		t.Errorf("covering node's geometry missing")
	}
	if f.Stats().Culled != 1 {
		t.Errorf("Culled = %d, want 1", f.Stats().Culled)
	}
}

func TestFrame_OpaqueBatchesSubmitFirst(t *testing.T) {
	tr := NewTree()
	sub := &recordSubmitter{}
	paints := testPaints{fill: map[Kind]colors.Color{
		KindPanel: {0.2, 0.2, 0.2, 0.5}, // translucent fill
	}}
	f := NewFrame(tr, sub, paints, nil, FrameConfig{})
	opaqueTex := stubTex{64, 64}
	f.SetTextures(testTextures{"solid": opaqueTex})
	f.Resize(800, 600)

	root := tr.NewRoot(DefaultStyle())
	tr.New(root, KindPanel, fixedStyle(200, 200))
	img, _ := tr.New(root, KindImage, fixedStyle(100, 100))
	tr.Get(img).Texture = "solid"
	tr.Get(img).OpaqueContent = true

	if err := f.Tick(0); err != nil {
		t.Fatalf("tick: %v", err)
	}
	bs := sub.last()
	if len(bs) < 2 {
		t.Fatalf("got %d batches, want at least 2", len(bs))
	}
	if !bs[0].Key.Material.Opaque() {
		t.Errorf("first submitted batch is not opaque")
	}
	for i := 1; i < len(bs); i++ {
		if bs[i].Key.Material.Opaque() && !bs[i-1].Key.Material.Opaque() {
			t.Errorf("opaque batch at %d submitted after translucent", i)
		}
	}
}

func TestFrame_ResizeForcesFullRebuild(t *testing.T) {
	tr := NewTree()
	sub := &recordSubmitter{}
	f := NewFrame(tr, sub, testPaints{}, nil, FrameConfig{})
	icon := stubTex{32, 32}
	f.SetTextures(testTextures{"icon": icon})
	f.Resize(800, 600)

	root := tr.NewRoot(DefaultStyle())
	img, _ := tr.New(root, KindImage, fixedStyle(100, 100))
	tr.Get(img).Texture = "icon"

	f.Tick(0)

	// An idle tick retains everything.
	f.Tick(time.Millisecond * 16)
	if got := f.Stats().Batch.Rebuilt; got != 0 {
		t.Errorf("idle tick rebuilt %d batches, want 0", got)
	}
	idle := findBatch(sub.last(), icon)

	f.Resize(1024, 768)
	f.Tick(time.Millisecond * 32)
	if got := f.Stats().Batch.Rebuilt; got == 0 {
		t.Errorf("resize tick rebuilt no batches, want full rebuild")
	}
	if rebuilt := findBatch(sub.last(), icon); rebuilt == idle {
		t.Errorf("batch pointer survived full rebuild")
	}
}

func TestFrame_QueuedInputRoutesAgainstPriorLayout(t *testing.T) {
	tr := NewTree()
	sub := &recordSubmitter{}
	f := NewFrame(tr, sub, testPaints{}, nil, FrameConfig{})
	f.Resize(800, 600)

	root := tr.NewRoot(DefaultStyle())
	btn, _ := tr.New(root, KindButton, fixedStyle(100, 50))

	var clicks int
	f.Router.Handle(btn, func(id NodeID, ev Event) bool {
		if _, ok := ev.(ClickEvent); ok {
			clicks++
		}
		return false
	})

	f.Tick(0) // first layout

	f.Enqueue(core.EventPointerDown{Button: core.MouseButtonLeft, X: 50, Y: 25})
	f.Enqueue(core.EventPointerUp{Button: core.MouseButtonLeft, X: 50, Y: 25})
	f.Tick(time.Millisecond * 16)

	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

// stepAnim jumps a property from 100 to a settled 200 after one second.
type stepAnim struct{}

func (stepAnim) Value(_ NodeID, _ Prop, now time.Duration) (float32, bool) {
	if now >= time.Second {
		return 200, true
	}
	return 100, false
}

func TestFrame_AnimatorDrivesLayout(t *testing.T) {
	tr := NewTree()
	sub := &recordSubmitter{}
	f := NewFrame(tr, sub, testPaints{}, nil, FrameConfig{})
	f.SetAnimator(stepAnim{})
	f.Resize(800, 600)

	root := tr.NewRoot(DefaultStyle())
	panel, _ := tr.New(root, KindPanel, fixedStyle(50, 50))
	f.Animate(panel, PropWidth)

	f.Tick(0)
	if got := tr.Get(panel).Rect().W; got != 100 {
		t.Errorf("animated width = %v, want 100", got)
	}

	f.Tick(time.Second)
	if got := tr.Get(panel).Rect().W; got != 200 {
		t.Errorf("settled width = %v, want 200", got)
	}

	// Settled animations stop dirtying the tree.
	f.Tick(2 * time.Second)
	if got := f.Stats().Measured; got != 0 {
		t.Errorf("tick after settle measured %d nodes, want 0", got)
	}
}
