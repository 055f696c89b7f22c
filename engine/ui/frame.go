package ui

import (
	"errors"
	"time"

	"github.com/sqgui/sqgui/engine/colors"
	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
	"github.com/sqgui/sqgui/engine/gfx/batch"
)

// FrameConfig tunes the orchestrator. Zero values select defaults.
type FrameConfig struct {
	MaxQuadsPerBatch int
	OcclusionCulling bool
	DragThresholdPx  float32
}

// FrameStats is a snapshot of the most recent tick, for overlays and tests.
type FrameStats struct {
	Measured    int // nodes measured fresh by layout
	RectChanges int
	Culled      int // nodes skipped by occlusion culling
	Damage      geom.Rect
	Batch       batch.Statistics
}

// Frame drives one tree through the per-tick pipeline: drain queued input
// through the router against last frame's layout, advance animations, take
// the accumulated damage, relayout the dirty frontier, regenerate geometry
// for damaged regions, and hand the ordered batches to the draw collaborator.
// All stages run sequentially on the render thread; nothing here blocks.
type Frame struct {
	Tree   *Tree
	Router *Router

	tracker *DirtyTracker
	layout  *LayoutEngine
	batcher *batch.Batcher
	submit  batch.Submitter
	paints  PaintResolver
	text    TextMeasurer

	textures TextureLookup
	anim     Animator
	anims    map[NodeID]map[Prop]bool
	opacity  map[NodeID]float32

	viewport  geom.Size
	occlusion bool
	queue     []core.Event
	stats     FrameStats
}

func NewFrame(t *Tree, submit batch.Submitter, paints PaintResolver, text TextMeasurer, cfg FrameConfig) *Frame {
	return &Frame{
		Tree:      t,
		Router:    NewRouter(t, cfg.DragThresholdPx),
		tracker:   NewDirtyTracker(t),
		layout:    NewLayoutEngine(text),
		batcher:   batch.New(cfg.MaxQuadsPerBatch),
		submit:    submit,
		paints:    paints,
		text:      text,
		anims:     make(map[NodeID]map[Prop]bool),
		opacity:   make(map[NodeID]float32),
		occlusion: cfg.OcclusionCulling,
	}
}

// SetTextures installs the named texture registry used for images and
// 9-patch backgrounds.
func (f *Frame) SetTextures(tl TextureLookup) { f.textures = tl }

// SetAnimator installs the animation collaborator.
func (f *Frame) SetAnimator(a Animator) { f.anim = a }

// Animate registers node properties to be driven by the animator each tick
// until the animator reports them settled.
func (f *Frame) Animate(id NodeID, props ...Prop) {
	m := f.anims[id]
	if m == nil {
		m = make(map[Prop]bool)
		f.anims[id] = m
	}
	for _, p := range props {
		m[p] = true
	}
}

// Enqueue adds a platform event for routing at the start of the next tick.
func (f *Frame) Enqueue(ev core.Event) { f.queue = append(f.queue, ev) }

// Resize sets the viewport size and forces a full relayout and rebuild.
func (f *Frame) Resize(w, h float32) {
	size := geom.Size{W: w, H: h}
	if size == f.viewport {
		return
	}
	f.viewport = size
	f.tracker.MarkAll()
}

// Viewport returns the current viewport size.
func (f *Frame) Viewport() geom.Size { return f.viewport }

// Stats returns the snapshot of the most recent tick.
func (f *Frame) Stats() FrameStats { return f.stats }

// Tick runs one frame. Unresolved layout constraints and submission failures
// are joined into the returned error; the frame still completes, with failed
// subtrees zero-sized.
func (f *Frame) Tick(now time.Duration) error {
	for _, ev := range f.queue {
		f.Router.Dispatch(ev)
	}
	f.queue = f.queue[:0]

	f.advanceAnimations(now)

	frontier, damage, full := f.tracker.Take()
	changes, layoutErr := f.layout.Layout(f.Tree, f.viewport, frontier)
	for _, ch := range changes {
		damage = damage.Union(ch.Old).Union(ch.New)
	}

	f.batcher.BeginFrame(damage, full)
	var skip map[NodeID]bool
	if f.occlusion {
		skip = f.cullSet()
	}
	if root := f.Tree.Root(); root.Valid() {
		f.emitNode(root, geom.Rect{W: f.viewport.W, H: f.viewport.H}, skip)
	}
	batches := orderBatches(f.batcher.EndFrame())

	var submitErr error
	if f.submit != nil && len(batches) > 0 {
		submitErr = f.submit.Submit(batches)
	}

	f.stats = FrameStats{
		Measured:    f.layout.MeasuredCount(),
		RectChanges: len(changes),
		Culled:      len(skip),
		Damage:      damage,
		Batch:       f.batcher.Stats(),
	}
	if layoutErr != nil || submitErr != nil {
		core.Logger().Warn("frame completed with errors",
			"layout", layoutErr, "submit", submitErr)
	}
	return errors.Join(layoutErr, submitErr)
}

func (f *Frame) advanceAnimations(now time.Duration) {
	if f.anim == nil {
		return
	}
	for id, props := range f.anims {
		n := f.Tree.Get(id)
		if n == nil {
			delete(f.anims, id)
			delete(f.opacity, id)
			continue
		}
		for p := range props {
			v, settled := f.anim.Value(id, p, now)
			switch p {
			case PropWidth:
				st := n.Style
				st.Width = Fixed(v)
				f.Tree.SetStyle(id, st)
			case PropHeight:
				st := n.Style
				st.Height = Fixed(v)
				f.Tree.SetStyle(id, st)
			case PropValue:
				f.Tree.SetValue(id, v)
			case PropOpacity:
				f.opacity[id] = v
				f.tracker.Mark(id)
			}
			if settled {
				delete(props, p)
			}
		}
		if len(props) == 0 {
			delete(f.anims, id)
		}
	}
}

// cullSet walks the tree front-to-back collecting rects of opaque content,
// and marks every node whose rect is fully covered by content that paints
// over it. Covered nodes are excluded from submission only; layout still
// reserves their space.
func (f *Frame) cullSet() map[NodeID]bool {
	skip := make(map[NodeID]bool)
	var covers []geom.Rect
	var walk func(id NodeID)
	walk = func(id NodeID) {
		n := f.Tree.Get(id)
		if n == nil || !n.Visible || n.rect.Empty() {
			return
		}
		order := f.Tree.paintChildren(n)
		for i := len(order) - 1; i >= 0; i-- {
			walk(order[i])
		}
		for _, c := range covers {
			if c.ContainsRect(n.rect) {
				skip[id] = true
				return
			}
		}
		if n.OpaqueContent {
			covers = append(covers, n.rect)
		}
	}
	if root := f.Tree.Root(); root.Valid() {
		walk(root)
	}
	return skip
}

func (f *Frame) emitNode(id NodeID, clip geom.Rect, skip map[NodeID]bool) {
	n := f.Tree.Get(id)
	if n == nil || !n.Visible {
		return
	}
	if !skip[id] && n.rect.Intersects(clip) {
		f.emitPrimitives(n)
	}
	childClip := clip
	if n.ClipToBounds {
		childClip = childClip.Intersect(n.rect)
		if childClip.Empty() {
			return
		}
	}
	for _, c := range f.Tree.paintChildren(n) {
		f.emitNode(c, childClip, skip)
	}
}

func (f *Frame) emitPrimitives(n *Node) {
	r := n.rect
	if r.Empty() {
		return
	}
	paint := f.paints.Resolve(n.Kind, n.State)
	op := paint.Opacity
	if op == 0 {
		op = 1 // zero-value Paint means unset, not invisible
	}
	if ov, ok := f.opacity[n.id]; ok {
		op *= ov
	}
	if op <= 0 {
		return
	}

	if paint.Patch != "" && f.textures != nil {
		if tex, np, ok := f.textures.Patch(paint.Patch); ok {
			k := batch.Key{Texture: tex, Material: batch.Material{Blend: batch.BlendAlpha, Filter: batch.FilterLinear}}
			f.batcher.NinePatch(k, r, np, colors.White.WithAlpha(op))
		}
	} else if paint.Fill.Visible() {
		col := paint.Fill.WithAlpha(paint.Fill[3] * op)
		f.batcher.Quad(flatKey(col), r, batch.FullUV, col)
	}

	if paint.Border.Width > 0 && paint.Border.Color.Visible() {
		f.emitBorder(r, paint.Border, op)
	}

	switch n.Kind {
	case KindImage:
		f.emitImage(n, r, op)
	case KindSlider:
		f.emitSlider(n, paint, op)
	case KindLabel, KindButton, KindTextInput:
		f.emitText(n, paint, op)
	}
}

func (f *Frame) emitBorder(r geom.Rect, b BorderSpec, op float32) {
	col := b.Color.WithAlpha(b.Color[3] * op)
	k := flatKey(col)
	w := b.Width
	f.batcher.Quad(k, geom.Rect{X: r.X, Y: r.Y, W: r.W, H: w}, batch.FullUV, col)
	f.batcher.Quad(k, geom.Rect{X: r.X, Y: r.Bottom() - w, W: r.W, H: w}, batch.FullUV, col)
	f.batcher.Quad(k, geom.Rect{X: r.X, Y: r.Y + w, W: w, H: r.H - 2*w}, batch.FullUV, col)
	f.batcher.Quad(k, geom.Rect{X: r.Right() - w, Y: r.Y + w, W: w, H: r.H - 2*w}, batch.FullUV, col)
}

func (f *Frame) emitImage(n *Node, r geom.Rect, op float32) {
	if f.textures == nil || n.Texture == "" {
		return
	}
	tex, ok := f.textures.Texture(n.Texture)
	if !ok {
		core.Logger().Warn("image node references unknown texture", "node", n.id.String(), "texture", n.Texture)
		return
	}
	blend := batch.BlendAlpha
	if n.OpaqueContent && op >= 1 {
		blend = batch.BlendNone
	}
	k := batch.Key{Texture: tex, Material: batch.Material{Blend: blend, Filter: batch.FilterLinear}}
	f.batcher.Quad(k, r, batch.FullUV, colors.White.WithAlpha(op))
}

func (f *Frame) emitSlider(n *Node, paint Paint, op float32) {
	content := n.contentRect()
	if content.W <= 0 || content.H <= 0 {
		return
	}
	trackH := content.H / 4
	if trackH < 2 {
		trackH = 2
	}
	trackY := content.Y + (content.H-trackH)/2
	track := paint.Border.Color.WithAlpha(paint.Border.Color[3] * op)
	fill := paint.Fill.WithAlpha(paint.Fill[3] * op)

	f.batcher.Quad(flatKey(track), geom.Rect{X: content.X, Y: trackY, W: content.W, H: trackH}, batch.FullUV, track)

	knob := content.H
	span := content.W - knob
	if span < 0 {
		span = 0
	}
	filled := geom.Rect{X: content.X, Y: trackY, W: knob/2 + span*n.Value, H: trackH}
	f.batcher.Quad(flatKey(fill), filled, batch.FullUV, fill)
	f.batcher.Quad(flatKey(fill), geom.Rect{X: content.X + span*n.Value, Y: content.Y, W: knob, H: knob}, batch.FullUV, fill)
}

func (f *Frame) emitText(n *Node, paint Paint, op float32) {
	if n.Text == "" || f.text == nil {
		return
	}
	content := n.contentRect()
	if content.W <= 0 || content.H <= 0 {
		return
	}
	block := f.text.Measure(n.Font, n.FontSize, n.Text, content.W)
	origin := geom.Pt(content.X, content.Y)
	switch n.Kind {
	case KindButton:
		origin.X += maxf(0, (content.W-block.W)/2)
		origin.Y += maxf(0, (content.H-block.H)/2)
	case KindTextInput:
		origin.Y += maxf(0, (content.H-block.H)/2)
	}

	glyphs, tex := f.text.Glyphs(n.Font, n.FontSize, n.Text, content.W)
	if tex == nil {
		return
	}
	col := paint.TextColor.WithAlpha(paint.TextColor[3] * op)
	for _, g := range glyphs {
		gr := g.Rect
		gr.X += origin.X
		gr.Y += origin.Y
		f.batcher.Glyph(tex, gr, g.UV, col)
	}
}

// flatKey is the untextured draw key for a solid color: opaque material for
// full alpha, alpha-blended otherwise. The renderer binds its white texture
// for nil.
func flatKey(col colors.Color) batch.Key {
	if col[3] >= 1 {
		return batch.Key{Material: batch.Material{Blend: batch.BlendNone}}
	}
	return batch.Key{Material: batch.Material{Blend: batch.BlendAlpha}}
}

// orderBatches partitions opaque batches before translucent ones, keeping
// insertion order within each class so overlapping translucent content still
// blends back-to-front.
func orderBatches(in []*batch.Batch) []*batch.Batch {
	if len(in) < 2 {
		return in
	}
	out := make([]*batch.Batch, 0, len(in))
	for _, b := range in {
		if b.Key.Material.Opaque() {
			out = append(out, b)
		}
	}
	for _, b := range in {
		if !b.Key.Material.Opaque() {
			out = append(out, b)
		}
	}
	return out
}
