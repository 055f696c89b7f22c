package batch

import (
	"github.com/sqgui/sqgui/engine/colors"
	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
)

// Batcher accumulates per-frame draw primitives into vertex/index buffers
// grouped by draw key. A key whose prior geometry and current submissions
// both miss the frame's damage region carries its batches over verbatim from
// the prior frame, so unchanged screen areas cost no geometry regeneration.
type Batcher struct {
	maxQuads int

	prev      map[Key][]*Batch
	prevOrder []Key

	cur      map[Key][]*Batch
	curOrder []Key
	retained map[Key]bool

	// frameOrder records every key in first-submission order, retained or
	// not. Submission order is the scene's back-to-front paint order, so it
	// decides the cross-key order of the emitted batches.
	frameOrder []Key
	inOrder    map[Key]bool

	// pending holds submissions dropped while their key was provisionally
	// retained. If a later submission damages the key, the key rebuilds and
	// the pending quads replay in order.
	pending map[Key][]pendingQuad

	damage      geom.Rect
	fullRebuild bool
	inFrame     bool

	stats Statistics
}

type pendingQuad struct {
	rect geom.Rect
	uv   UVRect
	col  colors.Color
}

func New(maxQuads int) *Batcher {
	if maxQuads <= 0 {
		maxQuads = 10000
	}
	return &Batcher{
		maxQuads: maxQuads,
		prev:     map[Key][]*Batch{},
		cur:      map[Key][]*Batch{},
		retained: map[Key]bool{},
		inOrder:  map[Key]bool{},
		pending:  map[Key][]pendingQuad{},
	}
}

// BeginFrame starts a new batching frame. damage is the screen region that
// changed since the prior frame; keys whose previous batches do not touch it
// are retained as-is. full forces every key to rebuild (resize, first frame).
func (b *Batcher) BeginFrame(damage geom.Rect, full bool) {
	b.cur = make(map[Key][]*Batch, len(b.prev))
	b.curOrder = b.curOrder[:0]
	b.retained = make(map[Key]bool, len(b.prev))
	b.frameOrder = b.frameOrder[:0]
	b.inOrder = make(map[Key]bool, len(b.prev))
	b.pending = make(map[Key][]pendingQuad, len(b.prev))
	b.damage = damage
	b.fullRebuild = full
	b.inFrame = true
	b.stats = Statistics{}
}

// keyRetained decides once per key whether the prior frame's batches survive.
func (b *Batcher) keyRetained(k Key) bool {
	if done, ok := b.retained[k]; ok {
		return done
	}
	old, exists := b.prev[k]
	keep := exists && !b.fullRebuild && !b.prevBoundsIntersectDamage(old)
	b.retained[k] = keep
	return keep
}

func (b *Batcher) prevBoundsIntersectDamage(old []*Batch) bool {
	for _, batch := range old {
		if batch.Bounds.Intersects(b.damage) {
			return true
		}
	}
	return false
}

// Quad submits a solid or textured quad. Primitives within a key draw in
// submission order.
func (b *Batcher) Quad(k Key, rect geom.Rect, uv UVRect, col colors.Color) {
	if !b.inFrame || rect.Empty() || !col.Visible() {
		return
	}
	if !b.inOrder[k] {
		b.inOrder[k] = true
		b.frameOrder = append(b.frameOrder, k)
	}
	if b.keyRetained(k) {
		// A primitive inside the damage region is new content the retained
		// batch cannot contain; the key must rebuild after all.
		if rect.Intersects(b.damage) {
			b.promote(k)
		} else {
			b.pending[k] = append(b.pending[k], pendingQuad{rect: rect, uv: uv, col: col})
			b.stats.Dropped++
			return
		}
	}
	b.appendQuad(k, rect, uv, col)
}

// promote flips a provisionally retained key to rebuilt and replays the
// submissions parked while it was retained, keeping their order.
func (b *Batcher) promote(k Key) {
	b.retained[k] = false
	parked := b.pending[k]
	delete(b.pending, k)
	b.stats.Dropped -= len(parked)
	for _, q := range parked {
		b.appendQuad(k, q.rect, q.uv, q.col)
	}
}

// Glyph submits one atlas quad for a rasterized glyph. Glyph batches always
// alpha-blend, so the material is forced translucent.
func (b *Batcher) Glyph(tex core.Texture, rect geom.Rect, uv UVRect, col colors.Color) {
	b.Quad(Key{Texture: tex, Material: Material{Blend: BlendAlpha, Filter: FilterLinear}}, rect, uv, col)
}

func (b *Batcher) appendQuad(k Key, rect geom.Rect, uv UVRect, col colors.Color) {
	open := b.openBatch(k)
	if open.QuadCount >= b.maxQuads {
		// Capacity overflow: close this batch and continue in a fresh one
		// for the same key. Transparent to the caller.
		open = b.splitBatch(k)
	}

	start := uint32(len(open.Verts) / VStride)

	// Corners TL, TR, BL, BR. Positive Y goes down.
	x0, y0 := rect.X, rect.Y
	x1, y1 := rect.Right(), rect.Bottom()
	open.Verts = append(open.Verts,
		x0, y0, col[0], col[1], col[2], col[3], uv.U0, uv.V0,
		x1, y0, col[0], col[1], col[2], col[3], uv.U1, uv.V0,
		x0, y1, col[0], col[1], col[2], col[3], uv.U0, uv.V1,
		x1, y1, col[0], col[1], col[2], col[3], uv.U1, uv.V1,
	)
	open.Inds = append(open.Inds,
		start+0, start+2, start+1,
		start+1, start+2, start+3,
	)
	open.QuadCount++
	open.Bounds = open.Bounds.Union(rect)
	b.stats.QuadCount++
}

func (b *Batcher) openBatch(k Key) *Batch {
	if batches, ok := b.cur[k]; ok {
		return batches[len(batches)-1]
	}
	nb := &Batch{Key: k}
	b.cur[k] = []*Batch{nb}
	b.curOrder = append(b.curOrder, k)
	return nb
}

func (b *Batcher) splitBatch(k Key) *Batch {
	nb := &Batch{Key: k}
	b.cur[k] = append(b.cur[k], nb)
	b.stats.Splits++
	core.Logger().Debug("batch split on overflow", "maxQuads", b.maxQuads)
	return nb
}

// EndFrame closes the frame and returns the ordered batch list. Keys follow
// this frame's first-submission order, which is the scene's back-to-front
// paint order; retained keys keep their place in it, so rebuilding one key
// never reorders it against another. With an empty damage region and no
// submissions the result is the previous frame's batches, untouched.
func (b *Batcher) EndFrame() []*Batch {
	b.inFrame = false

	var out []*Batch
	var order []Key
	next := make(map[Key][]*Batch, len(b.prev)+len(b.cur))
	emitted := make(map[Key]bool, len(b.frameOrder)+len(b.prevOrder))

	emit := func(k Key) {
		if emitted[k] {
			return
		}
		emitted[k] = true
		if batches, ok := b.cur[k]; ok {
			out = append(out, batches...)
			order = append(order, k)
			next[k] = batches
			b.stats.Rebuilt += len(batches)
			return
		}
		old, ok := b.prev[k]
		if !ok || b.fullRebuild || b.prevBoundsIntersectDamage(old) {
			// Damaged but never rebuilt: the content moved or became
			// invisible, so the key disappears.
			return
		}
		out = append(out, old...)
		order = append(order, k)
		next[k] = old
		b.stats.Retained += len(old)
	}

	for _, k := range b.frameOrder {
		emit(k)
	}
	// Keys that saw no submissions at all this frame keep their previous
	// batches when their region was untouched.
	for _, k := range b.prevOrder {
		emit(k)
	}

	b.prev = next
	b.prevOrder = order
	b.stats.Batches = len(out)
	return out
}

// TouchedKeys reports which draw keys were rebuilt this frame, letting the
// caller choose partial over full buffer uploads.
func (b *Batcher) TouchedKeys() []Key {
	keys := make([]Key, len(b.curOrder))
	copy(keys, b.curOrder)
	return keys
}

// Stats returns the current frame statistics snapshot.
func (b *Batcher) Stats() Statistics { return b.stats }
