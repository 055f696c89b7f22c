package ui

import (
	"errors"
	"math"

	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
)

// Unbounded marks an axis with no maximum constraint, e.g. the scroll axis of
// a scrolling container.
const Unbounded = float32(math.MaxFloat32)

// Constraints is the available space handed down during the measure pass.
// There is no minimum: nodes report their preferred size and the arrange pass
// decides the final allocation.
type Constraints struct {
	MaxW, MaxH float32
}

// RectChange records one node whose resolved rectangle moved during a layout
// pass. The damage region for the frame is the union of Old and New.
type RectChange struct {
	ID       NodeID
	Old, New geom.Rect
}

// Default intrinsic size for sliders without an explicit style size.
const (
	sliderIntrinsicW = 160
	sliderIntrinsicH = 20
)

// LayoutEngine runs the two-pass constraint solver: a bottom-up measure pass
// computing preferred sizes, then a top-down arrange pass assigning final
// rectangles. Results are cached per node and reused across frames for
// subtrees that are neither dirty nor re-constrained.
type LayoutEngine struct {
	text TextMeasurer

	tree    *Tree
	ver     uint64
	onPath  map[NodeID]bool // dirty nodes plus their ancestors; nil means full relayout
	changes []RectChange
	errs    []error
	fresh   int
}

func NewLayoutEngine(text TextMeasurer) *LayoutEngine {
	return &LayoutEngine{text: text}
}

// MeasuredCount returns the number of nodes measured fresh (cache misses)
// during the most recent Layout call.
func (le *LayoutEngine) MeasuredCount() int { return le.fresh }

// Layout resolves rectangles for the whole tree against the viewport size.
// frontier restricts the work to the given dirty nodes and their ancestry;
// nil forces a full relayout. It returns every node whose rect changed and
// the joined unresolved-constraint errors, if any. A failed subtree is laid
// out at zero size; its siblings are unaffected.
func (le *LayoutEngine) Layout(t *Tree, viewport geom.Size, frontier map[NodeID]bool) ([]RectChange, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	root := t.Root()
	if !root.Valid() {
		return nil, nil
	}

	le.tree = t
	le.ver++
	le.changes = le.changes[:0]
	le.errs = le.errs[:0]
	le.fresh = 0

	if frontier == nil {
		le.onPath = nil
	} else {
		le.onPath = make(map[NodeID]bool, 2*len(frontier))
		for id := range frontier {
			for cur := id; cur.Valid() && !le.onPath[cur]; {
				le.onPath[cur] = true
				n := t.Get(cur)
				if n == nil {
					break
				}
				cur = n.parent
			}
		}
	}

	if viewport.W < 0 {
		viewport.W = 0
	}
	if viewport.H < 0 {
		viewport.H = 0
	}

	le.measure(root, Constraints{MaxW: viewport.W, MaxH: viewport.H})
	le.arrange(root, geom.Rect{W: viewport.W, H: viewport.H})

	t.Walk(root, func(n *Node) bool {
		n.dirty = false
		return true
	})

	changes := make([]RectChange, len(le.changes))
	copy(changes, le.changes)
	return changes, errors.Join(le.errs...)
}

func (le *LayoutEngine) onDirtyPath(id NodeID) bool {
	return le.onPath == nil || le.onPath[id]
}

func (le *LayoutEngine) fail(n *Node, detail string) {
	n.failed = true
	le.errs = append(le.errs, unresolvedErr(n.id, detail))
	core.Logger().Warn("layout constraint unresolved",
		"node", n.id.String(), "kind", n.Kind.String(), "detail", detail)
}

// --- measure pass ---

func (le *LayoutEngine) measure(id NodeID, cons Constraints) geom.Size {
	n := le.tree.Get(id)
	if n == nil {
		return geom.Size{}
	}
	if !n.Visible {
		n.measured = geom.Size{}
		n.measureVer = le.ver
		n.measureCons = cons
		return geom.Size{}
	}
	if n.measureVer != 0 && n.measureVer != le.ver &&
		n.measureCons == cons && !le.onDirtyPath(id) && !n.dirty {
		return n.measured
	}

	n.failed = false
	le.fresh++
	st := &n.Style

	var w, h float32
	wAuto, hAuto := false, false
	switch st.Width.Unit {
	case UnitFixed:
		w = st.Width.Amount
	case UnitPercent:
		if cons.MaxW == Unbounded {
			le.fail(n, "percent width inside horizontally unbounded container")
		} else {
			w = cons.MaxW * st.Width.Amount / 100
		}
	default:
		wAuto = true
	}
	switch st.Height.Unit {
	case UnitFixed:
		h = st.Height.Amount
	case UnitPercent:
		if cons.MaxH == Unbounded {
			le.fail(n, "percent height inside vertically unbounded container")
		} else {
			h = cons.MaxH * st.Height.Amount / 100
		}
	default:
		hAuto = true
	}

	if !n.failed {
		// Available space for content: the resolved size when there is one,
		// otherwise the inherited constraint, minus padding.
		availW, availH := cons.MaxW, cons.MaxH
		if !wAuto {
			availW = w
		}
		if !hAuto {
			availH = h
		}
		if availW != Unbounded {
			availW = maxf(0, availW-st.Padding.Horizontal())
		}
		if availH != Unbounded {
			availH = maxf(0, availH-st.Padding.Vertical())
		}
		switch st.Scroll {
		case ScrollVertical:
			availH = Unbounded
		case ScrollHorizontal:
			availW = Unbounded
		}

		var content geom.Size
		if len(n.children) == 0 {
			content = le.intrinsic(n, availW)
		} else {
			content = le.measureChildren(n, availW, availH)
		}
		content.W += st.Padding.Horizontal()
		content.H += st.Padding.Vertical()

		if wAuto {
			w = content.W
		}
		if hAuto {
			h = content.H
		}
		w = clampf(w, resolveMin(st.MinWidth, cons.MaxW), resolveMax(st.MaxWidth, cons.MaxW))
		h = clampf(h, resolveMin(st.MinHeight, cons.MaxH), resolveMax(st.MaxHeight, cons.MaxH))
	}

	if n.failed {
		w, h = 0, 0
	}
	n.measured = geom.Size{W: w, H: h}
	n.measureVer = le.ver
	n.measureCons = cons
	return n.measured
}

// intrinsic returns the content size of a childless node.
func (le *LayoutEngine) intrinsic(n *Node, availW float32) geom.Size {
	switch n.Kind {
	case KindLabel, KindButton, KindTextInput:
		if le.text == nil || n.Text == "" {
			return geom.Size{}
		}
		maxW := float32(0)
		if availW != Unbounded {
			maxW = availW
		}
		return le.text.Measure(n.Font, n.FontSize, n.Text, maxW)
	case KindSlider:
		return geom.Size{W: sliderIntrinsicW, H: sliderIntrinsicH}
	default:
		return geom.Size{}
	}
}

func (le *LayoutEngine) measureChildren(n *Node, availW, availH float32) geom.Size {
	cons := Constraints{MaxW: availW, MaxH: availH}
	var content geom.Size
	count := 0

	switch n.Style.Mode {
	case ModeRow:
		for _, cid := range n.children {
			c := le.tree.Get(cid)
			if c == nil || !c.Visible {
				le.measure(cid, cons)
				continue
			}
			cs := le.measure(cid, cons)
			content.W += cs.W + c.Style.Margin.Horizontal()
			content.H = maxf(content.H, cs.H+c.Style.Margin.Vertical())
			count++
		}
		if count > 1 {
			content.W += n.Style.Gap * float32(count-1)
		}
	case ModeStack:
		for _, cid := range n.children {
			c := le.tree.Get(cid)
			if c == nil || !c.Visible {
				le.measure(cid, cons)
				continue
			}
			cs := le.measure(cid, cons)
			content.W = maxf(content.W, cs.W+c.Style.Margin.Horizontal())
			content.H = maxf(content.H, cs.H+c.Style.Margin.Vertical())
		}
	case ModeFlow:
		content = le.measureFlow(n, cons)
	default: // ModeColumn
		for _, cid := range n.children {
			c := le.tree.Get(cid)
			if c == nil || !c.Visible {
				le.measure(cid, cons)
				continue
			}
			cs := le.measure(cid, cons)
			content.H += cs.H + c.Style.Margin.Vertical()
			content.W = maxf(content.W, cs.W+c.Style.Margin.Horizontal())
			count++
		}
		if count > 1 {
			content.H += n.Style.Gap * float32(count-1)
		}
	}
	return content
}

func (le *LayoutEngine) measureFlow(n *Node, cons Constraints) geom.Size {
	gap := n.Style.Gap
	var total geom.Size
	var lineW, lineH float32
	inLine := 0
	for _, cid := range n.children {
		c := le.tree.Get(cid)
		if c == nil || !c.Visible {
			le.measure(cid, cons)
			continue
		}
		cs := le.measure(cid, cons)
		ow := cs.W + c.Style.Margin.Horizontal()
		oh := cs.H + c.Style.Margin.Vertical()
		next := lineW + ow
		if inLine > 0 {
			next += gap
		}
		if inLine > 0 && cons.MaxW != Unbounded && next > cons.MaxW {
			total.W = maxf(total.W, lineW)
			if total.H > 0 {
				total.H += gap
			}
			total.H += lineH
			lineW, lineH, inLine = 0, 0, 0
			next = ow
		}
		lineW = next
		lineH = maxf(lineH, oh)
		inLine++
	}
	if inLine > 0 {
		total.W = maxf(total.W, lineW)
		if total.H > 0 {
			total.H += gap
		}
		total.H += lineH
	}
	return total
}

// --- arrange pass ---

func (le *LayoutEngine) arrange(id NodeID, r geom.Rect) {
	n := le.tree.Get(id)
	if n == nil {
		return
	}
	if n.failed {
		r.W, r.H = 0, 0
	}

	// When the allocation matches the previous rect, the node used its cached
	// measure, and nothing below it is dirty, every descendant rect is still
	// valid and the whole subtree is skipped.
	settled := r == n.rect && n.measureVer != le.ver && !le.onDirtyPath(id)

	if r != n.rect {
		le.changes = append(le.changes, RectChange{ID: id, Old: n.rect, New: r})
		n.rect = r
	}
	if settled || !n.Visible || len(n.children) == 0 {
		return
	}

	inner := n.contentRect()
	if inner.W < 0 {
		inner.W = 0
	}
	if inner.H < 0 {
		inner.H = 0
	}

	switch n.Style.Mode {
	case ModeRow:
		le.arrangeFlex(n, inner, true)
	case ModeStack:
		le.arrangeStack(n, inner)
	case ModeFlow:
		le.arrangeFlow(n, inner)
	default:
		le.arrangeFlex(n, inner, false)
	}
}

// arrangeFlex places children along one axis (row when horizontal, column
// otherwise), distributing leftover space among flex weights. Children that
// do not fit keep their preferred sizes and spill past the container; the
// Overflowing flag reports it and nothing is shrunk silently.
func (le *LayoutEngine) arrangeFlex(n *Node, inner geom.Rect, horizontal bool) {
	st := &n.Style
	innerMain, innerCross := inner.H, inner.W
	if horizontal {
		innerMain, innerCross = inner.W, inner.H
	}

	var totalMain, totalFlex float32
	count := 0
	for _, cid := range n.children {
		c := le.tree.Get(cid)
		if c == nil {
			continue
		}
		if !c.Visible {
			le.arrange(cid, geom.Rect{X: inner.X, Y: inner.Y})
			continue
		}
		if horizontal {
			totalMain += c.measured.W + c.Style.Margin.Horizontal()
		} else {
			totalMain += c.measured.H + c.Style.Margin.Vertical()
		}
		totalFlex += c.Style.Flex
		count++
	}
	if count > 1 {
		totalMain += st.Gap * float32(count-1)
	}
	n.overflowing = totalMain > innerMain+0.5

	extra := innerMain - totalMain
	flexUnit := float32(0)
	if extra > 0 && totalFlex > 0 {
		flexUnit = extra / totalFlex
		extra = 0
	}

	cursor := alignOffset(st.MainAlign, extra)
	for _, cid := range n.children {
		c := le.tree.Get(cid)
		if c == nil || !c.Visible {
			continue
		}
		m := c.Style.Margin
		mainSize, crossSize := c.measured.H, c.measured.W
		marginMain, marginCross := m.Vertical(), m.Horizontal()
		if horizontal {
			mainSize, crossSize = c.measured.W, c.measured.H
			marginMain, marginCross = m.Horizontal(), m.Vertical()
		}
		mainSize += flexUnit * c.Style.Flex
		if st.CrossAlign == AlignStretch {
			crossSize = maxf(0, innerCross-marginCross)
		}
		crossOff := alignOffset(st.CrossAlign, innerCross-crossSize-marginCross)

		var r geom.Rect
		if horizontal {
			r = geom.Rect{
				X: inner.X + cursor + m.L,
				Y: inner.Y + crossOff + m.T,
				W: mainSize, H: crossSize,
			}
		} else {
			r = geom.Rect{
				X: inner.X + crossOff + m.L,
				Y: inner.Y + cursor + m.T,
				W: crossSize, H: mainSize,
			}
		}
		le.arrange(cid, r)
		cursor += mainSize + marginMain + st.Gap
	}
}

func (le *LayoutEngine) arrangeStack(n *Node, inner geom.Rect) {
	st := &n.Style
	for _, cid := range n.children {
		c := le.tree.Get(cid)
		if c == nil {
			continue
		}
		if !c.Visible {
			le.arrange(cid, geom.Rect{X: inner.X, Y: inner.Y})
			continue
		}
		avail := inner.Inset(c.Style.Margin)
		w, h := c.measured.W, c.measured.H
		if st.MainAlign == AlignStretch {
			w = maxf(0, avail.W)
		}
		if st.CrossAlign == AlignStretch {
			h = maxf(0, avail.H)
		}
		le.arrange(cid, geom.Rect{
			X: avail.X + alignOffset(st.MainAlign, avail.W-w),
			Y: avail.Y + alignOffset(st.CrossAlign, avail.H-h),
			W: w, H: h,
		})
	}
}

func (le *LayoutEngine) arrangeFlow(n *Node, inner geom.Rect) {
	gap := n.Style.Gap
	type placed struct {
		id    NodeID
		n     *Node
		outer geom.Size
	}
	var line []placed
	var lineW, y float32

	flush := func() {
		lineH := float32(0)
		for _, p := range line {
			lineH = maxf(lineH, p.outer.H)
		}
		x := float32(0)
		for _, p := range line {
			m := p.n.Style.Margin
			h := p.n.measured.H
			crossOff := alignOffset(n.Style.CrossAlign, lineH-p.outer.H)
			le.arrange(p.id, geom.Rect{
				X: inner.X + x + m.L,
				Y: inner.Y + y + crossOff + m.T,
				W: p.n.measured.W, H: h,
			})
			x += p.outer.W + gap
		}
		y += lineH + gap
		line = line[:0]
		lineW = 0
	}

	for _, cid := range n.children {
		c := le.tree.Get(cid)
		if c == nil {
			continue
		}
		if !c.Visible {
			le.arrange(cid, geom.Rect{X: inner.X, Y: inner.Y})
			continue
		}
		outer := geom.Size{
			W: c.measured.W + c.Style.Margin.Horizontal(),
			H: c.measured.H + c.Style.Margin.Vertical(),
		}
		next := lineW + outer.W
		if len(line) > 0 {
			next += gap
		}
		if len(line) > 0 && next > inner.W {
			flush()
			next = outer.W
		}
		line = append(line, placed{cid, c, outer})
		lineW = next
	}
	if len(line) > 0 {
		flush()
	}
	n.overflowing = y-gap > inner.H+0.5
}

// --- helpers ---

func resolveMin(v Value, avail float32) float32 {
	switch v.Unit {
	case UnitFixed:
		return v.Amount
	case UnitPercent:
		if avail == Unbounded {
			return 0
		}
		return avail * v.Amount / 100
	default:
		return 0
	}
}

func resolveMax(v Value, avail float32) float32 {
	switch v.Unit {
	case UnitFixed:
		return v.Amount
	case UnitPercent:
		if avail == Unbounded {
			return Unbounded
		}
		return avail * v.Amount / 100
	default:
		return Unbounded
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func alignOffset(a Align, extra float32) float32 {
	if extra <= 0 {
		return 0
	}
	switch a {
	case AlignCenter:
		return extra / 2
	case AlignEnd:
		return extra
	default:
		return 0
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
