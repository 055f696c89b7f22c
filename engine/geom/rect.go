package geom

// Rect is an axis-aligned rectangle in pixel space. X,Y is the top-left
// corner; positive Y goes down, matching the 2D projection.
type Rect struct {
	X, Y, W, H float32
}

func NewRect(x, y, w, h float32) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// Empty reports whether the rect covers no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Right() float32  { return r.X + r.W }
func (r Rect) Bottom() float32 { return r.Y + r.H }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so adjacent rects don't both claim their shared edge.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// ContainsRect reports whether o lies entirely within r.
func (r Rect) ContainsRect(o Rect) bool {
	if o.Empty() {
		return true
	}
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and o overlap in any area.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersect returns the overlapping region of r and o, or a zero Rect when
// they don't overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := maxf(r.X, o.X)
	y0 := maxf(r.Y, o.Y)
	x1 := minf(r.Right(), o.Right())
	y1 := minf(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest rect covering both r and o. An empty rect is
// the identity, so damage accumulation can start from the zero value.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := minf(r.X, o.X)
	y0 := minf(r.Y, o.Y)
	x1 := maxf(r.Right(), o.Right())
	y1 := maxf(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Inset shrinks r by the given insets, clamping at zero size.
func (r Rect) Inset(in Insets) Rect {
	w := r.W - in.L - in.R
	h := r.H - in.T - in.B
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: r.X + in.L, Y: r.Y + in.T, W: w, H: h}
}

// Outset grows r by the given insets on every side.
func (r Rect) Outset(in Insets) Rect {
	return Rect{X: r.X - in.L, Y: r.Y - in.T, W: r.W + in.L + in.R, H: r.H + in.T + in.B}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
