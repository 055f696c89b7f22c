package geom

import "math"

// Point is a position in pixel space.
type Point struct {
	X, Y float32
}

func Pt(x, y float32) Point { return Point{X: x, Y: y} }

func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

// Dist returns the euclidean distance between p and o.
func (p Point) Dist(o Point) float32 {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	return float32(math.Sqrt(dx*dx + dy*dy))
}

// Size is a width/height pair.
type Size struct {
	W, H float32
}
