package geom

import "math"

// Point is a position in canvas coordinates. Y grows downward.
type Point struct {
	X, Y float64
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Rect is an axis-aligned bounding box anchored at its top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// TopLeft returns the corner at (X, Y).
func (r Rect) TopLeft() Point { return Point{X: r.X, Y: r.Y} }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Contains reports whether (x, y) lies strictly inside r. Points on the
// boundary are outside.
func (r Rect) Contains(x, y float64) bool {
	return r.X < x && x < r.Right() && r.Y < y && y < r.Bottom()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Union returns the smallest rectangle covering both r and o.
// A zero rectangle is treated as empty.
func (r Rect) Union(o Rect) Rect {
	if r == (Rect{}) {
		return o
	}
	if o == (Rect{}) {
		return r
	}
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// OnBoundary reports whether p lies on the edge of r within tol.
func (r Rect) OnBoundary(p Point, tol float64) bool {
	inX := p.X >= r.X-tol && p.X <= r.Right()+tol
	inY := p.Y >= r.Y-tol && p.Y <= r.Bottom()+tol
	if !inX || !inY {
		return false
	}
	return near(p.X, r.X, tol) || near(p.X, r.Right(), tol) ||
		near(p.Y, r.Y, tol) || near(p.Y, r.Bottom(), tol)
}

// Segment is a directed line from From to To.
type Segment struct {
	From, To Point
}

// Length returns the euclidean length of s.
func (s Segment) Length() float64 {
	return math.Hypot(s.To.X-s.From.X, s.To.Y-s.From.Y)
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }
