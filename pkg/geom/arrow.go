package geom

import "math"

// ArrowFor returns the segment drawn for a pointer anchored at anchor that
// targets the box target. The segment stops at the target's edge.
func ArrowFor(anchor Point, target Rect) Segment {
	return Segment{From: anchor, To: ClipArrow(anchor, target)}
}

// ClipArrow returns the terminal point of an arrow leaving anchor toward the
// center of target.
//
// When anchor lies outside target, the result is the point where the ray
// anchor→center enters the box. The nearer edge of the dominant axis is tried
// first; for elongated boxes the other axis wins when its entry is later.
//
// When anchor lies strictly inside target, the ray is followed backward from
// the center through the anchor until it leaves the box, so the arrow runs
// from the anchor to the nearest edge behind it.
//
// A zero-length direction (anchor at the center) yields the left edge at the
// anchor's height.
func ClipArrow(anchor Point, target Rect) Point {
	c := target.Center()
	dx := c.X - anchor.X
	dy := c.Y - anchor.Y
	if dx == 0 && dy == 0 {
		return Point{X: target.X, Y: anchor.Y}
	}
	if target.Contains(anchor.X, anchor.Y) {
		return exitPoint(anchor, -dx, -dy, target)
	}
	return entryPoint(anchor, dx, dy, target)
}

// entryPoint intersects the ray anchor + r·(dx, dy), r in [0, 1], with the
// near edges of target and keeps the later of the per-axis entries.
func entryPoint(a Point, dx, dy float64, t Rect) Point {
	rx, okX := edgeRatio(a.X, dx, t.X, t.Right())
	ry, okY := edgeRatio(a.Y, dy, t.Y, t.Bottom())

	useX := okX && (!okY || rx > ry || (rx == ry && math.Abs(dx) > math.Abs(dy)))

	switch {
	case useX:
		edge := t.X
		if dx < 0 {
			edge = t.Right()
		}
		return Point{X: edge, Y: a.Y + rx*dy}
	case okY:
		edge := t.Y
		if dy < 0 {
			edge = t.Bottom()
		}
		return Point{X: a.X + ry*dx, Y: edge}
	default:
		return a
	}
}

// edgeRatio solves for the ratio at which a coordinate moving from a by d
// reaches the near edge of [lo, hi].
func edgeRatio(a, d, lo, hi float64) (float64, bool) {
	if d == 0 {
		return 0, false
	}
	edge := lo
	if d < 0 {
		edge = hi
	}
	return (edge - a) / d, true
}

// exitPoint follows a + s·(ux, uy), s ≥ 0, from an interior point until it
// reaches the boundary of t.
func exitPoint(a Point, ux, uy float64, t Rect) Point {
	sx, sy := math.Inf(1), math.Inf(1)
	var ex, ey float64
	if ux > 0 {
		ex = t.Right()
		sx = (ex - a.X) / ux
	} else if ux < 0 {
		ex = t.X
		sx = (ex - a.X) / ux
	}
	if uy > 0 {
		ey = t.Bottom()
		sy = (ey - a.Y) / uy
	} else if uy < 0 {
		ey = t.Y
		sy = (ey - a.Y) / uy
	}
	if sx <= sy {
		return Point{X: ex, Y: a.Y + sx*uy}
	}
	return Point{X: a.X + sy*ux, Y: ey}
}
