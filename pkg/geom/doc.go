// Package geom provides the plane geometry used by diagrams: points,
// axis-aligned rectangles, segments, and the arrow clipping that makes a
// pointer's arrow stop at its target's edge instead of its center.
//
// All functions are pure. Coordinates follow canvas conventions: the origin
// is the top-left corner and y grows downward.
//
//	box := geom.Rect{X: 300, Y: 100, W: 120, H: 60}
//	seg := geom.ArrowFor(geom.Point{X: 60, Y: 130}, box)
//	// seg.To == geom.Point{X: 300, Y: 130}
package geom
