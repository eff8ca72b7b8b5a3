package diagram

import (
	"slices"

	"github.com/matzehuels/structboard/pkg/geom"
)

// Element is a placeable node: a cell, a pointer or a container.
//
// Elements are owned by a [Document]; links to other elements (parent,
// children, pointer target, incoming pointers) are stored as IDs and
// resolved through it. Fields are read through accessors and changed only
// by Document operations, which keep the links symmetric.
type Element struct {
	id     string
	kind   Kind
	bounds geom.Rect
	name   string

	parent   string
	incoming []string

	// DataCell
	value string

	// PointerCell
	target string
	arrow  *geom.Segment

	// Container, Struct, StackQueue
	children []string
	ordering Ordering
}

// ID returns the element's stable identifier.
func (e *Element) ID() string { return e.id }

// Kind returns the element's variant tag.
func (e *Element) Kind() Kind { return e.kind }

// Bounds returns the element's bounding box in canvas coordinates.
func (e *Element) Bounds() geom.Rect { return e.bounds }

// Name returns the user-visible label.
func (e *Element) Name() string { return e.name }

// Value returns the payload of a DataCell. Other kinds return "".
func (e *Element) Value() string { return e.value }

// Parent returns the ID of the owning container, or "" when free-floating.
func (e *Element) Parent() string { return e.parent }

// Target returns the ID a PointerCell points to, or "" for none.
func (e *Element) Target() string { return e.target }

// Ordering returns the discipline of a StackQueue.
func (e *Element) Ordering() Ordering { return e.ordering }

// Children returns a copy of the child IDs in insertion order.
func (e *Element) Children() []string { return slices.Clone(e.children) }

// Incoming returns a copy of the IDs of pointers targeting e.
func (e *Element) Incoming() []string { return slices.Clone(e.incoming) }

// Arrow returns the current arrow of a PointerCell. The second result is
// false when the pointer has no target.
func (e *Element) Arrow() (geom.Segment, bool) {
	if e.arrow == nil {
		return geom.Segment{}, false
	}
	return *e.arrow, true
}

// Anchor returns the point a pointer's arrow starts from.
func (e *Element) Anchor() geom.Point { return e.bounds.Center() }

// Contains reports whether (x, y) is strictly inside the element.
func (e *Element) Contains(x, y float64) bool { return e.bounds.Contains(x, y) }

// AnchorHit reports whether (x, y) falls on a PointerCell's anchor dot.
func (e *Element) AnchorHit(x, y float64) bool {
	if e.kind != KindPointerCell {
		return false
	}
	a := e.Anchor()
	dx, dy := x-a.X, y-a.Y
	return dx*dx+dy*dy <= AnchorRadius*AnchorRadius
}

// IsContainer reports whether e owns children.
func (e *Element) IsContainer() bool { return e.kind.IsContainer() }

func removeID(ids []string, id string) ([]string, bool) {
	i := slices.Index(ids, id)
	if i < 0 {
		return ids, false
	}
	return slices.Delete(ids, i, i+1), true
}
