package diagram

import (
	"math"

	"github.com/matzehuels/structboard/pkg/geom"
)

// Layout is the placement rule of a container kind. Both methods are pure
// functions of the container's position and its child sequence.
type Layout interface {
	// Size returns the container's width and height for n children.
	Size(c *Element, n int) (w, h float64)
	// Place returns the top-left corner for child i of n.
	Place(c, child *Element, i, n int) geom.Point
}

// LayoutFor returns the placement rule for kind k, or nil for leaf kinds.
func LayoutFor(k Kind) Layout {
	switch k {
	case KindStruct:
		return structLayout{}
	case KindStackQueue:
		return stackLayout{}
	case KindContainer:
		return freeLayout{}
	}
	return nil
}

// structLayout places children left to right in fixed-width slots.
type structLayout struct{}

func (structLayout) Size(c *Element, n int) (float64, float64) {
	return math.Max(StructMinWidth, StructSlotWidth*float64(n)+StructMargin), StructHeight
}

func (structLayout) Place(c, _ *Element, i, _ int) geom.Point {
	return geom.Point{
		X: c.bounds.X + StructLeftMargin + float64(i)*(StructSlotWidth+StructGap),
		Y: c.bounds.Y + StructTopMargin,
	}
}

// stackLayout stacks children vertically. A stack shows the most recently
// pushed child nearest the opening, a queue the oldest.
type stackLayout struct{}

func (stackLayout) Size(c *Element, n int) (float64, float64) {
	return StackWidth, math.Max(StackMinHeight, StackBaseOffset+float64(n)*(StackSlotHeight+StackGap))
}

func (stackLayout) Place(c, child *Element, i, n int) geom.Point {
	depth := i
	if c.ordering == Stack {
		depth = n - i - 1
	}
	return geom.Point{
		X: c.bounds.X + (StackWidth-child.bounds.W)/2,
		Y: c.bounds.Y + StackTopOffset + float64(depth)*(child.bounds.H+StackGap),
	}
}

// freeLayout keeps children where they are and the container at its size.
type freeLayout struct{}

func (freeLayout) Size(c *Element, _ int) (float64, float64) { return c.bounds.W, c.bounds.H }

func (freeLayout) Place(_, child *Element, _, _ int) geom.Point {
	return geom.Point{X: child.bounds.X, Y: child.bounds.Y}
}

// Relayout recomputes the size of a container and the positions of its
// children. It returns false for unknown IDs and leaf elements.
func (d *Document) Relayout(id string) bool {
	c := d.elems[id]
	if c == nil || !c.IsContainer() {
		return false
	}
	d.relayout(c)
	return true
}

// RelayoutAll relays out every container, innermost first.
func (d *Document) RelayoutAll() {
	var containers []*Element
	d.Walk(func(e *Element, _ int) bool {
		if e.IsContainer() {
			containers = append(containers, e)
		}
		return true
	})
	for i := len(containers) - 1; i >= 0; i-- {
		d.relayout(containers[i])
	}
}

func (d *Document) relayout(c *Element) {
	lay := LayoutFor(c.kind)
	if lay == nil {
		return
	}
	before := c.bounds
	n := len(c.children)
	c.bounds.W, c.bounds.H = lay.Size(c, n)

	for i, cid := range c.children {
		child := d.elems[cid]
		p := lay.Place(c, child, i, n)
		d.translate(child, p.X-child.bounds.X, p.Y-child.bounds.Y)
	}
	d.refreshArrows(c)

	if c.bounds != before && c.parent != "" {
		d.relayout(d.elems[c.parent])
	}
}

// PopTop removes the top of a StackQueue: the most recently pushed child of
// a stack or the oldest child of a queue. The popped element becomes
// free-floating just right of the container. It returns false when id is
// not a StackQueue or the container is empty.
func (d *Document) PopTop(id string) (*Element, bool) {
	s := d.elems[id]
	if s == nil || s.kind != KindStackQueue || len(s.children) == 0 {
		return nil, false
	}
	top := s.children[len(s.children)-1]
	if s.ordering == Queue {
		top = s.children[0]
	}
	if !d.MoveOut(top) {
		return nil, false
	}
	return d.elems[top], true
}
