package diagram

import "github.com/matzehuels/structboard/pkg/geom"

// HitTest returns the topmost element strictly containing (x, y), or nil.
// Children are tested before their containers and later free-floating
// elements before earlier ones.
func (d *Document) HitTest(x, y float64) *Element {
	return d.hit(x, y, func(*Element) bool { return true })
}

func (d *Document) hit(x, y float64, accept func(*Element) bool) *Element {
	all := d.Elements()
	for i := len(all) - 1; i >= 0; i-- {
		if e := all[i]; e.Contains(x, y) && accept(e) {
			return e
		}
	}
	return nil
}

// DragMode distinguishes moving an element from aiming a pointer.
type DragMode int

const (
	// DragMove translates the grabbed element.
	DragMove DragMode = iota
	// DragLink retargets the grabbed pointer to whatever is under the cursor.
	DragLink
)

// DropResult reports the structural effect of ending a drag.
type DropResult int

const (
	// DropNone means containment did not change.
	DropNone DropResult = iota
	// DropAdded means the element was placed into a container.
	DropAdded
	// DropDetached means the element left its container and is free-floating.
	DropDetached
)

// Drag is an in-progress press-move-release gesture on one element.
type Drag struct {
	doc  *Document
	id   string
	mode DragMode
	last geom.Point
}

// BeginDrag starts a gesture at (x, y). Pressing a pointer's anchor dot
// begins a link drag; pressing anywhere else on an element begins a move
// drag and raises the element. It returns nil over empty canvas.
func (d *Document) BeginDrag(x, y float64) *Drag {
	e := d.HitTest(x, y)
	if e == nil {
		return nil
	}
	mode := DragMove
	if e.AnchorHit(x, y) {
		mode = DragLink
	}
	d.Touch(e.id)
	return &Drag{doc: d, id: e.id, mode: mode, last: geom.Point{X: x, Y: y}}
}

// Element returns the grabbed element, or nil if it was deleted meanwhile.
func (g *Drag) Element() *Element { return g.doc.elems[g.id] }

// Mode returns the kind of gesture.
func (g *Drag) Mode() DragMode { return g.mode }

// MoveTo advances the gesture to (x, y).
//
// A move drag translates a free-floating element by the cursor delta;
// elements inside a container stay where the layout put them. A link drag
// targets the topmost element under the cursor other than the pointer, or
// clears the target over empty canvas.
func (g *Drag) MoveTo(x, y float64) {
	e := g.Element()
	if e == nil {
		return
	}
	defer func() { g.last = geom.Point{X: x, Y: y} }()

	if g.mode == DragLink {
		t := g.doc.hit(x, y, func(c *Element) bool { return c.id != e.id })
		if t != nil {
			g.doc.CreateArrow(e.id, t.id)
		} else {
			g.doc.ClearArrow(e.id)
		}
		return
	}
	if e.parent != "" {
		return
	}
	g.doc.Move(e.id, x-g.last.X, y-g.last.Y)
}

// End finishes the gesture at (x, y).
//
// Releasing a move drag over a container (other than the element or one of
// its descendants) puts the element into it, leaving any previous parent.
// Releasing a contained element anywhere outside a container detaches it
// and nudges it clear of its old parent. Link drags never change
// containment.
func (g *Drag) End(x, y float64) DropResult {
	e := g.Element()
	if e == nil || g.mode == DragLink {
		return DropNone
	}
	d := g.doc
	target := d.hit(x, y, func(c *Element) bool {
		return c.IsContainer() && d.canAdopt(c, e)
	})

	switch {
	case target != nil && target.id == e.parent:
		return DropNone
	case target != nil:
		if e.parent != "" {
			d.Remove(e.parent, e.id)
		}
		if d.Add(target.id, e.id) {
			return DropAdded
		}
		return DropDetached
	case e.parent != "":
		d.Remove(e.parent, e.id)
		d.Move(e.id, DetachOffsetX, DetachOffsetY)
		return DropDetached
	}
	return DropNone
}
