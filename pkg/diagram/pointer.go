package diagram

import (
	"slices"

	"github.com/matzehuels/structboard/pkg/geom"
)

// CreateArrow points pointer at target, replacing any previous target.
// It returns false when pointer is not a PointerCell, target is unknown, or
// the two are the same element.
func (d *Document) CreateArrow(pointer, target string) bool {
	p, t := d.elems[pointer], d.elems[target]
	if p == nil || t == nil || p.kind != KindPointerCell || p.id == t.id {
		return false
	}
	if p.target != t.id {
		d.unlink(p)
		p.target = t.id
		t.incoming = append(t.incoming, p.id)
	}
	d.updateArrow(p)
	return true
}

// ClearArrow removes pointer's target. It returns false when pointer is
// unknown, not a PointerCell, or already has no target.
func (d *Document) ClearArrow(pointer string) bool {
	p := d.elems[pointer]
	if p == nil || p.kind != KindPointerCell || p.target == "" {
		return false
	}
	d.unlink(p)
	return true
}

// PointersTo returns the pointers targeting id.
func (d *Document) PointersTo(id string) []*Element {
	e := d.elems[id]
	if e == nil {
		return nil
	}
	out := make([]*Element, 0, len(e.incoming))
	for _, pid := range e.incoming {
		out = append(out, d.elems[pid])
	}
	return out
}

func (d *Document) unlink(p *Element) {
	if t := d.elems[p.target]; t != nil {
		t.incoming, _ = removeID(t.incoming, p.id)
	}
	p.target = ""
	p.arrow = nil
}

// refreshArrows recomputes e's own arrow and the arrows of every pointer
// targeting e.
func (d *Document) refreshArrows(e *Element) {
	d.updateArrow(e)
	for _, pid := range slices.Clone(e.incoming) {
		if p := d.elems[pid]; p != nil {
			d.updateArrow(p)
		}
	}
}

func (d *Document) updateArrow(p *Element) {
	if p.kind != KindPointerCell {
		return
	}
	t := d.elems[p.target]
	if t == nil {
		p.arrow = nil
		return
	}
	seg := geom.ArrowFor(p.Anchor(), t.bounds)
	p.arrow = &seg
}
