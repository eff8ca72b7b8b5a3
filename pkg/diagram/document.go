package diagram

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/structboard/pkg/errors"
	"github.com/matzehuels/structboard/pkg/geom"
)

// Document is the arena that owns every element of one diagram.
//
// Each element is either a child of exactly one container or a member of
// the free-floating list, never both. The free-floating list is kept in
// paint order: the last entry is drawn on top.
//
// The zero value is not usable - use New. A Document is not safe for
// concurrent use; all mutations are expected from a single writer.
type Document struct {
	elems map[string]*Element
	free  []string
	newID func() string
}

// Option configures a Document.
type Option func(*Document)

// WithIDGenerator replaces the UUID generator used for new elements. The
// generator must keep producing IDs that are non-empty and unused in the
// document; empty or taken IDs are drawn again a few times before the
// constructor panics.
func WithIDGenerator(fn func() string) Option {
	return func(d *Document) {
		if fn != nil {
			d.newID = fn
		}
	}
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		elems: make(map[string]*Element),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Spec describes an element to insert with an explicit identity.
type Spec struct {
	ID       string
	Kind     Kind
	Bounds   geom.Rect
	Name     string
	Value    string
	Ordering Ordering
}

// NewDataCell creates a free-floating data cell at (x, y).
func (d *Document) NewDataCell(x, y float64, name, value string) *Element {
	return d.create(Spec{Kind: KindDataCell, Bounds: geom.Rect{X: x, Y: y, W: CellWidth, H: CellHeight}, Name: name, Value: value})
}

// NewPointerCell creates a free-floating pointer cell at (x, y) with no target.
func (d *Document) NewPointerCell(x, y float64, name string) *Element {
	return d.create(Spec{Kind: KindPointerCell, Bounds: geom.Rect{X: x, Y: y, W: CellWidth, H: CellHeight}, Name: name})
}

// NewContainer creates a free-floating generic container. A zero width or
// height falls back to the container defaults.
func (d *Document) NewContainer(x, y float64, name string, w, h float64) *Element {
	if w <= 0 {
		w = ContainerWidth
	}
	if h <= 0 {
		h = ContainerHeight
	}
	return d.create(Spec{Kind: KindContainer, Bounds: geom.Rect{X: x, Y: y, W: w, H: h}, Name: name})
}

// NewStruct creates a free-floating, empty struct block.
func (d *Document) NewStruct(x, y float64, name string) *Element {
	return d.create(Spec{Kind: KindStruct, Bounds: geom.Rect{X: x, Y: y, W: StructMinWidth, H: StructHeight}, Name: name})
}

// NewStackQueue creates a free-floating, empty stack or queue.
func (d *Document) NewStackQueue(x, y float64, name string, o Ordering) *Element {
	return d.create(Spec{Kind: KindStackQueue, Bounds: geom.Rect{X: x, Y: y, W: StackWidth, H: StackMinHeight}, Name: name, Ordering: o})
}

// idAttempts bounds how often create redraws a rejected ID.
const idAttempts = 8

func (d *Document) create(s Spec) *Element {
	var err error
	for range idAttempts {
		s.ID = d.newID()
		var e *Element
		if e, err = d.Restore(s); err == nil {
			return e
		}
	}
	panic("diagram: ID generator: " + err.Error())
}

// Restore inserts a free-floating element with the identity given in s.
// It is the entry point for rebuilding a diagram from a persisted document.
// Struct and StackQueue sizes are derived and get recomputed immediately.
func (d *Document) Restore(s Spec) (*Element, error) {
	if s.ID == "" {
		return nil, errors.New(errors.ErrCodeMissingField, "element ID must not be empty")
	}
	if _, dup := d.elems[s.ID]; dup {
		return nil, errors.New(errors.ErrCodeDuplicateID, "duplicate element ID %q", s.ID)
	}
	if _, ok := kindNames[s.Kind]; !ok {
		return nil, errors.New(errors.ErrCodeUnknownType, "unknown element kind %d", int(s.Kind))
	}
	e := &Element{
		id:       s.ID,
		kind:     s.Kind,
		bounds:   s.Bounds,
		name:     s.Name,
		ordering: s.Ordering,
	}
	if s.Kind == KindDataCell {
		e.value = s.Value
	}
	d.elems[e.id] = e
	d.free = append(d.free, e.id)
	if e.IsContainer() {
		d.relayout(e)
	}
	return e, nil
}

// Get returns the element with the given ID, or nil.
func (d *Document) Get(id string) *Element { return d.elems[id] }

// Len returns the number of elements in the document.
func (d *Document) Len() int { return len(d.elems) }

// TopLevel returns the free-floating elements in paint order.
func (d *Document) TopLevel() []*Element {
	out := make([]*Element, 0, len(d.free))
	for _, id := range d.free {
		out = append(out, d.elems[id])
	}
	return out
}

// ChildrenOf returns the children of a container in insertion order.
func (d *Document) ChildrenOf(id string) []*Element {
	e := d.elems[id]
	if e == nil {
		return nil
	}
	out := make([]*Element, 0, len(e.children))
	for _, cid := range e.children {
		out = append(out, d.elems[cid])
	}
	return out
}

// Walk visits every element depth-first in paint order: each free-floating
// element, then its descendants. Returning false from fn stops the walk.
func (d *Document) Walk(fn func(e *Element, depth int) bool) {
	for _, id := range d.free {
		if !d.walk(d.elems[id], 0, fn) {
			return
		}
	}
}

func (d *Document) walk(e *Element, depth int, fn func(*Element, int) bool) bool {
	if !fn(e, depth) {
		return false
	}
	for _, cid := range e.children {
		if !d.walk(d.elems[cid], depth+1, fn) {
			return false
		}
	}
	return true
}

// Elements returns every element in paint order.
func (d *Document) Elements() []*Element {
	out := make([]*Element, 0, len(d.elems))
	d.Walk(func(e *Element, _ int) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Bounds returns the union of all element boxes.
func (d *Document) Bounds() geom.Rect {
	var r geom.Rect
	for _, e := range d.elems {
		r = r.Union(e.bounds)
	}
	return r
}

// IsAncestor reports whether a is a proper ancestor of b.
func (d *Document) IsAncestor(a, b string) bool {
	e := d.elems[b]
	for steps := 0; e != nil && e.parent != "" && steps <= len(d.elems); steps++ {
		if e.parent == a {
			return true
		}
		e = d.elems[e.parent]
	}
	return false
}

// Touch raises a free-floating element to the top of the paint order.
// It returns false for unknown or parented elements.
func (d *Document) Touch(id string) bool {
	e := d.elems[id]
	if e == nil || e.parent != "" {
		return false
	}
	d.free, _ = removeID(d.free, id)
	d.free = append(d.free, id)
	return true
}

// Validate checks the structural invariants of the document: the free list
// and the children lists partition the elements, parent links match child
// lists, containment is acyclic, and pointer links are symmetric.
func (d *Document) Validate() error {
	seen := make(map[string]string, len(d.elems))
	place := func(id, where string) error {
		if prev, dup := seen[id]; dup {
			return errors.New(errors.ErrCodeStructural, "element %q listed in %s and %s", id, prev, where)
		}
		seen[id] = where
		return nil
	}

	for _, id := range d.free {
		e := d.elems[id]
		if e == nil {
			return errors.New(errors.ErrCodeStructural, "free-floating element %q does not exist", id)
		}
		if e.parent != "" {
			return errors.New(errors.ErrCodeStructural, "free-floating element %q has parent %q", id, e.parent)
		}
		if err := place(id, "free-floating set"); err != nil {
			return err
		}
	}

	for _, e := range d.elems {
		if len(e.children) > 0 && !e.IsContainer() {
			return errors.New(errors.ErrCodeStructural, "%s %q has children", e.kind, e.id)
		}
		for _, cid := range e.children {
			c := d.elems[cid]
			if c == nil {
				return errors.New(errors.ErrCodeStructural, "child %q of %q does not exist", cid, e.id)
			}
			if c.parent != e.id {
				return errors.New(errors.ErrCodeStructural, "child %q of %q has parent %q", cid, e.id, c.parent)
			}
			if err := place(cid, "container "+e.id); err != nil {
				return err
			}
		}
	}

	if len(seen) != len(d.elems) {
		for id := range d.elems {
			if _, ok := seen[id]; !ok {
				return errors.New(errors.ErrCodeStructural, "element %q is neither free-floating nor contained", id)
			}
		}
	}

	for id := range d.elems {
		if d.IsAncestor(id, id) {
			return errors.New(errors.ErrCodeStructural, "element %q contains itself", id)
		}
	}

	for _, e := range d.elems {
		if e.target != "" {
			if e.target == e.id {
				return errors.New(errors.ErrCodeStructural, "pointer %q targets itself", e.id)
			}
			t := d.elems[e.target]
			if t == nil {
				return errors.New(errors.ErrCodeStructural, "pointer %q targets missing element %q", e.id, e.target)
			}
			if !slices.Contains(t.incoming, e.id) {
				return errors.New(errors.ErrCodeStructural, "target %q does not list pointer %q", t.id, e.id)
			}
		}
		for _, pid := range e.incoming {
			p := d.elems[pid]
			if p == nil || p.target != e.id {
				return errors.New(errors.ErrCodeStructural, "stale incoming pointer %q on %q", pid, e.id)
			}
		}
	}
	return nil
}
