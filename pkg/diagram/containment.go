package diagram

// Add makes element a child of container and relays the container out.
//
// Add rejects, leaving the document unchanged, when either ID is unknown,
// container does not own children, element already has a parent, or
// element is container itself or one of its ancestors.
func (d *Document) Add(container, element string) bool {
	c, e := d.elems[container], d.elems[element]
	if !d.canAdopt(c, e) || e.parent != "" {
		return false
	}
	d.free, _ = removeID(d.free, e.id)
	e.parent = c.id
	c.children = append(c.children, e.id)
	d.relayout(c)
	return true
}

// canAdopt checks everything Add checks except the parent link.
func (d *Document) canAdopt(c, e *Element) bool {
	if c == nil || e == nil || !c.IsContainer() {
		return false
	}
	return c.id != e.id && !d.IsAncestor(e.id, c.id)
}

// Remove detaches element from container and returns it to the
// free-floating set at its current position.
func (d *Document) Remove(container, element string) bool {
	c, e := d.elems[container], d.elems[element]
	if c == nil || e == nil || e.parent != c.id {
		return false
	}
	var ok bool
	if c.children, ok = removeID(c.children, e.id); !ok {
		return false
	}
	e.parent = ""
	d.free = append(d.free, e.id)
	d.relayout(c)
	return true
}

// MoveOut removes element from its parent and places it just right of the
// parent's box, on top of the paint order.
func (d *Document) MoveOut(element string) bool {
	e := d.elems[element]
	if e == nil || e.parent == "" {
		return false
	}
	p := d.elems[e.parent]
	if !d.Remove(p.id, e.id) {
		return false
	}
	pb := p.bounds
	d.translate(e, pb.Right()+MoveOutMargin-e.bounds.X, pb.Y-e.bounds.Y)
	return true
}

// Move translates element by (dx, dy). Descendants of a container move
// with it and keep their offsets. Arrows touching any moved element are
// recomputed.
//
// Children of a struct or stack/queue sit in layout slots; Move refuses
// them and leaves the document unchanged.
func (d *Document) Move(element string, dx, dy float64) bool {
	e := d.elems[element]
	if e == nil {
		return false
	}
	if p := d.elems[e.parent]; p != nil {
		if _, free := LayoutFor(p.kind).(freeLayout); !free {
			return false
		}
	}
	d.translate(e, dx, dy)
	return true
}

func (d *Document) translate(e *Element, dx, dy float64) {
	if dx != 0 || dy != 0 {
		d.shift(e, dx, dy)
	}
	d.refreshSubtree(e)
}

func (d *Document) shift(e *Element, dx, dy float64) {
	e.bounds = e.bounds.Translate(dx, dy)
	for _, cid := range e.children {
		d.shift(d.elems[cid], dx, dy)
	}
}

func (d *Document) refreshSubtree(e *Element) {
	d.refreshArrows(e)
	for _, cid := range e.children {
		d.refreshSubtree(d.elems[cid])
	}
}
