package diagram

// Rename sets the label of an element.
func (d *Document) Rename(id, name string) bool {
	e := d.elems[id]
	if e == nil {
		return false
	}
	e.name = name
	return true
}

// EditValue sets the payload of a DataCell.
func (d *Document) EditValue(id, value string) bool {
	e := d.elems[id]
	if e == nil || e.kind != KindDataCell {
		return false
	}
	e.value = value
	return true
}

// Copy duplicates an element with fresh IDs and places the copy,
// free-floating, offset from the source. Containers are copied with their
// children. Copied pointers start without a target.
func (d *Document) Copy(id string) (*Element, bool) {
	src := d.elems[id]
	if src == nil {
		return nil, false
	}
	cp := d.clone(src)
	d.translate(cp, CopyOffset, CopyOffset)
	return cp, true
}

func (d *Document) clone(src *Element) *Element {
	e := d.create(Spec{
		Kind:     src.kind,
		Bounds:   src.bounds,
		Name:     src.name,
		Value:    src.value,
		Ordering: src.ordering,
	})
	for _, cid := range src.children {
		child := d.clone(d.elems[cid])
		d.Add(e.id, child.id)
	}
	return e
}
