package diagram

import "slices"

// DeleteResult reports what Delete did.
type DeleteResult int

const (
	// Deleted means the element and its subtree were removed.
	Deleted DeleteResult = iota
	// AlreadyAbsent means no element had the given ID.
	AlreadyAbsent
)

func (r DeleteResult) String() string {
	if r == AlreadyAbsent {
		return "already absent"
	}
	return "deleted"
}

// Delete removes an element and, for containers, every descendant.
//
// Children go first. Then every pointer targeting the element is cleared,
// the element's own target link is severed, and it leaves its parent (which
// is relaid out) or the free-floating set. No target or incoming entry in
// the remaining document refers to a deleted element afterwards.
func (d *Document) Delete(id string) DeleteResult {
	e := d.elems[id]
	if e == nil {
		return AlreadyAbsent
	}
	d.delete(e)
	return Deleted
}

func (d *Document) delete(e *Element) {
	for _, cid := range slices.Clone(e.children) {
		if c := d.elems[cid]; c != nil {
			d.delete(c)
		}
	}
	for _, pid := range slices.Clone(e.incoming) {
		if p := d.elems[pid]; p != nil {
			d.unlink(p)
		}
	}
	e.incoming = nil
	if e.target != "" {
		d.unlink(e)
	}

	if e.parent != "" {
		if p := d.elems[e.parent]; p != nil {
			p.children, _ = removeID(p.children, e.id)
			e.parent = ""
			d.relayout(p)
		}
	} else {
		d.free, _ = removeID(d.free, e.id)
	}
	delete(d.elems, e.id)
}

// Clear deletes every element.
func (d *Document) Clear() {
	for _, id := range slices.Clone(d.free) {
		d.Delete(id)
	}
}
