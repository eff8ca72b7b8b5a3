package document

import (
	"strings"

	"github.com/matzehuels/structboard/pkg/diagram"
	"github.com/matzehuels/structboard/pkg/errors"
	"github.com/matzehuels/structboard/pkg/geom"
)

// =============================================================================
// Encode
// =============================================================================

// Encode converts a diagram to records: one per free-floating element in
// paint order, with container contents nested depth-first.
func Encode(d *diagram.Document) []Record {
	top := d.TopLevel()
	out := make([]Record, 0, len(top))
	for _, e := range top {
		out = append(out, encodeElement(d, e))
	}
	return out
}

func encodeElement(d *diagram.Document, e *diagram.Element) Record {
	b := e.Bounds()
	r := Record{
		Type:   e.Kind().String(),
		ID:     e.ID(),
		X:      b.X,
		Y:      b.Y,
		Name:   e.Name(),
		Width:  b.W,
		Height: b.H,
	}
	switch e.Kind() {
	case diagram.KindDataCell:
		v := e.Value()
		r.Value = &v
	case diagram.KindPointerCell:
		if t := e.Target(); t != "" {
			r.TargetID = &t
		}
	case diagram.KindStackQueue:
		r.Ordering = e.Ordering().String()
	}
	if e.IsContainer() {
		kids := d.ChildrenOf(e.ID())
		r.Children = make([]Record, 0, len(kids))
		for _, c := range kids {
			r.Children = append(r.Children, encodeElement(d, c))
		}
	}
	return r
}

// =============================================================================
// Decode
// =============================================================================

// Report summarizes a decode.
type Report struct {
	// Records is the number of elements restored.
	Records int
	// Skipped counts malformed records, including the subtrees under them.
	Skipped int
	// Dangling counts pointers whose target is not in the document.
	Dangling int
	// Problems describes each skipped record and dangling target.
	Problems []error
}

// Clean reports whether every record was restored and every target resolved.
func (r Report) Clean() bool { return r.Skipped == 0 && r.Dangling == 0 }

type pendingLink struct {
	pointer, target string
}

// placement is the recorded position of a child of a generic container.
type placement struct {
	id string
	at geom.Point
}

type decoder struct {
	doc     *diagram.Document
	report  Report
	pending []pendingLink
	placed  []placement
}

// Decode rebuilds a diagram from records.
//
// The first pass restores every record depth-first with its original ID
// and re-adds each child to its parent as it is created; pointer targets
// are set aside. Children of generic containers are then moved back to
// their recorded positions, outermost first: siblings restored later may
// have shifted an enclosing struct or stack. The second pass links
// pointers once every element exists.
//
// A malformed record is skipped together with its children. A target that
// does not resolve leaves the pointer without a target. Neither stops the
// decode; both are counted in the Report.
func Decode(records []Record, opts ...diagram.Option) (*diagram.Document, Report) {
	dec := &decoder{doc: diagram.New(opts...)}
	for _, r := range records {
		dec.restore(r, "")
	}
	dec.place()
	dec.link()
	return dec.doc, dec.report
}

func (dec *decoder) restore(r Record, parent string) {
	spec, err := specFor(r)
	if err == nil {
		_, err = dec.doc.Restore(spec)
	}
	if err != nil {
		dec.skip(r, err)
		return
	}
	dec.report.Records++
	if parent != "" {
		dec.doc.Add(parent, spec.ID)
		if dec.doc.Get(parent).Kind() == diagram.KindContainer {
			dec.placed = append(dec.placed, placement{id: spec.ID, at: spec.Bounds.TopLeft()})
		}
	}

	if spec.Kind == diagram.KindPointerCell && r.TargetID != nil && *r.TargetID != "" {
		dec.pending = append(dec.pending, pendingLink{pointer: spec.ID, target: *r.TargetID})
	}
	if !spec.Kind.IsContainer() {
		for _, c := range r.Children {
			dec.skip(c, errors.New(errors.ErrCodeInvalidDocument, "%s %q cannot have children", spec.Kind, spec.ID))
		}
		return
	}
	for _, c := range r.Children {
		dec.restore(c, spec.ID)
	}
}

func (dec *decoder) skip(r Record, err error) {
	dec.report.Skipped += r.Count()
	dec.report.Problems = append(dec.report.Problems, err)
}

// place runs in restore order, so a container is back in position before
// its own children are.
func (dec *decoder) place() {
	for _, p := range dec.placed {
		b := dec.doc.Get(p.id).Bounds()
		dec.doc.Move(p.id, p.at.X-b.X, p.at.Y-b.Y)
	}
}

func (dec *decoder) link() {
	for _, l := range dec.pending {
		if !dec.doc.CreateArrow(l.pointer, l.target) {
			dec.report.Dangling++
			dec.report.Problems = append(dec.report.Problems,
				errors.New(errors.ErrCodeNotFound, "pointer %q: target %q not found", l.pointer, l.target))
		}
	}
}

func specFor(r Record) (diagram.Spec, error) {
	if r.Type == "" {
		return diagram.Spec{}, errors.New(errors.ErrCodeMissingField, "record %q: missing type", r.ID)
	}
	kind, ok := diagram.ParseKind(r.Type)
	if !ok {
		return diagram.Spec{}, errors.New(errors.ErrCodeUnknownType, "record %q: unknown type %q", r.ID, r.Type)
	}
	if r.ID == "" {
		return diagram.Spec{}, errors.New(errors.ErrCodeMissingField, "%s record: missing id", kind)
	}
	if len(r.missing) > 0 {
		return diagram.Spec{}, errors.New(errors.ErrCodeMissingField, "%s %q: missing %s", kind, r.ID, strings.Join(r.missing, ", "))
	}
	spec := diagram.Spec{
		ID:     r.ID,
		Kind:   kind,
		Bounds: geom.Rect{X: r.X, Y: r.Y, W: r.Width, H: r.Height},
		Name:   r.Name,
	}
	switch kind {
	case diagram.KindDataCell:
		if r.Value == nil {
			return diagram.Spec{}, errors.New(errors.ErrCodeMissingField, "DataCell %q: missing value", r.ID)
		}
		spec.Value = *r.Value
	case diagram.KindStackQueue:
		if r.Ordering == "" {
			return diagram.Spec{}, errors.New(errors.ErrCodeMissingField, "StackQueue %q: missing ordering", r.ID)
		}
		o, ok := diagram.ParseOrdering(r.Ordering)
		if !ok {
			return diagram.Spec{}, errors.New(errors.ErrCodeInvalidDocument, "StackQueue %q: invalid ordering %q", r.ID, r.Ordering)
		}
		spec.Ordering = o
	}
	return spec, nil
}
