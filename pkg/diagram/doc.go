// Package diagram is the model behind the structboard editor: cells,
// pointers and containers placed on a 2D canvas.
//
// # Overview
//
// A [Document] owns every [Element] of one diagram. Elements come in five
// kinds:
//
//   - [KindDataCell]: a labelled box holding a scalar value
//   - [KindPointerCell]: a box whose arrow points at another element
//   - [KindContainer]: a box that owns children and leaves them in place
//   - [KindStruct]: a container laying its children out in a row
//   - [KindStackQueue]: a container stacking its children vertically
//
// Every element is either free-floating or the child of exactly one
// container. Links between elements are IDs, so removing an element never
// leaves a dangling object behind, only an ID that [Document.Validate]
// reports.
//
// # Building a Diagram
//
//	d := diagram.New()
//	s := d.NewStruct(100, 100, "node")
//	v := d.NewDataCell(0, 0, "val", "42")
//	next := d.NewPointerCell(0, 0, "next")
//	d.Add(s.ID(), v.ID())
//	d.Add(s.ID(), next.ID())
//	d.CreateArrow(next.ID(), s.ID())
//
// Adding a child relays its container out through the container's
// [Layout], and a container that changes size relays out its own parent in
// turn. Moving any element, directly or through layout, recomputes the
// arrows of every pointer that starts or ends in the moved subtree.
//
// # Interaction
//
// [Document.HitTest] and [Document.BeginDrag] map pointer-device input onto
// the same operations: dragging a pointer's anchor dot retargets it, and
// dropping an element onto a container moves it there.
//
// # Concurrency
//
// A Document is not safe for concurrent use. Callers that share one between
// goroutines must serialize access.
package diagram
