package diagram

import "fmt"

// Kind tags the closed set of element variants.
type Kind int

const (
	// KindDataCell holds a scalar value.
	KindDataCell Kind = iota + 1
	// KindPointerCell holds an optional reference to another element.
	KindPointerCell
	// KindContainer owns children and leaves their positions alone.
	KindContainer
	// KindStruct lays its children out in a horizontal row of slots.
	KindStruct
	// KindStackQueue stacks its children vertically in push order.
	KindStackQueue
)

var kindNames = map[Kind]string{
	KindDataCell:    "DataCell",
	KindPointerCell: "PointerCell",
	KindContainer:   "Container",
	KindStruct:      "Struct",
	KindStackQueue:  "StackQueue",
}

// Legacy type tags written by the original whiteboard.
var kindAliases = map[string]Kind{
	"StructBlock": KindStruct,
	"Volume":      KindContainer,
}

// String returns the document type tag for k.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsContainer reports whether elements of this kind own children.
func (k Kind) IsContainer() bool {
	return k == KindContainer || k == KindStruct || k == KindStackQueue
}

// ParseKind resolves a document type tag, including legacy aliases.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	k, ok := kindAliases[s]
	return k, ok
}

// Ordering is the pop discipline of a StackQueue.
type Ordering int

const (
	// Stack pops the most recently pushed child and draws it nearest the opening.
	Stack Ordering = iota
	// Queue pops the oldest child and draws it nearest the opening.
	Queue
)

// String returns "stack" or "queue".
func (o Ordering) String() string {
	if o == Queue {
		return "queue"
	}
	return "stack"
}

// ParseOrdering resolves "stack" or "queue".
func ParseOrdering(s string) (Ordering, bool) {
	switch s {
	case "stack":
		return Stack, true
	case "queue":
		return Queue, true
	}
	return Stack, false
}

// Geometry defaults, in canvas units.
const (
	CellWidth  = 120.0
	CellHeight = 60.0

	// AnchorRadius is the radius of the grab dot drawn at a pointer's anchor.
	AnchorRadius = 5.0

	ContainerWidth  = 120.0
	ContainerHeight = 60.0

	StructHeight     = 120.0
	StructMinWidth   = 200.0
	StructSlotWidth  = 120.0
	StructMargin     = 80.0
	StructLeftMargin = 20.0
	StructTopMargin  = 40.0
	StructGap        = 10.0

	StackWidth      = 150.0
	StackMinHeight  = 100.0
	StackBaseOffset = 90.0
	StackTopOffset  = 80.0
	StackSlotHeight = 60.0
	StackGap        = 5.0

	// MoveOutMargin separates an element moved out of a container from
	// the container's right edge.
	MoveOutMargin = 20.0

	// DetachOffsetX and DetachOffsetY nudge an element dropped outside its
	// container so it does not land on the container's edge.
	DetachOffsetX = 20.0
	DetachOffsetY = 40.0

	// CopyOffset shifts a copy away from its source on both axes.
	CopyOffset = 20.0
)
