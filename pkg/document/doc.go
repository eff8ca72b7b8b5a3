// Package document defines the on-disk format of a structboard diagram.
//
// A document is a list of [Record] values, one per free-floating element,
// with container contents nested under "children":
//
//	[
//	  {"type": "Struct", "id": "n1", "x": 100, "y": 100, "name": "node",
//	   "width": 320, "height": 120, "children": [
//	    {"type": "DataCell", "id": "v1", ..., "value": "42"},
//	    {"type": "PointerCell", "id": "p1", ..., "targetId": "n2"}
//	  ]}
//	]
//
// Arrows are never stored; they are recomputed from geometry after
// [Decode]. Containment is never stored as a parent field; it is the
// nesting itself.
//
// # Partial Loads
//
// [Decode] keeps going past bad input: a malformed record is skipped along
// with its subtree and a pointer whose target is missing loads without a
// target. The returned [Report] counts both. Only a syntax error in the
// underlying JSON or YAML makes [Read] fail.
//
// # Legacy Files
//
// Files written by the original whiteboard are accepted as-is: "uuid",
// "target_uuid", "elements" and "is_stack" are read as "id", "targetId",
// "children" and "ordering", and the old type tags StructBlock and Volume
// map to Struct and Container.
package document
