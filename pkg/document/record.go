package document

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/structboard/pkg/diagram"
)

// =============================================================================
// Record - Persisted Element
// =============================================================================

// Record is the persisted form of one element.
//
// Type-specific fields are pointers or empty when they do not apply: Value
// is set for DataCell records, TargetID for PointerCell records with a
// target, and Ordering for StackQueue records. Children nests the records
// of a container in insertion order; it is the only place containment is
// stored.
//
// Encoded JSON and YAML always carry the fields a record's type requires:
// targetId is written as null for a pointer without a target and children
// as an empty list for an empty container.
type Record struct {
	Type     string   `json:"type" yaml:"type" bson:"type"`
	ID       string   `json:"id" yaml:"id" bson:"id"`
	X        float64  `json:"x" yaml:"x" bson:"x"`
	Y        float64  `json:"y" yaml:"y" bson:"y"`
	Name     string   `json:"name" yaml:"name" bson:"name"`
	Width    float64  `json:"width" yaml:"width" bson:"width"`
	Height   float64  `json:"height" yaml:"height" bson:"height"`
	Value    *string  `json:"value,omitempty" yaml:"value,omitempty" bson:"value,omitempty"`
	TargetID *string  `json:"targetId" yaml:"targetId" bson:"targetId,omitempty"`
	Ordering string   `json:"ordering,omitempty" yaml:"ordering,omitempty" bson:"ordering,omitempty"`
	Children []Record `json:"children" yaml:"children" bson:"children,omitempty"`

	// missing lists required fields absent from the decoded text.
	missing []string
}

// Count returns the number of records in r's subtree, r included.
func (r Record) Count() int {
	n := 1
	for _, c := range r.Children {
		n += c.Count()
	}
	return n
}

// =============================================================================
// Wire Form
// =============================================================================

// wireRecord is the encoded shape of a Record. The double pointer keeps
// targetId present as null, and the slice pointer keeps an empty children
// list present.
type wireRecord struct {
	Type     string    `json:"type" yaml:"type"`
	ID       string    `json:"id" yaml:"id"`
	X        float64   `json:"x" yaml:"x"`
	Y        float64   `json:"y" yaml:"y"`
	Name     string    `json:"name" yaml:"name"`
	Width    float64   `json:"width" yaml:"width"`
	Height   float64   `json:"height" yaml:"height"`
	Value    *string   `json:"value,omitempty" yaml:"value,omitempty"`
	TargetID **string  `json:"targetId,omitempty" yaml:"targetId,omitempty"`
	Ordering string    `json:"ordering,omitempty" yaml:"ordering,omitempty"`
	Children *[]Record `json:"children,omitempty" yaml:"children,omitempty"`
}

func (r Record) wire() wireRecord {
	w := wireRecord{
		Type:     r.Type,
		ID:       r.ID,
		X:        r.X,
		Y:        r.Y,
		Name:     r.Name,
		Width:    r.Width,
		Height:   r.Height,
		Value:    r.Value,
		Ordering: r.Ordering,
	}
	kind, known := diagram.ParseKind(r.Type)
	if r.TargetID != nil || (known && kind == diagram.KindPointerCell) {
		w.TargetID = &r.TargetID
	}
	if len(r.Children) > 0 || (known && kind.IsContainer()) {
		kids := r.Children
		if kids == nil {
			kids = []Record{}
		}
		w.Children = &kids
	}
	return w
}

// MarshalJSON writes the fields required by the record's type.
func (r Record) MarshalJSON() ([]byte, error) { return json.Marshal(r.wire()) }

// MarshalYAML writes the fields required by the record's type.
func (r Record) MarshalYAML() (interface{}, error) { return r.wire(), nil }

// missingFields returns the required fields of a record of type typ that
// has does not report. Legacy names count for their current ones. The
// type, id, value and ordering fields are checked when the record is
// restored.
func missingFields(typ string, has func(key string) bool) []string {
	var out []string
	need := func(names ...string) {
		for _, n := range names {
			if has(n) {
				return
			}
		}
		out = append(out, names[0])
	}
	need("x")
	need("y")
	need("name")
	need("width")
	need("height")
	if kind, ok := diagram.ParseKind(typ); ok {
		switch {
		case kind == diagram.KindPointerCell:
			need("targetId", "target_uuid")
		case kind.IsContainer():
			need("children", "elements")
		}
	}
	return out
}

// =============================================================================
// Legacy Field Names
// =============================================================================

// legacy holds the field names written by the original whiteboard files.
type legacy struct {
	UUID       string   `json:"uuid" yaml:"uuid"`
	TargetUUID *string  `json:"target_uuid" yaml:"target_uuid"`
	Elements   []Record `json:"elements" yaml:"elements"`
	IsStack    *bool    `json:"is_stack" yaml:"is_stack"`
}

// apply fills the fields of r that the current format left empty.
func (l legacy) apply(r *Record) {
	if r.ID == "" {
		r.ID = l.UUID
	}
	if r.TargetID == nil {
		r.TargetID = l.TargetUUID
	}
	if r.Children == nil {
		r.Children = l.Elements
	}
	if r.Ordering == "" {
		switch {
		case l.IsStack != nil && *l.IsStack:
			r.Ordering = "stack"
		case l.IsStack != nil:
			r.Ordering = "queue"
		case l.UUID != "" && r.Type == "StackQueue":
			// old files omit is_stack for stacks
			r.Ordering = "stack"
		}
	}
}

// plainRecord has Record's fields without its methods.
type plainRecord Record

// UnmarshalJSON accepts both the current field names and the legacy ones.
func (r *Record) UnmarshalJSON(data []byte) error {
	var aux struct {
		plainRecord
		legacy
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*r = Record(aux.plainRecord)
	aux.legacy.apply(r)
	r.missing = missingFields(r.Type, func(k string) bool {
		_, ok := keys[k]
		return ok
	})
	return nil
}

// UnmarshalYAML accepts both the current field names and the legacy ones.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		plainRecord `yaml:",inline"`
		legacy      `yaml:",inline"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	keys := map[string]bool{}
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			keys[value.Content[i].Value] = true
		}
	}
	*r = Record(aux.plainRecord)
	aux.legacy.apply(r)
	r.missing = missingFields(r.Type, func(k string) bool { return keys[k] })
	return nil
}
