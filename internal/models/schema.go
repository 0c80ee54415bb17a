package models

import "github.com/google/uuid"

// AttributeType enumerates the value types an Attribute can take.
type AttributeType string

const (
	TypeString  AttributeType = "string"
	TypeNumber  AttributeType = "number"
	TypeInteger AttributeType = "integer"
	TypeBoolean AttributeType = "boolean"
	TypeObject  AttributeType = "object"
	TypeArray   AttributeType = "array"
	TypeDate    AttributeType = "date"
)

// ValidAttributeType reports whether t is one of the supported types.
func ValidAttributeType(t AttributeType) bool {
	switch t {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeObject, TypeArray, TypeDate:
		return true
	}
	return false
}

// ConstraintKind discriminates the Constraint union.
type ConstraintKind string

const (
	KindRegex     ConstraintKind = "regex"
	KindMinLength ConstraintKind = "minLength"
	KindMaxLength ConstraintKind = "maxLength"
	KindMin       ConstraintKind = "min"
	KindMax       ConstraintKind = "max"
	KindEnum      ConstraintKind = "enum"
)

// Constraint restricts an Attribute's value space. Value carries the raw
// authored value for scalar kinds; Values carries the member list for enum.
// At most one Constraint of each kind may exist per Attribute.
type Constraint struct {
	Kind   ConstraintKind `json:"kind"`
	Value  string         `json:"value,omitempty"`
	Values []string       `json:"values,omitempty"`
}

// AttributeFlags are boolean qualities of an Attribute.
type AttributeFlags struct {
	Required  bool `json:"required"`
	Unique    bool `json:"unique"`
	ReadOnly  bool `json:"read_only"`
	Encrypted bool `json:"encrypted"`
	Private   bool `json:"private"`
}

// Attribute is one node of a recursive schema definition. LocalID is
// engine-assigned and stable only within one draft's lifetime. Attributes
// (children) is meaningful only for type object; Element only for type array.
type Attribute struct {
	LocalID     string         `json:"local_id"`
	Name        string         `json:"name"`
	Type        AttributeType  `json:"type"`
	Description string         `json:"description"`
	Constraints []Constraint   `json:"constraints,omitempty"`
	Flags       AttributeFlags `json:"flags"`
	Attributes  []*Attribute   `json:"attributes,omitempty"`
	Element     *Attribute     `json:"element,omitempty"`
}

// DataModel is a named, reusable attribute schema.
type DataModel struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description"`
	Tags        []string     `json:"tags"`
	Attributes  []*Attribute `json:"attributes"`
}

// Component is a deployable unit exposing Entry Points. Entry points are
// owned exclusively by their Component: deleting the Component deletes them.
type Component struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description"`
	Tags        []string      `json:"tags"`
	EntryPoints []*EntryPoint `json:"entry_points"`
}

// EntryPoint is one callable surface of a Component with request and
// response schemas expressed as attribute trees.
type EntryPoint struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description"`
	Tags        []string     `json:"tags"`
	Request     []*Attribute `json:"request"`
	Response    []*Attribute `json:"response"`
}

// EntryPoint lookup helper on Component.
func (c *Component) EntryPoint(id uuid.UUID) *EntryPoint {
	for _, ep := range c.EntryPoints {
		if ep.ID == id {
			return ep
		}
	}
	return nil
}
