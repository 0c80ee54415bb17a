// Package constraint decides which constraint kinds are legal for which
// attribute types and validates authored constraint values. Patterns are
// stored verbatim; this package never compiles them.
package constraint

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/archstudio/engine/internal/models"
	appErr "github.com/archstudio/engine/pkg/errors"
)

// LegalKinds returns the constraint kinds an attribute of type t may carry.
// Enum is value-space agnostic, so it is legal for every type.
func LegalKinds(t models.AttributeType) []models.ConstraintKind {
	switch t {
	case models.TypeString:
		return []models.ConstraintKind{models.KindRegex, models.KindMinLength, models.KindMaxLength, models.KindEnum}
	case models.TypeNumber, models.TypeInteger:
		return []models.ConstraintKind{models.KindMin, models.KindMax, models.KindEnum}
	default:
		return []models.ConstraintKind{models.KindEnum}
	}
}

// IsLegal reports whether kind may be attached to an attribute of type t.
func IsLegal(kind models.ConstraintKind, t models.AttributeType) bool {
	for _, k := range LegalKinds(t) {
		if k == kind {
			return true
		}
	}
	return false
}

// Validate checks c's legality for an attribute of type t and its value
// against its kind.
func Validate(c models.Constraint, t models.AttributeType) error {
	if !IsLegal(c.Kind, t) {
		return appErr.Validation(fmt.Sprintf("constraint %q is not allowed on type %q", c.Kind, t))
	}

	switch c.Kind {
	case models.KindRegex:
		if strings.TrimSpace(c.Value) == "" {
			return appErr.Validation("regex pattern must not be empty")
		}
	case models.KindMinLength, models.KindMaxLength:
		n, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil || n < 0 {
			return appErr.Validation(fmt.Sprintf("%s requires a non-negative integer", c.Kind))
		}
	case models.KindMin, models.KindMax:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return appErr.Validation(fmt.Sprintf("%s requires a finite number", c.Kind))
		}
	case models.KindEnum:
		if len(c.Values) == 0 {
			return appErr.Validation("enum requires at least one value")
		}
	default:
		return appErr.Validation(fmt.Sprintf("unknown constraint kind %q", c.Kind))
	}
	return nil
}

// Attach adds c to attr, replacing any existing constraint of the same kind
// so at most one per kind ever exists.
func Attach(attr *models.Attribute, c models.Constraint) error {
	if err := Validate(c, attr.Type); err != nil {
		return err
	}
	for i, existing := range attr.Constraints {
		if existing.Kind == c.Kind {
			attr.Constraints[i] = c
			return nil
		}
	}
	attr.Constraints = append(attr.Constraints, c)
	return nil
}

// Detach removes the constraint of the given kind from attr, if present.
func Detach(attr *models.Attribute, kind models.ConstraintKind) {
	for i, existing := range attr.Constraints {
		if existing.Kind == kind {
			attr.Constraints = append(attr.Constraints[:i], attr.Constraints[i+1:]...)
			return
		}
	}
}

// SetType changes attr's type and clears every constraint, so nothing
// authored against the old type's value space is silently carried over.
func SetType(attr *models.Attribute, t models.AttributeType) error {
	if !models.ValidAttributeType(t) {
		return appErr.Validation(fmt.Sprintf("unknown attribute type %q", t))
	}
	if t == attr.Type {
		return nil
	}
	attr.Type = t
	attr.Constraints = nil
	if t != models.TypeObject {
		attr.Attributes = nil
	}
	if t != models.TypeArray {
		attr.Element = nil
	}
	return nil
}

// ParseEnumValues splits raw on commas and newlines into trimmed, de-duplicated,
// non-empty enum members, preserving first-seen order.
func ParseEnumValues(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	seen := map[string]bool{}
	var out []string
	for _, f := range fields {
		v := strings.TrimSpace(f)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// ValidateTree walks an attribute tree and collects every structural problem:
// missing names, unknown types, and constraints illegal for their node's
// type. Paths in messages are slash-joined attribute names.
func ValidateTree(attrs []*models.Attribute) []string {
	var problems []string
	walkTree(attrs, "", &problems)
	return problems
}

func walkTree(attrs []*models.Attribute, path string, problems *[]string) {
	for _, a := range attrs {
		name := strings.TrimSpace(a.Name)
		nodePath := path + "/" + name
		if name == "" {
			nodePath = path + "/?"
			*problems = append(*problems, fmt.Sprintf("%s: attribute name is required", nodePath))
		}
		if !models.ValidAttributeType(a.Type) {
			*problems = append(*problems, fmt.Sprintf("%s: unknown type %q", nodePath, a.Type))
		}
		seen := map[models.ConstraintKind]bool{}
		for _, c := range a.Constraints {
			if seen[c.Kind] {
				*problems = append(*problems, fmt.Sprintf("%s: duplicate %s constraint", nodePath, c.Kind))
				continue
			}
			seen[c.Kind] = true
			if err := Validate(c, a.Type); err != nil {
				msg := err.Error()
				var ae *appErr.AppError
				if errors.As(err, &ae) {
					msg = ae.Message
				}
				*problems = append(*problems, fmt.Sprintf("%s: %s", nodePath, msg))
			}
		}
		walkTree(a.Attributes, nodePath, problems)
		if a.Element != nil {
			walkTree([]*models.Attribute{a.Element}, nodePath+"[]", problems)
		}
	}
}
