// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package schema infers validators for free-form components, whose shape is
// not declared anywhere and is instead derived from the props they carry.
//
// An inferred Schema remembers the kind of every property at the time it was
// built. Validating later props against it reports drift (a number that became
// a string) as well as malformed sub-elements. Validation never mutates its
// input and always returns every violation it finds.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
)

// Kind is the closed set of value kinds a dynamic prop can hold.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindObject  Kind = "object"
	KindAny     Kind = "any"
)

// KindOf classifies a JSON-like value. Lists and maps are both objects;
// nil is any.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindAny
	case string:
		return KindString
	case bool:
		return KindBoolean
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return KindNumber
	default:
		return KindObject
	}
}

// IsScalar reports whether the kind is string, number or boolean.
func (k Kind) IsScalar() bool {
	return k == KindString || k == KindNumber || k == KindBoolean
}

// Accepts reports whether v conforms to the kind.
func (k Kind) Accepts(v any) bool {
	return k == KindAny || KindOf(v) == k
}

// Field is one inferred property requirement.
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
}

// Schema is a per-instance validator for a free-form node.
type Schema struct {
	fields map[string]Field
	// subElements is nil when the props carried no subElements list.
	subElements *SubElementSchema
}

// Source resolves a previously captured schema for a node id. A nil result
// means "infer one from the node's current props".
type Source interface {
	SchemaFor(nodeID string) *Schema
}

// Infer builds a schema from the current props. Every property except the
// reserved subElements key becomes a required field of its current kind.
// A node with no props yields an empty schema that accepts anything.
func Infer(props models.Props) *Schema {
	s := &Schema{fields: make(map[string]Field, len(props))}
	for k, v := range props {
		if k == models.PropSubElements {
			if list, ok := v.([]any); ok {
				s.subElements = InferSubElements(list)
			}
			continue
		}
		s.fields[k] = Field{Name: k, Kind: KindOf(v)}
	}
	return s
}

// Rebase returns a schema for props that keeps the kind recorded for keys it
// already knows, adds newly introduced keys with their current kind and drops
// keys that are gone. Sub-element rules are re-inferred from props.
func (s *Schema) Rebase(props models.Props) *Schema {
	next := Infer(props)
	if s == nil {
		return next
	}
	for k := range next.fields {
		if old, ok := s.fields[k]; ok {
			next.fields[k] = old
		}
	}
	return next
}

// Fields returns the property requirements sorted by name.
func (s *Schema) Fields() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Field returns the requirement for one property.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// SubElements returns the sub-element rules, or nil when none were inferred.
func (s *Schema) SubElements() *SubElementSchema {
	return s.subElements
}

// Validate checks props against the schema. Paths are relative to the props
// object ("count", "subElements[1].href").
func (s *Schema) Validate(props models.Props) []apperr.FieldError {
	var errs []apperr.FieldError

	for _, f := range s.Fields() {
		v, ok := props[f.Name]
		if !ok {
			if !f.Optional && f.Kind != KindAny {
				errs = append(errs, apperr.FieldError{Path: f.Name, Message: "is required"})
			}
			continue
		}
		if !f.Kind.Accepts(v) {
			errs = append(errs, apperr.FieldError{
				Path:    f.Name,
				Message: fmt.Sprintf("expected %s, got %s", f.Kind, KindOf(v)),
			})
		}
	}

	raw, ok := props[models.PropSubElements]
	if !ok || raw == nil {
		return errs
	}
	list, ok := raw.([]any)
	if !ok {
		return append(errs, apperr.FieldError{Path: models.PropSubElements, Message: "must be a list"})
	}
	rules := s.subElements
	if rules == nil {
		rules = InferSubElements(list)
	}
	return append(errs, rules.Validate(list, models.PropSubElements)...)
}

// ValidateNodes validates every free-form node in the tree and returns all
// violations with paths rooted at "components". Catalog-typed nodes are not
// checked here.
func ValidateNodes(nodes []models.Node, src Source) []apperr.FieldError {
	var errs []apperr.FieldError
	validateList(nodes, "components", src, &errs)
	return errs
}

func validateList(nodes []models.Node, path string, src Source, errs *[]apperr.FieldError) {
	for i := range nodes {
		n := &nodes[i]
		p := fmt.Sprintf("%s[%d]", path, i)
		if n.IsFreeForm() {
			var s *Schema
			if src != nil {
				s = src.SchemaFor(n.ID)
			}
			if s == nil {
				s = Infer(n.Props)
			}
			for _, fe := range s.Validate(n.Props) {
				*errs = append(*errs, apperr.FieldError{Path: p + ".props." + fe.Path, Message: fe.Message})
			}
		}
		if len(n.Children) > 0 {
			validateList(n.Children, p+".children", src, errs)
		}
	}
}
