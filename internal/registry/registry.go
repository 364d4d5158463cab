// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package registry maps component type names to their schema: default props,
// a props validator and nesting rules. It also indexes the named component
// templates that free-form nodes bind to through their component_name prop.
//
// Lookups are pure map reads. An unknown type is not an error; callers treat
// such nodes as opaque and keep their data untouched.
package registry

import (
	"slices"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
)

// Schema describes one component type.
type Schema struct {
	Type            string
	Name            string
	Description     string
	DefaultProps    models.Props
	CanHaveChildren bool
	// AllowedChildren restricts child types when non-empty.
	AllowedChildren []string

	validate func(models.Props) []apperr.FieldError
}

// Validate checks props against the type's rules and returns every
// violation. Types without fixed rules accept anything.
func (s *Schema) Validate(props models.Props) []apperr.FieldError {
	if s.validate == nil {
		return nil
	}
	return s.validate(props)
}

// Defaults returns a deep copy of the default props.
func (s *Schema) Defaults() models.Props {
	if s.DefaultProps == nil {
		return models.Props{}
	}
	return s.DefaultProps.Clone()
}

// AllowsChild reports whether a node of this type may contain childType.
func (s *Schema) AllowsChild(childType string) bool {
	if !s.CanHaveChildren {
		return false
	}
	return len(s.AllowedChildren) == 0 || slices.Contains(s.AllowedChildren, childType)
}

// Registry is the catalog of component types plus the named templates
// loaded from a ComponentRegistryStore. It is read-only after New and safe
// for concurrent use.
type Registry struct {
	schemas map[string]*Schema
	types   []string

	entries    map[string]models.ComponentEntry
	entryNames []string
}

// New builds a registry over the built-in catalog and the given templates.
// Later entries with a name already seen are ignored.
func New(entries ...models.ComponentEntry) *Registry {
	cat := Catalog()
	r := &Registry{
		schemas: make(map[string]*Schema, len(cat)),
		types:   make([]string, 0, len(cat)),
		entries: make(map[string]models.ComponentEntry, len(entries)),
	}
	for _, s := range cat {
		r.schemas[s.Type] = s
		r.types = append(r.types, s.Type)
	}
	for _, e := range entries {
		if e.ComponentName == "" {
			continue
		}
		if _, dup := r.entries[e.ComponentName]; dup {
			continue
		}
		r.entries[e.ComponentName] = e
		r.entryNames = append(r.entryNames, e.ComponentName)
	}
	return r
}

// Lookup resolves a type name.
func (r *Registry) Lookup(typ string) (*Schema, bool) {
	s, ok := r.schemas[typ]
	return s, ok
}

// Types returns the catalog type names in palette order.
func (r *Registry) Types() []string {
	return slices.Clone(r.types)
}

// Schemas returns the catalog in palette order.
func (r *Registry) Schemas() []*Schema {
	out := make([]*Schema, len(r.types))
	for i, t := range r.types {
		out[i] = r.schemas[t]
	}
	return out
}

// AllowsChild reports whether parentType may contain childType. Unknown
// parent types never accept children.
func (r *Registry) AllowsChild(parentType, childType string) bool {
	s, ok := r.schemas[parentType]
	return ok && s.AllowsChild(childType)
}

// Entry resolves a named template.
func (r *Registry) Entry(name string) (models.ComponentEntry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Entries returns the templates in load order.
func (r *Registry) Entries() []models.ComponentEntry {
	out := make([]models.ComponentEntry, len(r.entryNames))
	for i, n := range r.entryNames {
		out[i] = r.entries[n]
	}
	return out
}

// Manifest lists the known component names: the template names when any are
// loaded, else the catalog type names.
func (r *Registry) Manifest() []string {
	if len(r.entryNames) > 0 {
		return slices.Clone(r.entryNames)
	}
	return r.Types()
}

// ValidateNode runs the typed validator for a catalog node. Free-form and
// unknown types return nil; free-form nodes are checked by the schema package.
func (r *Registry) ValidateNode(n *models.Node) []apperr.FieldError {
	if n.IsFreeForm() {
		return nil
	}
	s, ok := r.schemas[n.Type]
	if !ok {
		return nil
	}
	return s.Validate(n.Props)
}
