// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"
)

// Reserved sub-element keys; everything else on a sub-element is an ad-hoc field.
const (
	SubElementKeyID      = "id"
	SubElementKeyName    = "subelement_name"
	SubElementKeyHref    = "href"
	SubElementKeyOptions = "options"
)

// SubElement is one entry of a free-form component's subElements list.
// Unknown scalar fields are kept in Extra and survive JSON and YAML round trips.
type SubElement struct {
	ID      string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string         `json:"subelement_name" yaml:"subelement_name"`
	Href    string         `json:"href,omitempty" yaml:"href,omitempty"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
	Extra   map[string]any `json:"-" yaml:",inline"`
}

// MarshalJSON flattens Extra next to the known fields.
func (s SubElement) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON splits known fields from ad-hoc ones.
func (s *SubElement) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SubElementFromMap(raw)
	return nil
}

// Map converts the sub-element into the generic form stored in node props.
func (s SubElement) Map() map[string]any {
	m := make(map[string]any, len(s.Extra)+4)
	for k, v := range s.Extra {
		m[k] = CloneValue(v)
	}
	if s.ID != "" {
		m[SubElementKeyID] = s.ID
	}
	m[SubElementKeyName] = s.Name
	if s.Href != "" {
		m[SubElementKeyHref] = s.Href
	}
	if s.Options != nil {
		m[SubElementKeyOptions] = CloneValue(map[string]any(s.Options))
	}
	return m
}

// SubElementFromMap reads a generic sub-element. Known keys with the wrong
// type are kept in Extra so no data is lost.
func SubElementFromMap(m map[string]any) SubElement {
	var s SubElement
	for k, v := range m {
		switch k {
		case SubElementKeyID:
			if str, ok := v.(string); ok {
				s.ID = str
				continue
			}
		case SubElementKeyName:
			if str, ok := v.(string); ok {
				s.Name = str
				continue
			}
		case SubElementKeyHref:
			if str, ok := v.(string); ok {
				s.Href = str
				continue
			}
		case SubElementKeyOptions:
			if opts, ok := v.(map[string]any); ok {
				s.Options = CloneValue(opts).(map[string]any)
				continue
			}
		}
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[k] = CloneValue(v)
	}
	return s
}

// ComponentDefinition is the template part of a registry entry.
type ComponentDefinition struct {
	SubElements []SubElement `json:"subElements,omitempty" yaml:"subElements,omitempty"`
}

// ComponentEntry is a named, reusable component template in the registry.
// Free-form nodes reference it through their component_name prop.
type ComponentEntry struct {
	ID            string               `json:"id"`
	ComponentName string               `json:"component_name"`
	DisplayName   string               `json:"display_name,omitempty"`
	Category      string               `json:"category,omitempty"`
	Version       string               `json:"version,omitempty"`
	Deprecated    bool                 `json:"deprecated,omitempty"`
	Definition    *ComponentDefinition `json:"definition,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ComponentInput is the writable part of a registry entry. It is also the
// record shape of bulk import files.
type ComponentInput struct {
	ComponentName string               `json:"component_name" yaml:"component_name"`
	DisplayName   string               `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Category      string               `json:"category,omitempty" yaml:"category,omitempty"`
	Version       string               `json:"version,omitempty" yaml:"version,omitempty"`
	Deprecated    bool                 `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Definition    *ComponentDefinition `json:"definition,omitempty" yaml:"definition,omitempty"`
}

// ComponentPatch is a partial update; nil fields are left unchanged.
type ComponentPatch struct {
	ComponentName *string              `json:"component_name,omitempty"`
	DisplayName   *string              `json:"display_name,omitempty"`
	Category      *string              `json:"category,omitempty"`
	Version       *string              `json:"version,omitempty"`
	Deprecated    *bool                `json:"deprecated,omitempty"`
	Definition    *ComponentDefinition `json:"definition,omitempty"`
}

// Apply writes the non-nil patch fields onto e.
func (p *ComponentPatch) Apply(e *ComponentEntry) {
	if p.ComponentName != nil {
		e.ComponentName = *p.ComponentName
	}
	if p.DisplayName != nil {
		e.DisplayName = *p.DisplayName
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Version != nil {
		e.Version = *p.Version
	}
	if p.Deprecated != nil {
		e.Deprecated = *p.Deprecated
	}
	if p.Definition != nil {
		e.Definition = p.Definition
	}
}

// BulkResult reports the outcome of a bulk registry import.
type BulkResult struct {
	Inserted int              `json:"inserted"`
	Skipped  int              `json:"skipped"`
	Items    []ComponentEntry `json:"items,omitempty"`
}

// SubElementMaps returns the definition's sub-elements in prop form, or nil.
func (e *ComponentEntry) SubElementMaps() []any {
	if e.Definition == nil || len(e.Definition.SubElements) == 0 {
		return nil
	}
	out := make([]any, len(e.Definition.SubElements))
	for i, s := range e.Definition.SubElements {
		out[i] = s.Map()
	}
	return out
}
