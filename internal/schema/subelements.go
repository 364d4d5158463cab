// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package schema

import (
	"fmt"
	"sort"
	"strings"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
)

// reservedSubElementKeys have fixed rules and are excluded from inference.
var reservedSubElementKeys = map[string]bool{
	models.SubElementKeyID:      true,
	models.SubElementKeyName:    true,
	models.SubElementKeyHref:    true,
	models.SubElementKeyOptions: true,
}

// SubElementSchema validates a subElements list: the fixed fields plus the
// ad-hoc fields discovered across the list.
type SubElementSchema struct {
	extra map[string]Field
}

// InferSubElements computes the union of non-reserved keys used by any
// element. A key whose defining elements all agree on one scalar kind is
// typed with it; anything else is accepted as any. All extras are optional.
func InferSubElements(list []any) *SubElementSchema {
	seen := make(map[string]Kind)
	mixed := make(map[string]bool)
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for k, v := range m {
			if reservedSubElementKeys[k] {
				continue
			}
			kind := KindOf(v)
			prev, ok := seen[k]
			switch {
			case !ok:
				seen[k] = kind
			case prev != kind:
				mixed[k] = true
			}
		}
	}

	s := &SubElementSchema{extra: make(map[string]Field, len(seen))}
	for k, kind := range seen {
		if mixed[k] || !kind.IsScalar() {
			kind = KindAny
		}
		s.extra[k] = Field{Name: k, Kind: kind, Optional: true}
	}
	return s
}

// Extra returns the inferred ad-hoc fields sorted by name.
func (s *SubElementSchema) Extra() []Field {
	out := make([]Field, 0, len(s.extra))
	for _, f := range s.extra {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate checks every element and sibling-name uniqueness. Each duplicate
// entry gets its own error. base prefixes the returned paths.
func (s *SubElementSchema) Validate(list []any, base string) []apperr.FieldError {
	var errs []apperr.FieldError
	add := func(i int, field, msg string) {
		p := fmt.Sprintf("%s[%d]", base, i)
		if field != "" {
			p += "." + field
		}
		errs = append(errs, apperr.FieldError{Path: p, Message: msg})
	}

	names := make(map[string][]int)
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			add(i, "", "must be an object")
			continue
		}

		name, isString := m[models.SubElementKeyName].(string)
		name = strings.TrimSpace(name)
		switch {
		case !isString && m[models.SubElementKeyName] != nil:
			add(i, models.SubElementKeyName, "must be a string")
		case name == "":
			add(i, models.SubElementKeyName, "name is required")
		default:
			names[name] = append(names[name], i)
		}

		if v, ok := m[models.SubElementKeyHref]; ok && v != nil {
			href, isString := v.(string)
			href = strings.TrimSpace(href)
			switch {
			case !isString:
				add(i, models.SubElementKeyHref, "must be a string")
			case href != "" && !strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "http"):
				add(i, models.SubElementKeyHref, "href must start with / or http")
			}
		}

		if v, ok := m[models.SubElementKeyID]; ok && v != nil {
			if _, isString := v.(string); !isString {
				add(i, models.SubElementKeyID, "must be a string")
			}
		}

		if v, ok := m[models.SubElementKeyOptions]; ok && v != nil {
			opts, isMap := v.(map[string]any)
			if !isMap {
				add(i, models.SubElementKeyOptions, "must be an object")
			} else {
				keys := make([]string, 0, len(opts))
				for k := range opts {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					if kind := KindOf(opts[k]); !kind.IsScalar() {
						add(i, models.SubElementKeyOptions+"."+k, "option values must be scalar")
					}
				}
			}
		}

		for _, f := range s.Extra() {
			v, ok := m[f.Name]
			if !ok || v == nil {
				continue
			}
			if !f.Kind.Accepts(v) {
				add(i, f.Name, fmt.Sprintf("expected %s, got %s", f.Kind, KindOf(v)))
			}
		}
	}

	dupNames := make([]string, 0)
	for name, idxs := range names {
		if len(idxs) > 1 {
			dupNames = append(dupNames, name)
		}
	}
	sort.Strings(dupNames)
	for _, name := range dupNames {
		for _, i := range names[name] {
			add(i, models.SubElementKeyName, fmt.Sprintf("duplicate subelement_name %q", name))
		}
	}
	return errs
}

// ValidateSubElements infers rules from the list itself and validates it.
func ValidateSubElements(list []any) []apperr.FieldError {
	return InferSubElements(list).Validate(list, models.PropSubElements)
}
