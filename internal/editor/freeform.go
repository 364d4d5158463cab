// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"slices"

	"pagebuilder/internal/models"
	"pagebuilder/internal/schema"
	"pagebuilder/internal/tree"
)

// editFreeForm runs fn on a copy of a free-form node's props and stores the
// result with SetProps. fn returning false aborts without a history entry.
func (s *Session) editFreeForm(id string, fn func(props models.Props) bool) bool {
	n, ok := tree.Find(s.nodes, id)
	if !ok || !n.IsFreeForm() {
		return false
	}
	props := n.Props.Clone()
	if props == nil {
		props = models.Props{}
	}
	if !fn(props) {
		return false
	}
	return s.SetProps(id, props)
}

// BindTemplate points a free-form node at a registry entry. The entry's
// sub-elements are copied in when the node has none yet, and its display
// name, category and version fill props that are still empty. An empty name
// removes the binding. Unknown names are rejected.
func (s *Session) BindTemplate(id, componentName string) bool {
	if componentName == "" {
		return s.editFreeForm(id, func(props models.Props) bool {
			if _, ok := props[models.PropComponentName]; !ok {
				return false
			}
			delete(props, models.PropComponentName)
			return true
		})
	}
	entry, ok := s.reg.Entry(componentName)
	if !ok {
		return false
	}
	return s.editFreeForm(id, func(props models.Props) bool {
		props[models.PropComponentName] = componentName

		if subs, _ := props[models.PropSubElements].([]any); len(subs) == 0 {
			if tpl := entry.SubElementMaps(); len(tpl) > 0 {
				props[models.PropSubElements] = tpl
			}
		}

		for k, v := range map[string]string{
			"display_name": entry.DisplayName,
			"category":     entry.Category,
			"version":      entry.Version,
		} {
			if v != "" && isEmptyProp(props[k]) {
				props[k] = v
			}
		}
		return true
	})
}

func isEmptyProp(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	}
	return false
}

// ApplyPreset merges a catalog type's default props under the node's
// existing props; keys already set win.
func (s *Session) ApplyPreset(id, typ string) bool {
	sch, ok := s.reg.Lookup(typ)
	if !ok {
		return false
	}
	return s.editFreeForm(id, func(props models.Props) bool {
		changed := false
		for k, v := range sch.Defaults() {
			if _, exists := props[k]; !exists {
				props[k] = v
				changed = true
			}
		}
		return changed
	})
}

// AddProp adds a new prop holding the zero value of kind. Existing keys and
// the reserved keys are rejected.
func (s *Session) AddProp(id, key string, kind schema.Kind) bool {
	if key == "" || key == models.PropSubElements || key == models.PropComponentName {
		return false
	}
	var zero any
	switch kind {
	case schema.KindString:
		zero = ""
	case schema.KindNumber:
		zero = float64(0)
	case schema.KindBoolean:
		zero = false
	default:
		return false
	}
	return s.editFreeForm(id, func(props models.Props) bool {
		if _, exists := props[key]; exists {
			return false
		}
		props[key] = zero
		return true
	})
}

// RemoveProp deletes a prop from a free-form node.
func (s *Session) RemoveProp(id, key string) bool {
	return s.editFreeForm(id, func(props models.Props) bool {
		if _, exists := props[key]; !exists {
			return false
		}
		delete(props, key)
		return true
	})
}

// subElements returns the node's sub-element list, copied.
func subElements(props models.Props) []any {
	list, _ := props[models.PropSubElements].([]any)
	return slices.Clone(list)
}

// AddSubElement appends a sub-element and returns its index.
func (s *Session) AddSubElement(id string, se models.SubElement) (int, bool) {
	if se.Name == "" {
		se.Name = "new"
	}
	idx := -1
	ok := s.editFreeForm(id, func(props models.Props) bool {
		list := append(subElements(props), se.Map())
		props[models.PropSubElements] = list
		idx = len(list) - 1
		return true
	})
	return idx, ok
}

// UpdateSubElement sets one field of the sub-element at index.
func (s *Session) UpdateSubElement(id string, index int, field string, value any) bool {
	return s.editFreeForm(id, func(props models.Props) bool {
		list := subElements(props)
		if index < 0 || index >= len(list) {
			return false
		}
		m, ok := list[index].(map[string]any)
		if !ok {
			return false
		}
		next := models.CloneValue(m).(map[string]any)
		next[field] = models.CloneValue(value)
		list[index] = next
		props[models.PropSubElements] = list
		return true
	})
}

// SetSubElementOption adds an option to the sub-element at index. Existing
// option keys are rejected.
func (s *Session) SetSubElementOption(id string, index int, key string, value any) bool {
	if key == "" {
		return false
	}
	return s.editFreeForm(id, func(props models.Props) bool {
		list := subElements(props)
		if index < 0 || index >= len(list) {
			return false
		}
		m, ok := list[index].(map[string]any)
		if !ok {
			return false
		}
		next := models.CloneValue(m).(map[string]any)
		opts, _ := next[models.SubElementKeyOptions].(map[string]any)
		if opts == nil {
			opts = map[string]any{}
		}
		if _, exists := opts[key]; exists {
			return false
		}
		opts[key] = value
		next[models.SubElementKeyOptions] = opts
		list[index] = next
		props[models.PropSubElements] = list
		return true
	})
}

// RemoveSubElement deletes the sub-element at index. The subElements key is
// removed once the list is empty.
func (s *Session) RemoveSubElement(id string, index int) bool {
	return s.editFreeForm(id, func(props models.Props) bool {
		list := subElements(props)
		if index < 0 || index >= len(list) {
			return false
		}
		list = slices.Delete(list, index, index+1)
		if len(list) == 0 {
			delete(props, models.PropSubElements)
		} else {
			props[models.PropSubElements] = list
		}
		return true
	})
}

// MoveSubElement moves the sub-element at from to index to.
func (s *Session) MoveSubElement(id string, from, to int) bool {
	if from == to {
		return false
	}
	return s.editFreeForm(id, func(props models.Props) bool {
		list := subElements(props)
		if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
			return false
		}
		item := list[from]
		list = slices.Delete(list, from, from+1)
		props[models.PropSubElements] = slices.Insert(list, to, item)
		return true
	})
}
