// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// FreeFormType is the node type whose shape is not fixed by the catalog but
// inferred per instance from its current props.
const FreeFormType = "Component"

// Reserved prop keys on free-form nodes.
const (
	PropSubElements   = "subElements"
	PropComponentName = "component_name"
)

// Props is the dynamic property bag of a node. Values are the ones produced
// by encoding/json: string, float64, bool, nil, map[string]any and []any.
type Props map[string]any

// Node is one element of a page's component tree.
//
// Children is nil when the node's type does not accept children and a
// non-nil (possibly empty) slice when it does; the two encode differently.
type Node struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Props    Props  `json:"props"`
	Children []Node `json:"children,omitempty"`
}

// NewID returns a fresh node identifier.
func NewID() string {
	return uuid.NewString()
}

// IsFreeForm reports whether the node uses the free-form component type.
func (n *Node) IsFreeForm() bool {
	return n.Type == FreeFormType
}

// MarshalJSON keeps the distinction between absent and empty children and
// always emits props as an object.
func (n Node) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID       string  `json:"id"`
		Type     string  `json:"type"`
		Props    Props   `json:"props"`
		Children *[]Node `json:"children,omitempty"`
	}
	w := wire{ID: n.ID, Type: n.Type, Props: n.Props}
	if w.Props == nil {
		w.Props = Props{}
	}
	if n.Children != nil {
		w.Children = &n.Children
	}
	return json.Marshal(w)
}

// Clone returns a deep copy of the node and its subtree.
func (n Node) Clone() Node {
	out := Node{ID: n.ID, Type: n.Type, Props: n.Props.Clone()}
	if n.Children != nil {
		out.Children = CloneNodes(n.Children)
	}
	return out
}

// CloneNodes deep-copies a node list, preserving nil versus empty.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Clone()
	}
	return out
}

// Clone deep-copies the props, including nested maps and slices.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies a JSON-like value. Scalars are returned as-is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = CloneValue(vv)
		}
		return m
	case Props:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = CloneValue(vv)
		}
		return s
	case []map[string]any:
		s := make([]map[string]any, len(t))
		for i, vv := range t {
			s[i] = CloneValue(vv).(map[string]any)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
