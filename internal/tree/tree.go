// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree implements the page component tree as copy-on-write functions
// over a root node list.
//
// No function here modifies its input. Each mutation copies the sibling lists
// on the path to the changed node and returns the new root list together with
// a changed flag; untouched subtrees are shared with the input. Invalid
// arguments (unknown ids, cycle-forming moves) are not errors: the input is
// returned unchanged with changed == false.
package tree

import (
	"slices"

	"pagebuilder/internal/models"
)

// Position places a moved node relative to its target.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
	Inside Position = "inside"
)

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	return p == Before || p == After || p == Inside
}

// Find returns the first node with the given id in depth-first order.
// The returned pointer aliases the tree and must not be modified.
func Find(nodes []models.Node, id string) (*models.Node, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i], true
		}
		if n, ok := Find(nodes[i].Children, id); ok {
			return n, true
		}
	}
	return nil, false
}

// ParentOf returns the parent of the node with the given id. For root-level
// nodes the parent is nil and ok is true.
func ParentOf(nodes []models.Node, id string) (parent *models.Node, ok bool) {
	if Index(nodes, id) >= 0 {
		return nil, true
	}
	for i := range nodes {
		if Index(nodes[i].Children, id) >= 0 {
			return &nodes[i], true
		}
		if p, ok := ParentOf(nodes[i].Children, id); ok && p != nil {
			return p, true
		}
	}
	return nil, false
}

// Index returns the position of id within a single sibling list, or -1.
func Index(list []models.Node, id string) int {
	return slices.IndexFunc(list, func(n models.Node) bool { return n.ID == id })
}

// Insert appends n to the root list when parentID is empty, or as the last
// child of parentID. It is a no-op when the parent is missing or does not
// hold children (its Children slice is nil).
func Insert(nodes []models.Node, n models.Node, parentID string) ([]models.Node, bool) {
	if parentID == "" {
		out := make([]models.Node, 0, len(nodes)+1)
		return append(append(out, nodes...), n), true
	}
	return update(nodes, parentID, func(p models.Node) (models.Node, bool) {
		if p.Children == nil {
			return p, false
		}
		p.Children = append(slices.Clone(p.Children), n)
		return p, true
	})
}

// Open gives the node an empty children list when it has none, so a
// container loaded without a children key can receive children. Nodes that
// already hold a list are left as they are.
func Open(nodes []models.Node, id string) ([]models.Node, bool) {
	return update(nodes, id, func(n models.Node) (models.Node, bool) {
		if n.Children != nil {
			return n, false
		}
		n.Children = []models.Node{}
		return n, true
	})
}

// UpdateProps shallow-merges patch into the node's props. Keys in patch
// overwrite, other keys are kept.
func UpdateProps(nodes []models.Node, id string, patch models.Props) ([]models.Node, bool) {
	return update(nodes, id, func(n models.Node) (models.Node, bool) {
		merged := n.Props.Clone()
		if merged == nil {
			merged = make(models.Props, len(patch))
		}
		for k, v := range patch {
			merged[k] = models.CloneValue(v)
		}
		n.Props = merged
		return n, true
	})
}

// SetProps replaces the node's props wholesale, so keys can be removed.
func SetProps(nodes []models.Node, id string, props models.Props) ([]models.Node, bool) {
	return update(nodes, id, func(n models.Node) (models.Node, bool) {
		n.Props = props.Clone()
		if n.Props == nil {
			n.Props = models.Props{}
		}
		return n, true
	})
}

// Delete removes the node and its subtree.
func Delete(nodes []models.Node, id string) ([]models.Node, bool) {
	return editList(nodes, id, func(list []models.Node, i int) ([]models.Node, bool) {
		return slices.Delete(slices.Clone(list), i, i+1), true
	})
}

// Duplicate deep-copies the subtree rooted at id, gives every copied node a
// fresh id from newID and inserts the copy right after the original. It
// returns the id of the copy's root.
func Duplicate(nodes []models.Node, id string, newID func() string) ([]models.Node, string, bool) {
	var cloneID string
	out, ok := editList(nodes, id, func(list []models.Node, i int) ([]models.Node, bool) {
		clone := list[i].Clone()
		reID(&clone, newID)
		cloneID = clone.ID
		return slices.Insert(slices.Clone(list), i+1, clone), true
	})
	return out, cloneID, ok
}

func reID(n *models.Node, newID func() string) {
	n.ID = newID()
	for i := range n.Children {
		reID(&n.Children[i], newID)
	}
}

// Move detaches the subtree at fromID and reinserts it before or after toID,
// or as the last child of toID. Moving a node onto itself or into one of its
// own descendants is rejected, as is an Inside move onto a node that does
// not hold children.
func Move(nodes []models.Node, fromID, toID string, pos Position) ([]models.Node, bool) {
	if fromID == toID || !pos.Valid() {
		return nodes, false
	}
	src, ok := Find(nodes, fromID)
	if !ok {
		return nodes, false
	}
	if _, inside := Find(src.Children, toID); inside {
		return nodes, false
	}
	target, ok := Find(nodes, toID)
	if !ok || (pos == Inside && target.Children == nil) {
		return nodes, false
	}

	moved := *src
	rest, _ := Delete(nodes, fromID)

	if pos == Inside {
		return update(rest, toID, func(p models.Node) (models.Node, bool) {
			p.Children = append(slices.Clone(p.Children), moved)
			return p, true
		})
	}
	out, ok := editList(rest, toID, func(list []models.Node, i int) ([]models.Node, bool) {
		if pos == After {
			i++
		}
		return slices.Insert(slices.Clone(list), i, moved), true
	})
	if !ok {
		return nodes, false
	}
	return out, true
}

// Reorder moves fromID to the index currently held by toID. Both must be in
// the same sibling list; otherwise nothing changes.
func Reorder(nodes []models.Node, fromID, toID string) ([]models.Node, bool) {
	if fromID == toID {
		return nodes, false
	}
	return editList(nodes, fromID, func(list []models.Node, i int) ([]models.Node, bool) {
		j := Index(list, toID)
		if j < 0 {
			return list, false
		}
		moved := list[i]
		out := slices.Delete(slices.Clone(list), i, i+1)
		return slices.Insert(out, j, moved), true
	})
}

// MoveToEnd moves the node to the end of its own sibling list.
func MoveToEnd(nodes []models.Node, id string) ([]models.Node, bool) {
	return editList(nodes, id, func(list []models.Node, i int) ([]models.Node, bool) {
		if i == len(list)-1 {
			return list, false
		}
		moved := list[i]
		out := slices.Delete(slices.Clone(list), i, i+1)
		return append(out, moved), true
	})
}

// Walk visits every node depth-first, parents before children. Returning
// false from fn stops the walk.
func Walk(nodes []models.Node, fn func(n *models.Node) bool) bool {
	for i := range nodes {
		if !fn(&nodes[i]) {
			return false
		}
		if !Walk(nodes[i].Children, fn) {
			return false
		}
	}
	return true
}

// IDs returns every node id in depth-first order.
func IDs(nodes []models.Node) []string {
	var ids []string
	Walk(nodes, func(n *models.Node) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// Count returns the number of nodes in the tree.
func Count(nodes []models.Node) int {
	c := 0
	Walk(nodes, func(*models.Node) bool {
		c++
		return true
	})
	return c
}

// Clone deep-copies the tree.
func Clone(nodes []models.Node) []models.Node {
	return models.CloneNodes(nodes)
}

// update replaces the node with the given id by fn's result, copying every
// sibling list on the way down. fn returning false aborts the change.
func update(nodes []models.Node, id string, fn func(models.Node) (models.Node, bool)) ([]models.Node, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			n, ok := fn(nodes[i])
			if !ok {
				return nodes, false
			}
			out := slices.Clone(nodes)
			out[i] = n
			return out, true
		}
		if len(nodes[i].Children) == 0 {
			continue
		}
		if kids, ok := update(nodes[i].Children, id, fn); ok {
			out := slices.Clone(nodes)
			out[i].Children = kids
			return out, true
		}
	}
	return nodes, false
}

// editList finds the sibling list containing id and replaces it by fn's
// result, copying every list on the path from the root.
func editList(nodes []models.Node, id string, fn func(list []models.Node, i int) ([]models.Node, bool)) ([]models.Node, bool) {
	if i := Index(nodes, id); i >= 0 {
		out, ok := fn(nodes, i)
		if !ok {
			return nodes, false
		}
		return out, true
	}
	for i := range nodes {
		if len(nodes[i].Children) == 0 {
			continue
		}
		if kids, ok := editList(nodes[i].Children, id, fn); ok {
			out := slices.Clone(nodes)
			out[i].Children = kids
			return out, true
		}
	}
	return nodes, false
}
