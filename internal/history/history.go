// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package history keeps a linear undo/redo log of full tree snapshots.
//
// Every snapshot is a deep copy taken on Record and handed out again as a
// deep copy on Undo and Redo, so the live tree never aliases a stored entry.
package history

import "pagebuilder/internal/models"

// History is a snapshot log with a cursor. The zero value is empty and
// unbounded. It is not safe for concurrent use.
type History struct {
	entries [][]models.Node
	cursor  int
	limit   int
}

// Option configures a History.
type Option func(*History)

// WithLimit caps the number of stored snapshots; the oldest are dropped
// first. Values below 1 mean unbounded.
func WithLimit(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.limit = n
		}
	}
}

// New creates an empty history.
func New(opts ...Option) *History {
	h := &History{cursor: -1}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Record drops every entry after the cursor, appends a copy of nodes and
// moves the cursor onto it.
func (h *History) Record(nodes []models.Node) {
	h.init()
	h.entries = append(h.entries[:h.cursor+1], snapshot(nodes))
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		clear(h.entries[:drop])
		h.entries = h.entries[drop:]
	}
	h.cursor = len(h.entries) - 1
}

// Undo steps back one entry and returns a copy of it. ok is false at the
// oldest entry.
func (h *History) Undo() (nodes []models.Node, ok bool) {
	h.init()
	if h.cursor <= 0 {
		return nil, false
	}
	h.cursor--
	return snapshot(h.entries[h.cursor]), true
}

// Redo steps forward one entry and returns a copy of it. ok is false at the
// newest entry.
func (h *History) Redo() (nodes []models.Node, ok bool) {
	h.init()
	if h.cursor >= len(h.entries)-1 {
		return nil, false
	}
	h.cursor++
	return snapshot(h.entries[h.cursor]), true
}

// Current returns a copy of the entry under the cursor.
func (h *History) Current() ([]models.Node, bool) {
	h.init()
	if h.cursor < 0 {
		return nil, false
	}
	return snapshot(h.entries[h.cursor]), true
}

// Discard removes the newest entry when the cursor is on it and steps the
// cursor back. It is used to forget a mutation that was rolled back.
func (h *History) Discard() bool {
	h.init()
	if h.cursor < 1 || h.cursor != len(h.entries)-1 {
		return false
	}
	h.entries[h.cursor] = nil
	h.entries = h.entries[:h.cursor]
	h.cursor--
	return true
}

// Reset drops every entry and records nodes as the new starting point.
func (h *History) Reset(nodes []models.Node) {
	clear(h.entries)
	h.entries = h.entries[:0]
	h.cursor = -1
	h.Record(nodes)
}

func (h *History) CanUndo() bool { h.init(); return h.cursor > 0 }

func (h *History) CanRedo() bool { h.init(); return h.cursor < len(h.entries)-1 }

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the index of the current snapshot, or -1 when empty.
func (h *History) Cursor() int { h.init(); return h.cursor }

// init makes the zero value usable.
func (h *History) init() {
	if len(h.entries) == 0 {
		h.cursor = -1
	}
}

// snapshot copies nodes, normalizing nil to an empty list so a restored
// tree always encodes as an array.
func snapshot(nodes []models.Node) []models.Node {
	if nodes == nil {
		return []models.Node{}
	}
	return models.CloneNodes(nodes)
}
