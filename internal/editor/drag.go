// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"

	"pagebuilder/internal/tree"
)

// CanvasID is the drop target id of the page canvas itself, as opposed to
// one of the nodes on it.
const CanvasID = "canvas"

// SourceKind tells where a drag started.
type SourceKind int

const (
	// FromPalette drags a type token that is not a node yet.
	FromPalette SourceKind = iota + 1
	// FromCanvas drags an existing node.
	FromCanvas
)

// Source describes the dragged item.
type Source struct {
	Kind SourceKind
	Type string // FromPalette
	ID   string // FromCanvas
}

// PaletteSource drags a new node of type typ.
func PaletteSource(typ string) Source { return Source{Kind: FromPalette, Type: typ} }

// NodeSource drags the existing node id.
func NodeSource(id string) Source { return Source{Kind: FromCanvas, ID: id} }

// DragState is the state of the drag engine.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (s DragState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Outcome is the tree mutation a drop committed.
type Outcome int

const (
	NoChange Outcome = iota
	Inserted
	Reordered
	MovedToEnd
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Reordered:
		return "reordered"
	case MovedToEnd:
		return "moved-to-end"
	default:
		return "no-change"
	}
}

// DragEngine turns one drag gesture at a time into at most one tree
// mutation. Nothing changes while dragging; a drop commits a single history
// entry and, with auto-save on, a single save.
type DragEngine struct {
	s *Session

	state    DragState
	src      Source
	over     string
	autoSave bool
}

// SetAutoSave makes every committed drop save the document.
func (d *DragEngine) SetAutoSave(on bool) { d.autoSave = on }

// State returns the current state.
func (d *DragEngine) State() DragState { return d.state }

// Source returns the item being dragged.
func (d *DragEngine) Source() Source { return d.src }

// Target returns the target the pointer was last reported over.
func (d *DragEngine) Target() string { return d.over }

// Start begins a gesture. It fails when a gesture is already running or the
// source does not resolve to a known type or an existing node.
func (d *DragEngine) Start(src Source) bool {
	if d.state != Idle {
		return false
	}
	switch src.Kind {
	case FromPalette:
		if _, ok := d.s.reg.Lookup(src.Type); !ok {
			return false
		}
	case FromCanvas:
		if _, ok := tree.Find(d.s.nodes, src.ID); !ok {
			return false
		}
	default:
		return false
	}
	d.state = Dragging
	d.src = src
	d.over = ""
	return true
}

// Over records the target under the pointer for visual feedback only.
func (d *DragEngine) Over(targetID string) {
	if d.state == Dragging {
		d.over = targetID
	}
}

// Drop ends the gesture over targetID (CanvasID for the canvas, "" for
// outside any target) and commits the resulting mutation, if any:
//
//   - a palette item dropped on the canvas or on any node is appended to the
//     root list;
//   - a node dropped on another node takes its index when both share a
//     sibling list; other drops between containers change nothing;
//   - a root-level node dropped on the canvas moves to the end.
//
// The error is only ever a save error when auto-save is on.
func (d *DragEngine) Drop(ctx context.Context, targetID string) (Outcome, error) {
	if d.state != Dragging {
		return NoChange, nil
	}
	src := d.src
	outcome := d.resolve(src, targetID)
	if outcome == NoChange {
		d.Cancel()
		return NoChange, nil
	}
	d.reset()

	if d.autoSave && d.s.coord != nil {
		if _, err := d.s.Save(ctx); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

func (d *DragEngine) resolve(src Source, targetID string) Outcome {
	if targetID == "" {
		return NoChange
	}
	onCanvas := targetID == CanvasID
	if !onCanvas {
		if _, ok := tree.Find(d.s.nodes, targetID); !ok {
			return NoChange
		}
	}

	switch src.Kind {
	case FromPalette:
		if _, ok := d.s.Insert(src.Type, ""); ok {
			return Inserted
		}
	case FromCanvas:
		if onCanvas {
			if tree.Index(d.s.nodes, src.ID) < 0 {
				return NoChange
			}
			nodes, ok := tree.MoveToEnd(d.s.nodes, src.ID)
			if !ok {
				return NoChange
			}
			d.s.commit(nodes)
			return MovedToEnd
		}
		if d.s.Reorder(src.ID, targetID) {
			return Reordered
		}
	}
	return NoChange
}

// Cancel abandons the gesture without a history entry. The tree is never
// touched while dragging, so edits made mid-gesture are kept.
func (d *DragEngine) Cancel() {
	if d.state != Dragging {
		return
	}
	d.reset()
}

func (d *DragEngine) reset() {
	d.state = Idle
	d.src = Source{}
	d.over = ""
}
