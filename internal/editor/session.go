// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor implements a page editing session: the live component
// tree of one page together with its selection, undo/redo history, drag
// gestures and persistence.
//
// A Session is owned by a single goroutine. Tree operations never fail;
// invalid arguments leave the session untouched and report false. Only the
// persistence methods block and return errors.
package editor

import (
	"context"
	"errors"
	"log/slog"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/history"
	"pagebuilder/internal/models"
	"pagebuilder/internal/persist"
	"pagebuilder/internal/registry"
	"pagebuilder/internal/schema"
	"pagebuilder/internal/tree"
)

// ErrNoCoordinator is returned by the persistence methods of a session
// created without WithCoordinator.
var ErrNoCoordinator = errors.New("editor: no persistence coordinator configured")

// Session edits one page document.
type Session struct {
	reg   *registry.Registry
	coord *persist.Coordinator
	log   *slog.Logger
	newID func() string

	page     models.PageDocument // Components is unused; nodes is the live tree
	nodes    []models.Node
	selected string
	hist     *history.History
	dirty    bool
	revision uint64

	// baselines holds the schema captured for free-form nodes the first time
	// they were edited, so later drift in a prop's kind is reported.
	baselines map[string]*schema.Schema

	retryKey string
	drag     *DragEngine
}

// Option configures a Session.
type Option func(*Session)

// WithCoordinator connects the session to a persistence coordinator.
func WithCoordinator(c *persist.Coordinator) Option {
	return func(s *Session) { s.coord = c }
}

// WithHistoryLimit caps the undo history. Values below 1 mean unbounded.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.hist = history.New(history.WithLimit(n)) }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithIDGenerator replaces the node id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// NewSession opens doc for editing. A nil doc starts a new, unsaved page.
// The loaded tree is the first history entry.
func NewSession(doc *models.PageDocument, reg *registry.Registry, opts ...Option) *Session {
	if reg == nil {
		reg = registry.New()
	}
	s := &Session{
		reg:       reg,
		log:       slog.Default(),
		newID:     models.NewID,
		hist:      history.New(),
		baselines: make(map[string]*schema.Schema),
	}
	for _, opt := range opts {
		opt(s)
	}
	if doc != nil {
		s.page = *doc.Clone()
		s.nodes = tree.Clone(doc.Components)
	}
	s.page.Components = nil
	if s.nodes == nil {
		s.nodes = []models.Node{}
	}
	s.hist.Record(s.nodes)
	s.drag = &DragEngine{s: s}
	return s
}

// commit makes nodes the live tree and records it in history.
func (s *Session) commit(nodes []models.Node) {
	s.nodes = nodes
	s.hist.Record(nodes)
	s.dirty = true
	s.revision++
}

// restore replaces the live tree without recording history.
func (s *Session) restore(nodes []models.Node) {
	s.nodes = nodes
	s.revision++
	clear(s.baselines)
	if _, ok := tree.Find(s.nodes, s.selected); !ok {
		s.selected = ""
	}
}

// Insert adds a node of the given type with its default props, at the end
// of the root list or as the last child of parentID. It returns the new id.
// Unknown types, missing parents and parents that do not accept the type
// are no-ops.
func (s *Session) Insert(typ, parentID string) (string, bool) {
	sch, ok := s.reg.Lookup(typ)
	if !ok {
		return "", false
	}
	if parentID != "" {
		parent, ok := tree.Find(s.nodes, parentID)
		if !ok || !s.reg.AllowsChild(parent.Type, typ) {
			return "", false
		}
	}
	n := models.Node{ID: s.newID(), Type: typ, Props: sch.Defaults()}
	if sch.CanHaveChildren {
		n.Children = []models.Node{}
	}
	nodes, ok := tree.Insert(s.container(s.nodes, parentID), n, parentID)
	if !ok {
		return "", false
	}
	s.commit(nodes)
	return n.ID, true
}

// UpdateProps shallow-merges patch into the node's props.
func (s *Session) UpdateProps(id string, patch models.Props) bool {
	nodes, ok := tree.UpdateProps(s.nodes, id, patch)
	if !ok {
		return false
	}
	s.trackSchema(id, nodes)
	s.commit(nodes)
	return true
}

// SetProps replaces the node's props wholesale.
func (s *Session) SetProps(id string, props models.Props) bool {
	nodes, ok := tree.SetProps(s.nodes, id, props)
	if !ok {
		return false
	}
	s.trackSchema(id, nodes)
	s.commit(nodes)
	return true
}

// Delete removes the node and its subtree, clearing the selection when it
// pointed into the removed subtree.
func (s *Session) Delete(id string) bool {
	nodes, ok := tree.Delete(s.nodes, id)
	if !ok {
		return false
	}
	s.commit(nodes)
	if _, ok := tree.Find(s.nodes, s.selected); !ok {
		s.selected = ""
	}
	return true
}

// Duplicate inserts a copy of the subtree right after the original, with
// fresh ids throughout, and returns the copy's id.
func (s *Session) Duplicate(id string) (string, bool) {
	nodes, cloneID, ok := tree.Duplicate(s.nodes, id, s.newID)
	if !ok {
		return "", false
	}
	s.commit(nodes)
	return cloneID, true
}

// Move places fromID before, after or inside toID. Besides the structural
// checks of tree.Move, the receiving parent must accept the moved type.
func (s *Session) Move(fromID, toID string, pos tree.Position) bool {
	src, ok := tree.Find(s.nodes, fromID)
	if !ok {
		return false
	}
	var parent *models.Node
	if pos == tree.Inside {
		parent, _ = tree.Find(s.nodes, toID)
	} else {
		parent, _ = tree.ParentOf(s.nodes, toID)
	}
	if parent != nil {
		if sch, known := s.reg.Lookup(parent.Type); known && !sch.AllowsChild(src.Type) {
			return false
		}
	}
	base := s.nodes
	if pos == tree.Inside {
		base = s.container(base, toID)
	}
	nodes, ok := tree.Move(base, fromID, toID, pos)
	if !ok {
		return false
	}
	s.commit(nodes)
	return true
}

// container returns nodes with id holding a children list when its type
// accepts children but the list was left out of the loaded document.
// Unknown types are not opened.
func (s *Session) container(nodes []models.Node, id string) []models.Node {
	n, ok := tree.Find(nodes, id)
	if !ok || n.Children != nil {
		return nodes
	}
	if sch, known := s.reg.Lookup(n.Type); !known || !sch.CanHaveChildren {
		return nodes
	}
	out, _ := tree.Open(nodes, id)
	return out
}

// Reorder moves fromID to toID's index within their shared sibling list.
func (s *Session) Reorder(fromID, toID string) bool {
	nodes, ok := tree.Reorder(s.nodes, fromID, toID)
	if !ok {
		return false
	}
	s.commit(nodes)
	return true
}

// Find returns a copy of the node with the given id.
func (s *Session) Find(id string) (models.Node, bool) {
	n, ok := tree.Find(s.nodes, id)
	if !ok {
		return models.Node{}, false
	}
	return n.Clone(), true
}

// Select marks a node as selected; an empty id clears the selection.
func (s *Session) Select(id string) bool {
	if id == "" {
		s.selected = ""
		return true
	}
	if _, ok := tree.Find(s.nodes, id); !ok {
		return false
	}
	s.selected = id
	return true
}

// Selected returns the selected node id, or "".
func (s *Session) Selected() string { return s.selected }

// Undo restores the previous history entry.
func (s *Session) Undo() bool {
	nodes, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.restore(nodes)
	s.dirty = true
	return true
}

// Redo restores the next history entry.
func (s *Session) Redo() bool {
	nodes, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.restore(nodes)
	s.dirty = true
	return true
}

func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// Nodes returns a deep copy of the live tree.
func (s *Session) Nodes() []models.Node { return tree.Clone(s.nodes) }

// Dirty reports whether the session has changes that were not saved.
func (s *Session) Dirty() bool { return s.dirty }

// Revision increases with every change to the live tree or page fields.
func (s *Session) Revision() uint64 { return s.revision }

// Registry returns the registry the session resolves types against.
func (s *Session) Registry() *registry.Registry { return s.reg }

// PagePatch edits page fields; nil fields are left unchanged.
type PagePatch struct {
	Slug     *string
	Title    *string
	Metadata *models.PageMetadata
}

// UpdatePage edits the page fields. Page fields are not part of the undo
// history.
func (s *Session) UpdatePage(p PagePatch) {
	if p.Slug != nil {
		s.page.Slug = *p.Slug
	}
	if p.Title != nil {
		s.page.Title = *p.Title
	}
	if p.Metadata != nil {
		s.page.Metadata = p.Metadata.Clone()
	}
	s.dirty = true
	s.revision++
}

// Document returns a deep copy of the page with the live tree.
func (s *Session) Document() *models.PageDocument {
	doc := s.page.Clone()
	doc.Components = tree.Clone(s.nodes)
	return doc
}

// SchemaFor returns the baseline schema captured for a free-form node, or
// nil. It makes the session a schema.Source for the validation gate.
func (s *Session) SchemaFor(nodeID string) *schema.Schema {
	return s.baselines[nodeID]
}

// ResetSchema accepts the node's current props as its new baseline shape.
func (s *Session) ResetSchema(id string) bool {
	n, ok := tree.Find(s.nodes, id)
	if !ok || !n.IsFreeForm() {
		return false
	}
	s.baselines[id] = schema.Infer(n.Props)
	return true
}

// trackSchema captures the baseline of a free-form node before its first
// edit and rebases it onto the props in next.
func (s *Session) trackSchema(id string, next []models.Node) {
	prev, ok := tree.Find(s.nodes, id)
	if !ok || !prev.IsFreeForm() {
		return
	}
	base, ok := s.baselines[id]
	if !ok {
		base = schema.Infer(prev.Props)
	}
	n, _ := tree.Find(next, id)
	s.baselines[id] = base.Rebase(n.Props)
}

// Validate runs the same checks as the save gate and returns every
// violation as a *apperr.ValidationError, or nil.
func (s *Session) Validate() error {
	return persist.Check(s.Document(), s)
}

// ValidateNode checks a single node: the dynamic schema for free-form nodes,
// the catalog rules otherwise. Unknown types report nothing.
func (s *Session) ValidateNode(id string) []apperr.FieldError {
	n, ok := tree.Find(s.nodes, id)
	if !ok {
		return nil
	}
	if n.IsFreeForm() {
		sch := s.baselines[id]
		if sch == nil {
			sch = schema.Infer(n.Props)
		}
		return sch.Validate(n.Props)
	}
	return s.reg.ValidateNode(n)
}

// Drag returns the drag engine bound to this session.
func (s *Session) Drag() *DragEngine { return s.drag }

// Save persists the document (deferred policy). On failure nothing local
// changes and the session stays dirty; on success the store's canonical
// document replaces the local one.
func (s *Session) Save(ctx context.Context) (*models.PageDocument, error) {
	if s.coord == nil {
		return nil, ErrNoCoordinator
	}
	doc, err := s.coord.Persist(ctx, s.Document(), s)
	if err != nil {
		s.noteFailure(err)
		return nil, err
	}
	s.apply(doc)
	return doc.Clone(), nil
}

// DeleteNow deletes a node and saves immediately. When the save fails the
// delete is rolled back and dropped from history. A validation failure or
// a concurrent save leaves the delete applied locally, as with Save.
func (s *Session) DeleteNow(ctx context.Context, id string) error {
	return s.immediate(ctx, func() bool { return s.Delete(id) })
}

// DuplicateNow duplicates a node and saves immediately, with the same
// rollback rules as DeleteNow.
func (s *Session) DuplicateNow(ctx context.Context, id string) (string, error) {
	var cloneID string
	err := s.immediate(ctx, func() bool {
		var ok bool
		cloneID, ok = s.Duplicate(id)
		return ok
	})
	if err != nil && cloneID != "" {
		if _, ok := tree.Find(s.nodes, cloneID); !ok {
			cloneID = ""
		}
	}
	return cloneID, err
}

func (s *Session) immediate(ctx context.Context, mutate func() bool) error {
	if s.coord == nil {
		return ErrNoCoordinator
	}
	prevNodes, prevSel, prevDirty := s.nodes, s.selected, s.dirty
	if !mutate() {
		return nil
	}
	doc, err := s.coord.Persist(ctx, s.Document(), s)
	if err == nil {
		s.apply(doc)
		return nil
	}
	s.noteFailure(err)
	if apperr.IsValidation(err) || errors.Is(err, apperr.ErrSaveInProgress) {
		return err
	}
	s.hist.Discard()
	s.restore(prevNodes)
	s.selected, s.dirty = prevSel, prevDirty
	if _, ok := tree.Find(s.nodes, s.selected); !ok {
		s.selected = ""
	}
	s.log.Warn("rolled back unsaved change", "page", s.page.Slug, "error", err)
	return err
}

// Retry re-sends the payload of the last failed save unchanged. On success
// the canonical document becomes the live state and is recorded in history.
func (s *Session) Retry(ctx context.Context) (*models.PageDocument, error) {
	if s.coord == nil {
		return nil, ErrNoCoordinator
	}
	if s.retryKey == "" {
		return nil, persist.ErrNothingToRetry
	}
	doc, err := s.coord.Retry(ctx, s.retryKey)
	if err != nil {
		return nil, err
	}
	s.retryKey = ""
	s.apply(doc)
	s.hist.Record(s.nodes)
	return doc.Clone(), nil
}

// CanRetry reports whether a failed save can be retried.
func (s *Session) CanRetry() bool { return s.retryKey != "" }

func (s *Session) noteFailure(err error) {
	if apperr.IsValidation(err) || errors.Is(err, apperr.ErrSaveInProgress) {
		return
	}
	s.retryKey = persist.KeyFor(s.page.ID, s.page.Slug)
}

// apply makes a canonical document the local state.
func (s *Session) apply(doc *models.PageDocument) {
	s.page = *doc.Clone()
	nodes := tree.Clone(doc.Components)
	if nodes == nil {
		nodes = []models.Node{}
	}
	s.page.Components = nil
	s.restore(nodes)
	s.dirty = false
	s.retryKey = ""
}

// SaveResult is delivered by SaveAsync.
type SaveResult struct {
	Doc *models.PageDocument
	Err error
	// Revision is the session revision the save was started from.
	Revision uint64

	key string
}

// SaveAsync validates the document on the calling goroutine and then saves
// it in the background. Editing may continue meanwhile. The result must be
// handed back with Resolve on the session's goroutine.
func (s *Session) SaveAsync(ctx context.Context) <-chan SaveResult {
	out := make(chan SaveResult, 1)
	rev := s.revision
	if s.coord == nil {
		out <- SaveResult{Err: ErrNoCoordinator, Revision: rev}
		return out
	}
	doc := s.Document()
	if err := persist.Check(doc, s); err != nil {
		out <- SaveResult{Err: err, Revision: rev}
		return out
	}
	p := persist.PayloadFor(doc)
	go func() {
		saved, err := s.coord.Send(ctx, p)
		out <- SaveResult{Doc: saved, Err: err, Revision: rev, key: p.Key()}
	}()
	return out
}

// Resolve applies a SaveAsync result. If the session changed after the save
// started, only the server-assigned fields are taken and the session stays
// dirty, so newer local edits are kept.
func (s *Session) Resolve(r SaveResult) error {
	if r.Err != nil {
		s.noteFailure(r.Err)
		if s.retryKey != "" && r.key != "" {
			s.retryKey = r.key
		}
		return r.Err
	}
	if r.Revision == s.revision {
		s.apply(r.Doc)
		return nil
	}
	s.page.ID = r.Doc.ID
	s.page.CreatedAt = r.Doc.CreatedAt
	s.page.UpdatedAt = r.Doc.UpdatedAt
	s.retryKey = ""
	return nil
}
