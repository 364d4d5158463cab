// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package filestore

import (
	"context"
	"slices"
	"sync"
	"time"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
	"pagebuilder/internal/storage"
	"pagebuilder/internal/store"
)

// ComponentStore keeps the component registry in one JSON document.
type ComponentStore struct {
	blob storage.Blob
	key  string
	opts options

	mu sync.Mutex
}

var _ store.Components = (*ComponentStore)(nil)

// NewComponentStore returns a registry store reading and writing key in blob.
func NewComponentStore(blob storage.Blob, key string, opts ...Option) *ComponentStore {
	if key == "" {
		key = DefaultComponentsFile
	}
	o := options{now: time.Now, newID: models.NewID}
	for _, opt := range opts {
		opt(&o)
	}
	return &ComponentStore{blob: blob, key: key, opts: o}
}

// List returns every entry in document order.
func (s *ComponentStore) List(ctx context.Context) ([]models.ComponentEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[models.ComponentEntry](ctx, s.blob, s.key)
}

func componentIndex(entries []models.ComponentEntry, match func(*models.ComponentEntry) bool) int {
	return slices.IndexFunc(entries, func(e models.ComponentEntry) bool { return match(&e) })
}

func named(name string) func(*models.ComponentEntry) bool {
	return func(e *models.ComponentEntry) bool { return e.ComponentName == name }
}

func withID(id string) func(*models.ComponentEntry) bool {
	return func(e *models.ComponentEntry) bool { return e.ID == id }
}

func (s *ComponentStore) entry(in models.ComponentInput, now time.Time) models.ComponentEntry {
	return models.ComponentEntry{
		ID:            s.opts.newID(),
		ComponentName: in.ComponentName,
		DisplayName:   in.DisplayName,
		Category:      in.Category,
		Version:       in.Version,
		Deprecated:    in.Deprecated,
		Definition:    in.Definition,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Create validates and appends a registry entry.
func (s *ComponentStore) Create(ctx context.Context, in models.ComponentInput) (*models.ComponentEntry, error) {
	if err := store.PrepareComponent(&in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := load[models.ComponentEntry](ctx, s.blob, s.key)
	if err != nil {
		return nil, err
	}
	if componentIndex(entries, named(in.ComponentName)) >= 0 {
		return nil, apperr.Conflict("component", "component_name", in.ComponentName)
	}

	e := s.entry(in, s.opts.now().UTC())
	entries = append(entries, e)
	if err := save(ctx, s.blob, s.key, entries); err != nil {
		return nil, err
	}
	return &e, nil
}

// Update applies a partial update to the entry with id.
func (s *ComponentStore) Update(ctx context.Context, id string, patch models.ComponentPatch) (*models.ComponentEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := load[models.ComponentEntry](ctx, s.blob, s.key)
	if err != nil {
		return nil, err
	}
	i := componentIndex(entries, withID(id))
	if i < 0 {
		return nil, apperr.NotFound("component", id)
	}

	next := entries[i]
	patch.Apply(&next)
	in := store.InputOf(&next)
	if err := store.PrepareComponent(&in); err != nil {
		return nil, err
	}
	if j := componentIndex(entries, named(in.ComponentName)); j >= 0 && j != i {
		return nil, apperr.Conflict("component", "component_name", in.ComponentName)
	}

	next.ComponentName = in.ComponentName
	next.DisplayName = in.DisplayName
	next.UpdatedAt = s.opts.now().UTC()
	entries[i] = next
	if err := save(ctx, s.blob, s.key, entries); err != nil {
		return nil, err
	}
	return &next, nil
}

// BulkInsert appends every valid entry whose name is not taken yet. Invalid
// entries and duplicate names, including duplicates within items, are
// counted as skipped.
func (s *ComponentStore) BulkInsert(ctx context.Context, items []models.ComponentInput) (models.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := load[models.ComponentEntry](ctx, s.blob, s.key)
	if err != nil {
		return models.BulkResult{}, err
	}

	taken := make(map[string]bool, len(entries)+len(items))
	for _, e := range entries {
		taken[e.ComponentName] = true
	}

	result := models.BulkResult{Items: []models.ComponentEntry{}}
	now := s.opts.now().UTC()
	for _, in := range items {
		if err := store.PrepareComponent(&in); err != nil || taken[in.ComponentName] {
			result.Skipped++
			continue
		}
		taken[in.ComponentName] = true
		e := s.entry(in, now)
		entries = append(entries, e)
		result.Items = append(result.Items, e)
		result.Inserted++
	}

	if result.Inserted > 0 {
		if err := save(ctx, s.blob, s.key, entries); err != nil {
			return models.BulkResult{}, err
		}
	}
	return result, nil
}

// Delete removes the entry with id.
func (s *ComponentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := load[models.ComponentEntry](ctx, s.blob, s.key)
	if err != nil {
		return err
	}
	i := componentIndex(entries, withID(id))
	if i < 0 {
		return apperr.NotFound("component", id)
	}
	return save(ctx, s.blob, s.key, slices.Delete(entries, i, i+1))
}
