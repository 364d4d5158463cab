// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package filestore

import (
	"context"
	"sync"
	"time"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
	"pagebuilder/internal/storage"
	"pagebuilder/internal/store"
)

// PageStore keeps every page in one JSON document.
type PageStore struct {
	blob storage.Blob
	key  string
	opts options

	mu sync.Mutex
}

var _ store.Pages = (*PageStore)(nil)

// NewPageStore returns a page store reading and writing key in blob.
func NewPageStore(blob storage.Blob, key string, opts ...Option) *PageStore {
	if key == "" {
		key = DefaultPagesFile
	}
	o := options{now: time.Now, newID: models.NewID}
	for _, opt := range opts {
		opt(&o)
	}
	return &PageStore{blob: blob, key: key, opts: o}
}

// List returns every page in document order.
func (s *PageStore) List(ctx context.Context) ([]models.PageDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[models.PageDocument](ctx, s.blob, s.key)
}

// GetByID returns the page with id, or nil.
func (s *PageStore) GetByID(ctx context.Context, id string) (*models.PageDocument, error) {
	return s.find(ctx, func(p *models.PageDocument) bool { return p.ID == id })
}

// GetBySlug returns the page with slug, or nil.
func (s *PageStore) GetBySlug(ctx context.Context, slug string) (*models.PageDocument, error) {
	return s.find(ctx, func(p *models.PageDocument) bool { return p.Slug == slug })
}

func (s *PageStore) find(ctx context.Context, match func(*models.PageDocument) bool) (*models.PageDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pages, err := load[models.PageDocument](ctx, s.blob, s.key)
	if err != nil {
		return nil, err
	}
	for i := range pages {
		if match(&pages[i]) {
			return &pages[i], nil
		}
	}
	return nil, nil
}

// Create validates and appends a new page.
func (s *PageStore) Create(ctx context.Context, in models.PageInput) (*models.PageDocument, error) {
	if err := store.PreparePage(&in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pages, err := load[models.PageDocument](ctx, s.blob, s.key)
	if err != nil {
		return nil, err
	}
	if indexOf(pages, in.Slug, bySlug) >= 0 {
		return nil, apperr.Conflict("page", "slug", in.Slug)
	}

	now := s.opts.now().UTC()
	p := models.PageDocument{
		ID:         s.opts.newID(),
		Slug:       in.Slug,
		Title:      in.Title,
		Metadata:   in.Metadata,
		Components: in.Components,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	pages = append(pages, p)
	if err := save(ctx, s.blob, s.key, pages); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Update replaces the writable fields of the page matching ref, keeping its
// id and creation time.
func (s *PageStore) Update(ctx context.Context, ref string, in models.PageInput) (*models.PageDocument, error) {
	if err := store.PreparePage(&in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pages, err := load[models.PageDocument](ctx, s.blob, s.key)
	if err != nil {
		return nil, err
	}
	i := resolve(pages, ref)
	if i < 0 {
		return nil, apperr.NotFound("page", ref)
	}
	if j := indexOf(pages, in.Slug, bySlug); j >= 0 && j != i {
		return nil, apperr.Conflict("page", "slug", in.Slug)
	}

	p := &pages[i]
	p.Slug = in.Slug
	p.Title = in.Title
	p.Metadata = in.Metadata
	p.Components = in.Components
	p.UpdatedAt = s.opts.now().UTC()
	if err := save(ctx, s.blob, s.key, pages); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Delete removes the page matching ref.
func (s *PageStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pages, err := load[models.PageDocument](ctx, s.blob, s.key)
	if err != nil {
		return err
	}
	i := resolve(pages, ref)
	if i < 0 {
		return apperr.NotFound("page", ref)
	}
	pages = append(pages[:i], pages[i+1:]...)
	return save(ctx, s.blob, s.key, pages)
}

func byID(p *models.PageDocument) string   { return p.ID }
func bySlug(p *models.PageDocument) string { return p.Slug }

func indexOf(pages []models.PageDocument, v string, field func(*models.PageDocument) string) int {
	for i := range pages {
		if field(&pages[i]) == v {
			return i
		}
	}
	return -1
}

// resolve finds ref as an id first, then as a slug.
func resolve(pages []models.PageDocument, ref string) int {
	if i := indexOf(pages, ref, byID); i >= 0 {
		return i
	}
	return indexOf(pages, ref, bySlug)
}
