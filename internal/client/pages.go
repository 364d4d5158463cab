// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"context"
	"net/http"
	"net/url"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
)

// PageStore is a store.Pages backed by the HTTP API.
type PageStore struct {
	c *Client
}

func pagePath(ref string) string {
	return "/api/pages/" + url.PathEscape(ref)
}

// List returns every page.
func (s *PageStore) List(ctx context.Context) ([]models.PageDocument, error) {
	var pages []models.PageDocument
	if err := s.c.do(ctx, "list pages", target{kind: "page"}, http.MethodGet, "/api/pages", nil, &pages); err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []models.PageDocument{}
	}
	return pages, nil
}

// get fetches a page by ref and keeps it only when keep accepts it, since
// the API resolves a ref as either id or slug.
func (s *PageStore) get(ctx context.Context, op, ref string, keep func(*models.PageDocument) bool) (*models.PageDocument, error) {
	var p models.PageDocument
	err := s.c.do(ctx, op, target{kind: "page", ref: ref}, http.MethodGet, pagePath(ref), nil, &p)
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !keep(&p) {
		return nil, nil
	}
	return &p, nil
}

// GetByID retrieves a page by id. Returns nil if not found.
func (s *PageStore) GetByID(ctx context.Context, id string) (*models.PageDocument, error) {
	return s.get(ctx, "get page by id", id, func(p *models.PageDocument) bool { return p.ID == id })
}

// GetBySlug retrieves a page by slug. Returns nil if not found.
func (s *PageStore) GetBySlug(ctx context.Context, slug string) (*models.PageDocument, error) {
	return s.get(ctx, "get page by slug", slug, func(p *models.PageDocument) bool { return p.Slug == slug })
}

// Create sends a new page to the API.
func (s *PageStore) Create(ctx context.Context, in models.PageInput) (*models.PageDocument, error) {
	in.Normalize()
	var p models.PageDocument
	t := target{kind: "page", ref: in.Slug, field: "slug", value: in.Slug}
	if err := s.c.do(ctx, "create page", t, http.MethodPost, "/api/pages", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the page matching ref.
func (s *PageStore) Update(ctx context.Context, ref string, in models.PageInput) (*models.PageDocument, error) {
	in.Normalize()
	var p models.PageDocument
	t := target{kind: "page", ref: ref, field: "slug", value: in.Slug}
	if err := s.c.do(ctx, "update page", t, http.MethodPut, pagePath(ref), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the page matching ref.
func (s *PageStore) Delete(ctx context.Context, ref string) error {
	return s.c.do(ctx, "delete page", target{kind: "page", ref: ref}, http.MethodDelete, pagePath(ref), nil, nil)
}

// Manifest returns the component names the API advertises.
func (s *PageStore) Manifest(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.c.do(ctx, "component manifest", target{}, http.MethodGet, "/api/pages/components/manifest", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}
