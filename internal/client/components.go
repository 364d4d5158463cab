// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"context"
	"net/http"
	"net/url"

	"pagebuilder/internal/models"
)

// ComponentStore is a store.Components backed by the HTTP API.
type ComponentStore struct {
	c *Client
}

func componentPath(id string) string {
	return "/api/components/" + url.PathEscape(id)
}

// List returns every registry entry.
func (s *ComponentStore) List(ctx context.Context) ([]models.ComponentEntry, error) {
	var entries []models.ComponentEntry
	if err := s.c.do(ctx, "list components", target{kind: "component"}, http.MethodGet, "/api/components", nil, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.ComponentEntry{}
	}
	return entries, nil
}

// Create registers a new entry.
func (s *ComponentStore) Create(ctx context.Context, in models.ComponentInput) (*models.ComponentEntry, error) {
	var e models.ComponentEntry
	t := target{kind: "component", ref: in.ComponentName, field: "component_name", value: in.ComponentName}
	if err := s.c.do(ctx, "create component", t, http.MethodPost, "/api/components", in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Update sends a partial update for the entry with the given id.
func (s *ComponentStore) Update(ctx context.Context, id string, patch models.ComponentPatch) (*models.ComponentEntry, error) {
	var e models.ComponentEntry
	t := target{kind: "component", ref: id, field: "component_name"}
	if patch.ComponentName != nil {
		t.value = *patch.ComponentName
	}
	if err := s.c.do(ctx, "update component", t, http.MethodPut, componentPath(id), patch, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// BulkInsert imports items; invalid and duplicate names are skipped server side.
func (s *ComponentStore) BulkInsert(ctx context.Context, items []models.ComponentInput) (models.BulkResult, error) {
	if items == nil {
		items = []models.ComponentInput{}
	}
	var res models.BulkResult
	if err := s.c.do(ctx, "bulk insert components", target{kind: "component"}, http.MethodPost, "/api/components/bulk", items, &res); err != nil {
		return models.BulkResult{}, err
	}
	return res, nil
}

// Delete removes the entry with the given id.
func (s *ComponentStore) Delete(ctx context.Context, id string) error {
	return s.c.do(ctx, "delete component", target{kind: "component", ref: id}, http.MethodDelete, componentPath(id), nil, nil)
}
