// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store defines the page and component registry contracts and
// implements them on PostgreSQL. Other backends (flat files, the HTTP API,
// the Valkey cache decorator) live in their own packages and satisfy the
// same interfaces.
package store

import (
	"context"
	"strings"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
	"pagebuilder/internal/schema"
	"pagebuilder/internal/slug"
)

// Pages is the page store contract. A ref is a page id or a slug; ids are
// matched first. Lookups return (nil, nil) when nothing matches while Update
// and Delete report apperr.NotFound. Slug collisions are apperr.Conflict.
type Pages interface {
	List(ctx context.Context) ([]models.PageDocument, error)
	GetByID(ctx context.Context, id string) (*models.PageDocument, error)
	GetBySlug(ctx context.Context, slug string) (*models.PageDocument, error)
	Create(ctx context.Context, in models.PageInput) (*models.PageDocument, error)
	Update(ctx context.Context, ref string, in models.PageInput) (*models.PageDocument, error)
	Delete(ctx context.Context, ref string) error
}

// Components is the component registry contract.
type Components interface {
	List(ctx context.Context) ([]models.ComponentEntry, error)
	Create(ctx context.Context, in models.ComponentInput) (*models.ComponentEntry, error)
	Update(ctx context.Context, id string, patch models.ComponentPatch) (*models.ComponentEntry, error)
	BulkInsert(ctx context.Context, items []models.ComponentInput) (models.BulkResult, error)
	Delete(ctx context.Context, id string) error
}

// Resolve looks a page up by id, then by slug. It returns (nil, nil) when
// neither matches.
func Resolve(ctx context.Context, pages Pages, ref string) (*models.PageDocument, error) {
	p, err := pages.GetByID(ctx, ref)
	if err != nil || p != nil {
		return p, err
	}
	return pages.GetBySlug(ctx, ref)
}

// PreparePage normalizes and validates a page before it is written.
func PreparePage(in *models.PageInput) error {
	in.Normalize()
	return in.Validate()
}

// PrepareComponent trims and validates a registry entry before it is
// written.
func PrepareComponent(in *models.ComponentInput) error {
	in.ComponentName = strings.TrimSpace(in.ComponentName)
	in.DisplayName = strings.TrimSpace(in.DisplayName)

	var errs []apperr.FieldError
	switch {
	case in.ComponentName == "":
		errs = append(errs, apperr.FieldError{Path: "component_name", Message: "component_name is required"})
	case !slug.ValidComponentName(in.ComponentName):
		errs = append(errs, apperr.FieldError{
			Path:    "component_name",
			Message: "component_name must start with a letter and contain 2-50 lowercase letters, digits or hyphens",
		})
	}
	if in.Definition != nil && len(in.Definition.SubElements) > 0 {
		list := make([]any, len(in.Definition.SubElements))
		for i, s := range in.Definition.SubElements {
			list[i] = s.Map()
		}
		errs = append(errs, schema.InferSubElements(list).Validate(list, "definition.subElements")...)
	}
	return apperr.Validation(errs)
}

// InputOf returns the writable fields of an entry, for applying patches.
func InputOf(e *models.ComponentEntry) models.ComponentInput {
	return models.ComponentInput{
		ComponentName: e.ComponentName,
		DisplayName:   e.DisplayName,
		Category:      e.Category,
		Version:       e.Version,
		Deprecated:    e.Deprecated,
		Definition:    e.Definition,
	}
}
