// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP API over the page store and the
// component registry store. Every response uses the Envelope shape and
// errors map onto status codes through the shared error taxonomy.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
	"pagebuilder/internal/persist"
	"pagebuilder/internal/registry"
	"pagebuilder/internal/store"
)

// API groups the page and component handlers and their stores.
type API struct {
	pages      store.Pages
	components store.Components
}

// NewAPI creates the API handlers over the given stores.
func NewAPI(pages store.Pages, components store.Components) *API {
	return &API{pages: pages, components: components}
}

// Routes registers the API endpoints on r.
func (a *API) Routes(r chi.Router) {
	r.Route("/pages", func(r chi.Router) {
		r.Get("/", a.ListPages)
		r.Post("/", a.CreatePage)
		r.Get("/components/manifest", a.Manifest)
		r.Get("/{ref}", a.GetPage)
		r.Put("/{ref}", a.UpdatePage)
		r.Delete("/{ref}", a.DeletePage)
	})
	r.Route("/components", func(r chi.Router) {
		r.Get("/", a.ListComponents)
		r.Post("/", a.CreateComponent)
		r.Post("/bulk", a.BulkComponents)
		r.Put("/{id}", a.UpdateComponent)
		r.Delete("/{id}", a.DeleteComponent)
	})
}

// checkPage runs the same validation gate the editor runs before saving:
// page fields plus the structural rules of free-form nodes.
func checkPage(in models.PageInput) error {
	return persist.Check(&models.PageDocument{
		Slug:       in.Slug,
		Title:      in.Title,
		Metadata:   in.Metadata,
		Components: in.Components,
	}, nil)
}

// ListPages handles GET /api/pages.
func (a *API) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := a.pages.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, pages)
}

// GetPage handles GET /api/pages/{ref}; ref is an id or a slug.
func (a *API) GetPage(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	page, err := store.Resolve(r.Context(), a.pages, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if page == nil {
		writeError(w, r, apperr.NotFound("page", ref))
		return
	}
	writeData(w, http.StatusOK, page)
}

// CreatePage handles POST /api/pages.
func (a *API) CreatePage(w http.ResponseWriter, r *http.Request) {
	var in models.PageInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := checkPage(in); err != nil {
		writeError(w, r, err)
		return
	}
	page, err := a.pages.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, page)
}

// UpdatePage handles PUT /api/pages/{ref}.
func (a *API) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var in models.PageInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := checkPage(in); err != nil {
		writeError(w, r, err)
		return
	}
	page, err := a.pages.Update(r.Context(), chi.URLParam(r, "ref"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, page)
}

// DeletePage handles DELETE /api/pages/{ref}.
func (a *API) DeletePage(w http.ResponseWriter, r *http.Request) {
	if err := a.pages.Delete(r.Context(), chi.URLParam(r, "ref")); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "page deleted"})
}

// Manifest handles GET /api/pages/components/manifest: the registry's
// component names, or the catalog type names when the registry is empty.
func (a *API) Manifest(w http.ResponseWriter, r *http.Request) {
	entries, err := a.components.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, registry.New(entries...).Manifest())
}
