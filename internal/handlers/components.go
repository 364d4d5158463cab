// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
)

// ListComponents handles GET /api/components.
func (a *API) ListComponents(w http.ResponseWriter, r *http.Request) {
	entries, err := a.components.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

// CreateComponent handles POST /api/components.
func (a *API) CreateComponent(w http.ResponseWriter, r *http.Request) {
	var in models.ComponentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	entry, err := a.components.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, entry)
}

// UpdateComponent handles PUT /api/components/{id} with a partial body.
func (a *API) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	var patch models.ComponentPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	entry, err := a.components.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, entry)
}

// DeleteComponent handles DELETE /api/components/{id}.
func (a *API) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	if err := a.components.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "component deleted"})
}

// BulkComponents handles POST /api/components/bulk. The body is either a
// JSON array of entries or an object with an "items" array.
func (a *API) BulkComponents(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, apperr.Validation([]apperr.FieldError{{Path: "body", Message: "request body is too large"}}))
		return
	}
	items, err := parseBulk(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := a.components.BulkInsert(r.Context(), items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func parseBulk(body []byte) ([]models.ComponentInput, error) {
	invalid := apperr.Validation([]apperr.FieldError{{Path: "body", Message: "expected an array of components or {\"items\": [...]}"}})

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, invalid
	}
	var items []models.ComponentInput
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, invalid
		}
		return items, nil
	}
	var wrapped struct {
		Items []models.ComponentInput `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil || wrapped.Items == nil {
		return nil, invalid
	}
	return wrapped.Items, nil
}
