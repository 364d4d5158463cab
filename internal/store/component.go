// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
)

const componentColumns = `id, component_name, display_name, category, version, deprecated, definition, created_at, updated_at`

// ComponentStore is the PostgreSQL component registry store.
type ComponentStore struct {
	db *sql.DB
}

// NewComponentStore creates a new ComponentStore with the given database connection.
func NewComponentStore(db *sql.DB) *ComponentStore {
	return &ComponentStore{db: db}
}

func scanComponent(row rowScanner) (*models.ComponentEntry, error) {
	var (
		e          models.ComponentEntry
		definition []byte
	)
	if err := row.Scan(
		&e.ID, &e.ComponentName, &e.DisplayName, &e.Category, &e.Version,
		&e.Deprecated, &definition, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(definition) > 0 && string(definition) != "null" {
		e.Definition = &models.ComponentDefinition{}
		if err := json.Unmarshal(definition, e.Definition); err != nil {
			return nil, fmt.Errorf("decode component definition: %w", err)
		}
	}
	return &e, nil
}

func encodeDefinition(d *models.ComponentDefinition) (any, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode component definition: %w", err)
	}
	return b, nil
}

// List returns all registry entries ordered by name.
func (s *ComponentStore) List(ctx context.Context) ([]models.ComponentEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+componentColumns+` FROM components ORDER BY component_name`)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	entries := []models.ComponentEntry{}
	for rows.Next() {
		e, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// FindByID retrieves an entry by id. Returns nil if not found.
func (s *ComponentStore) FindByID(ctx context.Context, id string) (*models.ComponentEntry, error) {
	e, err := scanComponent(s.db.QueryRowContext(ctx, `SELECT `+componentColumns+` FROM components WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find component by id: %w", err)
	}
	return e, nil
}

// Create validates and inserts a registry entry.
func (s *ComponentStore) Create(ctx context.Context, in models.ComponentInput) (*models.ComponentEntry, error) {
	if err := PrepareComponent(&in); err != nil {
		return nil, err
	}
	definition, err := encodeDefinition(in.Definition)
	if err != nil {
		return nil, err
	}

	e, err := scanComponent(s.db.QueryRowContext(ctx, `
		INSERT INTO components (id, component_name, display_name, category, version, deprecated, definition)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+componentColumns,
		uuid.NewString(), in.ComponentName, in.DisplayName, in.Category, in.Version, in.Deprecated, definition,
	))
	if isUniqueViolation(err) {
		return nil, apperr.Conflict("component", "component_name", in.ComponentName)
	}
	if err != nil {
		return nil, fmt.Errorf("create component: %w", err)
	}
	return e, nil
}

// Update applies a partial update to the entry with the given id.
func (s *ComponentStore) Update(ctx context.Context, id string, patch models.ComponentPatch) (*models.ComponentEntry, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("component", id)
	}
	patch.Apply(current)
	in := InputOf(current)
	if err := PrepareComponent(&in); err != nil {
		return nil, err
	}
	definition, err := encodeDefinition(in.Definition)
	if err != nil {
		return nil, err
	}

	e, err := scanComponent(s.db.QueryRowContext(ctx, `
		UPDATE components SET
			component_name = $2, display_name = $3, category = $4, version = $5,
			deprecated = $6, definition = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+componentColumns,
		id, in.ComponentName, in.DisplayName, in.Category, in.Version, in.Deprecated, definition,
	))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, apperr.NotFound("component", id)
	case isUniqueViolation(err):
		return nil, apperr.Conflict("component", "component_name", in.ComponentName)
	case err != nil:
		return nil, fmt.Errorf("update component: %w", err)
	}
	return e, nil
}

// BulkInsert inserts every valid entry whose name is not taken yet, in one
// transaction. Invalid entries and duplicate names, including duplicates
// within items, are skipped rather than failing the batch.
func (s *ComponentStore) BulkInsert(ctx context.Context, items []models.ComponentInput) (models.BulkResult, error) {
	result := models.BulkResult{Items: []models.ComponentEntry{}}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("bulk insert components: begin: %w", err)
	}
	defer tx.Rollback()

	for _, in := range items {
		if err := PrepareComponent(&in); err != nil {
			result.Skipped++
			continue
		}
		definition, err := encodeDefinition(in.Definition)
		if err != nil {
			result.Skipped++
			continue
		}
		e, err := scanComponent(tx.QueryRowContext(ctx, `
			INSERT INTO components (id, component_name, display_name, category, version, deprecated, definition)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (component_name) DO NOTHING
			RETURNING `+componentColumns,
			uuid.NewString(), in.ComponentName, in.DisplayName, in.Category, in.Version, in.Deprecated, definition,
		))
		if errors.Is(err, sql.ErrNoRows) {
			result.Skipped++
			continue
		}
		if err != nil {
			return models.BulkResult{}, fmt.Errorf("bulk insert component %q: %w", in.ComponentName, err)
		}
		result.Inserted++
		result.Items = append(result.Items, *e)
	}

	if err := tx.Commit(); err != nil {
		return models.BulkResult{}, fmt.Errorf("bulk insert components: commit: %w", err)
	}
	return result, nil
}

// Delete removes the entry with the given id. Pages that reference it keep
// their nodes untouched.
func (s *ComponentStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM components WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete component: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete component: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("component", id)
	}
	return nil
}
