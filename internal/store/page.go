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
	"github.com/jackc/pgx/v5/pgconn"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

const pageColumns = `id, slug, title, metadata, components, created_at, updated_at`

// refClause picks the page whose id equals the ref, falling back to the
// page whose slug does.
const refClause = `id = (
		SELECT id FROM pages WHERE id = $1 OR slug = $1
		ORDER BY (id = $1) DESC LIMIT 1
	)`

// PageStore is the PostgreSQL page store. Metadata and the component tree
// are stored as JSONB.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*models.PageDocument, error) {
	var (
		p          models.PageDocument
		metadata   []byte
		components []byte
	)
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &metadata, &components, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(metadata) > 0 && string(metadata) != "null" {
		p.Metadata = &models.PageMetadata{}
		if err := json.Unmarshal(metadata, p.Metadata); err != nil {
			return nil, fmt.Errorf("decode page metadata: %w", err)
		}
	}
	if err := json.Unmarshal(components, &p.Components); err != nil {
		return nil, fmt.Errorf("decode page components: %w", err)
	}
	if p.Components == nil {
		p.Components = []models.Node{}
	}
	return &p, nil
}

// encodePage returns the JSONB arguments for a page write. Nil metadata is
// passed as an untyped nil so it is stored as SQL NULL.
func encodePage(in models.PageInput) (metadata any, components []byte, err error) {
	if in.Metadata != nil {
		b, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, nil, fmt.Errorf("encode page metadata: %w", err)
		}
		metadata = b
	}
	if components, err = json.Marshal(in.Components); err != nil {
		return nil, nil, fmt.Errorf("encode page components: %w", err)
	}
	return metadata, components, nil
}

// List returns every page, most recently updated first.
func (s *PageStore) List(ctx context.Context) ([]models.PageDocument, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	pages := []models.PageDocument{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// GetByID retrieves a page by id. Returns nil if not found.
func (s *PageStore) GetByID(ctx context.Context, id string) (*models.PageDocument, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by id: %w", err)
	}
	return p, nil
}

// GetBySlug retrieves a page by slug. Returns nil if not found.
func (s *PageStore) GetBySlug(ctx context.Context, slug string) (*models.PageDocument, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by slug: %w", err)
	}
	return p, nil
}

// Create validates and inserts a page, returning it with its new id and
// timestamps.
func (s *PageStore) Create(ctx context.Context, in models.PageInput) (*models.PageDocument, error) {
	if err := PreparePage(&in); err != nil {
		return nil, err
	}
	metadata, components, err := encodePage(in)
	if err != nil {
		return nil, err
	}

	p, err := scanPage(s.db.QueryRowContext(ctx, `
		INSERT INTO pages (id, slug, title, metadata, components)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+pageColumns,
		uuid.NewString(), in.Slug, in.Title, metadata, components,
	))
	if isUniqueViolation(err) {
		return nil, apperr.Conflict("page", "slug", in.Slug)
	}
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return p, nil
}

// Update replaces the writable fields of the page matching ref. The id and
// created_at never change.
func (s *PageStore) Update(ctx context.Context, ref string, in models.PageInput) (*models.PageDocument, error) {
	if err := PreparePage(&in); err != nil {
		return nil, err
	}
	metadata, components, err := encodePage(in)
	if err != nil {
		return nil, err
	}

	p, err := scanPage(s.db.QueryRowContext(ctx, `
		UPDATE pages SET
			slug = $2, title = $3, metadata = $4, components = $5,
			updated_at = NOW()
		WHERE `+refClause+`
		RETURNING `+pageColumns,
		ref, in.Slug, in.Title, metadata, components,
	))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, apperr.NotFound("page", ref)
	case isUniqueViolation(err):
		return nil, apperr.Conflict("page", "slug", in.Slug)
	case err != nil:
		return nil, fmt.Errorf("update page: %w", err)
	}
	return p, nil
}

// Delete removes the page matching ref.
func (s *PageStore) Delete(ctx context.Context, ref string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE `+refClause, ref)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("page", ref)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
