// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"pagebuilder/internal/models"
)

// starterComponents are the registry entries a fresh database starts with.
var starterComponents = []models.ComponentInput{
	{
		ComponentName: "site-header",
		DisplayName:   "Site header",
		Category:      "navigation",
		Version:       "1.0.0",
		Definition: &models.ComponentDefinition{SubElements: []models.SubElement{
			{Name: "logo", Href: "/"},
			{Name: "home", Href: "/"},
			{Name: "about", Href: "/about"},
		}},
	},
	{
		ComponentName: "site-footer",
		DisplayName:   "Site footer",
		Category:      "navigation",
		Version:       "1.0.0",
		Definition: &models.ComponentDefinition{SubElements: []models.SubElement{
			{Name: "copyright", Extra: map[string]any{"text": "All rights reserved."}},
			{Name: "contact", Href: "/contact"},
		}},
	},
}

// starterPage is the home page a fresh database starts with.
func starterPage() models.PageInput {
	return models.PageInput{
		Slug:  "home",
		Title: "Home",
		Components: []models.Node{
			{ID: models.NewID(), Type: "Hero", Props: models.Props{"title": "Welcome"}},
			{ID: models.NewID(), Type: "Section", Props: models.Props{"padding": "md"}, Children: []models.Node{
				{ID: models.NewID(), Type: "Text", Props: models.Props{"content": "Start editing this page.", "variant": "p", "align": "left"}},
			}},
		},
	}
}

// Seed populates an empty database with starter registry entries and a home
// page. Tables that already hold rows are left alone.
func Seed(db *sql.DB) error {
	if err := seedComponents(db); err != nil {
		return err
	}
	return seedPages(db)
}

func seedComponents(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM components").Scan(&count); err != nil {
		return fmt.Errorf("seed check components: %w", err)
	}
	if count > 0 {
		slog.Info("components already seeded, skipping")
		return nil
	}

	for _, c := range starterComponents {
		definition, err := json.Marshal(c.Definition)
		if err != nil {
			return fmt.Errorf("seed encode %s: %w", c.ComponentName, err)
		}
		_, err = db.Exec(`
			INSERT INTO components (id, component_name, display_name, category, version, deprecated, definition)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.NewString(), c.ComponentName, c.DisplayName, c.Category, c.Version, c.Deprecated, definition)
		if err != nil {
			return fmt.Errorf("seed insert component %s: %w", c.ComponentName, err)
		}
	}

	slog.Info("database seeded with starter components", "count", len(starterComponents))
	return nil
}

func seedPages(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&count); err != nil {
		return fmt.Errorf("seed check pages: %w", err)
	}
	if count > 0 {
		slog.Info("pages already seeded, skipping")
		return nil
	}

	page := starterPage()
	components, err := json.Marshal(page.Components)
	if err != nil {
		return fmt.Errorf("seed encode page: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO pages (id, slug, title, components)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), page.Slug, page.Title, components)
	if err != nil {
		return fmt.Errorf("seed insert page: %w", err)
	}

	slog.Info("database seeded with home page", "slug", page.Slug)
	return nil
}
