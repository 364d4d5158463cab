// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder/internal/models"
)

func TestLookup(t *testing.T) {
	r := New()

	s, ok := r.Lookup(TypeText)
	require.True(t, ok)
	assert.False(t, s.CanHaveChildren)
	assert.Equal(t, "p", s.DefaultProps["variant"])

	_, ok = r.Lookup("Carousel")
	assert.False(t, ok, "unknown type is absent, not an error")

	assert.Equal(t, []string{
		TypeComponent, TypeHero, TypeArticleCard, TypeArticleList,
		TypeSection, TypeText, TypeImage, TypeContainer,
	}, r.Types())
}

func TestDefaultsAreCopies(t *testing.T) {
	r := New()
	s, _ := r.Lookup(TypeHero)

	d := s.Defaults()
	d["title"] = "changed"

	assert.Equal(t, "Hero title", s.DefaultProps["title"])
	assert.Equal(t, "Hero title", s.Defaults()["title"])
}

func TestAllowsChild(t *testing.T) {
	r := New()
	tests := []struct {
		parent, child string
		want          bool
	}{
		{TypeSection, TypeText, true},
		{TypeContainer, TypeSection, true},
		{TypeComponent, TypeHero, true},
		{TypeArticleList, TypeArticleCard, true},
		{TypeArticleList, TypeText, false},
		{TypeText, TypeText, false},
		{"Unknown", TypeText, false},
	}
	for _, tc := range tests {
		t.Run(tc.parent+">"+tc.child, func(t *testing.T) {
			assert.Equal(t, tc.want, r.AllowsChild(tc.parent, tc.child))
		})
	}
}

func TestCatalogDefaultsPassValidation(t *testing.T) {
	for _, s := range Catalog() {
		if s.Type == TypeImage {
			// The default image has no source yet.
			continue
		}
		assert.Empty(t, s.Validate(s.Defaults()), s.Type)
	}
}

func TestValidateNode(t *testing.T) {
	r := New()
	tests := []struct {
		name      string
		node      models.Node
		wantPaths []string
	}{
		{
			name: "valid text",
			node: models.Node{Type: TypeText, Props: models.Props{"content": "Hello", "variant": "h2"}},
		},
		{
			name:      "empty text and bad align",
			node:      models.Node{Type: TypeText, Props: models.Props{"content": " ", "align": "justify"}},
			wantPaths: []string{"content", "align"},
		},
		{
			name:      "hero relative cta link",
			node:      models.Node{Type: TypeHero, Props: models.Props{"title": "T", "ctaLink": "/buy"}},
			wantPaths: []string{"ctaLink"},
		},
		{
			name: "hero empty urls allowed",
			node: models.Node{Type: TypeHero, Props: models.Props{"title": "T", "ctaLink": "", "backgroundImage": ""}},
		},
		{
			name:      "image needs absolute src and numeric width",
			node:      models.Node{Type: TypeImage, Props: models.Props{"src": "", "alt": "x", "width": "100"}},
			wantPaths: []string{"src", "width"},
		},
		{
			name: "image ok",
			node: models.Node{Type: TypeImage, Props: models.Props{"src": "https://cdn.example.com/a.png", "alt": "a", "width": 640.0}},
		},
		{
			name:      "container padding must be boolean",
			node:      models.Node{Type: TypeContainer, Props: models.Props{"padding": "yes"}},
			wantPaths: []string{"padding"},
		},
		{
			name: "free-form skipped",
			node: models.Node{Type: TypeComponent, Props: models.Props{"anything": 1}},
		},
		{
			name: "unknown skipped",
			node: models.Node{Type: "Legacy", Props: models.Props{"x": 1}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := r.ValidateNode(&tc.node)
			got := make([]string, len(errs))
			for i, e := range errs {
				got[i] = e.Path
			}
			if len(tc.wantPaths) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.wantPaths, got)
		})
	}
}

func TestManifest(t *testing.T) {
	assert.Equal(t, New().Types(), New().Manifest(), "falls back to catalog types")

	r := New(
		models.ComponentEntry{ComponentName: "hero-banner"},
		models.ComponentEntry{ComponentName: "footer"},
		models.ComponentEntry{ComponentName: "hero-banner", DisplayName: "dup"},
	)
	assert.Equal(t, []string{"hero-banner", "footer"}, r.Manifest())

	e, ok := r.Entry("hero-banner")
	require.True(t, ok)
	assert.Empty(t, e.DisplayName, "first entry wins")

	_, ok = r.Entry("missing")
	assert.False(t, ok)
	assert.Len(t, r.Entries(), 2)
}
