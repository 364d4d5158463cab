// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"net/url"
	"strings"
	"time"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/slug"
)

// PageMetadata holds the optional SEO fields of a page.
type PageMetadata struct {
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	OGImage     string   `json:"ogImage,omitempty" yaml:"ogImage,omitempty"`
}

// PageDocument is a persisted page: its metadata plus the root list of the
// component tree. ID and CreatedAt are assigned by the store and never change.
type PageDocument struct {
	ID         string        `json:"id"`
	Slug       string        `json:"slug"`
	Title      string        `json:"title"`
	Metadata   *PageMetadata `json:"metadata,omitempty"`
	Components []Node        `json:"components"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// PageInput is the writable part of a page, used for create and update.
type PageInput struct {
	Slug       string        `json:"slug"`
	Title      string        `json:"title"`
	Metadata   *PageMetadata `json:"metadata,omitempty"`
	Components []Node        `json:"components"`
}

// Input extracts the writable fields of the document.
func (p *PageDocument) Input() PageInput {
	return PageInput{
		Slug:       p.Slug,
		Title:      p.Title,
		Metadata:   p.Metadata.Clone(),
		Components: CloneNodes(p.Components),
	}
}

// Clone returns a deep copy of the document.
func (p *PageDocument) Clone() *PageDocument {
	if p == nil {
		return nil
	}
	out := *p
	out.Metadata = p.Metadata.Clone()
	out.Components = CloneNodes(p.Components)
	return &out
}

// IsNew reports whether the document has not been created in a store yet.
func (p *PageDocument) IsNew() bool {
	return p.ID == ""
}

// Clone deep-copies the metadata.
func (m *PageMetadata) Clone() *PageMetadata {
	if m == nil {
		return nil
	}
	out := *m
	if m.Keywords != nil {
		out.Keywords = append([]string(nil), m.Keywords...)
	}
	return &out
}

// Normalize trims the slug and title and makes Components non-nil so the
// stored JSON always carries an array.
func (in *PageInput) Normalize() {
	in.Slug = strings.TrimSpace(in.Slug)
	in.Title = strings.TrimSpace(in.Title)
	if in.Components == nil {
		in.Components = []Node{}
	}
}

// Validate checks slug, title and metadata and reports every violation.
func (in *PageInput) Validate() error {
	var errs []apperr.FieldError
	switch {
	case in.Slug == "":
		errs = append(errs, apperr.FieldError{Path: "slug", Message: "slug is required"})
	case !slug.Valid(in.Slug):
		errs = append(errs, apperr.FieldError{Path: "slug", Message: "slug must contain only lowercase letters, digits and single hyphens"})
	}
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, apperr.FieldError{Path: "title", Message: "title is required"})
	}
	if in.Metadata != nil && in.Metadata.OGImage != "" && !IsAbsoluteURL(in.Metadata.OGImage) {
		errs = append(errs, apperr.FieldError{Path: "metadata.ogImage", Message: "ogImage must be an absolute URL"})
	}
	return apperr.Validation(errs)
}

// ParseKeywords accepts a comma-separated keyword string and returns the
// trimmed, non-empty entries, or nil when none remain.
func ParseKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// IsAbsoluteURL reports whether s parses as a URL with a scheme and host.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
