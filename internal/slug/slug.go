// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation and the naming rules
// for page slugs and registry component names.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace runs become a single hyphen.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)

	// pagePattern is the kebab-case rule every page slug must satisfy.
	pagePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	// componentPattern is the naming rule for registry entries.
	componentPattern = regexp.MustCompile(`^[a-z][a-z0-9-]{1,49}$`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Valid reports whether s is an acceptable page slug: lowercase letters and
// digits in groups separated by single hyphens.
func Valid(s string) bool {
	return pagePattern.MatchString(s)
}

// ValidComponentName reports whether name is an acceptable registry
// component_name: a lowercase letter followed by 1-49 of [a-z0-9-].
func ValidComponentName(name string) bool {
	return componentPattern.MatchString(name)
}
