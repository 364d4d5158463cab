// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package registry

import (
	"fmt"
	"slices"
	"strings"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
	"pagebuilder/internal/schema"
)

// rule checks one property and appends any violation to errs.
type rule func(props models.Props, errs *[]apperr.FieldError)

func fail(errs *[]apperr.FieldError, key, msg string) {
	*errs = append(*errs, apperr.FieldError{Path: key, Message: msg})
}

// stringValue returns the property as a string. present is false when the
// key is missing or null; ok is false when it holds a non-string.
func stringValue(props models.Props, key string) (s string, present, ok bool) {
	v, exists := props[key]
	if !exists || v == nil {
		return "", false, true
	}
	s, ok = v.(string)
	return s, true, ok
}

func requiredString(key, msg string) rule {
	return func(props models.Props, errs *[]apperr.FieldError) {
		s, present, ok := stringValue(props, key)
		switch {
		case !ok:
			fail(errs, key, "must be a string")
		case !present || strings.TrimSpace(s) == "":
			fail(errs, key, msg)
		}
	}
}

func optionalString(key string) rule {
	return func(props models.Props, errs *[]apperr.FieldError) {
		if _, _, ok := stringValue(props, key); !ok {
			fail(errs, key, "must be a string")
		}
	}
}

// optionalURL accepts a missing key, an empty string or an absolute URL.
func optionalURL(key string) rule {
	return func(props models.Props, errs *[]apperr.FieldError) {
		s, present, ok := stringValue(props, key)
		switch {
		case !ok:
			fail(errs, key, "must be a string")
		case present && s != "" && !models.IsAbsoluteURL(s):
			fail(errs, key, "must be a valid URL")
		}
	}
}

func requiredURL(key string) rule {
	return func(props models.Props, errs *[]apperr.FieldError) {
		s, _, ok := stringValue(props, key)
		switch {
		case !ok:
			fail(errs, key, "must be a string")
		case !models.IsAbsoluteURL(s):
			fail(errs, key, "must be a valid URL")
		}
	}
}

// oneOf accepts a missing key (the default applies) or one of values.
func oneOf(key string, values ...string) rule {
	return func(props models.Props, errs *[]apperr.FieldError) {
		s, present, ok := stringValue(props, key)
		switch {
		case !ok:
			fail(errs, key, "must be a string")
		case present && !slices.Contains(values, s):
			fail(errs, key, fmt.Sprintf("must be one of %s", strings.Join(values, ", ")))
		}
	}
}

func optionalKind(key string, kind schema.Kind) rule {
	return func(props models.Props, errs *[]apperr.FieldError) {
		v, ok := props[key]
		if !ok || v == nil {
			return
		}
		if got := schema.KindOf(v); got != kind {
			fail(errs, key, fmt.Sprintf("expected %s, got %s", kind, got))
		}
	}
}

func rules(rs ...rule) func(models.Props) []apperr.FieldError {
	return func(props models.Props) []apperr.FieldError {
		var errs []apperr.FieldError
		for _, r := range rs {
			r(props, &errs)
		}
		return errs
	}
}
