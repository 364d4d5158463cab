// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by the editing core, the
// stores and the HTTP layer. Each kind is a distinct type so callers can
// tell "not found" apart from "invalid input" with errors.As / errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed errors below through their Is methods.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrSaveInProgress is returned when a second save for the same
	// document is requested while the first one has not resolved yet.
	ErrSaveInProgress = errors.New("save already in progress for this document")
)

// FieldError is one validation failure addressed by a dotted path such as
// "components[0].props.subElements[1].href".
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// String renders the field error as "path: message".
func (f FieldError) String() string {
	if f.Path == "" {
		return f.Message
	}
	return f.Path + ": " + f.Message
}

// ValidationError carries every violation found, never just the first.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, f := range e.Errors {
		parts[i] = f.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validation wraps a list of field errors, returning nil when it is empty so
// callers can write `if err := apperr.Validation(errs); err != nil`.
func Validation(errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// NotFoundError reports an id or slug that does not resolve.
type NotFoundError struct {
	Kind string // "page", "component"
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Ref)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a *NotFoundError.
func NotFound(kind, ref string) error {
	return &NotFoundError{Kind: kind, Ref: ref}
}

// ConflictError reports a unique-key collision (page slug, component name).
type ConflictError struct {
	Kind  string
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Kind, e.Field, e.Value)
}

// Is makes errors.Is(err, ErrConflict) true.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Conflict builds a *ConflictError.
func Conflict(kind, field, value string) error {
	return &ConflictError{Kind: kind, Field: field, Value: value}
}

// TransportError wraps a failure to reach a store or to parse its reply.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Transport wraps err as a *TransportError unless err already belongs to the
// taxonomy, in which case it is returned unchanged.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsValidation(err) || IsNotFound(err) || IsConflict(err) || IsTransport(err) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsTransport reports whether err is (or wraps) a *TransportError.
func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}

// FieldErrors extracts the field list from a validation error, or nil.
func FieldErrors(err error) []FieldError {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Errors
	}
	return nil
}
