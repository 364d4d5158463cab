// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package filestore implements the page and component stores on top of a
// single JSON document per collection, kept in a storage.Blob (a local
// directory or an S3 bucket). A missing document is an empty collection.
// Every write rewrites the whole document under a mutex.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pagebuilder/internal/storage"
)

// Default document names.
const (
	DefaultPagesFile      = "pages.json"
	DefaultComponentsFile = "components.json"
)

// Option configures a store.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the uuid generator for new records.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

// load reads a collection, treating a missing or blank document as empty.
func load[T any](ctx context.Context, blob storage.Blob, key string) ([]T, error) {
	data, err := blob.Read(ctx, key)
	if errors.Is(err, storage.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func save[T any](ctx context.Context, blob storage.Blob, key string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := blob.Write(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
