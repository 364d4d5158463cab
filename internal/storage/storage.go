// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides the blob backends the flat-file stores keep
// their JSON documents in: a local directory and an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotExist is returned by Read when the key has never been written.
var ErrNotExist = errors.New("blob does not exist")

// Blob is a flat key/value object store.
type Blob interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Dir stores each key as a file under a root directory.
type Dir struct {
	root string
}

// NewDir returns a Dir rooted at root, creating the directory if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", root, err)
	}
	return &Dir{root: root}, nil
}

// Root returns the directory the files are stored in.
func (d *Dir) Root() string { return d.root }

// Read returns the contents of the file for key.
func (d *Dir) Read(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(d.root, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Write replaces the file for key. The data goes to a temporary file first
// and is renamed into place so readers never see a partial document.
func (d *Dir) Write(_ context.Context, key string, data []byte) error {
	path := filepath.Join(d.root, key)
	tmp, err := os.CreateTemp(d.root, "."+filepath.Base(key)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
