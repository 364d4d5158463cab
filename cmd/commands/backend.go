// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pagebuilder/internal/cache"
	"pagebuilder/internal/client"
	"pagebuilder/internal/config"
	"pagebuilder/internal/database"
	"pagebuilder/internal/filestore"
	"pagebuilder/internal/storage"
	"pagebuilder/internal/store"
)

// backend is an opened pair of stores and whatever must be closed after.
type backend struct {
	pages      store.Pages
	components store.Components
	closers    []func() error
}

func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// openBackend opens the stores selected by the configuration, or the HTTP
// client when apiURL is set. seed loads the starter data into an empty
// PostgreSQL database in development.
func openBackend(cfg *config.Config, apiURL string, seed bool) (*backend, error) {
	if apiURL != "" {
		c := client.New(apiURL)
		slog.Debug("using remote api", "url", apiURL)
		return &backend{pages: c.Pages(), components: c.Components()}, nil
	}

	b := &backend{}
	switch cfg.StorageBackend {
	case config.BackendFile:
		dir, err := storage.NewDir(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		b.pages = filestore.NewPageStore(dir, cfg.PagesFile)
		b.components = filestore.NewComponentStore(dir, cfg.ComponentsFile)

	case config.BackendS3:
		bucket, err := storage.NewBucket(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, err
		}
		if bucket == nil {
			return nil, fmt.Errorf("s3 backend selected but S3 is not configured")
		}
		b.pages = filestore.NewPageStore(bucket, cfg.PagesFile)
		b.components = filestore.NewComponentStore(bucket, cfg.ComponentsFile)

	case config.BackendPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		if err := database.Migrate(db); err != nil {
			b.Close()
			return nil, err
		}
		if seed && cfg.IsDev() {
			if err := database.Seed(db); err != nil {
				b.Close()
				return nil, err
			}
		}
		b.pages = store.NewPageStore(db)
		b.components = store.NewComponentStore(db)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if cfg.CacheEnabled() {
		rdb, err := cache.Open(context.Background(), cache.Valkey{
			Host:     cfg.ValkeyHost,
			Port:     cfg.ValkeyPort,
			Password: cfg.ValkeyPassword,
		})
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, rdb.Close)
		b.pages = cache.NewPageStore(b.pages, cache.NewPageCache(rdb, cache.DefaultPageTTL))
	}

	slog.Debug("storage opened", "backend", cfg.StorageBackend, "cache", cfg.CacheEnabled())
	return b, nil
}

// open is openBackend with the invocation's settings.
func (a *app) open() (*backend, error) {
	return openBackend(a.cfg, a.apiURL, false)
}
