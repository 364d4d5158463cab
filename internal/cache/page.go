// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache of page documents. Lookups by id
// or slug and the page list are served from Valkey when present; every
// write through the store invalidates the affected keys. Cache failures are
// logged and fall through to the wrapped store.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"pagebuilder/internal/models"
	"pagebuilder/internal/store"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a page document stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// IDKey returns the cache key for a page id.
func IDKey(id string) string { return "id:" + id }

// SlugKey returns the cache key for a page slug.
func SlugKey(slug string) string { return "slug:" + slug }

// ListKey returns the cache key for the page list.
func ListKey() string { return "_list" }

// PageCache stores raw values under the page: prefix in Valkey.
type PageCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client redis.Cmdable, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves a cached value. Errors count as a miss.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores a value with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, data []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, data, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// Invalidate removes the given keys.
func (pc *PageCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = pageKeyPrefix + k
	}
	if err := pc.client.Del(ctx, full...).Err(); err != nil {
		slog.Warn("page cache invalidate error", "keys", keys, "error", err)
		return
	}
	slog.Debug("page cache invalidated", "keys", keys)
}

// InvalidateAll removes all cached pages by scanning for the prefix.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}

// PageStore is a read-through cache in front of another page store.
type PageStore struct {
	inner store.Pages
	cache *PageCache
}

var _ store.Pages = (*PageStore)(nil)

// NewPageStore wraps inner with the given cache.
func NewPageStore(inner store.Pages, cache *PageCache) *PageStore {
	return &PageStore{inner: inner, cache: cache}
}

func (s *PageStore) getJSON(ctx context.Context, key string, v any) bool {
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("page cache decode error", "key", key, "error", err)
		s.cache.Invalidate(ctx, key)
		return false
	}
	return true
}

func (s *PageStore) setJSON(ctx context.Context, v any, keys ...string) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("page cache encode error", "keys", keys, "error", err)
		return
	}
	for _, k := range keys {
		s.cache.Set(ctx, k, data)
	}
}

// List returns the cached page list, loading it on a miss.
func (s *PageStore) List(ctx context.Context) ([]models.PageDocument, error) {
	var pages []models.PageDocument
	if s.getJSON(ctx, ListKey(), &pages) {
		return pages, nil
	}
	pages, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	s.setJSON(ctx, pages, ListKey())
	return pages, nil
}

// GetByID returns the page with id, from the cache when possible.
func (s *PageStore) GetByID(ctx context.Context, id string) (*models.PageDocument, error) {
	return s.get(ctx, IDKey(id), func() (*models.PageDocument, error) { return s.inner.GetByID(ctx, id) })
}

// GetBySlug returns the page with slug, from the cache when possible.
func (s *PageStore) GetBySlug(ctx context.Context, slug string) (*models.PageDocument, error) {
	return s.get(ctx, SlugKey(slug), func() (*models.PageDocument, error) { return s.inner.GetBySlug(ctx, slug) })
}

func (s *PageStore) get(ctx context.Context, key string, load func() (*models.PageDocument, error)) (*models.PageDocument, error) {
	var p models.PageDocument
	if s.getJSON(ctx, key, &p) {
		return &p, nil
	}
	doc, err := load()
	if err != nil || doc == nil {
		return doc, err
	}
	s.setJSON(ctx, doc, IDKey(doc.ID), SlugKey(doc.Slug))
	return doc, nil
}

// Create writes through and drops the cached list.
func (s *PageStore) Create(ctx context.Context, in models.PageInput) (*models.PageDocument, error) {
	doc, err := s.inner.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, ListKey(), SlugKey(doc.Slug))
	return doc, nil
}

// Update writes through and drops the keys of the page before and after
// the change, so a renamed slug does not keep serving the old document.
func (s *PageStore) Update(ctx context.Context, ref string, in models.PageInput) (*models.PageDocument, error) {
	prev, _ := store.Resolve(ctx, s.inner, ref)
	doc, err := s.inner.Update(ctx, ref, in)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		s.cache.InvalidateAll(ctx)
		return doc, nil
	}
	s.cache.Invalidate(ctx, s.keys(prev, doc)...)
	return doc, nil
}

// Delete writes through and drops the page's keys.
func (s *PageStore) Delete(ctx context.Context, ref string) error {
	prev, _ := store.Resolve(ctx, s.inner, ref)
	if err := s.inner.Delete(ctx, ref); err != nil {
		return err
	}
	if prev == nil {
		s.cache.InvalidateAll(ctx)
		return nil
	}
	s.cache.Invalidate(ctx, s.keys(prev)...)
	return nil
}

func (s *PageStore) keys(docs ...*models.PageDocument) []string {
	keys := []string{ListKey()}
	for _, d := range docs {
		if d != nil {
			keys = append(keys, IDKey(d.ID), SlugKey(d.Slug))
		}
	}
	return keys
}
