// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"pagebuilder/internal/filestore"
	"pagebuilder/internal/models"
	"pagebuilder/internal/storage"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "page:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// unreachableClient points at a closed port with retries disabled.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

// countingPages wraps a file store and counts reads that reach it.
type countingPages struct {
	*filestore.PageStore
	reads int
}

func (c *countingPages) GetBySlug(ctx context.Context, slug string) (*models.PageDocument, error) {
	c.reads++
	return c.PageStore.GetBySlug(ctx, slug)
}

func (c *countingPages) List(ctx context.Context) ([]models.PageDocument, error) {
	c.reads++
	return c.PageStore.List(ctx)
}

func newInner(t *testing.T) *countingPages {
	t.Helper()
	dir, err := storage.NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	return &countingPages{PageStore: filestore.NewPageStore(dir, "")}
}

func TestOpen(t *testing.T) {
	v := Valkey{
		Host: envOr("VALKEY_HOST", "localhost"),
		Port: envOr("VALKEY_PORT", "6379"),
		DB:   1,
	}

	client, err := Open(context.Background(), v)
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	if got := client.Options().DB; got != 1 {
		t.Errorf("DB: got %d, want 1", got)
	}
	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestOpenUnreachable(t *testing.T) {
	v := Valkey{Host: "127.0.0.1", Port: "1", DialTimeout: 200 * time.Millisecond}

	client, err := Open(context.Background(), v)
	if err == nil {
		client.Close()
		t.Fatal("expected an error for a closed port")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("error should name the address, got %v", err)
	}
}

func TestValkeyAddr(t *testing.T) {
	tests := []struct {
		host, port, want string
	}{
		{"localhost", "6379", "localhost:6379"},
		{"cache.example.com", "6380", "cache.example.com:6380"},
		{"::1", "6379", "[::1]:6379"},
	}
	for _, tt := range tests {
		if got := (Valkey{Host: tt.host, Port: tt.port}).Addr(); got != tt.want {
			t.Errorf("Addr(%q, %q): got %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestPageCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)
	ctx := context.Background()

	if _, ok := pc.Get(ctx, "test-page"); ok {
		t.Error("expected cache miss")
	}

	pc.Set(ctx, "test-page", []byte(`{"slug":"test-page"}`))
	data, ok := pc.Get(ctx, "test-page")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != `{"slug":"test-page"}` {
		t.Errorf("data mismatch: got %q", data)
	}

	pc.Invalidate(ctx, "test-page")
	if _, ok := pc.Get(ctx, "test-page"); ok {
		t.Error("expected cache miss after invalidation")
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, 1*time.Minute)
	ctx := context.Background()

	for _, key := range []string{"page-a", "page-b", "page-c"} {
		pc.Set(ctx, key, []byte("x"))
	}
	pc.InvalidateAll(ctx)
	for _, key := range []string{"page-a", "page-b", "page-c"} {
		if _, ok := pc.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after InvalidateAll", key)
		}
	}
}

func TestNewPageCacheDefaultTTL(t *testing.T) {
	pc := NewPageCache(unreachableClient(t), 0)
	if pc.ttl != DefaultPageTTL {
		t.Errorf("expected DefaultPageTTL (%v), got %v", DefaultPageTTL, pc.ttl)
	}
}

func TestKeys(t *testing.T) {
	if IDKey("p1") != "id:p1" {
		t.Errorf("IDKey: got %q", IDKey("p1"))
	}
	if SlugKey("about-us") != "slug:about-us" {
		t.Errorf("SlugKey: got %q", SlugKey("about-us"))
	}
}

func TestPageStoreReadThrough(t *testing.T) {
	client := testValkeyClient(t)
	inner := newInner(t)
	s := NewPageStore(inner, NewPageCache(client, time.Minute))
	ctx := context.Background()

	created, err := s.Create(ctx, models.PageInput{Slug: "cached-home", Title: "Home"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 3; i++ {
		p, err := s.GetBySlug(ctx, "cached-home")
		if err != nil || p == nil {
			t.Fatalf("GetBySlug: %v %v", p, err)
		}
	}
	if inner.reads != 1 {
		t.Errorf("inner reads: got %d, want 1", inner.reads)
	}

	// Renaming through the decorator drops the old slug key.
	if _, err := s.Update(ctx, created.ID, models.PageInput{Slug: "cached-start", Title: "Start"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	p, err := s.GetBySlug(ctx, "cached-home")
	if err != nil {
		t.Fatalf("GetBySlug after rename: %v", err)
	}
	if p != nil {
		t.Errorf("stale page served for old slug: %+v", p)
	}

	byID, err := s.GetByID(ctx, created.ID)
	if err != nil || byID == nil || byID.Title != "Start" {
		t.Errorf("GetByID after update: %+v %v", byID, err)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if p, _ := s.GetByID(ctx, created.ID); p != nil {
		t.Error("deleted page still served from cache")
	}
}

func TestPageStoreFallsThroughWhenValkeyIsDown(t *testing.T) {
	inner := newInner(t)
	s := NewPageStore(inner, NewPageCache(unreachableClient(t), time.Minute))
	ctx := context.Background()

	if _, err := s.Create(ctx, models.PageInput{Slug: "home", Title: "Home"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 2; i++ {
		p, err := s.GetBySlug(ctx, "home")
		if err != nil || p == nil {
			t.Fatalf("GetBySlug: %v %v", p, err)
		}
	}
	if inner.reads != 2 {
		t.Errorf("every read should reach the store, got %d", inner.reads)
	}

	pages, err := s.List(ctx)
	if err != nil || len(pages) != 1 {
		t.Errorf("List: %v %v", pages, err)
	}
}
