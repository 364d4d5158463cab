// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package persist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
	"pagebuilder/internal/schema"
)

// fakeStore records calls and can fail or block on demand.
type fakeStore struct {
	mu      sync.Mutex
	calls   []Payload
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeStore) record(id string, in models.PageInput) (*models.PageDocument, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Payload{ID: id, Input: in})
	err, block, entered := f.err, f.block, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = "generated-id"
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &models.PageDocument{
		ID: id, Slug: in.Slug, Title: in.Title, Metadata: in.Metadata,
		Components: in.Components, CreatedAt: now, UpdatedAt: now,
	}, nil
}

func (f *fakeStore) Create(_ context.Context, in models.PageInput) (*models.PageDocument, error) {
	return f.record("", in)
}

func (f *fakeStore) Update(_ context.Context, ref string, in models.PageInput) (*models.PageDocument, error) {
	return f.record(ref, in)
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func page(id string, nodes ...models.Node) *models.PageDocument {
	if nodes == nil {
		nodes = []models.Node{}
	}
	return &models.PageDocument{ID: id, Slug: "home", Title: "Home", Components: nodes}
}

func TestPersistCreatesThenUpdates(t *testing.T) {
	st := &fakeStore{}
	c := New(st)

	doc, err := c.Persist(context.Background(), page(""), nil)
	require.NoError(t, err)
	assert.Equal(t, "generated-id", doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())

	_, err = c.Persist(context.Background(), doc, nil)
	require.NoError(t, err)

	require.Equal(t, 2, st.callCount())
	assert.Empty(t, st.calls[0].ID, "first call creates")
	assert.Equal(t, "generated-id", st.calls[1].ID, "second call updates by id")
}

func TestValidationGateBlocksStore(t *testing.T) {
	st := &fakeStore{}
	c := New(st)

	doc := page("p1",
		models.Node{ID: "f1", Type: models.FreeFormType, Props: models.Props{
			"subElements": []any{
				map[string]any{"subelement_name": "a", "href": "bad"},
				map[string]any{"subelement_name": "a", "href": "/ok"},
			},
		}},
		models.Node{ID: "f2", Type: models.FreeFormType, Props: models.Props{"count": "five"}},
	)
	doc.Slug = "Bad Slug"

	baseline := frozen{"f2": schema.Infer(models.Props{"count": 5})}
	_, err := c.Persist(context.Background(), doc, baseline)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	paths := map[string]int{}
	for _, fe := range apperr.FieldErrors(err) {
		paths[fe.Path]++
	}
	assert.Equal(t, 1, paths["slug"])
	assert.Equal(t, 1, paths["components[0].props.subElements[0].href"])
	assert.Equal(t, 1, paths["components[0].props.subElements[0].subelement_name"])
	assert.Equal(t, 1, paths["components[0].props.subElements[1].subelement_name"])
	assert.Equal(t, 1, paths["components[1].props.count"])

	assert.Zero(t, st.callCount(), "store never called")
	assert.Equal(t, "Bad Slug", doc.Slug, "document left untouched")
}

type frozen map[string]*schema.Schema

func (f frozen) SchemaFor(id string) *schema.Schema { return f[id] }

func TestStoreFailureIsTransportAndRetryable(t *testing.T) {
	st := &fakeStore{err: errors.New("connection refused")}
	c := New(st)

	doc := page("p1", models.Node{ID: "t", Type: "Text", Props: models.Props{"content": "x"}})
	_, err := c.Persist(context.Background(), doc, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsTransport(err))

	p, ok := c.Failed("p1")
	require.True(t, ok)
	assert.Equal(t, "x", p.Input.Components[0].Props["content"])

	// Editing the document after the failure does not change the retry payload.
	doc.Components[0].Props["content"] = "edited"

	st.mu.Lock()
	st.err = nil
	st.mu.Unlock()

	got, err := c.Retry(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "x", got.Components[0].Props["content"])
	assert.Equal(t, st.calls[0], st.calls[1], "identical payload re-sent")

	_, ok = c.Failed("p1")
	assert.False(t, ok, "cleared after success")

	_, err = c.Retry(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrNothingToRetry)
}

func TestTaxonomyErrorsPassThrough(t *testing.T) {
	st := &fakeStore{err: apperr.NotFound("page", "p1")}
	c := New(st)

	_, err := c.Persist(context.Background(), page("p1"), nil)
	assert.True(t, apperr.IsNotFound(err))
	assert.False(t, apperr.IsTransport(err))
}

func TestConcurrentSaveRejected(t *testing.T) {
	st := &fakeStore{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	c := New(st)

	done := make(chan error, 1)
	go func() {
		_, err := c.Persist(context.Background(), page("p1"), nil)
		done <- err
	}()
	<-st.entered
	assert.True(t, c.InFlight("p1"))

	_, err := c.Persist(context.Background(), page("p1"), nil)
	assert.ErrorIs(t, err, apperr.ErrSaveInProgress)

	close(st.block)
	require.NoError(t, <-done)
	assert.False(t, c.InFlight("p1"))
	assert.Equal(t, 1, st.callCount())
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, "abc", KeyFor("abc", "home"))
	assert.Equal(t, "slug:home", KeyFor("", "home"))
	assert.Equal(t, "slug:home", PayloadFor(page("")).Key())
}
