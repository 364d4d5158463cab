// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package persist pushes edited page documents to a page store.
//
// A Coordinator validates a document before any store call, refuses to run
// two saves for the same document at once and remembers the exact payload of
// a failed save so it can be sent again unchanged with Retry.
package persist

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/models"
	"pagebuilder/internal/schema"
)

// ErrNothingToRetry is returned by Retry when no failed save is recorded
// under the given key.
var ErrNothingToRetry = errors.New("no failed save to retry")

// Store is the write side of a page store.
type Store interface {
	Create(ctx context.Context, in models.PageInput) (*models.PageDocument, error)
	Update(ctx context.Context, ref string, in models.PageInput) (*models.PageDocument, error)
}

// Payload is the request a save sends: an update of page ID, or a create
// when ID is empty.
type Payload struct {
	ID    string
	Input models.PageInput
}

// PayloadFor builds the save payload of a document. The input is a deep copy.
func PayloadFor(doc *models.PageDocument) Payload {
	in := doc.Input()
	in.Normalize()
	return Payload{ID: doc.ID, Input: in}
}

// Key identifies the document a payload belongs to. Documents that have not
// been created yet are keyed by slug.
func (p Payload) Key() string {
	return KeyFor(p.ID, p.Input.Slug)
}

// KeyFor returns the coordinator key for a page id or, when id is empty, a
// not yet created page's slug.
func KeyFor(id, slug string) string {
	if id != "" {
		return id
	}
	return "slug:" + slug
}

// Check runs the validation gate: page fields plus the dynamic schema of
// every free-form node. baseline may be nil. All violations are returned
// together as a *apperr.ValidationError.
func Check(doc *models.PageDocument, baseline schema.Source) error {
	in := doc.Input()
	in.Normalize()
	errs := apperr.FieldErrors(in.Validate())
	errs = append(errs, schema.ValidateNodes(doc.Components, baseline)...)
	return apperr.Validation(errs)
}

// Coordinator serializes saves per document. It is safe for concurrent use.
type Coordinator struct {
	store Store
	log   *slog.Logger

	mu       sync.Mutex
	inFlight map[string]bool
	failed   map[string]Payload
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for failed saves.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// New creates a Coordinator writing to store.
func New(store Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		log:      slog.Default(),
		inFlight: make(map[string]bool),
		failed:   make(map[string]Payload),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Persist validates doc and sends it to the store: Create when it has no
// id yet, Update by id otherwise. On success the store's canonical document
// is returned. A validation failure never reaches the store.
func (c *Coordinator) Persist(ctx context.Context, doc *models.PageDocument, baseline schema.Source) (*models.PageDocument, error) {
	if err := Check(doc, baseline); err != nil {
		return nil, err
	}
	return c.Send(ctx, PayloadFor(doc))
}

// Send writes a payload without running the validation gate. It returns
// apperr.ErrSaveInProgress while another save for the same key is running.
// Store failures are wrapped as transport errors unless they already carry
// a not found, conflict or validation error.
func (c *Coordinator) Send(ctx context.Context, p Payload) (*models.PageDocument, error) {
	key := p.Key()
	if !c.acquire(key) {
		return nil, apperr.ErrSaveInProgress
	}
	defer c.release(key)

	var (
		doc *models.PageDocument
		err error
	)
	if p.ID == "" {
		doc, err = c.store.Create(ctx, p.Input)
	} else {
		doc, err = c.store.Update(ctx, p.ID, p.Input)
	}
	if err != nil {
		c.mu.Lock()
		c.failed[key] = p
		c.mu.Unlock()
		c.log.Warn("page save failed", "key", key, "slug", p.Input.Slug, "error", err)
		return nil, apperr.Transport("save page", err)
	}

	c.mu.Lock()
	delete(c.failed, key)
	c.mu.Unlock()
	return doc, nil
}

// Retry re-sends the payload of the last failed save for key.
func (c *Coordinator) Retry(ctx context.Context, key string) (*models.PageDocument, error) {
	p, ok := c.Failed(key)
	if !ok {
		return nil, ErrNothingToRetry
	}
	return c.Send(ctx, p)
}

// Failed returns a copy of the failed payload recorded for key.
func (c *Coordinator) Failed(key string) (Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.failed[key]
	if !ok {
		return Payload{}, false
	}
	p.Input.Metadata = p.Input.Metadata.Clone()
	p.Input.Components = models.CloneNodes(p.Input.Components)
	return p, true
}

// InFlight reports whether a save for key is running.
func (c *Coordinator) InFlight(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[key]
}

func (c *Coordinator) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[key] {
		return false
	}
	c.inFlight[key] = true
	return true
}

func (c *Coordinator) release(key string) {
	c.mu.Lock()
	delete(c.inFlight, key)
	c.mu.Unlock()
}
