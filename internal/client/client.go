// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package client implements the page and component stores over the page
// builder's HTTP API. Response statuses map back onto the error taxonomy:
// 400 is a validation error, 404 not found, 409 a conflict, and anything
// unexpected (including an unreachable server) a transport error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pagebuilder/internal/apperr"
)

// Client talks to one API base URL, e.g. "http://localhost:8080".
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pages returns the page store view of the client.
func (c *Client) Pages() *PageStore { return &PageStore{c: c} }

// Components returns the component store view of the client.
func (c *Client) Components() *ComponentStore { return &ComponentStore{c: c} }

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   string              `json:"error"`
	Errors  []apperr.FieldError `json:"errors"`
}

// target names the record a request is about, for building not found and
// conflict errors from a bare status code.
type target struct {
	kind  string
	ref   string
	field string
	value string
}

// do sends one request and decodes the envelope's data into out (if non-nil).
func (c *Client) do(ctx context.Context, op string, t target, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Transport(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Transport(op, fmt.Errorf("read body: %w", err))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return apperr.Transport(op, fmt.Errorf("status %d: decode body: %w", resp.StatusCode, err))
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		errs := env.Errors
		if len(errs) == 0 {
			errs = []apperr.FieldError{{Message: env.Error}}
		}
		return apperr.Validation(errs)
	case resp.StatusCode == http.StatusNotFound:
		return apperr.NotFound(t.kind, t.ref)
	case resp.StatusCode == http.StatusConflict:
		return apperr.Conflict(t.kind, t.field, t.value)
	case resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success:
		return apperr.Transport(op, fmt.Errorf("status %d: %s", resp.StatusCode, env.Error))
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return apperr.Transport(op, fmt.Errorf("decode data: %w", err))
		}
	}
	return nil
}
