// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache keeps rendered page documents in Valkey (Redis-compatible)
// and wraps any page store with a read-through layer over them.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultDialTimeout bounds the startup ping when Valkey.DialTimeout is zero.
const defaultDialTimeout = 5 * time.Second

// Valkey locates the cache server.
type Valkey struct {
	Host     string
	Port     string
	Password string
	// DB selects the logical database; tests use a non-zero one.
	DB          int
	DialTimeout time.Duration
}

// Addr is the host:port pair, bracketing IPv6 hosts.
func (v Valkey) Addr() string {
	return net.JoinHostPort(v.Host, v.Port)
}

// Open returns a client for the page cache once the server answers a ping.
// The client is closed again when the ping fails.
func Open(ctx context.Context, v Valkey) (*redis.Client, error) {
	timeout := v.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	addr := v.Addr()
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    v.Password,
		DB:          v.DB,
		ClientName:  "pagebuilder",
		DialTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("page cache at %s: %w", addr, err)
	}

	slog.Info("page cache ready", "addr", addr, "db", v.DB)
	return client, nil
}
