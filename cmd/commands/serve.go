// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pagebuilder/internal/handlers"
	"pagebuilder/internal/router"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		Long: `Run the page builder JSON API on APP_HOST:APP_PORT.

With the postgres backend, pending migrations run first and an empty
development database is seeded with a starter page and components.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.apiURL != "" {
				return errors.New("serve uses the configured storage backend; unset --api / PROXY_API_URL")
			}
			b, err := openBackend(a.cfg, "", true)
			if err != nil {
				return err
			}
			defer b.Close()

			slog.Info("configuration loaded",
				"env", a.cfg.Env,
				"addr", a.cfg.Addr(),
				"backend", a.cfg.StorageBackend,
				"cache", a.cfg.CacheEnabled(),
			)

			srv := &http.Server{
				Addr:         a.cfg.Addr(),
				Handler:      router.New(handlers.NewAPI(b.pages, b.components), a.cfg.AllowedOrigins),
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  120 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, srv)
		},
	}
}

// serve runs srv until ctx is done, then gives active requests up to 30
// seconds to complete.
func serve(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}
