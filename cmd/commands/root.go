// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package commands holds the cobra command tree of the pagebuilder binary.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pagebuilder/internal/config"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfg    *config.Config
	apiURL string
	output string
}

// NewRootCommand builds the pagebuilder command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pagebuilder",
		Short: "Page builder API server and store tooling",
		Long: `pagebuilder serves the page builder JSON API and manages the pages and
the component registry it stores.

Storage is chosen with STORAGE_BACKEND (file, s3 or postgres). Pass --api
to run the management commands against a running server instead.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.apiURL == "" {
				a.apiURL = cfg.ProxyAPIURL
			}
			setupLogger(cfg)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "Base URL of a running pagebuilder API (default $PROXY_API_URL)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", formatText, "Output format: text, json, yaml")

	root.AddCommand(
		newServeCommand(a),
		newPagesCommand(a),
		newComponentsCommand(a),
		newManifestCommand(a),
	)
	return root
}

// setupLogger installs the default slog logger: text in development, JSON
// otherwise. Logs go to stderr so command output stays parseable.
func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewJSONHandler(os.Stderr, opts)
	if cfg.IsDev() {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}
