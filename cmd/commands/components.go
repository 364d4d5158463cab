// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pagebuilder/internal/models"
	"pagebuilder/internal/registry"
)

func newComponentsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "components",
		Aliases: []string{"registry"},
		Short:   "Manage the component registry",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List registry entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withBackend(func(b *backend) error {
					entries, err := b.components.List(cmd.Context())
					if err != nil {
						return err
					}
					w := cmd.OutOrStdout()
					if done, err := printStructured(w, a.output, entries); done {
						return err
					}
					if len(entries) == 0 {
						fmt.Fprintln(w, "No components registered.")
						return nil
					}
					t := newTable(w, "NAME", "DISPLAY NAME", "CATEGORY", "VERSION", "SUB-ELEMENTS", "ID")
					for _, e := range entries {
						name := e.ComponentName
						if e.Deprecated {
							name += " (deprecated)"
						}
						subs := 0
						if e.Definition != nil {
							subs = len(e.Definition.SubElements)
						}
						t.row(name, e.DisplayName, e.Category, e.Version, fmt.Sprint(subs), e.ID)
					}
					return t.flush()
				})
			},
		},
		&cobra.Command{
			Use:   "import <file.yaml|file.json>",
			Short: "Bulk import registry entries from a YAML or JSON file",
			Long: `Bulk import registry entries. The file holds a list of entries, or an
object with an "items" list. Entries with an invalid or already registered
component_name are skipped.

Example file:
  - component_name: site-header
    display_name: Site header
    category: layout
    definition:
      subElements:
        - subelement_name: Home
          href: /`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := readComponentFile(args[0])
				if err != nil {
					return err
				}
				return a.withBackend(func(b *backend) error {
					res, err := b.components.BulkInsert(cmd.Context(), items)
					if err != nil {
						return err
					}
					if done, err := printStructured(cmd.OutOrStdout(), a.output, res); done {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d components, skipped %d\n", res.Inserted, res.Skipped)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a registry entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withBackend(func(b *backend) error {
					if err := b.components.Delete(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted component %s\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

// readComponentFile decodes a bulk import file. YAML is a superset of JSON,
// so both go through the YAML decoder; the result is then re-read through
// the JSON tags so numbers and sub-element fields match what the API gets.
func readComponentFile(path string) ([]models.ComponentInput, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("unsupported import file %q: want .yaml, .yml or .json", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if m, ok := doc.(map[string]any); ok {
		doc = m["items"]
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var items []models.ComponentInput
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse %s: expected a list of components: %w", path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s contains no components", path)
	}
	return items, nil
}

func newManifestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Print the component names available to the editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(func(b *backend) error {
				entries, err := b.components.List(cmd.Context())
				if err != nil {
					return err
				}
				names := registry.New(entries...).Manifest()
				if done, err := printStructured(cmd.OutOrStdout(), a.output, names); done {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			})
		},
	}
}
