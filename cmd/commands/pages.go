// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pagebuilder/internal/apperr"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/models"
	"pagebuilder/internal/persist"
	"pagebuilder/internal/registry"
	"pagebuilder/internal/store"
	"pagebuilder/internal/tree"
)

func newPagesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List, inspect and edit stored pages",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List pages",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withBackend(func(b *backend) error { return listPages(cmd.Context(), cmd.OutOrStdout(), a.output, b) })
			},
		},
		&cobra.Command{
			Use:   "show <id|slug>",
			Short: "Show a page and its component tree",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withBackend(func(b *backend) error { return showPage(cmd.Context(), cmd.OutOrStdout(), a.output, b, args[0]) })
			},
		},
		&cobra.Command{
			Use:   "delete <id|slug>",
			Short: "Delete a page",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withBackend(func(b *backend) error {
					if err := b.pages.Delete(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted page %s\n", args[0])
					return nil
				})
			},
		},
		newPagesCreateCommand(a),
		newPagesAddCommand(a),
		&cobra.Command{
			Use:   "validate <id|slug>",
			Short: "Run the save validation gate on a stored page",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withBackend(func(b *backend) error {
					s, err := a.session(cmd.Context(), b, args[0])
					if err != nil {
						return err
					}
					if err := s.Validate(); err != nil {
						printFieldErrors(cmd.ErrOrStderr(), err)
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Page %s is valid\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

func newPagesCreateCommand(a *app) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create <slug> <title>",
		Short: "Create an empty page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(func(b *backend) error {
				s := editor.NewSession(nil, registry.New(), a.sessionOptions(b)...)
				patch := editor.PagePatch{Slug: &args[0], Title: &args[1]}
				if description != "" {
					patch.Metadata = &models.PageMetadata{Description: description}
				}
				s.UpdatePage(patch)
				doc, err := s.Save(cmd.Context())
				if err != nil {
					printFieldErrors(cmd.ErrOrStderr(), err)
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created page %s (%s)\n", doc.Slug, doc.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "SEO description")
	return cmd
}

func newPagesAddCommand(a *app) *cobra.Command {
	var parent, template string
	cmd := &cobra.Command{
		Use:   "add <id|slug> <type>",
		Short: "Append a component to a page and save it",
		Long: `Append a node of the given catalog type to the page's root, or to the
children of --parent, then save the page.

Examples:
  # Add a hero section to the home page
  pagebuilder pages add home Hero

  # Add a text block inside a section
  pagebuilder pages add home Text --parent 2f1c...

  # Add a free-form node bound to a registry template
  pagebuilder pages add home Component --template site-header`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(func(b *backend) error {
				s, err := a.session(cmd.Context(), b, args[0])
				if err != nil {
					return err
				}
				id, ok := s.Insert(args[1], parent)
				if !ok {
					return fmt.Errorf("cannot add %q to page %s: unknown type or parent", args[1], args[0])
				}
				if template != "" && !s.BindTemplate(id, template) {
					return fmt.Errorf("cannot bind template %q: not a free-form node or unknown template", template)
				}
				if _, err := s.Save(cmd.Context()); err != nil {
					printFieldErrors(cmd.ErrOrStderr(), err)
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s node %s\n", args[1], id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Id of the container node to add to")
	cmd.Flags().StringVar(&template, "template", "", "Registry template to bind (Component nodes only)")
	return cmd
}

// withBackend opens the stores, runs fn and closes them.
func (a *app) withBackend(fn func(*backend) error) error {
	b, err := a.open()
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

func (a *app) sessionOptions(b *backend) []editor.Option {
	return []editor.Option{
		editor.WithCoordinator(persist.New(b.pages)),
		editor.WithHistoryLimit(a.cfg.HistoryLimit),
	}
}

// session opens an editing session on a stored page, with the registry
// loaded from the component store.
func (a *app) session(ctx context.Context, b *backend, ref string) (*editor.Session, error) {
	doc, err := store.Resolve(ctx, b.pages, ref)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.NotFound("page", ref)
	}
	entries, err := b.components.List(ctx)
	if err != nil {
		return nil, err
	}
	return editor.NewSession(doc, registry.New(entries...), a.sessionOptions(b)...), nil
}

func listPages(ctx context.Context, w io.Writer, format string, b *backend) error {
	pages, err := b.pages.List(ctx)
	if err != nil {
		return err
	}
	if done, err := printStructured(w, format, pages); done {
		return err
	}
	if len(pages) == 0 {
		fmt.Fprintln(w, "No pages found.")
		return nil
	}
	t := newTable(w, "ID", "SLUG", "TITLE", "NODES", "UPDATED")
	for _, p := range pages {
		t.row(p.ID, p.Slug, p.Title, strconv.Itoa(tree.Count(p.Components)), p.UpdatedAt.Format(time.DateTime))
	}
	return t.flush()
}

func showPage(ctx context.Context, w io.Writer, format string, b *backend, ref string) error {
	p, err := store.Resolve(ctx, b.pages, ref)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFound("page", ref)
	}
	if done, err := printStructured(w, format, p); done {
		return err
	}
	fmt.Fprintf(w, "Page: %s\n", p.Title)
	fmt.Fprintf(w, "Slug: %s\n", p.Slug)
	fmt.Fprintf(w, "ID:   %s\n", p.ID)
	if p.Metadata != nil && p.Metadata.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", p.Metadata.Description)
	}
	fmt.Fprintf(w, "Updated: %s\n\n", p.UpdatedAt.Format(time.DateTime))
	if len(p.Components) == 0 {
		fmt.Fprintln(w, "(no components)")
		return nil
	}
	printTree(w, p.Components, 0)
	return nil
}

func printTree(w io.Writer, nodes []models.Node, depth int) {
	for _, n := range nodes {
		label := n.Type
		if name, ok := n.Props[models.PropComponentName].(string); ok && name != "" {
			label += " <" + name + ">"
		}
		fmt.Fprintf(w, "%s- %s [%s]\n", strings.Repeat("  ", depth), label, n.ID)
		printTree(w, n.Children, depth+1)
	}
}

func printFieldErrors(w io.Writer, err error) {
	for _, f := range apperr.FieldErrors(err) {
		fmt.Fprintf(w, "  %s\n", f)
	}
}
