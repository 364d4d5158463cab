// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// table writes aligned text columns.
type table struct {
	w *tabwriter.Writer
}

func newTable(w io.Writer, columns ...string) *table {
	t := &table{w: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	t.row(columns...)
	return t
}

func (t *table) row(values ...string) {
	fmt.Fprintln(t.w, strings.Join(values, "\t"))
}

func (t *table) flush() error {
	return t.w.Flush()
}

// printStructured writes data as JSON or YAML. It reports false for the
// text format so the caller can render its own table.
func printStructured(w io.Writer, format string, data any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(data)
	case formatYAML:
		// Round-trip through JSON so YAML keys follow the json tags.
		raw, err := json.Marshal(data)
		if err != nil {
			return true, err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return true, err
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return true, err
		}
		_, err = w.Write(out)
		return true, err
	case formatText:
		return false, nil
	default:
		return true, fmt.Errorf("unsupported output format: %s", format)
	}
}
