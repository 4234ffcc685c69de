// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	ExportJSON     ExportFormat = "json"
	ExportYAML     ExportFormat = "yaml"
	ExportMarkdown ExportFormat = "markdown"
)

// Export writes the (optionally filtered) knowledge table to w in the
// given format. JSON and YAML carry full rows; Markdown is a bullet list
// of summaries, matching the dashboard download format.
func (s *Store) Export(ctx context.Context, w io.Writer, format ExportFormat, f Filter) error {
	entries, err := s.ListEntries(ctx, f)
	if err != nil {
		return err
	}

	switch format {
	case ExportJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err

	case ExportYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err

	case ExportMarkdown:
		var b strings.Builder
		for _, e := range entries {
			line := e.Summary
			if line == "" {
				line = e.Title
			}
			fmt.Fprintf(&b, "- %s\n", line)
		}
		_, err := io.WriteString(w, b.String())
		return err

	default:
		return fmt.Errorf("unsupported export format %q: use json, yaml, or markdown", format)
	}
}
