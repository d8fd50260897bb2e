// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// exportLimit bounds the number of entries written by an export.
const exportLimit = 100000

// ExportYAML writes every recorded search, newest first, as YAML to w.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	entries, err := s.Recent(ctx, exportLimit)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes every recorded search, newest first, as JSON to w.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	entries, err := s.Recent(ctx, exportLimit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}
