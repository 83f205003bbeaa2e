// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert parses annotation-tool output files into canonical motif
// records. All knowledge of tool-specific column names and delimiters lives
// here; converters return instances grouped by motif type and tagged with
// the tool's source ID.
package convert

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// Converter turns one tool's output file into canonical motif records.
type Converter interface {
	// Tool returns the tool identifier (e.g. "fr3d").
	Tool() string

	// Convert parses the file at path for the given structure and returns
	// instances grouped by motif type. A bad header or undecodable file
	// fails with types.ErrMalformedData; individual malformed rows are
	// skipped with a logged warning.
	Convert(path, pdbID string) (map[string][]types.MotifInstance, error)
}

// readUTF8 loads the whole file and verifies it decodes as UTF-8. Files are
// bounded at low thousands of rows, so eager reading is fine.
func readUTF8(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("annotation file %s: %w", path, types.ErrNotFound)
		}
		return nil, fmt.Errorf("reading annotation file %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not valid UTF-8: %w", path, types.ErrMalformedData)
	}
	return data, nil
}

// headerIndex maps trimmed column names to their positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

// field returns the trimmed cell at column i, or "" when the row is short.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// optField returns the trimmed cell for an optional column, or "" when the
// column is absent from the header.
func optField(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok {
		return ""
	}
	return field(row, i)
}
