// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/reymondkenney20/rmv-2/internal/convert"
	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// UserID is the provider ID of the user-annotation provider.
const UserID = "user"

// ToolFR3D and ToolRNAMotifScan are the supported annotation tools. The
// set is closed; anything else fails at selection time.
const (
	ToolFR3D         = "fr3d"
	ToolRNAMotifScan = "rnamotifscan"
)

// SupportedTools lists the annotation tools a user provider can be bound to.
func SupportedTools() []string {
	return []string{ToolFR3D, ToolRNAMotifScan}
}

// ValidateTool normalizes a tool name and rejects anything outside the
// supported set. Called at the moment a tool is selected so a typo fails
// immediately, not at fetch time.
func ValidateTool(tool string) (string, error) {
	tool = strings.ToLower(strings.TrimSpace(tool))
	switch tool {
	case ToolFR3D, ToolRNAMotifScan:
		return tool, nil
	}
	return "", fmt.Errorf("%q (supported: %s): %w",
		tool, strings.Join(SupportedTools(), ", "), types.ErrUnsupportedTool)
}

// annotationExts are the file extensions scanned for annotation files.
var annotationExts = map[string]bool{".csv": true, ".tsv": true, ".txt": true}

// User reads motifs from user-supplied annotation files produced by one
// external tool. Files live under dir/<tool>/ and are named by structure,
// e.g. fr3d/1s72_motifs.csv. Never cached; the files are local and a
// re-read is always fresh.
type User struct {
	dir  string
	tool string
	conv convert.Converter
}

// NewUser returns a provider bound to one annotation tool. The tool name is
// validated here, at selection time.
func NewUser(dir, tool string, logger *zap.Logger) (*User, error) {
	tool, err := ValidateTool(tool)
	if err != nil {
		return nil, err
	}

	var conv convert.Converter
	switch tool {
	case ToolFR3D:
		conv = convert.NewFR3D(logger)
	case ToolRNAMotifScan:
		conv = convert.NewRNAMotifScan(logger)
	}

	return &User{dir: dir, tool: tool, conv: conv}, nil
}

// Tool returns the tool this provider is bound to.
func (u *User) Tool() string { return u.tool }

// Info returns the provider description.
func (u *User) Info() Info {
	return Info{
		ID:          UserID,
		Name:        fmt.Sprintf("User Annotations (%s)", u.tool),
		Description: fmt.Sprintf("User-supplied %s output files under %s", u.tool, filepath.Join(u.dir, u.tool)),
		Kind:        KindUser,
	}
}

// Motifs locates the annotation file for a structure and converts it.
// types.ErrNotFound when no file matches the naming convention.
func (u *User) Motifs(_ context.Context, pdbID string) (types.AnnotationResult, error) {
	pdbID = types.NormalizePDBID(pdbID)

	path, err := u.findFile(pdbID)
	if err != nil {
		return types.AnnotationResult{}, err
	}

	motifs, err := u.conv.Convert(path, pdbID)
	if err != nil {
		return types.AnnotationResult{}, err
	}
	return types.AnnotationResult{
		Motifs:     motifs,
		ProviderID: UserID,
		FetchedAt:  time.Now(),
	}, nil
}

// findFile resolves the annotation file for a structure: the first file
// (in name order) under dir/<tool>/ whose name starts with the lowercased
// identifier and has an annotation extension.
func (u *User) findFile(pdbID string) (string, error) {
	toolDir := filepath.Join(u.dir, u.tool)
	entries, err := os.ReadDir(toolDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no %s annotations directory: %w", u.tool, types.ErrNotFound)
		}
		return "", fmt.Errorf("reading %s: %w", toolDir, err)
	}

	prefix := strings.ToLower(pdbID)
	for _, de := range entries {
		name := de.Name()
		if de.IsDir() || !annotationExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			return filepath.Join(toolDir, name), nil
		}
	}
	return "", fmt.Errorf("no %s annotation file for %s: %w", u.tool, pdbID, types.ErrNotFound)
}

// AvailablePDBIDs lists the structure identifiers that have an annotation
// file for the bound tool. Discovery only; the files are not parsed.
func (u *User) AvailablePDBIDs() ([]string, error) {
	toolDir := filepath.Join(u.dir, u.tool)
	entries, err := os.ReadDir(toolDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", toolDir, err)
	}

	seen := make(map[string]bool)
	for _, de := range entries {
		name := de.Name()
		if de.IsDir() || !annotationExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		// Naming convention: identifier, optionally followed by a suffix
		// after an underscore (1s72_motifs.csv).
		id := stem
		if i := strings.Index(stem, "_"); i > 0 {
			id = stem[:i]
		}
		if len(id) >= 4 {
			seen[types.NormalizePDBID(id)] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
