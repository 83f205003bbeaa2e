// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the canonical data model shared by providers,
// converters, the cache, and the source selector. Every source normalizes
// into these records at its boundary; nothing downstream knows about
// source-specific schemas.
package types

import (
	"sort"
	"strings"
	"time"
)

// MotifInstance is one occurrence of a structural motif in one structure.
// Instances are constructed by a format converter or a provider's parsing
// step and are immutable once returned.
type MotifInstance struct {
	// Type is the motif category in the producing source's vocabulary
	// (e.g. "HL", "GNRA", "Hairpin"). Never empty; kept verbatim.
	Type string `json:"type" yaml:"type"`

	// PDBID is the structure accession, uppercased at every provider boundary.
	PDBID string `json:"pdb_id" yaml:"pdb_id"`

	// Chain is the chain identifier (e.g. "A", "0", "1A").
	Chain string `json:"chain" yaml:"chain"`

	// ModelNumber is the structure model, 1 for single-model structures.
	ModelNumber int `json:"model_number" yaml:"model_number"`

	// ResidueStart and ResidueEnd are the inclusive residue bounds,
	// ResidueStart <= ResidueEnd.
	ResidueStart int `json:"residue_start" yaml:"residue_start"`
	ResidueEnd   int `json:"residue_end" yaml:"residue_end"`

	// Sequence is the nucleotide sequence of the instance, when known.
	Sequence string `json:"sequence,omitempty" yaml:"sequence,omitempty"`

	// Score is a source-defined numeric metric (match score, e-value,
	// base-pair count). Nil when the source reports none.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`

	// Description is free-text annotation from the source.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// SourceID identifies the provider or tool that produced this instance.
	// Required for attribution; never omitted.
	SourceID string `json:"source_id" yaml:"source_id"`
}

// AnnotationResult is the unit moved through the system: motif instances
// grouped by type, plus provenance. Within each type the producing source's
// ordering is preserved so instance numbering is reproducible.
type AnnotationResult struct {
	// Motifs maps motif type to the ordered instances of that type.
	Motifs map[string][]MotifInstance `json:"motifs"`

	// ProviderID names the provider that produced the result. For a merged
	// result it is the comma-joined list of contributing providers.
	ProviderID string `json:"provider_id"`

	// FetchedAt is when the result was produced or fetched.
	FetchedAt time.Time `json:"fetched_at"`
}

// IsEmpty reports whether the result carries no instances at all.
func (r AnnotationResult) IsEmpty() bool {
	for _, instances := range r.Motifs {
		if len(instances) > 0 {
			return false
		}
	}
	return true
}

// InstanceCount returns the total number of instances across all types.
func (r AnnotationResult) InstanceCount() int {
	n := 0
	for _, instances := range r.Motifs {
		n += len(instances)
	}
	return n
}

// MotifTypes returns the motif types present in the result, sorted.
func (r AnnotationResult) MotifTypes() []string {
	out := make([]string, 0, len(r.Motifs))
	for mt := range r.Motifs {
		out = append(out, mt)
	}
	sort.Strings(out)
	return out
}

// NormalizePDBID trims and uppercases a structure identifier. Applied at the
// boundary of every provider so cache keys and merges stay consistent.
func NormalizePDBID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
