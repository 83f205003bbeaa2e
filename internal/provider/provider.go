// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider implements the motif data sources. Every source, whether
// a bundled dataset, a remote API, or a user annotation directory, exposes
// the same capability: get the motifs for one structure identifier. The
// selector depends only on this interface, never on a concrete kind.
package provider

import (
	"context"

	"github.com/reymondkenney20/rmv-2/pkg/types"
)

// Kind classifies a provider's backing.
type Kind string

const (
	KindLocal Kind = "local"
	KindAPI   Kind = "api"
	KindUser  Kind = "user"
)

// Info is the human-readable description of a provider for status display.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`
}

// Provider is a single motif data source.
//
// Motifs returns the annotations for a structure, or a well-defined outcome
// from the shared taxonomy: an empty result when a local source simply has
// no data, types.ErrNotFound when a remote or user source has nothing,
// types.ErrUnavailable on transport failure, types.ErrMalformedData when a
// response fails validation. A provider never returns a partial result with
// missing required fields, and never retains instances across calls.
type Provider interface {
	Info() Info
	Motifs(ctx context.Context, pdbID string) (types.AnnotationResult, error)
}

// Enumerable is implemented by providers that can list every identifier
// they hold data for. Local datasets can; remote APIs cannot without
// enumerating the whole upstream database.
type Enumerable interface {
	AvailablePDBIDs() ([]string, error)
}
