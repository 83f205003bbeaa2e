// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for providers that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "rmv/0.2").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResolverConfig holds settings for building the resolution layer.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// AtlasDB is the path to the bundled RNA 3D Motif Atlas SQLite database.
	AtlasDB string `json:"atlas_db" yaml:"atlas_db"`

	// RfamDir is the directory holding the bundled Rfam motif YAML files.
	RfamDir string `json:"rfam_dir" yaml:"rfam_dir"`

	// AnnotationsDir is the user annotation directory, with one
	// subdirectory per tool (fr3d/, rnamotifscan/).
	AnnotationsDir string `json:"annotations_dir" yaml:"annotations_dir"`

	// CacheDir is the directory for cached remote responses
	// (default ~/.rmv-cache).
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// Mode is the source mode active at startup (default "auto").
	Mode string `json:"mode" yaml:"mode"`
}
