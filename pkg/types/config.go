// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Engine identifies the HTML-to-Markdown conversion backend.
type Engine string

const (
	// EngineBuiltin converts in process.
	EngineBuiltin Engine = "builtin"
	// EnginePandoc runs a local pandoc binary per note.
	EnginePandoc Engine = "pandoc"
	// EngineContainer runs pandoc inside a docker or podman container per note.
	EngineContainer Engine = "container"
)

// CollisionMode selects how notes whose titles sanitize to the same file
// name are handled.
type CollisionMode string

const (
	// CollisionOverwrite lets the last writer win.
	CollisionOverwrite CollisionMode = "overwrite"
	// CollisionSuffix appends -2, -3, ... to later colliding names.
	CollisionSuffix CollisionMode = "suffix"
)

// EngineConfig holds settings for the conversion backend.
type EngineConfig struct {
	// Engine selects the backend: builtin, pandoc, or container.
	Engine Engine `json:"engine" yaml:"engine"`

	// PandocPath is the pandoc binary used by the pandoc engine (default "pandoc").
	PandocPath string `json:"pandoc_path" yaml:"pandoc_path"`

	// PandocFormat is the pandoc output format (default "markdown").
	PandocFormat string `json:"pandoc_format" yaml:"pandoc_format"`

	// Image is the container image used by the container engine
	// (default "pandoc/core:latest").
	Image string `json:"image" yaml:"image"`
}

// ConversionConfig holds settings for a conversion run.
type ConversionConfig struct {
	EngineConfig `yaml:",inline"`

	// Workers bounds the number of notes converted concurrently
	// (default runtime.NumCPU()).
	Workers int `json:"workers" yaml:"workers"`

	// OnCollision selects overwrite or suffix handling of duplicate names.
	OnCollision CollisionMode `json:"on_collision" yaml:"on_collision"`

	// Timeout is the overall run deadline. Zero means no deadline.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// AllowPartial makes a run with failed notes exit successfully.
	AllowPartial bool `json:"allow_partial" yaml:"allow_partial"`

	// Ledger is the SQLite run ledger path. Empty disables recording.
	Ledger string `json:"ledger,omitempty" yaml:"ledger,omitempty"`
}
