// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data shared between the parser, the conversion
// pipeline, the run ledger, and the CLI.
package types

// SourceNote is one note as read from an export. It is never modified after
// parsing and may be read concurrently by any number of workers.
type SourceNote struct {
	// Title is the note title. It is not guaranteed to be unique.
	Title string `json:"title" yaml:"title"`

	// Content is the raw rich-text (ENML/HTML) body. It may be empty.
	Content string `json:"content" yaml:"content"`

	// Tags lists the note tags in export order.
	Tags []string `json:"tags" yaml:"tags"`
}

// Metadata is the header block written at the top of each output document.
type Metadata struct {
	Title string   `json:"title" yaml:"title"`
	Tags  []string `json:"tags" yaml:"tags,flow"`
}

// ConvertedNote pairs a note's metadata with its transformed Markdown body.
type ConvertedNote struct {
	Metadata Metadata
	Body     string
}

// NoteStatus indicates whether a note made it to disk.
type NoteStatus string

const (
	NoteConverted NoteStatus = "converted"
	NoteFailed    NoteStatus = "failed"
)

// Stage names the pipeline step a note failed in.
type Stage string

const (
	StageTransform Stage = "transform"
	StageSerialize Stage = "serialize"
	StageWrite     Stage = "write"
	StageCanceled  Stage = "canceled"
)

// NoteOutcome records what happened to one source note during a run.
type NoteOutcome struct {
	// Title is the source note title.
	Title string `json:"title" yaml:"title"`

	// Path is the output file the note was (or would have been) written to.
	Path string `json:"path" yaml:"path"`

	Status NoteStatus `json:"status" yaml:"status"`

	// Stage is set only when Status is NoteFailed.
	Stage Stage `json:"stage,omitempty" yaml:"stage,omitempty"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
