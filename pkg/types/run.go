// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunRecord summarizes one conversion run as stored in the ledger.
type RunRecord struct {
	// ID is a UUID assigned when the run is recorded.
	ID string `json:"id" yaml:"id"`

	// Input is the export file path.
	Input string `json:"input" yaml:"input"`

	// OutputDir is the directory the documents were written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Engine is the name of the conversion engine used.
	Engine string `json:"engine" yaml:"engine"`

	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	Converted int `json:"converted" yaml:"converted"`
	Failed    int `json:"failed" yaml:"failed"`

	// Outcomes holds per-note results in input order. Listing queries leave
	// it empty.
	Outcomes []NoteOutcome `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
}

// Total returns the number of notes processed in the run.
func (r RunRecord) Total() int {
	return r.Converted + r.Failed
}
