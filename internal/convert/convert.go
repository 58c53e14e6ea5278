// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns source notes into Markdown documents on disk.
// A Converter transforms one note body from HTML to Markdown; Assemble
// prefixes the YAML metadata header; ConvertBatch drives both across a
// worker pool and writes the results.
package convert

import (
	"context"
	"fmt"

	"github.com/pdiddy/enex2md/internal/container"
	"github.com/pdiddy/enex2md/pkg/types"
)

// Converter transforms an HTML fragment into Markdown. Implementations are
// stateless per call and safe for concurrent use.
type Converter interface {
	// Name identifies the engine in logs and the run ledger.
	Name() string

	// Convert returns the Markdown rendering of html.
	Convert(ctx context.Context, html string) (string, error)
}

// TransformError reports that a note body could not be converted.
type TransformError struct {
	Title string
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("converting note %q: %v", e.Title, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// SerializationError reports that a note's metadata header could not be
// serialized.
type SerializationError struct {
	Title string
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serializing metadata for %q: %v", e.Title, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// WriteError reports that a converted note could not be written.
type WriteError struct {
	Title string
	Path  string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing note %q to %s: %v", e.Title, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

const (
	defaultPandocPath   = "pandoc"
	defaultPandocFormat = "markdown"
	defaultImage        = "pandoc/core:latest"
)

// NewConverter builds the engine selected by cfg. An empty engine selects
// the builtin converter.
func NewConverter(cfg types.EngineConfig) (Converter, error) {
	format := cfg.PandocFormat
	if format == "" {
		format = defaultPandocFormat
	}

	switch cfg.Engine {
	case "", types.EngineBuiltin:
		return NewHTMLConverter(), nil
	case types.EnginePandoc:
		path := cfg.PandocPath
		if path == "" {
			path = defaultPandocPath
		}
		return NewPandocConverter(path, format)
	case types.EngineContainer:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		image := cfg.Image
		if image == "" {
			image = defaultImage
		}
		return NewContainerConverter(rt, image, format)
	default:
		return nil, fmt.Errorf("unknown conversion engine %q (want %s, %s, or %s)",
			cfg.Engine, types.EngineBuiltin, types.EnginePandoc, types.EngineContainer)
	}
}
