// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/enex2md/pkg/types"
)

// headerDelimiter opens and closes the metadata block.
const headerDelimiter = "---\n"

// Assemble serializes the note metadata as a YAML header and appends the
// body:
//
//	---
//	title: ...
//	tags: [a, b]
//	---
//
//	<body>
func Assemble(note types.ConvertedNote) ([]byte, error) {
	meta := note.Metadata
	if err := validateMetadata(meta); err != nil {
		return nil, &SerializationError{Title: meta.Title, Err: err}
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}

	var buf bytes.Buffer
	buf.WriteString(headerDelimiter)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return nil, &SerializationError{Title: meta.Title, Err: err}
	}
	if err := enc.Close(); err != nil {
		return nil, &SerializationError{Title: meta.Title, Err: err}
	}

	buf.WriteString(headerDelimiter)
	buf.WriteString("\n")
	buf.WriteString(note.Body)
	return buf.Bytes(), nil
}

// validateMetadata rejects strings YAML cannot carry as text.
func validateMetadata(meta types.Metadata) error {
	if !utf8.ValidString(meta.Title) {
		return errors.New("title is not valid UTF-8")
	}
	for i, tag := range meta.Tags {
		if !utf8.ValidString(tag) {
			return fmt.Errorf("tag %d is not valid UTF-8", i)
		}
	}
	return nil
}
