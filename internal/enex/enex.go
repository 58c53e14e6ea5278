// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enex parses Evernote export (.enex) documents into source notes.
// Only titles, tags, and note bodies are read; resources, timestamps, and
// note attributes are ignored.
package enex

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/enex2md/pkg/types"
)

// InputReadError reports that the export file could not be read.
type InputReadError struct {
	Path string
	Err  error
}

func (e *InputReadError) Error() string {
	return fmt.Sprintf("reading export %s: %v", e.Path, e.Err)
}

func (e *InputReadError) Unwrap() error { return e.Err }

// ParseError reports a malformed export. Index is the zero-based position of
// the offending note, or -1 when the document itself is malformed.
type ParseError struct {
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parsing export: %v", e.Err)
	}
	return fmt.Sprintf("parsing export: note %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	errMissingTitle   = errors.New("missing <title> element")
	errMissingContent = errors.New("missing <content> element")
)

// export mirrors <en-export>. Pointers distinguish absent elements from
// empty ones.
type export struct {
	Notes []note `xml:"note"`
}

type note struct {
	Title   *string  `xml:"title"`
	Content *string  `xml:"content"`
	Tags    []string `xml:"tag"`
}

// ReadFile loads the export at path fully into memory and parses it.
func ReadFile(path string) ([]types.SourceNote, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputReadError{Path: path, Err: err}
	}
	return Parse(data)
}

// Parse decodes an export document and returns its notes in document order.
// An export without notes is valid and yields an empty slice.
func Parse(data []byte) ([]types.SourceNote, error) {
	var doc export
	dec := xml.NewDecoder(bytes.NewReader(data))
	// Exports declare UTF-8; tolerate other declared charsets by passing
	// the bytes through unchanged.
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}
	if err := ensureEOF(dec); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}

	notes := make([]types.SourceNote, 0, len(doc.Notes))
	for i, n := range doc.Notes {
		if n.Title == nil {
			return nil, &ParseError{Index: i, Err: errMissingTitle}
		}
		if n.Content == nil {
			return nil, &ParseError{Index: i, Err: fmt.Errorf("%w (title %q)", errMissingContent, *n.Title)}
		}
		tags := make([]string, 0, len(n.Tags))
		tags = append(tags, n.Tags...)
		notes = append(notes, types.SourceNote{
			Title:   *n.Title,
			Content: *n.Content,
			Tags:    tags,
		})
	}
	return notes, nil
}

// ensureEOF rejects trailing elements after the root, which xml.Decoder
// would otherwise silently ignore.
func ensureEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after document root", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("unexpected text after document root")
			}
		}
	}
}
