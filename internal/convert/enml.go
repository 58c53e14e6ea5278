// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "regexp"

// ENML wraps note HTML in an XML prolog and an <en-note> root and uses a few
// custom elements. These rewrites reduce it to HTML that any engine
// understands. Attachments (en-media) and encrypted blocks are dropped.
// Checkboxes (en-todo) are left for the engine: the builtin converter renders
// them itself and external engines receive todoMarkers output.
var enmlRewrites = []rewrite{
	{regexp.MustCompile(`(?s)<\?xml.*?\?>`), ""},
	{regexp.MustCompile(`(?is)<!DOCTYPE[^>]*>`), ""},
	{regexp.MustCompile(`(?i)<en-note\b[^>]*>`), "<div>"},
	{regexp.MustCompile(`(?i)</en-note\s*>`), "</div>"},
	{regexp.MustCompile(`(?is)<en-media\b[^>]*/>|<en-media\b[^>]*>.*?</en-media\s*>`), ""},
	{regexp.MustCompile(`(?is)<en-crypt\b[^>]*>.*?</en-crypt\s*>`), ""},
}

// todoRewrites turn checkboxes into literal task markers for engines that
// drop unknown elements.
var todoRewrites = []rewrite{
	{regexp.MustCompile(`(?i)<en-todo\b[^>]*\bchecked\s*=\s*["']true["'][^>]*/?>(\s*</en-todo>)?`), "[x] "},
	{regexp.MustCompile(`(?i)<en-todo\b[^>]*/?>(\s*</en-todo>)?`), "[ ] "},
}

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

func applyRewrites(body string, rewrites []rewrite) string {
	for _, rw := range rewrites {
		body = rw.re.ReplaceAllString(body, rw.repl)
	}
	return body
}

// normalizeENML rewrites an ENML note body into HTML.
func normalizeENML(body string) string {
	return applyRewrites(body, enmlRewrites)
}

// todoMarkers replaces en-todo elements with "[x] " or "[ ] ".
func todoMarkers(body string) string {
	return applyRewrites(body, todoRewrites)
}
