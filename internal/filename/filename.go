// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filename derives filesystem-safe output names from note titles and
// assigns names across a whole export before conversion starts.
package filename

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/enex2md/pkg/types"
)

const (
	// Extension is appended to every sanitized base name.
	Extension = ".md"

	// Fallback names notes whose titles contain nothing but punctuation.
	Fallback = "untitled"

	// maxBaseBytes keeps names well under the common 255-byte limit once
	// the extension and a collision suffix are added.
	maxBaseBytes = 200
)

// Compiled once and shared read-only by every worker. The whitespace part
// matches every rune unicode.IsSpace accepts; \s with \p{Z} alone misses
// \v and U+0085.
var (
	punctuation = regexp.MustCompile(`[\s\x0B\x{85}\p{Z}:;\[\]{}<>=@#$%^&*.,?!'"|()/\\•-]`)
	repeated    = regexp.MustCompile(`-{2,}`)
)

// Base maps a title to a single path segment without extension. Every
// whitespace or punctuation character becomes "-", runs of "-" collapse to
// one, and leading and trailing "-" are dropped. Titles that reduce to
// nothing map to Fallback.
func Base(title string) string {
	name := punctuation.ReplaceAllString(title, "-")
	name = repeated.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	name = truncate(name, maxBaseBytes)
	name = strings.TrimRight(name, "-")
	if name == "" {
		return Fallback
	}
	return name
}

// Name returns Base(title) with Extension appended.
func Name(title string) string {
	return Base(title) + Extension
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Assignment is the output of Plan.
type Assignment struct {
	// Names holds the file name for each title, index-aligned with the input.
	Names []string

	// Collisions lists groups of input indices whose titles sanitize to the
	// same base name, in order of first appearance.
	Collisions [][]int
}

// SameName reports whether every index in group was assigned the exact same
// name. In overwrite mode a collision group whose names differ only by case
// overwrites only on case-insensitive filesystems.
func (a Assignment) SameName(group []int) bool {
	for _, idx := range group[1:] {
		if a.Names[idx] != a.Names[group[0]] {
			return false
		}
	}
	return true
}

// Plan assigns a file name to every title. It is meant to run once, before
// the concurrent phase. Base names are compared case-insensitively because
// common filesystems fold case.
//
// With types.CollisionOverwrite colliding titles share one name and the last
// write wins. With types.CollisionSuffix the first title keeps the base name
// and later ones receive the smallest free "-N" suffix, N >= 2.
func Plan(titles []string, mode types.CollisionMode) Assignment {
	a := Assignment{Names: make([]string, len(titles))}

	bases := make([]string, len(titles))
	groups := make(map[string][]int)
	var order []string
	for i, title := range titles {
		bases[i] = Base(title)
		key := strings.ToLower(bases[i])
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	for _, key := range order {
		if len(groups[key]) > 1 {
			a.Collisions = append(a.Collisions, groups[key])
		}
	}

	if mode != types.CollisionSuffix {
		for i, base := range bases {
			a.Names[i] = base + Extension
		}
		return a
	}

	// Reserve every natural base first so a generated suffix never takes a
	// name another title would sanitize to on its own.
	taken := make(map[string]bool, len(titles))
	for key := range groups {
		taken[key] = true
	}
	claimed := make(map[string]bool, len(titles))
	for i, base := range bases {
		key := strings.ToLower(base)
		if !claimed[key] {
			claimed[key] = true
			a.Names[i] = base + Extension
			continue
		}
		for n := 2; ; n++ {
			candidate := base + "-" + strconv.Itoa(n)
			ckey := strings.ToLower(candidate)
			if taken[ckey] || claimed[ckey] {
				continue
			}
			claimed[ckey] = true
			a.Names[i] = candidate + Extension
			break
		}
	}
	return a
}
