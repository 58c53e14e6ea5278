//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts the export named by $INPUT into
// $OUTPUT (default "notes"). Extra flags can be passed in $ENEX2MD_FLAGS.
func Convert() error {
	mg.Deps(Build)

	input := os.Getenv("INPUT")
	if input == "" {
		return fmt.Errorf("set INPUT to the .enex file to convert")
	}
	output := os.Getenv("OUTPUT")
	if output == "" {
		output = "notes"
	}

	args := []string{input, output}
	if extra := os.Getenv("ENEX2MD_FLAGS"); extra != "" {
		args = append(args, splitFlags(extra)...)
	}
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// splitFlags splits a flag string on whitespace.
func splitFlags(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}
