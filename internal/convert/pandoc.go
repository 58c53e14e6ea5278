// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/pdiddy/enex2md/pkg/types"
)

// commandRunner runs name with args, feeding stdin, and returns stdout.
type commandRunner func(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error)

func runCommand(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

// pandocArgs returns the pandoc flags for an HTML to format conversion.
func pandocArgs(format string) []string {
	return []string{"--from", "html", "--to", format}
}

// PandocConverter converts by running a local pandoc binary once per note.
type PandocConverter struct {
	path   string
	format string
	run    commandRunner
}

// NewPandocConverter resolves the pandoc binary at path (a name on PATH or a
// file path) and returns a converter producing the given pandoc output
// format.
func NewPandocConverter(path, format string) (*PandocConverter, error) {
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("pandoc not available at %q: %w", path, err)
	}
	return &PandocConverter{path: resolved, format: format, run: runCommand}, nil
}

func (p *PandocConverter) Name() string { return string(types.EnginePandoc) }

// Convert pipes html through pandoc and returns its stdout.
func (p *PandocConverter) Convert(ctx context.Context, html string) (string, error) {
	out, err := p.run(ctx, p.path, pandocArgs(p.format), strings.NewReader(todoMarkers(html)))
	if err != nil {
		return "", fmt.Errorf("running pandoc: %w", err)
	}
	return string(out), nil
}
