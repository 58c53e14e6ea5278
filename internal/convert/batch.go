// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/enex2md/internal/filename"
	"github.com/pdiddy/enex2md/pkg/types"
)

// filePerm is the mode of written documents.
const filePerm = 0o644

// BatchOptions configures ConvertBatch.
type BatchOptions struct {
	// OutputDir must already exist.
	OutputDir string

	// Workers bounds concurrent conversions. Zero or less uses runtime.NumCPU().
	Workers int

	// OnCollision selects overwrite or suffix naming for duplicate titles.
	OnCollision types.CollisionMode

	// Out receives one status line per note and the batch summary. Nil
	// discards them.
	Out io.Writer

	// Logger receives structured progress and collision events.
	Logger zerolog.Logger
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int

	// Outcomes is index-aligned with the input notes.
	Outcomes []types.NoteOutcome

	// Collisions lists groups of note indices that share an output name.
	Collisions [][]int
}

// Total returns the total number of notes processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any notes failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Failures returns the failed outcomes in input order.
func (r BatchResult) Failures() []types.NoteOutcome {
	var failed []types.NoteOutcome
	for _, o := range r.Outcomes {
		if o.Status == types.NoteFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// ConvertNote runs one note through transform, assemble, and write, in that
// order, and reports the result. It never panics on note-level failures.
func ConvertNote(ctx context.Context, c Converter, note types.SourceNote, path string) types.NoteOutcome {
	outcome := types.NoteOutcome{Title: note.Title, Path: path, Status: types.NoteConverted}

	body, err := c.Convert(ctx, normalizeENML(note.Content))
	if err != nil {
		return failed(outcome, stageOf(ctx, types.StageTransform), &TransformError{Title: note.Title, Err: err})
	}

	data, err := Assemble(types.ConvertedNote{
		Metadata: types.Metadata{Title: note.Title, Tags: note.Tags},
		Body:     body,
	})
	if err != nil {
		return failed(outcome, types.StageSerialize, err)
	}

	if err := writeFileAtomic(path, data, filePerm); err != nil {
		return failed(outcome, types.StageWrite, &WriteError{Title: note.Title, Path: path, Err: err})
	}
	return outcome
}

// ConvertBatch converts notes concurrently into opts.OutputDir. Output names
// are assigned up front with filename.Plan. A failing note never stops the
// others; once ctx is done, notes that have not started are reported as
// canceled.
func ConvertBatch(ctx context.Context, c Converter, notes []types.SourceNote, opts BatchOptions) BatchResult {
	log := opts.Logger
	out := &lockedWriter{w: opts.Out}
	if opts.Out == nil {
		out.w = io.Discard
	}

	titles := make([]string, len(notes))
	for i, n := range notes {
		titles[i] = n.Title
	}
	plan := filename.Plan(titles, opts.OnCollision)
	for _, group := range plan.Collisions {
		colliding := make([]string, len(group))
		for j, idx := range group {
			colliding[j] = notes[idx].Title
		}
		ev := log.Warn().Strs("titles", colliding).Str("name", plan.Names[group[0]])
		switch {
		case opts.OnCollision == types.CollisionSuffix:
			ev.Msg("titles collide, adding numeric suffixes")
		case plan.SameName(group):
			ev.Msg("titles collide, last write wins")
		default:
			ev.Msg("titles collide, names that differ only by case may collide on case-insensitive filesystems")
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	result := BatchResult{
		Outcomes:   make([]types.NoteOutcome, len(notes)),
		Collisions: plan.Collisions,
	}

	// Each goroutine owns one Outcomes slot, so no lock is needed.
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range notes {
		note := notes[i]
		path := filepath.Join(opts.OutputDir, plan.Names[i])

		if err := ctx.Err(); err != nil {
			result.Outcomes[i] = canceled(note, path, err)
			out.printf("failed:    %s (%s)\n", note.Title, result.Outcomes[i].Error)
			continue
		}

		g.Go(func() error {
			var o types.NoteOutcome
			if err := ctx.Err(); err != nil {
				o = canceled(note, path, err)
			} else {
				log.Debug().Str("title", note.Title).Str("path", path).Msg("converting note")
				o = ConvertNote(ctx, c, note, path)
			}
			result.Outcomes[i] = o

			if o.Status == types.NoteConverted {
				out.printf("converted: %s -> %s\n", note.Title, path)
			} else {
				out.printf("failed:    %s (%s: %s)\n", note.Title, o.Stage, o.Error)
				log.Debug().Str("title", note.Title).Str("stage", string(o.Stage)).Str("error", o.Error).Msg("note failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range result.Outcomes {
		if o.Status == types.NoteConverted {
			result.Converted++
		} else {
			result.Failed++
		}
	}

	out.printf("\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}

func failed(o types.NoteOutcome, stage types.Stage, err error) types.NoteOutcome {
	o.Status = types.NoteFailed
	o.Stage = stage
	o.Error = err.Error()
	return o
}

func canceled(note types.SourceNote, path string, err error) types.NoteOutcome {
	o := types.NoteOutcome{Title: note.Title, Path: path}
	return failed(o, types.StageCanceled, fmt.Errorf("not converted: %w", err))
}

// stageOf reports a transform failure caused by cancellation as canceled.
func stageOf(ctx context.Context, stage types.Stage) types.Stage {
	if ctx.Err() != nil {
		return types.StageCanceled
	}
	return stage
}

// lockedWriter serializes status lines from concurrent workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, format, args...)
}
