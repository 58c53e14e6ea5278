// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the enex2md CLI. The root command
// converts an Evernote export into a directory of Markdown files; the history
// subcommand inspects runs recorded in the ledger.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/enex2md/internal/convert"
	"github.com/pdiddy/enex2md/internal/enex"
	"github.com/pdiddy/enex2md/internal/ledger"
	"github.com/pdiddy/enex2md/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts an export; subcommands are registered in their own files.
var rootCmd = &cobra.Command{
	Use:   "enex2md <input-file> <output-dir>",
	Short: "Convert Evernote exports (.enex) to Markdown with YAML metadata",
	Long: `enex2md reads an Evernote export and writes one Markdown file per note
into the output directory, which is created if it does not exist. Each file
starts with a YAML header holding the note title and tags, followed by a
"---" line, a blank line, and the converted note body.

Notes are converted concurrently. A note that fails to convert is reported
and skipped; the remaining notes are still written. The command exits with
a non-zero status when any note fails unless --allow-partial is set.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./enex2md.yaml or ~/.config/enex2md/config.yaml)")
	pf.Bool("verbose", false, "log per-note progress")
	pf.String("ledger", "", "SQLite file recording each run (empty disables the ledger)")

	f := rootCmd.Flags()
	f.String("engine", string(types.EngineBuiltin), "conversion engine: builtin, pandoc, or container")
	f.Int("workers", 0, "notes converted concurrently (0 = number of CPUs)")
	f.String("on-collision", string(types.CollisionOverwrite), "duplicate file names: overwrite (last write wins) or suffix (-2, -3, ...)")
	f.Duration("timeout", 0, "overall run deadline, e.g. 5m (0 = none)")
	f.Bool("allow-partial", false, "exit successfully even when some notes fail")
	f.String("pandoc-path", "pandoc", "pandoc binary for the pandoc engine")
	f.String("pandoc-format", "markdown", "pandoc output format for the pandoc and container engines")
	f.String("image", "pandoc/core:latest", "container image for the container engine")

	bindFlags(viper.GetViper(), rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("enex2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "enex2md"))
		}
	}

	setupEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns a console logger writing to w. Colors are used only when
// w is a terminal.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !isTerminal(w)}
	return zerolog.New(cw).
		Level(level).
		With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	log := newLogger(cmd.ErrOrStderr(), viper.GetBool(keyVerbose))
	input := args[0]
	outputDir, err := filepath.Abs(args[1])
	if err != nil {
		return fmt.Errorf("resolving output directory %s: %w", args[1], err)
	}

	conv, err := convert.NewConverter(cfg.EngineConfig)
	if err != nil {
		return err
	}

	notes, err := enex.ReadFile(input)
	if err != nil {
		var readErr *enex.InputReadError
		if errors.As(err, &readErr) {
			return fmt.Errorf("%s could not be read: %w", input, readErr.Err)
		}
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	log.Info().Str("input", input).Str("output", outputDir).Str("engine", conv.Name()).
		Int("notes", len(notes)).Msg("converting export")

	started := time.Now()
	result := convert.ConvertBatch(ctx, conv, notes, convert.BatchOptions{
		OutputDir:   outputDir,
		Workers:     cfg.Workers,
		OnCollision: cfg.OnCollision,
		Out:         cmd.OutOrStdout(),
		Logger:      log,
	})
	finished := time.Now()

	if cfg.Ledger != "" {
		recordRun(cfg.Ledger, types.RunRecord{
			Input:      input,
			OutputDir:  outputDir,
			Engine:     conv.Name(),
			StartedAt:  started,
			FinishedAt: finished,
			Converted:  result.Converted,
			Failed:     result.Failed,
			Outcomes:   result.Outcomes,
		}, log)
	}

	for _, f := range result.Failures() {
		log.Error().Str("title", f.Title).Str("stage", string(f.Stage)).Msg(f.Error)
	}
	if result.HasFailures() {
		if cfg.AllowPartial {
			log.Warn().Int("failed", result.Failed).Msg("partial conversion allowed")
			return nil
		}
		return fmt.Errorf("%d of %d note(s) failed to convert", result.Failed, result.Total())
	}
	return nil
}

// recordRun stores the run in the ledger. Ledger failures are logged but do
// not change the outcome of the conversion.
func recordRun(path string, run types.RunRecord, log zerolog.Logger) {
	l, err := ledger.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("ledger", path).Msg("run not recorded")
		return
	}
	defer l.Close()

	id, err := l.Record(context.Background(), run)
	if err != nil {
		log.Warn().Err(err).Str("ledger", path).Msg("run not recorded")
		return
	}
	log.Debug().Str("run", id).Str("ledger", path).Msg("run recorded")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
