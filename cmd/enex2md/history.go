// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/enex2md/internal/ledger"
	"github.com/pdiddy/enex2md/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List conversion runs recorded in the ledger",
	Long: `History reads the run ledger written by conversions started with
--ledger (or the ledger config key) and lists recent runs, most recent first.
Use --run with a run ID to show the per-note outcomes of one run.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString(keyLedger)
	if path == "" {
		return errors.New("no ledger configured: pass --ledger or set ENEX2MD_LEDGER")
	}
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q: use text, json, or yaml", format)
	}
	runID, _ := cmd.Flags().GetString("run")
	limit, _ := cmd.Flags().GetInt("limit")
	cmd.SilenceUsage = true

	l, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer l.Close()

	w := cmd.OutOrStdout()
	if runID != "" {
		outcomes, err := l.Outcomes(cmd.Context(), runID)
		if err != nil {
			return err
		}
		return formatOutcomes(w, outcomes, format)
	}

	runs, err := l.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return formatRuns(w, runs, format)
}

func formatRuns(w io.Writer, runs []types.RunRecord, format string) error {
	if format != "text" {
		return encode(w, runs, format)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-9s  %9s  %6s  %s\n",
		"Run", "Started", "Engine", "Converted", "Failed", "Input")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-20s  %-9s  %9d  %6d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Engine, r.Converted, r.Failed, r.Input)
	}
	return nil
}

func formatOutcomes(w io.Writer, outcomes []types.NoteOutcome, format string) error {
	if format != "text" {
		return encode(w, outcomes, format)
	}

	var failed int
	for _, o := range outcomes {
		if o.Status == types.NoteFailed {
			failed++
			fmt.Fprintf(w, "failed:    %s (%s: %s)\n", o.Title, o.Stage, o.Error)
			continue
		}
		fmt.Fprintf(w, "converted: %s -> %s\n", o.Title, o.Path)
	}
	fmt.Fprintf(w, "\n%d notes, %d failed\n", len(outcomes), failed)
	return nil
}

func encode(w io.Writer, v any, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().String("run", "", "show the per-note outcomes of this run ID")
	historyCmd.Flags().String("format", "text", "output format: text, json, or yaml")

	rootCmd.AddCommand(historyCmd)
}
