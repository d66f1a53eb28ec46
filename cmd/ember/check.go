package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ember/internal/diag"
	"ember/internal/diagfmt"
	"ember/internal/driver"
	"ember/internal/project"
	"ember/internal/source"
	"ember/internal/ui"
)

const noEmberTomlMessage = "no ember.toml found\nplease specify a snapshot or directory explicitly, e.g.:\n  ember check build/mir"

var checkCmd = &cobra.Command{
	Use:   "check [flags] [snapshot.mir|directory]",
	Short: "Check MIR snapshots for dataflow anomalies",
	Long: `Check decodes lowered MIR snapshots, validates their structure and reports
reachability anomalies: missing returns, non-exhaustive switches and returns
from noreturn functions. Without an argument the snapshot root comes from
the nearest ember.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Int("context", 1, "source context lines in pretty output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("progress", false, "show interactive progress for directory runs")
}

type renderOptions struct {
	format    string
	color     bool
	withNotes bool
	context   int8
	pathMode  diagfmt.PathMode
}

// runCheck executes the "check" command: it resolves the target from the
// argument or the project manifest, runs the driver, renders diagnostics in
// the chosen format, and exits non-zero when the run failed.
func runCheck(cmd *cobra.Command, args []string) error {
	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	contextLines, err := cmd.Flags().GetInt("context")
	if err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	showProgress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return fmt.Errorf("failed to get progress flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	switch format {
	case "pretty", "short", "json":
		// supported
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, short or json)", format)
	}

	// Цель: аргумент или манифест
	var target string
	if len(args) == 1 {
		target = args[0]
	} else {
		manifest, ok, err := project.FindAndLoad(".")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s", noEmberTomlMessage)
		}
		target = manifest.SnapshotRoot()
		if maxDiagnostics <= 0 {
			maxDiagnostics = manifest.Config.Check.MaxDiagnostics
		}
		if !warningsAsErrors {
			warningsAsErrors = manifest.Config.Check.WarningsAsErrors
		}
	}
	if maxDiagnostics <= 0 {
		maxDiagnostics = project.DefaultMaxDiagnostics
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", target, err)
	}

	opts := driver.CheckOptions{
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}

	var res *driver.CheckResult
	if info.IsDir() {
		res, err = checkDirWithProgress(cmd.Context(), target, opts, showProgress && !quiet)
		if err != nil {
			return err
		}
	} else {
		res = &driver.CheckResult{Results: []driver.FileResult{driver.CheckSnapshot(target, opts)}}
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	if contextLines < 0 {
		contextLines = 0
	}
	if contextLines > 9 {
		contextLines = 9
	}

	if err := renderResults(cmd.OutOrStdout(), res, renderOptions{
		format:    format,
		color:     colorEnabled(colorMode, os.Stdout),
		withNotes: withNotes,
		context:   int8(contextLines),
		pathMode:  pathMode,
	}); err != nil {
		return err
	}

	if res.Failed(warningsAsErrors) {
		if !quiet {
			fmt.Fprintf(os.Stderr, "ember: %d diagnostics across %d snapshots\n",
				res.TotalDiagnostics(), len(res.Results))
		}
		os.Exit(1)
	}
	return nil
}

// checkDirWithProgress runs the driver, wiring its event stream into the
// interactive progress view when the terminal allows it.
func checkDirWithProgress(ctx context.Context, dir string, opts driver.CheckOptions, showProgress bool) (*driver.CheckResult, error) {
	if !showProgress || !isTerminal(os.Stderr) {
		return driver.CheckDir(ctx, dir, opts)
	}

	files, err := driver.ListSnapshots(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &driver.CheckResult{}, nil
	}

	events := make(chan driver.Event, len(files)*8)
	opts.Events = events

	var res *driver.CheckResult
	var checkErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, checkErr = driver.CheckDir(ctx, dir, opts)
		close(events)
	}()

	prog := tea.NewProgram(ui.NewProgressModel("ember check "+dir, files, events), tea.WithOutput(os.Stderr))
	if _, err := prog.Run(); err != nil {
		// Keep draining so the driver never blocks on a dead UI.
		for range events { //nolint:revive
		}
	}
	<-done
	return res, checkErr
}

func renderResults(out io.Writer, res *driver.CheckResult, opts renderOptions) error {
	if opts.format == "json" {
		return renderResultsJSON(out, res, opts)
	}

	shortMode := "auto"
	if opts.pathMode == diagfmt.PathModeAbsolute {
		shortMode = "absolute"
	}

	for i := range res.Results {
		r := &res.Results[i]
		r.Bag.Sort()
		fs := r.Files
		if fs == nil {
			fs = source.NewFileSet()
		}

		switch opts.format {
		case "short":
			fmt.Fprint(out, diag.FormatShort(fs, r.Bag, shortMode))
		default:
			diagfmt.Pretty(out, r.Bag, fs, diagfmt.PrettyOpts{
				Color:     opts.color,
				Context:   opts.context,
				PathMode:  opts.pathMode,
				ShowNotes: opts.withNotes,
			})
		}
	}
	return nil
}

type snapshotJSON struct {
	Path string `json:"path"`
	diagfmt.DiagnosticsOutput
}

type checkOutputJSON struct {
	Snapshots []snapshotJSON `json:"snapshots"`
	Total     int            `json:"total"`
}

func renderResultsJSON(out io.Writer, res *driver.CheckResult, opts renderOptions) error {
	output := checkOutputJSON{Snapshots: make([]snapshotJSON, 0, len(res.Results))}
	for i := range res.Results {
		r := &res.Results[i]
		r.Bag.Sort()
		output.Snapshots = append(output.Snapshots, snapshotJSON{
			Path: r.Path,
			DiagnosticsOutput: diagfmt.BuildDiagnosticsOutput(r.Bag, r.Files, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         opts.pathMode,
				IncludeNotes:     opts.withNotes,
			}),
		})
		output.Total += r.Bag.Len()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
