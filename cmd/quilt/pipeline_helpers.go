package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"quilt/internal/diag"
	"quilt/internal/diagfmt"
	"quilt/internal/engine"
	"quilt/internal/pack"
)

type rootOptions struct {
	quiet          bool
	timings        bool
	maxDiagnostics int
	jobs           int
	color          bool
}

func readRootOptions(cmd *cobra.Command) (rootOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var opts rootOptions
	var err error

	if opts.quiet, err = flags.GetBool("quiet"); err != nil {
		return opts, err
	}
	if opts.timings, err = flags.GetBool("timings"); err != nil {
		return opts, err
	}
	if opts.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, err
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, err
	}

	mode, err := flags.GetString("color")
	if err != nil {
		return opts, err
	}
	switch mode {
	case "on":
		opts.color = true
		color.NoColor = false
	case "off":
		opts.color = false
		color.NoColor = true
	case "", "auto":
		opts.color = isTerminal(os.Stdout)
	default:
		return opts, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return opts, nil
}

// loadPacks discovers and loads every pack under roots, behind the TUI
// when requested.
func loadPacks(ctx context.Context, roots []string, opts rootOptions, useTUI bool) ([]pack.Result, error) {
	dirs, err := pack.Discover(roots)
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no %s found under %v", pack.ManifestName, roots)
	}

	if useTUI {
		return runLoadWithUI(ctx, "loading packs", dirs, opts.maxDiagnostics, opts.jobs)
	}
	return pack.LoadAll(ctx, dirs, opts.maxDiagnostics, opts.jobs, nil)
}

// buildFromResults assembles the engine and merges every bag into one
// for reporting.
func buildFromResults(results []pack.Result, opts rootOptions) (*engine.Engine, *diag.Bag, bool) {
	bag := diag.NewBag(opts.maxDiagnostics)
	for _, r := range results {
		if r.Bag != nil {
			bag.Merge(r.Bag)
		}
	}

	reg, err := engine.StandardRegistry()
	if err != nil {
		bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.UnknownCode, Message: err.Error()})
		return nil, bag, false
	}
	eng, ok := engine.Build(reg, results, diag.BagReporter{Bag: bag})
	return eng, bag, ok && !bag.HasErrors()
}

// buildForRoots loads the packs under roots (none is fine, the standard
// tokens alone remain) and assembles the engine.
func buildForRoots(cmd *cobra.Command, roots []string, opts rootOptions) (*engine.Engine, *diag.Bag, bool) {
	var results []pack.Result
	if len(roots) > 0 {
		loaded, err := loadPacks(cmd.Context(), roots, opts, false)
		if err != nil {
			bag := diag.NewBag(opts.maxDiagnostics)
			bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.IOLoadFileError, Message: err.Error()})
			return nil, bag, false
		}
		results = loaded
	}
	return buildFromResults(results, opts)
}

// printDiagnostics sorts, dedups, and renders the bag to stderr.
func printDiagnostics(bag *diag.Bag, opts rootOptions) {
	if bag.Len() == 0 {
		return
	}
	bag.Sort()
	bag.Dedup()
	diagfmt.Pretty(os.Stderr, bag, diagfmt.PrettyOpts{
		Color: opts.color,
		Max:   opts.maxDiagnostics,
	})
}
