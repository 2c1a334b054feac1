package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quilt/internal/diag"
	"quilt/internal/observ"
	"quilt/internal/token"
)

var (
	applyContextPath string
	applyOutDir      string
	applyUI          string
)

func init() {
	applyCmd.Flags().StringVar(&applyContextPath, "context", "", "TOML context file")
	applyCmd.Flags().StringVarP(&applyOutDir, "out", "o", "out", "output directory for patched files")
	applyCmd.Flags().StringVar(&applyUI, "ui", "auto", "interactive progress (auto|on|off)")
}

var applyCmd = &cobra.Command{
	Use:   "apply [flags] [pack-dirs...]",
	Short: "Apply pack patches to an output directory",
	Long: `Load every pack under the given directories, resolve tokens against the
context, and apply the patches whose conditions hold. Load patches copy
files into the output directory; edit patches merge entries into the
target TOML documents.`,
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	opts, err := readRootOptions(cmd)
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(applyUI)
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	timer := observ.NewTimer()

	phase := timer.Begin("load")
	useTUI := shouldUseTUI(uiModeValue) && !opts.quiet
	results, err := loadPacks(cmd.Context(), roots, opts, useTUI)
	timer.End(phase, fmt.Sprintf("%d packs", len(results)))
	if err != nil {
		return err
	}

	phase = timer.Begin("build")
	eng, bag, ok := buildFromResults(results, opts)
	timer.End(phase, "")
	if !ok {
		printDiagnostics(bag, opts)
		return fmt.Errorf("packs have errors, not applying")
	}

	ctx := token.NewContext()
	if applyContextPath != "" {
		if ctx, err = loadContextFile(applyContextPath); err != nil {
			return err
		}
	}

	phase = timer.Begin("update")
	changed := eng.UpdateContext(ctx)
	timer.End(phase, fmt.Sprintf("%d tokens changed", len(changed)))

	phase = timer.Begin("apply")
	res, err := eng.Apply(applyOutDir, diag.BagReporter{Bag: bag})
	timer.End(phase, "")
	if err != nil {
		printDiagnostics(bag, opts)
		return err
	}

	printDiagnostics(bag, opts)
	if bag.HasErrors() {
		return fmt.Errorf("apply finished with errors")
	}

	if !opts.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d patch(es): %d loaded, %d edited, %d skipped\n",
			res.Loaded+res.Edited, res.Loaded, res.Edited, res.Skipped)
		for _, target := range res.Written {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", target)
		}
	}
	if opts.timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}
