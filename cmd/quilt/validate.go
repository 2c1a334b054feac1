package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"quilt/internal/diagfmt"
	"quilt/internal/engine"
	"quilt/internal/observ"
	"quilt/internal/pack"
)

var (
	validateFormat  string
	validateUI      string
	validateNoCache bool
)

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "pretty", "output format (pretty|json)")
	validateCmd.Flags().StringVar(&validateUI, "ui", "auto", "interactive progress (auto|on|off)")
	validateCmd.Flags().BoolVar(&validateNoCache, "no-cache", false, "revalidate even when the manifest is unchanged")
}

var validateCmd = &cobra.Command{
	Use:   "validate [flags] [pack-dirs...]",
	Short: "Validate content packs",
	Long: `Validate every pack under the given directories: manifest structure,
dynamic tokens, patch conditions, and token strings. Exits non-zero when
any pack has errors. Clean results are cached by manifest digest.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	opts, err := readRootOptions(cmd)
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(validateUI)
	if err != nil {
		return err
	}
	if validateFormat != "pretty" && validateFormat != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", validateFormat)
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	timer := observ.NewTimer()

	var cache *engine.DiskCache
	if !validateNoCache {
		if c, err := engine.OpenDiskCache("quilt"); err == nil {
			cache = c
		}
	}

	phase := timer.Begin("load")
	useTUI := shouldUseTUI(uiModeValue) && validateFormat == "pretty" && !opts.quiet
	results, err := loadPacks(cmd.Context(), roots, opts, useTUI)
	timer.End(phase, fmt.Sprintf("%d packs", len(results)))
	if err != nil {
		return err
	}

	if validateFormat == "pretty" && allCachedValid(cache, results) {
		if !opts.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%d pack(s) unchanged since last validation\n", len(results))
		}
		if opts.timings {
			fmt.Fprint(os.Stderr, timer.Summary())
		}
		return nil
	}

	phase = timer.Begin("build")
	_, bag, ok := buildFromResults(results, opts)
	timer.End(phase, "")

	phase = timer.Begin("cache")
	storeValidation(cache, results, ok)
	timer.End(phase, "")

	if validateFormat == "json" {
		bag.Sort()
		bag.Dedup()
		if err := diagfmt.JSON(cmd.OutOrStdout(), bag, diagfmt.JSONOpts{
			Max:          opts.maxDiagnostics,
			IncludeNotes: true,
		}); err != nil {
			return err
		}
	} else {
		printDiagnostics(bag, opts)
		if !opts.quiet {
			if ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%d pack(s) valid\n", len(results))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "validation failed\n")
			}
		}
	}

	if opts.timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if !ok {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

// allCachedValid reports whether every loaded pack's manifest digest has
// a clean cached validation.
func allCachedValid(cache *engine.DiskCache, results []pack.Result) bool {
	if cache == nil || len(results) == 0 {
		return false
	}
	for _, r := range results {
		if r.Manifest == nil || r.Bag.HasErrors() {
			return false
		}
		key, err := engine.DigestFile(r.Manifest.Path)
		if err != nil {
			return false
		}
		var payload engine.CachePayload
		hit, err := cache.Get(key, &payload)
		if err != nil || !hit || !payload.Valid {
			return false
		}
	}
	return true
}

// storeValidation records per-pack outcomes keyed by manifest digest.
func storeValidation(cache *engine.DiskCache, results []pack.Result, allValid bool) {
	if cache == nil {
		return
	}
	for _, r := range results {
		if r.Manifest == nil {
			continue
		}
		key, err := engine.DigestFile(r.Manifest.Path)
		if err != nil {
			continue
		}
		payload := engine.CachePayload{
			Pack:         r.Manifest.Pack.Name,
			ManifestPath: r.Manifest.Path,
			Valid:        allValid && !r.Bag.HasErrors(),
			Errors:       r.Bag.Len(),
			Warnings:     0,
			CheckedAt:    time.Now().Unix(),
		}
		_ = cache.Put(key, &payload)
	}
}
