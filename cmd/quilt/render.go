package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quilt/internal/template"
	"quilt/internal/token"
)

var (
	renderContextPath string
	renderPacks       []string
)

func init() {
	renderCmd.Flags().StringVar(&renderContextPath, "context", "", "TOML context file")
	renderCmd.Flags().StringSliceVar(&renderPacks, "packs", nil, "pack directories providing dynamic tokens")
}

var renderCmd = &cobra.Command{
	Use:   "render [flags] <token-string>...",
	Short: "Render token strings against a context",
	Long: `Render one or more token strings, e.g. "assets/{{Season}}/{{Lowercase:NPC}}.toml".
Dynamic tokens come from the packs given with --packs; the context comes
from --context or stays empty.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	opts, err := readRootOptions(cmd)
	if err != nil {
		return err
	}

	eng, bag, ok := buildForRoots(cmd, renderPacks, opts)
	printDiagnostics(bag, opts)
	if !ok {
		return fmt.Errorf("token registry has errors")
	}

	ctx := token.NewContext()
	if renderContextPath != "" {
		if ctx, err = loadContextFile(renderContextPath); err != nil {
			return err
		}
	}
	eng.UpdateContext(ctx)

	out := cmd.OutOrStdout()
	for _, raw := range args {
		ts, err := template.Parse(raw)
		if err != nil {
			return err
		}
		rendered, err := ts.Render(eng.Registry())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rendered)
	}
	return nil
}
