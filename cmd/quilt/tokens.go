package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"quilt/internal/token"
)

var (
	tokensContextPath string
	tokensScope       string
	tokensVerbose     bool
)

func init() {
	tokensCmd.Flags().StringVar(&tokensContextPath, "context", "", "TOML context file to resolve values against")
	tokensCmd.Flags().StringVar(&tokensScope, "scope", "", "only show tokens in this scope (pack name, or \"global\")")
	tokensCmd.Flags().BoolVarP(&tokensVerbose, "verbose", "v", false, "show bounds and current values")
}

var tokensCmd = &cobra.Command{
	Use:   "tokens [flags] [pack-dirs...]",
	Short: "List registered tokens",
	Long: `List the standard tokens plus every dynamic token declared by the packs
under the given directories. With --context, tokens are resolved and
their current values shown.`,
	RunE: runTokens,
}

func runTokens(cmd *cobra.Command, args []string) error {
	opts, err := readRootOptions(cmd)
	if err != nil {
		return err
	}

	eng, bag, ok := buildForRoots(cmd, args, opts)
	printDiagnostics(bag, opts)
	if !ok {
		return fmt.Errorf("token registry has errors")
	}

	if tokensContextPath != "" {
		ctx, err := loadContextFile(tokensContextPath)
		if err != nil {
			return err
		}
		eng.UpdateContext(ctx)
	}

	out := cmd.OutOrStdout()
	for _, tok := range eng.Registry().All() {
		switch tokensScope {
		case "":
		case "global":
			if tok.Scope() != "" {
				continue
			}
		default:
			if !strings.EqualFold(tok.Scope(), tokensScope) {
				continue
			}
		}
		line := tok.QualifiedName()
		var tags []string
		if !tok.IsMutable() {
			tags = append(tags, "immutable")
		}
		if tok.RequiresInput() {
			tags = append(tags, "input required")
		} else if tok.AllowsInput() {
			tags = append(tags, "input allowed")
		}
		if !tok.IsReady() {
			tags = append(tags, "unready")
		}
		if len(tags) > 0 {
			line += "  (" + strings.Join(tags, ", ") + ")"
		}
		fmt.Fprintln(out, line)

		if tokensVerbose {
			describeToken(out, tok)
		}
	}
	return nil
}

func describeToken(out io.Writer, tok *token.Token) {
	if values, ok := tok.BoundedValues(token.Input{}); ok {
		fmt.Fprintf(out, "    bounded: %s\n", strings.Join(values, ", "))
	} else if minV, maxV, ok := tok.BoundedRangeValues(token.Input{}); ok {
		fmt.Fprintf(out, "    range: %d..%d\n", minV, maxV)
	}
	if tok.IsReady() && !tok.RequiresInput() {
		if values, err := tok.Values(token.Input{}); err == nil && len(values) > 0 {
			fmt.Fprintf(out, "    values: %s\n", strings.Join(values, ", "))
		}
	}
	if state := tok.State(); len(state.Errors) > 0 {
		for _, msg := range state.Errors {
			fmt.Fprintf(out, "    error: %s\n", msg)
		}
	}
}
