package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"quilt/internal/pack"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new content pack",
	Long: `Initialize a new content pack by creating a manifest (quilt.toml), an
assets directory with a sample file, and a sample context (context.toml).
If [path|name] is omitted, initializes the current directory. If a
non-existing name is provided, a directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "quilt-pack"
	}

	manifestPath := filepath.Join(target, pack.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("pack already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(defaultManifest(name)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	assetPath := filepath.Join(target, "assets", "greetings.toml")
	if err := os.MkdirAll(filepath.Dir(assetPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(assetPath, []byte(defaultAsset()), 0o600); err != nil {
		return fmt.Errorf("failed to write sample asset: %w", err)
	}

	contextPath := filepath.Join(target, "context.toml")
	createdContext := false
	if _, err := os.Stat(contextPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(contextPath, []byte(defaultContext()), 0o600); err != nil {
			return fmt.Errorf("failed to write context: %w", err)
		}
		createdContext = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized content pack in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - %s\n", pack.ManifestName)
	fmt.Fprintf(os.Stdout, "  - assets/greetings.toml\n")
	if createdContext {
		fmt.Fprintf(os.Stdout, "  - context.toml\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - context.toml (existing)\n")
	}
	return nil
}

func defaultManifest(name string) string {
	return fmt.Sprintf(`# Quilt content pack manifest
[pack]
name = "%s"
version = "0.1.0"
description = "describe your pack here"

# Dynamic tokens: first matching entry wins, top to bottom.
[tokens.Mood]
[[tokens.Mood.entries]]
value = "Gloomy"
when = { Season = "Winter" }

[[tokens.Mood.entries]]
value = "Cheerful"

[[patches]]
action = "load"
target = "data/greetings.toml"
file = "assets/greetings.toml"

[[patches]]
action = "edit"
target = "data/greetings.toml"
priority = 1
when = { Season = "Spring, Summer" }

[patches.entries]
greeting = "Happy {{Season}}, day {{Day}}!"
mood = "{{%s/Mood}}"
`, name, name)
}

func defaultAsset() string {
	return `greeting = "Hello!"
`
}

func defaultContext() string {
	return `# Sample evaluation context
season = "Spring"
weather = "Sun"
day = 12
`
}
