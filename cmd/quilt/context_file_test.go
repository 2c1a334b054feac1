package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestLoadContextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.toml")
	content := `season = "Spring"
day = 12
raining = false
npcs = ["Abigail", "Sam"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctx, err := loadContextFile(path)
	if err != nil {
		t.Fatalf("loadContextFile: %v", err)
	}
	if got := ctx.Value("season"); got != "Spring" {
		t.Errorf("season = %q", got)
	}
	if got := ctx.Value("day"); got != "12" {
		t.Errorf("day = %q", got)
	}
	if got := ctx.Value("raining"); got != "false" {
		t.Errorf("raining = %q", got)
	}
	npcs, ok := ctx.Lookup("npcs")
	if !ok || !slices.Equal(npcs, []string{"Abigail", "Sam"}) {
		t.Errorf("npcs = %v", npcs)
	}
}

func TestLoadContextFile_BadValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.toml")
	if err := os.WriteFile(path, []byte("[table]\nx = 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := loadContextFile(path); err == nil {
		t.Errorf("table values should be rejected")
	}
}
