package pack

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quilt/internal/diag"
)

const goodManifest = `
[pack]
name = "acme.seasons"
version = "1.0.0"
description = "seasonal flavor"

[tokens.Mood]
[[tokens.Mood.entries]]
value = "Gloomy"
when = { Season = "Winter" }

[[tokens.Mood.entries]]
values = ["Cheerful", "Sunny"]

[[patches]]
action = "edit"
target = "data/dialogue.toml"
priority = 5
when = { Season = "Spring, Summer", "Lowercase:NPC" = "abigail" }

[patches.entries]
greeting = "Happy {{Season}}!"

[[patches]]
action = "load"
target = "assets/banner.toml"
file = "assets/banner.toml"
`

func writePack(t *testing.T, manifest string, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte("content = true\n"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return dir
}

func TestLoadManifest(t *testing.T) {
	dir := writePack(t, goodManifest, "assets/banner.toml")

	m, err := LoadManifest(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Pack.Name != "acme.seasons" {
		t.Errorf("pack name = %q", m.Pack.Name)
	}
	if len(m.Tokens) != 1 || len(m.Tokens["Mood"].Entries) != 2 {
		t.Errorf("tokens parsed wrong: %+v", m.Tokens)
	}
	if got := m.Tokens["Mood"].Entries[0].AllValues(); len(got) != 1 || got[0] != "Gloomy" {
		t.Errorf("entry values = %v", got)
	}
	if len(m.Patches) != 2 || m.Patches[0].Action != ActionEdit || m.Patches[1].Action != ActionLoad {
		t.Errorf("patches parsed wrong: %+v", m.Patches)
	}
	if m.Patches[0].Priority != 5 {
		t.Errorf("priority = %d", m.Patches[0].Priority)
	}
}

func TestLoadManifest_MissingSections(t *testing.T) {
	dir := writePack(t, "answer = 42\n")
	_, err := LoadManifest(filepath.Join(dir, ManifestName))
	if !errors.Is(err, ErrPackSectionMissing) {
		t.Errorf("err = %v, want ErrPackSectionMissing", err)
	}

	dir = writePack(t, "[pack]\nversion = \"1.0\"\n")
	_, err = LoadManifest(filepath.Join(dir, ManifestName))
	if !errors.Is(err, ErrPackNameMissing) {
		t.Errorf("err = %v, want ErrPackNameMissing", err)
	}
}

func TestParseWhen(t *testing.T) {
	set := ParseWhen(map[string]string{
		"Season":        "Spring, Summer",
		"Lowercase:NPC": "abigail",
	})
	if len(set) != 2 {
		t.Fatalf("len(set) = %d, want 2", len(set))
	}
	// sorted by key: "Lowercase:NPC" < "Season"
	if set[0].Name != "Lowercase" || set[0].Input.Raw() != "NPC" {
		t.Errorf("input condition = %+v", set[0])
	}
	if set[1].Name != "Season" || len(set[1].Values) != 2 || set[1].Values[1] != "Summer" {
		t.Errorf("season condition = %+v", set[1])
	}
	if ParseWhen(nil) != nil {
		t.Errorf("empty when should produce a nil set")
	}
}

func TestManifest_ValidateStructure(t *testing.T) {
	manifest := `
[pack]
name = "acme.broken"

[tokens.Empty]

[[patches]]
action = "teleport"
target = "x.toml"

[[patches]]
action = "load"
target = "y.toml"
file = "missing/file.toml"

[[patches]]
action = "edit"
`
	dir := writePack(t, manifest)
	m, err := LoadManifest(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	bag := diag.NewBag(20)
	if m.Validate(diag.BagReporter{Bag: bag}) {
		t.Fatalf("Validate should fail")
	}

	wantCodes := map[diag.Code]bool{
		diag.PackInvalidManifest: false, // empty dynamic token
		diag.PackUnknownAction:   false, // teleport
		diag.PackMissingFile:     false, // missing load file
		diag.PackInvalidPatch:    false, // edit without entries/target
	}
	for _, d := range bag.Items() {
		if _, tracked := wantCodes[d.Code]; tracked {
			wantCodes[d.Code] = true
		}
	}
	for code, seen := range wantCodes {
		if !seen {
			t.Errorf("expected a %v diagnostic, got %v", code, bag.Items())
		}
	}
}

func TestDiscoverAndLoadAll(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.pack", "a.pack"} {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		manifest := "[pack]\nname = \"" + name + "\"\n"
		if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644); err != nil {
			t.Fatalf("write manifest: %v", err)
		}
	}

	dirs, err := Discover([]string{root})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(dirs) != 2 || filepath.Base(dirs[0]) != "a.pack" {
		t.Fatalf("Discover = %v, want sorted pack dirs", dirs)
	}

	events := make([]Event, 0, 16)
	sink := sinkFunc(func(e Event) { events = append(events, e) })

	results, err := LoadAll(context.Background(), dirs, 20, 1, sink)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for _, r := range results {
		if r.Manifest == nil || r.Bag.HasErrors() {
			t.Errorf("pack %s should load cleanly: %v", r.Dir, r.Bag.Items())
		}
	}
	if len(events) == 0 {
		t.Errorf("loader emitted no progress events")
	}
}

type sinkFunc func(Event)

func (f sinkFunc) OnEvent(e Event) { f(e) }

func TestLoadAll_BadManifestBecomesDiagnostic(t *testing.T) {
	dir := writePack(t, "not valid toml [")
	results, err := LoadAll(context.Background(), []string{dir}, 20, 1, nil)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(results) != 1 || results[0].Manifest != nil {
		t.Fatalf("broken manifest should yield a nil Manifest")
	}
	if !results[0].Bag.HasErrors() {
		t.Errorf("broken manifest should produce diagnostics")
	}
}

func TestLoadAll_DuplicateNames(t *testing.T) {
	a := writePack(t, "[pack]\nname = \"acme.same\"\n")
	b := writePack(t, "[pack]\nname = \"acme.same\"\n")

	results, err := LoadAll(context.Background(), []string{a, b}, 20, 2, nil)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	dups := 0
	for _, r := range results {
		for _, d := range r.Bag.Items() {
			if d.Code == diag.PackDuplicateName {
				dups++
			}
		}
	}
	if dups != 1 {
		t.Errorf("duplicate name diagnostics = %d, want 1", dups)
	}
}
