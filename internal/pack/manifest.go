// Package pack loads and validates quilt content packs: a directory with
// a quilt.toml manifest declaring dynamic tokens and patches, plus the
// asset files its load patches ship.
package pack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"quilt/internal/condition"
	"quilt/internal/diag"
	"quilt/internal/token"
)

// ManifestName is the manifest filename every pack directory carries.
const ManifestName = "quilt.toml"

// Patch actions.
const (
	ActionLoad = "load"
	ActionEdit = "edit"
)

var (
	// ErrPackSectionMissing indicates that [pack] is missing in a manifest.
	ErrPackSectionMissing = errors.New("missing [pack]")
	// ErrPackNameMissing indicates that [pack].name is missing in a manifest.
	ErrPackNameMissing = errors.New("missing [pack].name")
)

// Manifest is a parsed quilt.toml.
type Manifest struct {
	Pack    Meta                `toml:"pack"`
	Tokens  map[string]TokenDef `toml:"tokens"`
	Patches []PatchDef          `toml:"patches"`

	// set by the loader, not part of the document
	Path string `toml:"-"`
	Dir  string `toml:"-"`
}

// Meta is the [pack] section.
type Meta struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
}

// TokenDef declares one dynamic token: an ordered list of candidate
// entries, the first matching one wins.
type TokenDef struct {
	Entries []TokenEntry `toml:"entries"`
}

// TokenEntry is one candidate value set with its guard conditions.
type TokenEntry struct {
	Value  string            `toml:"value"`
	Values []string          `toml:"values"`
	When   map[string]string `toml:"when"`
}

// AllValues merges the single-value and multi-value forms.
func (e TokenEntry) AllValues() []string {
	if e.Value != "" {
		return append([]string{e.Value}, e.Values...)
	}
	return append([]string(nil), e.Values...)
}

// PatchDef declares one patch.
type PatchDef struct {
	Action   string            `toml:"action"`
	Target   string            `toml:"target"`
	File     string            `toml:"file"`
	Entries  map[string]string `toml:"entries"`
	When     map[string]string `toml:"when"`
	Priority int               `toml:"priority"`
}

// LoadManifest parses a quilt.toml file.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("pack") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackSectionMissing)
	}
	if strings.TrimSpace(m.Pack.Name) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackNameMissing)
	}
	m.Pack.Name = strings.TrimSpace(m.Pack.Name)
	m.Path = path
	m.Dir = filepath.Dir(path)
	return &m, nil
}

// ParseWhen converts a manifest `when` table into a condition set. Keys
// are "Name" or "Name:input"; values are comma-separated candidates.
// Conditions come out sorted by key for deterministic evaluation.
func ParseWhen(when map[string]string) condition.Set {
	if len(when) == 0 {
		return nil
	}
	keys := make([]string, 0, len(when))
	for k := range when {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	set := make(condition.Set, 0, len(keys))
	for _, key := range keys {
		name := key
		var input token.Input
		if sep := strings.Index(key, ":"); sep >= 0 {
			name = key[:sep]
			input = token.NewInput(key[sep+1:])
		}
		set = append(set, condition.Condition{
			Name:   strings.TrimSpace(name),
			Input:  input,
			Values: token.NewInput(when[key]).Positional(),
		})
	}
	return set
}

// TokenNames returns the pack's dynamic token names, sorted.
func (m *Manifest) TokenNames() []string {
	names := make([]string, 0, len(m.Tokens))
	for name := range m.Tokens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the manifest's structure: declared actions, required
// fields, and the existence of shipped files. Registry-dependent checks
// (conditions, token strings) belong to the engine once all packs are
// registered. Returns true when no errors were reported.
func (m *Manifest) Validate(rep diag.Reporter) bool {
	valid := true
	fail := func(code diag.Code, field, msg string) {
		diag.ReportError(rep, code, diag.Origin{Path: m.Path, Field: field}, msg)
		valid = false
	}

	for _, name := range m.TokenNames() {
		def := m.Tokens[name]
		field := "tokens." + name
		if len(def.Entries) == 0 {
			fail(diag.PackInvalidManifest, field, fmt.Sprintf("dynamic token %q has no entries", name))
			continue
		}
		for i, entry := range def.Entries {
			if len(entry.AllValues()) == 0 {
				fail(diag.PackInvalidManifest, fmt.Sprintf("%s.entries[%d]", field, i),
					fmt.Sprintf("entry of dynamic token %q has no value", name))
			}
		}
	}

	for i, p := range m.Patches {
		field := fmt.Sprintf("patches[%d]", i)
		switch p.Action {
		case ActionLoad:
			if p.File == "" {
				fail(diag.PackInvalidPatch, field, "load patch needs a file")
			} else if _, err := os.Stat(filepath.Join(m.Dir, filepath.FromSlash(p.File))); err != nil {
				fail(diag.PackMissingFile, field, fmt.Sprintf("load patch file %q not found in pack", p.File))
			}
		case ActionEdit:
			if len(p.Entries) == 0 {
				fail(diag.PackInvalidPatch, field, "edit patch needs entries")
			}
		case "":
			fail(diag.PackInvalidPatch, field, "patch needs an action")
		default:
			fail(diag.PackUnknownAction, field, fmt.Sprintf("unknown patch action %q", p.Action))
		}
		if p.Target == "" {
			fail(diag.PackInvalidPatch, field, "patch needs a target")
		}
	}

	return valid
}
