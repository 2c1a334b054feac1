package engine

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"quilt/internal/diag"
	"quilt/internal/pack"
)

// ApplyResult summarizes one Apply run.
type ApplyResult struct {
	Loaded  int      // files copied by load patches
	Edited  int      // files rewritten by edit patches
	Skipped int      // patches whose conditions did not hold
	Written []string // relative target paths touched, sorted
}

// Apply runs every patch against outDir in priority order: low priority
// first, so higher-priority edits land on top. Load patches copy a pack
// file to the rendered target; edit patches merge rendered entries into
// the target TOML document. A patch whose conditions do not hold in the
// current context is skipped with an info diagnostic, never an error.
func (e *Engine) Apply(outDir string, rep diag.Reporter) (*ApplyResult, error) {
	res := &ApplyResult{}
	written := make(map[string]struct{})
	loadedBy := make(map[string]string) // target -> pack, for clash detection

	for _, p := range e.patches {
		origin := diag.Origin{Path: p.Pack, Field: fmt.Sprintf("patches[%d]", p.Index)}

		matched, err := p.When.Matches(e.reg)
		if err != nil {
			diag.ReportError(rep, diag.EngPatchSkipped, origin, err.Error())
			continue
		}
		if !matched {
			res.Skipped++
			diag.ReportInfo(rep, diag.EngPatchSkipped, origin, "conditions do not hold in the current context")
			continue
		}
		if !p.Target.IsReady(e.reg) {
			res.Skipped++
			diag.ReportInfo(rep, diag.EngPatchSkipped, origin, "target uses a token that is not ready")
			continue
		}

		target, err := p.Target.Render(e.reg)
		if err != nil {
			diag.ReportError(rep, diag.EngPatchSkipped, origin, err.Error())
			continue
		}
		target = filepath.ToSlash(filepath.Clean(target))
		dest := filepath.Join(outDir, filepath.FromSlash(target))

		switch p.Action {
		case pack.ActionLoad:
			if prev, clash := loadedBy[target]; clash {
				diag.ReportError(rep, diag.EngTargetClash, origin,
					fmt.Sprintf("target %q is already loaded by pack %q", target, prev))
				continue
			}
			src := filepath.Join(p.Dir, filepath.FromSlash(p.File))
			if err := copyFile(src, dest); err != nil {
				diag.ReportError(rep, diag.IOWriteFileError, origin, err.Error())
				continue
			}
			loadedBy[target] = p.Pack
			res.Loaded++
			written[target] = struct{}{}

		case pack.ActionEdit:
			if err := e.applyEdit(p, dest, rep, origin); err != nil {
				diag.ReportError(rep, diag.IOWriteFileError, origin, err.Error())
				continue
			}
			res.Edited++
			written[target] = struct{}{}
		}
	}

	res.Written = make([]string, 0, len(written))
	for t := range written {
		res.Written = append(res.Written, t)
	}
	sort.Strings(res.Written)
	return res, nil
}

// applyEdit merges the patch's rendered entries into the target TOML
// document, creating it when absent. Existing keys are overwritten;
// everything else in the document survives.
func (e *Engine) applyEdit(p Patch, dest string, rep diag.Reporter, origin diag.Origin) error {
	doc := make(map[string]any)
	if data, err := os.ReadFile(dest); err == nil {
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("target %s is not valid TOML: %w", dest, err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	keys := make([]string, 0, len(p.Entries))
	for k := range p.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, err := p.Entries[key].Render(e.reg)
		if err != nil {
			diag.ReportWarning(rep, diag.EngPatchSkipped, origin,
				fmt.Sprintf("entry %q: %v", key, err))
			continue
		}
		doc[key] = value
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, buf.Bytes(), 0o644)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
