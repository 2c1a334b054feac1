package pack

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"quilt/internal/diag"
)

// Result holds the outcome of loading one pack directory.
type Result struct {
	Dir      string    // pack directory
	Manifest *Manifest // nil when the manifest failed to parse
	Bag      *diag.Bag // diagnostics for this pack
}

// Name returns the declared pack name, or the directory when unknown.
func (r Result) Name() string {
	if r.Manifest != nil {
		return r.Manifest.Pack.Name
	}
	return r.Dir
}

// Discover returns every directory under roots carrying a quilt.toml,
// sorted for deterministic load order. A root that is itself a pack
// counts too.
func Discover(roots []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]struct{})
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || d.Name() != ManifestName {
				return nil
			}
			dir := filepath.Dir(path)
			if _, dup := seen[dir]; !dup {
				seen[dir] = struct{}{}
				dirs = append(dirs, dir)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// LoadAll loads every pack directory in parallel. Each pack gets its own
// diagnostic bag; parse failures become diagnostics, not errors. The
// returned error is reserved for cancellation.
func LoadAll(ctx context.Context, dirs []string, maxDiagnostics, jobs int, sink ProgressSink) ([]Result, error) {
	if sink == nil {
		sink = NopSink{}
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if len(dirs) == 0 {
		return nil, nil
	}

	// Result indexes are unique per goroutine, no mutex needed.
	results := make([]Result, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(dirs)))

	for i, dir := range dirs {
		sink.OnEvent(Event{Pack: dir, Stage: StageManifest, Status: StatusQueued})
		g.Go(func(i int, dir string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				started := time.Now()
				sink.OnEvent(Event{Pack: dir, Stage: StageManifest, Status: StatusWorking})

				bag := diag.NewBag(maxDiagnostics)
				result := Result{Dir: dir, Bag: bag}

				manifestPath := filepath.Join(dir, ManifestName)
				if _, err := os.Stat(manifestPath); err != nil {
					bag.Add(diag.Diagnostic{
						Severity: diag.SevError,
						Code:     diag.IOLoadFileError,
						Message:  "failed to load manifest: " + err.Error(),
						Origin:   diag.Origin{Path: manifestPath},
					})
					results[i] = result
					sink.OnEvent(Event{Pack: dir, Stage: StageManifest, Status: StatusError, Err: err, Elapsed: time.Since(started)})
					return nil
				}

				manifest, err := LoadManifest(manifestPath)
				if err != nil {
					bag.Add(diag.Diagnostic{
						Severity: diag.SevError,
						Code:     diag.PackInvalidManifest,
						Message:  err.Error(),
						Origin:   diag.Origin{Path: manifestPath},
					})
					results[i] = result
					sink.OnEvent(Event{Pack: dir, Stage: StageManifest, Status: StatusError, Err: err, Elapsed: time.Since(started)})
					return nil
				}
				result.Manifest = manifest

				sink.OnEvent(Event{Pack: dir, Stage: StagePatches, Status: StatusWorking})
				manifest.Validate(diag.BagReporter{Bag: bag})

				results[i] = result
				status := StatusDone
				if bag.HasErrors() {
					status = StatusError
				}
				sink.OnEvent(Event{Pack: dir, Stage: StagePatches, Status: status, Elapsed: time.Since(started)})
				return nil
			}
		}(i, dir))
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	// Duplicate pack names break scoped token resolution; report on the
	// later pack.
	seen := make(map[string]string)
	for _, r := range results {
		if r.Manifest == nil {
			continue
		}
		name := r.Manifest.Pack.Name
		if prev, dup := seen[name]; dup {
			r.Bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.PackDuplicateName,
				Message:  "pack name " + name + " is already used by " + prev,
				Origin:   diag.Origin{Path: r.Manifest.Path, Field: "pack.name"},
			})
			continue
		}
		seen[name] = r.Dir
	}

	return results, nil
}
