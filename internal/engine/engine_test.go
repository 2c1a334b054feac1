package engine

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/BurntSushi/toml"

	"quilt/internal/diag"
	"quilt/internal/pack"
	"quilt/internal/token"
)

func seasonsPack(t *testing.T) pack.Result {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	asset := filepath.Join(dir, "assets", "objects.toml")
	if err := os.WriteFile(asset, []byte("flavor = \"plain\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m := &pack.Manifest{
		Pack: pack.Meta{Name: "acme.seasons"},
		Tokens: map[string]pack.TokenDef{
			"Mood": {Entries: []pack.TokenEntry{
				{Value: "Gloomy", When: map[string]string{"Season": "Winter"}},
				{Value: "Cheerful"},
			}},
		},
		Patches: []pack.PatchDef{
			{
				Action: pack.ActionLoad,
				Target: "data/objects.toml",
				File:   "assets/objects.toml",
			},
			{
				Action:   pack.ActionEdit,
				Target:   "data/objects.toml",
				Entries:  map[string]string{"greeting": "Happy {{Season}}!", "mood": "{{acme.seasons/Mood}}"},
				When:     map[string]string{"Season": "Spring, Summer"},
				Priority: 1,
			},
		},
		Path: filepath.Join(dir, pack.ManifestName),
		Dir:  dir,
	}
	return pack.Result{Dir: dir, Manifest: m, Bag: diag.NewBag(16)}
}

func buildEngine(t *testing.T, results ...pack.Result) (*Engine, *diag.Bag) {
	t.Helper()
	reg, err := StandardRegistry()
	if err != nil {
		t.Fatalf("StandardRegistry: %v", err)
	}
	bag := diag.NewBag(64)
	e, ok := Build(reg, results, diag.BagReporter{Bag: bag})
	if !ok {
		t.Fatalf("Build failed: %v", bag.Items())
	}
	return e, bag
}

func TestStandardRegistry(t *testing.T) {
	reg, err := StandardRegistry()
	if err != nil {
		t.Fatalf("StandardRegistry: %v", err)
	}
	for _, name := range []string{"Season", "Weather", "Day", "Lowercase", "Uppercase"} {
		if _, ok := reg.Get(name); !ok {
			t.Errorf("standard token %q missing", name)
		}
	}
	day, _ := reg.Get("Day")
	minDay, maxDay, ok := day.BoundedRangeValues(token.Input{})
	if !ok || minDay != 1 || maxDay != DayMax {
		t.Errorf("Day bounds = %d..%d, %v", minDay, maxDay, ok)
	}
}

func TestBuild_PackTokensAndOrder(t *testing.T) {
	e, _ := buildEngine(t, seasonsPack(t))

	mood, ok := e.Registry().Get("acme.seasons/Mood")
	if !ok {
		t.Fatalf("pack token not registered: %v", e.Registry().Names())
	}
	if mood.Scope() != "acme.seasons" || mood.Name() != "Mood" {
		t.Errorf("identity = %q/%q", mood.Scope(), mood.Name())
	}

	order := e.UpdateOrder()
	season := slices.Index(order, "Season")
	moodAt := slices.Index(order, "acme.seasons/Mood")
	if season < 0 || moodAt < 0 || season > moodAt {
		t.Errorf("update order should run Season before Mood: %v", order)
	}
}

func TestBuild_DuplicatePackToken(t *testing.T) {
	a := seasonsPack(t)
	b := seasonsPack(t)
	b.Manifest.Patches = nil // keep only the token clash

	reg, err := StandardRegistry()
	if err != nil {
		t.Fatalf("StandardRegistry: %v", err)
	}
	bag := diag.NewBag(64)
	_, ok := Build(reg, []pack.Result{a, b}, diag.BagReporter{Bag: bag})
	if ok {
		t.Fatalf("duplicate scoped token should fail the build")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.TokDuplicateToken {
			found = true
		}
	}
	if !found {
		t.Errorf("expected TokDuplicateToken, got %v", bag.Items())
	}
}

func TestBuild_InvalidPatchDropped(t *testing.T) {
	r := seasonsPack(t)
	r.Manifest.Patches = append(r.Manifest.Patches, pack.PatchDef{
		Action: pack.ActionEdit,
		Target: "data/{{Ghost}}.toml",
		Entries: map[string]string{
			"x": "y",
		},
	})

	reg, err := StandardRegistry()
	if err != nil {
		t.Fatalf("StandardRegistry: %v", err)
	}
	bag := diag.NewBag(64)
	e, ok := Build(reg, []pack.Result{r}, diag.BagReporter{Bag: bag})
	if ok {
		t.Fatalf("unknown token in target should fail the build")
	}
	if got := len(e.Patches()); got != 2 {
		t.Errorf("valid patches = %d, want 2", got)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.TplUnknownToken {
			found = true
		}
	}
	if !found {
		t.Errorf("expected TplUnknownToken, got %v", bag.Items())
	}
}

func TestUpdateContext_PropagatesInOrder(t *testing.T) {
	e, _ := buildEngine(t, seasonsPack(t))

	ctx := token.NewContext()
	ctx.Set("season", "Winter")
	changed := e.UpdateContext(ctx)
	if !slices.Contains(changed, "Season") || !slices.Contains(changed, "acme.seasons/Mood") {
		t.Fatalf("changed = %v", changed)
	}

	mood, _ := e.Registry().Get("acme.seasons/Mood")
	values, err := mood.Values(token.Input{})
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if len(values) != 1 || values[0] != "Gloomy" {
		t.Errorf("winter mood = %v", values)
	}

	// Same context again: nothing changes.
	if changed := e.UpdateContext(ctx); len(changed) != 0 {
		t.Errorf("no-op update reported changes: %v", changed)
	}

	ctx.Set("season", "Spring")
	changed = e.UpdateContext(ctx)
	if !slices.Contains(changed, "acme.seasons/Mood") {
		t.Errorf("season flip should change the dependent token: %v", changed)
	}
	values, _ = mood.Values(token.Input{})
	if len(values) != 1 || values[0] != "Cheerful" {
		t.Errorf("spring mood = %v", values)
	}
}

func TestApply(t *testing.T) {
	e, _ := buildEngine(t, seasonsPack(t))

	ctx := token.NewContext()
	ctx.Set("season", "Spring")
	e.UpdateContext(ctx)

	out := t.TempDir()
	bag := diag.NewBag(64)
	res, err := e.Apply(out, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if res.Loaded != 1 || res.Edited != 1 || res.Skipped != 0 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Written) != 1 || res.Written[0] != "data/objects.toml" {
		t.Errorf("written = %v", res.Written)
	}

	var doc map[string]any
	if _, err := toml.DecodeFile(filepath.Join(out, "data", "objects.toml"), &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if doc["flavor"] != "plain" {
		t.Errorf("loaded content lost: %v", doc)
	}
	if doc["greeting"] != "Happy Spring!" {
		t.Errorf("greeting = %v", doc["greeting"])
	}
	if doc["mood"] != "Cheerful" {
		t.Errorf("mood = %v", doc["mood"])
	}
}

func TestApply_SkipsUnmatched(t *testing.T) {
	e, _ := buildEngine(t, seasonsPack(t))

	ctx := token.NewContext()
	ctx.Set("season", "Winter") // edit patch wants Spring or Summer
	e.UpdateContext(ctx)

	out := t.TempDir()
	bag := diag.NewBag(64)
	res, err := e.Apply(out, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Loaded != 1 || res.Edited != 0 || res.Skipped != 1 {
		t.Errorf("result = %+v", res)
	}
	skipped := 0
	for _, d := range bag.Items() {
		if d.Code == diag.EngPatchSkipped && d.Severity == diag.SevInfo {
			skipped++
		}
	}
	if skipped != 1 {
		t.Errorf("skip diagnostics = %d, want 1", skipped)
	}
}

func TestApply_TargetClash(t *testing.T) {
	a := seasonsPack(t)
	b := seasonsPack(t)
	b.Manifest.Pack.Name = "acme.other"
	b.Manifest.Tokens = nil
	b.Manifest.Patches = b.Manifest.Patches[:1] // just the load

	e, _ := buildEngine(t, a, b)
	ctx := token.NewContext()
	ctx.Set("season", "Spring")
	e.UpdateContext(ctx)

	out := t.TempDir()
	bag := diag.NewBag(64)
	res, err := e.Apply(out, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Loaded != 1 {
		t.Errorf("exactly one load should win, got %d", res.Loaded)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.EngTargetClash {
			found = true
		}
	}
	if !found {
		t.Errorf("expected EngTargetClash, got %v", bag.Items())
	}
}

func TestDiskCache(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	manifest := filepath.Join(t.TempDir(), "quilt.toml")
	if err := os.WriteFile(manifest, []byte("[pack]\nname = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	key, err := DigestFile(manifest)
	if err != nil {
		t.Fatalf("DigestFile: %v", err)
	}

	var miss CachePayload
	if hit, err := cache.Get(key, &miss); err != nil || hit {
		t.Fatalf("empty cache should miss: hit=%v err=%v", hit, err)
	}

	in := CachePayload{Pack: "x", ManifestPath: manifest, Valid: true, CheckedAt: 1756166400}
	if err := cache.Put(key, &in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var out CachePayload
	hit, err := cache.Get(key, &out)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if out.Pack != "x" || !out.Valid || out.Schema != cacheSchemaVersion {
		t.Errorf("payload = %+v", out)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if hit, _ := cache.Get(key, &out); hit {
		t.Errorf("dropped cache should miss")
	}
}
