package diag

import "testing"

func TestBag_AddRespectsLimit(t *testing.T) {
	b := NewBag(2)

	if ok := b.Add(Diagnostic{Severity: SevError, Code: TokUnknownToken}); !ok {
		t.Fatalf("first Add should succeed")
	}
	if ok := b.Add(Diagnostic{Severity: SevWarning, Code: PackInvalidPatch}); !ok {
		t.Fatalf("second Add should succeed")
	}
	if ok := b.Add(Diagnostic{Severity: SevError, Code: CondUnknownToken}); ok {
		t.Errorf("Add beyond capacity should report false")
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
}

func TestBag_HasErrorsAndWarnings(t *testing.T) {
	b := NewBag(10)
	if b.HasErrors() || b.HasWarnings() {
		t.Fatalf("empty bag should have no errors or warnings")
	}

	b.Add(Diagnostic{Severity: SevInfo, Code: EngInfo})
	if b.HasErrors() || b.HasWarnings() {
		t.Errorf("info-only bag should have no errors or warnings")
	}

	b.Add(Diagnostic{Severity: SevWarning, Code: EngPatchSkipped})
	if b.HasErrors() {
		t.Errorf("bag with warning should not report errors")
	}
	if !b.HasWarnings() {
		t.Errorf("bag with warning should report warnings")
	}

	b.Add(Diagnostic{Severity: SevError, Code: TokUnknownToken})
	if !b.HasErrors() {
		t.Errorf("bag with error should report errors")
	}
}

func TestBag_SortAndDedup(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{Severity: SevWarning, Code: PackInvalidPatch, Origin: Origin{Path: "b/quilt.toml", Field: "patches[0]"}})
	b.Add(Diagnostic{Severity: SevError, Code: TokUnknownToken, Origin: Origin{Path: "a/quilt.toml", Field: "tokens.Mood"}})
	b.Add(Diagnostic{Severity: SevError, Code: TokUnknownToken, Origin: Origin{Path: "a/quilt.toml", Field: "tokens.Mood"}})

	b.Sort()
	b.Dedup()

	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("after Dedup len = %d, want 2", len(items))
	}
	if items[0].Origin.Path != "a/quilt.toml" {
		t.Errorf("sorted first origin = %q, want a/quilt.toml", items[0].Origin.Path)
	}
}

func TestBag_MergeGrowsCapacity(t *testing.T) {
	a := NewBag(1)
	a.Add(Diagnostic{Severity: SevError, Code: TokUnknownToken})

	other := NewBag(2)
	other.Add(Diagnostic{Severity: SevWarning, Code: EngPatchSkipped})
	other.Add(Diagnostic{Severity: SevInfo, Code: EngInfo})

	a.Merge(other)
	if a.Len() != 3 {
		t.Errorf("merged Len() = %d, want 3", a.Len())
	}
	if a.Cap() < 3 {
		t.Errorf("merged Cap() = %d, want >= 3", a.Cap())
	}
}

func TestOrigin_String(t *testing.T) {
	tests := []struct {
		origin Origin
		want   string
	}{
		{Origin{}, ""},
		{Origin{Path: "quilt.toml"}, "quilt.toml"},
		{Origin{Field: "patches[1].when"}, "(patches[1].when)"},
		{Origin{Path: "quilt.toml", Field: "pack.name"}, "quilt.toml (pack.name)"},
	}
	for _, tc := range tests {
		if got := tc.origin.String(); got != tc.want {
			t.Errorf("Origin%+v.String() = %q, want %q", tc.origin, got, tc.want)
		}
	}
}
