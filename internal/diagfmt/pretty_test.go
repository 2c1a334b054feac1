package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"quilt/internal/diag"
)

func testBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.CondUnknownToken,
		Message:  "condition references unknown token \"Ghost\"",
		Origin:   diag.Origin{Path: "quilt.toml", Field: "patches[2].when"},
	})
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.EngPatchSkipped,
		Message:  "entry rendering failed",
		Notes:    []diag.Note{{Msg: "token \"Weather\" is not ready"}},
	})
	return bag
}

func TestPretty(t *testing.T) {
	var b strings.Builder
	Pretty(&b, testBag(), PrettyOpts{})
	out := b.String()

	if !strings.Contains(out, "ERROR [CND2001] quilt.toml (patches[2].when): condition references unknown token") {
		t.Errorf("unexpected first line:\n%s", out)
	}
	if !strings.Contains(out, "note: token \"Weather\" is not ready") {
		t.Errorf("note missing:\n%s", out)
	}
}

func TestPretty_Max(t *testing.T) {
	var b strings.Builder
	Pretty(&b, testBag(), PrettyOpts{Max: 1})
	out := b.String()
	if !strings.Contains(out, "... and 1 more") {
		t.Errorf("truncation marker missing:\n%s", out)
	}
}

func TestJSON(t *testing.T) {
	var b strings.Builder
	if err := JSON(&b, testBag(), JSONOpts{IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal([]byte(b.String()), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "CND2001" || first.Severity != "ERROR" || first.Origin.Field != "patches[2].when" {
		t.Errorf("first = %+v", first)
	}
	if len(out.Diagnostics[1].Notes) != 1 {
		t.Errorf("notes lost: %+v", out.Diagnostics[1])
	}
}
