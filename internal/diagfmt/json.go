package diagfmt

import (
	"encoding/json"
	"io"

	"quilt/internal/diag"
)

// OriginJSON locates a diagnostic inside a manifest or context file.
type OriginJSON struct {
	Path  string `json:"path,omitempty"`
	Field string `json:"field,omitempty"`
}

// NoteJSON is an attached note.
type NoteJSON struct {
	Message string     `json:"message"`
	Origin  OriginJSON `json:"origin,omitempty"`
}

// DiagnosticJSON is one diagnostic in machine-readable form.
type DiagnosticJSON struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	Origin   OriginJSON `json:"origin,omitempty"`
	Notes    []NoteJSON `json:"notes,omitempty"`
}

// DiagnosticsOutput is the JSON document root.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// BuildDiagnosticsOutput converts a bag without serializing it.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	max := len(items)
	if opts.Max > 0 && opts.Max < max {
		max = opts.Max
	}

	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, max)}
	for i := range max {
		d := items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Origin:   OriginJSON{Path: d.Origin.Path, Field: d.Origin.Field},
		}
		if opts.IncludeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				dj.Notes[j] = NoteJSON{
					Message: note.Msg,
					Origin:  OriginJSON{Path: note.Origin.Path, Field: note.Origin.Field},
				}
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes the bag as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, opts))
}
