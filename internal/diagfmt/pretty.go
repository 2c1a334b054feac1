package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"quilt/internal/diag"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	codeColor    = color.New(color.Faint)
	originColor  = color.New(color.FgWhite)
)

// Pretty writes one line per diagnostic, call bag.Sort() beforehand:
//
//	ERROR [TOK1001] quilt.toml (patches[2].when): message
//	  note: ...
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	items := bag.Items()
	max := len(items)
	if opts.Max > 0 && opts.Max < max {
		max = opts.Max
	}

	for i := range max {
		d := items[i]
		sev := d.Severity.String()
		code := "[" + d.Code.ID() + "]"
		origin := d.Origin.String()
		if opts.Color {
			sev = severityColor(d.Severity).Sprint(sev)
			code = codeColor.Sprint(code)
			origin = originColor.Sprint(origin)
		}
		if origin != "" {
			fmt.Fprintf(w, "%s %s %s: %s\n", sev, code, origin, d.Message)
		} else {
			fmt.Fprintf(w, "%s %s %s\n", sev, code, d.Message)
		}
		for _, note := range d.Notes {
			if note.Origin.Path != "" {
				fmt.Fprintf(w, "  note: %s: %s\n", note.Origin.String(), note.Msg)
			} else {
				fmt.Fprintf(w, "  note: %s\n", note.Msg)
			}
		}
	}

	if hidden := bag.Len() - max; hidden > 0 {
		fmt.Fprintf(w, "... and %d more\n", hidden)
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}
