package token

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Input is a token's input argument in normalized form.
//
// Construction applies NFC normalization and trims surrounding space, so
// any representation that normalizes to nothing counts as absent input.
// The zero value is the absent input.
type Input struct {
	raw string
}

// NewInput normalizes a raw argument string into an Input.
func NewInput(raw string) Input {
	return Input{raw: strings.TrimSpace(norm.NFC.String(raw))}
}

// Raw returns the normalized argument text.
func (in Input) Raw() string { return in.raw }

// HasValue reports whether the input carries anything meaningful.
func (in Input) HasValue() bool { return in.raw != "" }

// Positional returns the comma-separated segments of the argument,
// trimmed, with empty segments dropped.
func (in Input) Positional() []string {
	if in.raw == "" {
		return nil
	}
	parts := strings.Split(in.raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (in Input) String() string { return in.raw }
