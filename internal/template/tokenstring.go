// Package template parses and renders token strings: literal text with
// embedded `{{Name}}` or `{{Name:input}}` placeholders resolved through
// the token registry.
package template

import (
	"fmt"
	"sort"
	"strings"

	"quilt/internal/diag"
	"quilt/internal/token"
)

type partKind uint8

const (
	partLiteral partKind = iota
	partPlaceholder
)

type part struct {
	kind  partKind
	text  string // literal text
	name  string // placeholder token name
	input token.Input
}

// TokenString is a parsed token string.
type TokenString struct {
	raw   string
	parts []part
}

const (
	openMarker  = "{{"
	closeMarker = "}}"
)

// Parse scans raw into literal and placeholder parts. Placeholders do
// not nest; `{{A:{{B}}}}` is rejected rather than resolved inside-out.
func Parse(raw string) (*TokenString, error) {
	ts := &TokenString{raw: raw}
	rest := raw
	for {
		open := strings.Index(rest, openMarker)
		if open < 0 {
			if rest != "" {
				ts.parts = append(ts.parts, part{kind: partLiteral, text: rest})
			}
			return ts, nil
		}
		if open > 0 {
			ts.parts = append(ts.parts, part{kind: partLiteral, text: rest[:open]})
		}
		rest = rest[open+len(openMarker):]

		closing := strings.Index(rest, closeMarker)
		if closing < 0 {
			return nil, fmt.Errorf("unclosed placeholder in %q", raw)
		}
		body := rest[:closing]
		if strings.Contains(body, openMarker) {
			return nil, fmt.Errorf("nested placeholder in %q", raw)
		}
		rest = rest[closing+len(closeMarker):]

		name := body
		var input token.Input
		if sep := strings.Index(body, ":"); sep >= 0 {
			name = body[:sep]
			input = token.NewInput(body[sep+1:])
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("empty placeholder in %q", raw)
		}
		ts.parts = append(ts.parts, part{kind: partPlaceholder, name: name, input: input})
	}
}

// Raw returns the original text.
func (ts *TokenString) Raw() string { return ts.raw }

// HasPlaceholders reports whether the string references any token.
func (ts *TokenString) HasPlaceholders() bool {
	for _, p := range ts.parts {
		if p.kind == partPlaceholder {
			return true
		}
	}
	return false
}

// TokensUsed returns the unique token names referenced, sorted.
func (ts *TokenString) TokensUsed() []string {
	uniq := make(map[string]string)
	for _, p := range ts.parts {
		if p.kind != partPlaceholder {
			continue
		}
		key := strings.ToLower(p.name)
		if _, ok := uniq[key]; !ok {
			uniq[key] = p.name
		}
	}
	out := make([]string, 0, len(uniq))
	for _, name := range uniq {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsMutable reports whether any referenced token is mutable. Unknown
// tokens count as mutable: their shape cannot be trusted yet.
func (ts *TokenString) IsMutable(reg *token.Registry) bool {
	for _, p := range ts.parts {
		if p.kind != partPlaceholder {
			continue
		}
		tok, ok := reg.Get(p.name)
		if !ok || tok.IsMutable() {
			return true
		}
	}
	return false
}

// IsReady reports whether every referenced token is ready.
func (ts *TokenString) IsReady(reg *token.Registry) bool {
	for _, p := range ts.parts {
		if p.kind != partPlaceholder {
			continue
		}
		tok, ok := reg.Get(p.name)
		if !ok || !tok.IsReady() {
			return false
		}
	}
	return true
}

// Validate checks every placeholder against the registry: the token must
// exist and the input argument must be legal and valid.
func (ts *TokenString) Validate(reg *token.Registry, origin diag.Origin, rep diag.Reporter) bool {
	valid := true
	for _, p := range ts.parts {
		if p.kind != partPlaceholder {
			continue
		}
		tok, ok := reg.Get(p.name)
		if !ok {
			diag.ReportError(rep, diag.TplUnknownToken, origin,
				fmt.Sprintf("token string %q references unknown token %q", ts.raw, p.name))
			valid = false
			continue
		}
		if !tok.AllowsInput() && p.input.HasValue() {
			diag.ReportError(rep, diag.TplInvalidInput, origin,
				fmt.Sprintf("token %q does not accept an input argument (got %q)", p.name, p.input.Raw()))
			valid = false
			continue
		}
		if tok.RequiresInput() && !p.input.HasValue() {
			diag.ReportError(rep, diag.TplInvalidInput, origin,
				fmt.Sprintf("token %q requires an input argument", p.name))
			valid = false
			continue
		}
		if err := tok.ValidateInput(p.input); err != nil {
			diag.ReportError(rep, diag.TplInvalidInput, origin, err.Error())
			valid = false
		}
	}
	return valid
}

// Render resolves every placeholder against the registry. Multi-valued
// tokens render as their sorted values joined with ", ". Rendering an
// unknown or unready token is an error naming it.
func (ts *TokenString) Render(reg *token.Registry) (string, error) {
	var b strings.Builder
	for _, p := range ts.parts {
		switch p.kind {
		case partLiteral:
			b.WriteString(p.text)
		case partPlaceholder:
			tok, ok := reg.Get(p.name)
			if !ok {
				return "", fmt.Errorf("unknown token %q in %q", p.name, ts.raw)
			}
			if !tok.IsReady() {
				return "", fmt.Errorf("token %q is not ready in the current context", tok.QualifiedName())
			}
			values, err := tok.Values(p.input)
			if err != nil {
				return "", err
			}
			if len(values) > 1 {
				sorted := append([]string(nil), values...)
				sort.Strings(sorted)
				b.WriteString(strings.Join(sorted, ", "))
			} else if len(values) == 1 {
				b.WriteString(values[0])
			}
		}
	}
	return b.String(), nil
}
