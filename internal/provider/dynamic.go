package provider

import (
	"slices"
	"sort"
	"strings"

	"quilt/internal/condition"
	"quilt/internal/token"
)

// DynamicEntry is one candidate value set for a dynamic token, guarded by
// a condition set.
type DynamicEntry struct {
	Values []string
	When   condition.Set
}

// Dynamic is a content-author token: on every context update it takes the
// values of the first entry whose conditions match. Dependency ordering
// guarantees the tokens its conditions read were updated first.
type Dynamic struct {
	name    string
	entries []DynamicEntry
	reg     *token.Registry

	ready   bool
	current []string
	errs    []string
}

// NewDynamic creates a dynamic token over the given registry.
func NewDynamic(name string, reg *token.Registry, entries []DynamicEntry) *Dynamic {
	return &Dynamic{name: name, reg: reg, entries: append([]DynamicEntry(nil), entries...)}
}

func (d *Dynamic) Name() string        { return d.name }
func (d *Dynamic) IsMutable() bool     { return true }
func (d *Dynamic) IsReady() bool       { return d.ready }
func (d *Dynamic) AllowsInput() bool   { return false }
func (d *Dynamic) RequiresInput() bool { return false }

func (d *Dynamic) CanHaveMultipleValues(token.Input) bool {
	for _, e := range d.entries {
		if len(e.Values) > 1 {
			return true
		}
	}
	return false
}

// UpdateContext re-selects the first matching entry.
func (d *Dynamic) UpdateContext(*token.Context) bool {
	d.errs = nil
	var selected []string
	matched := false
	for _, e := range d.entries {
		ok, err := e.When.Matches(d.reg)
		if err != nil {
			d.errs = append(d.errs, err.Error())
			continue
		}
		if ok {
			selected = e.Values
			matched = true
			break
		}
	}

	changed := d.ready != matched || !slices.Equal(d.current, selected)
	d.ready = matched
	d.current = append(d.current[:0], selected...)
	return changed
}

// TokensUsed is the union of the tokens read by the entries' conditions.
func (d *Dynamic) TokensUsed() []string {
	uniq := make(map[string]string)
	for _, e := range d.entries {
		for _, name := range e.When.TokensUsed() {
			key := strings.ToLower(name)
			if _, ok := uniq[key]; !ok {
				uniq[key] = name
			}
		}
	}
	out := make([]string, 0, len(uniq))
	for _, name := range uniq {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (d *Dynamic) State() token.State {
	return token.State{Ready: d.ready, Errors: append([]string(nil), d.errs...)}
}

func (d *Dynamic) ValidateInput(in token.Input) error { return rejectInput(d.name, in) }

// ValidateValues accepts anything: the full value universe of a dynamic
// token is the union of its entries, which is bounded but not a
// validation constraint on conditions written against it.
func (d *Dynamic) ValidateValues(token.Input, []string) error { return nil }

func (d *Dynamic) ValidInputs() []string { return nil }

// BoundedValues enumerates the union of all entry values.
func (d *Dynamic) BoundedValues(token.Input) ([]string, bool) {
	uniq := make(map[string]string)
	for _, e := range d.entries {
		for _, v := range e.Values {
			key := strings.ToLower(v)
			if _, ok := uniq[key]; !ok {
				uniq[key] = v
			}
		}
	}
	out := make([]string, 0, len(uniq))
	for _, v := range uniq {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, true
}

func (d *Dynamic) BoundedRangeValues(token.Input) (int, int, bool) { return 0, 0, false }

func (d *Dynamic) Values(token.Input) []string {
	return append([]string(nil), d.current...)
}
