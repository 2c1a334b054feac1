// Package condition evaluates token-based conditions: a condition names
// a token (with optional input) and the values that satisfy it; a Set
// holds when all of its conditions hold.
package condition

import (
	"fmt"
	"sort"
	"strings"

	"quilt/internal/diag"
	"quilt/internal/token"
)

// Condition requires a token's current values to intersect Values.
type Condition struct {
	Name   string // qualified token name
	Input  token.Input
	Values []string
}

// Key renders the condition's left-hand side, "Name:input" when an input
// argument is present.
func (c Condition) Key() string {
	if c.Input.HasValue() {
		return c.Name + ":" + c.Input.Raw()
	}
	return c.Name
}

// Matches reports whether the token's current values intersect the wanted
// values, ignoring case. An unready token never matches; that is not an
// error.
func (c Condition) Matches(reg *token.Registry) (bool, error) {
	tok, ok := reg.Get(c.Name)
	if !ok {
		return false, fmt.Errorf("condition references unknown token %q", c.Name)
	}
	if !tok.IsReady() {
		return false, nil
	}
	current, err := tok.Values(c.Input)
	if err != nil {
		return false, fmt.Errorf("condition %q: %w", c.Key(), err)
	}
	for _, have := range current {
		for _, want := range c.Values {
			if strings.EqualFold(have, want) {
				return true, nil
			}
		}
	}
	return false, nil
}

// Set is a conjunction of conditions.
type Set []Condition

// Matches reports whether every condition in the set holds.
func (s Set) Matches(reg *token.Registry) (bool, error) {
	for _, c := range s {
		ok, err := c.Matches(reg)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// TokensUsed returns the unique token names the set reads, sorted.
func (s Set) TokensUsed() []string {
	uniq := make(map[string]string, len(s))
	for _, c := range s {
		key := strings.ToLower(c.Name)
		if _, ok := uniq[key]; !ok {
			uniq[key] = c.Name
		}
	}
	out := make([]string, 0, len(uniq))
	for _, name := range uniq {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Validate checks every condition against the registry, reporting
// unknown tokens, illegal inputs, and out-of-bounds values. Returns true
// when the whole set is valid.
func (s Set) Validate(reg *token.Registry, origin diag.Origin, rep diag.Reporter) bool {
	valid := true
	for _, c := range s {
		tok, ok := reg.Get(c.Name)
		if !ok {
			diag.ReportError(rep, diag.CondUnknownToken, origin,
				fmt.Sprintf("condition references unknown token %q", c.Name))
			valid = false
			continue
		}
		if len(c.Values) == 0 {
			diag.ReportError(rep, diag.CondEmptyValues, origin,
				fmt.Sprintf("condition %q has no values", c.Key()))
			valid = false
			continue
		}
		// Input legality first, then candidate values; one error per
		// condition, matching the adapter's short-circuit contract.
		if !tok.AllowsInput() && c.Input.HasValue() {
			diag.ReportError(rep, diag.CondInvalidInput, origin,
				fmt.Sprintf("condition %q: token %q does not accept an input argument", c.Key(), c.Name))
			valid = false
			continue
		}
		if tok.RequiresInput() && !c.Input.HasValue() {
			diag.ReportError(rep, diag.CondInvalidInput, origin,
				fmt.Sprintf("condition %q: token %q requires an input argument", c.Key(), c.Name))
			valid = false
			continue
		}
		if err := tok.ValidateValues(c.Input, c.Values); err != nil {
			diag.ReportError(rep, diag.CondInvalidValue, origin,
				fmt.Sprintf("condition %q: %v", c.Key(), err))
			valid = false
		}
	}
	return valid
}
