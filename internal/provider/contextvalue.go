package provider

import (
	"slices"

	"quilt/internal/token"
)

// ContextValue reads one key from the evaluation context. It becomes
// ready once the key has appeared; an optional allowed set bounds the
// values and drives validation.
type ContextValue struct {
	name    string
	key     string
	allowed []string

	ready  bool
	values []string
	errs   []string
}

// NewContextValue creates a context-backed provider. key is the context
// key to read; allowed, when non-empty, is the complete legal value set.
func NewContextValue(name, key string, allowed ...string) *ContextValue {
	return &ContextValue{name: name, key: key, allowed: append([]string(nil), allowed...)}
}

func (c *ContextValue) Name() string        { return c.name }
func (c *ContextValue) IsMutable() bool     { return true }
func (c *ContextValue) IsReady() bool       { return c.ready }
func (c *ContextValue) AllowsInput() bool   { return false }
func (c *ContextValue) RequiresInput() bool { return false }

func (c *ContextValue) CanHaveMultipleValues(token.Input) bool { return true }

// UpdateContext pulls the key's current values and reports whether they
// differ from the previous update.
func (c *ContextValue) UpdateContext(ctx *token.Context) bool {
	values, ok := ctx.Lookup(c.key)
	c.errs = nil
	if ok && len(c.allowed) > 0 {
		for _, v := range values {
			if !containsFold(c.allowed, v) {
				c.errs = append(c.errs, "context value "+v+" is not in the allowed set for "+c.name)
			}
		}
	}
	changed := c.ready != ok || !slices.Equal(c.values, values)
	c.ready = ok
	c.values = append(c.values[:0], values...)
	return changed
}

func (c *ContextValue) TokensUsed() []string { return nil }

func (c *ContextValue) State() token.State {
	return token.State{Ready: c.ready, Errors: append([]string(nil), c.errs...)}
}

func (c *ContextValue) ValidateInput(in token.Input) error { return rejectInput(c.name, in) }

func (c *ContextValue) ValidateValues(_ token.Input, values []string) error {
	if len(c.allowed) == 0 {
		return nil
	}
	return validateAgainstSet(c.name, c.allowed, values)
}

func (c *ContextValue) ValidInputs() []string { return nil }

func (c *ContextValue) BoundedValues(token.Input) ([]string, bool) {
	if len(c.allowed) == 0 {
		return nil, false
	}
	return append([]string(nil), c.allowed...), true
}

func (c *ContextValue) BoundedRangeValues(token.Input) (int, int, bool) { return 0, 0, false }

func (c *ContextValue) Values(token.Input) []string {
	return append([]string(nil), c.values...)
}
