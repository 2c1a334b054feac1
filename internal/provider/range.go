package provider

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"quilt/internal/token"
)

// Range is a mutable integer provider with inclusive bounds, fed from a
// context key. It reports a bounded range, never a bounded value set.
type Range struct {
	name string
	key  string
	min  int
	max  int

	ready bool
	value int
	errs  []string
}

// NewRange creates a range provider with inclusive bounds.
func NewRange(name, key string, min, max int) (*Range, error) {
	if min > max {
		return nil, fmt.Errorf("range token %q: min %d > max %d", name, min, max)
	}
	return &Range{name: name, key: key, min: min, max: max}, nil
}

func (r *Range) Name() string        { return r.name }
func (r *Range) IsMutable() bool     { return true }
func (r *Range) IsReady() bool       { return r.ready }
func (r *Range) AllowsInput() bool   { return false }
func (r *Range) RequiresInput() bool { return false }

func (r *Range) CanHaveMultipleValues(token.Input) bool { return false }

// UpdateContext parses the key's value as an integer within bounds.
// Malformed or out-of-range values leave the token unready with the
// failure recorded in its diagnostic state.
func (r *Range) UpdateContext(ctx *token.Context) bool {
	raw, ok := ctx.Lookup(r.key)
	r.errs = nil
	if !ok || len(raw) == 0 {
		changed := r.ready
		r.ready = false
		return changed
	}

	parsed, err := strconv.ParseInt(raw[0], 10, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("context value %q for %s is not an integer", raw[0], r.name))
		changed := r.ready
		r.ready = false
		return changed
	}
	value, err := safecast.Conv[int](parsed)
	if err != nil || value < r.min || value > r.max {
		r.errs = append(r.errs, fmt.Sprintf("context value %q for %s is outside [%d, %d]", raw[0], r.name, r.min, r.max))
		changed := r.ready
		r.ready = false
		return changed
	}

	changed := !r.ready || r.value != value
	r.ready = true
	r.value = value
	return changed
}

func (r *Range) TokensUsed() []string { return nil }

func (r *Range) State() token.State {
	return token.State{Ready: r.ready, Errors: append([]string(nil), r.errs...)}
}

func (r *Range) ValidateInput(in token.Input) error { return rejectInput(r.name, in) }

func (r *Range) ValidateValues(_ token.Input, values []string) error {
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%q is not a valid value for token %q: not an integer", v, r.name)
		}
		if n < r.min || n > r.max {
			return fmt.Errorf("%q is not a valid value for token %q: outside [%d, %d]", v, r.name, r.min, r.max)
		}
	}
	return nil
}

func (r *Range) ValidInputs() []string { return nil }

func (r *Range) BoundedValues(token.Input) ([]string, bool) { return nil, false }

func (r *Range) BoundedRangeValues(token.Input) (int, int, bool) { return r.min, r.max, true }

func (r *Range) Values(token.Input) []string {
	if !r.ready {
		return nil
	}
	return []string{strconv.Itoa(r.value)}
}
