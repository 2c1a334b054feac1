package provider

import (
	"quilt/internal/token"
)

// Static is an immutable provider with a fixed value set: always ready,
// no input, bounded by its own values.
type Static struct {
	name   string
	values []string
}

func NewStatic(name string, values ...string) *Static {
	return &Static{name: name, values: append([]string(nil), values...)}
}

func (s *Static) Name() string        { return s.name }
func (s *Static) IsMutable() bool     { return false }
func (s *Static) IsReady() bool       { return true }
func (s *Static) AllowsInput() bool   { return false }
func (s *Static) RequiresInput() bool { return false }

func (s *Static) CanHaveMultipleValues(token.Input) bool { return len(s.values) > 1 }

func (s *Static) UpdateContext(*token.Context) bool { return false }

func (s *Static) TokensUsed() []string { return nil }

func (s *Static) State() token.State { return token.State{Ready: true} }

func (s *Static) ValidateInput(in token.Input) error { return rejectInput(s.name, in) }

func (s *Static) ValidateValues(_ token.Input, values []string) error {
	return validateAgainstSet(s.name, s.values, values)
}

func (s *Static) ValidInputs() []string { return nil }

func (s *Static) BoundedValues(token.Input) ([]string, bool) {
	return append([]string(nil), s.values...), true
}

func (s *Static) BoundedRangeValues(token.Input) (int, int, bool) { return 0, 0, false }

func (s *Static) Values(token.Input) []string {
	return append([]string(nil), s.values...)
}
