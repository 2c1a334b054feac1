package provider

import (
	"fmt"
	"strings"

	"quilt/internal/token"
)

// Transform is a pure, input-required provider: its single value is a
// function of the input argument. Always ready, immutable.
type Transform struct {
	name string
	fn   func(string) string
}

// NewLowercase returns the Lowercase transform token.
func NewLowercase() *Transform {
	return &Transform{name: "Lowercase", fn: strings.ToLower}
}

// NewUppercase returns the Uppercase transform token.
func NewUppercase() *Transform {
	return &Transform{name: "Uppercase", fn: strings.ToUpper}
}

func (t *Transform) Name() string        { return t.name }
func (t *Transform) IsMutable() bool     { return false }
func (t *Transform) IsReady() bool       { return true }
func (t *Transform) AllowsInput() bool   { return true }
func (t *Transform) RequiresInput() bool { return true }

func (t *Transform) CanHaveMultipleValues(token.Input) bool { return false }

func (t *Transform) UpdateContext(*token.Context) bool { return false }

func (t *Transform) TokensUsed() []string { return nil }

func (t *Transform) State() token.State { return token.State{Ready: true} }

func (t *Transform) ValidateInput(in token.Input) error {
	if !in.HasValue() {
		return fmt.Errorf("token %q requires an input argument", t.name)
	}
	return nil
}

func (t *Transform) ValidateValues(token.Input, []string) error { return nil }

func (t *Transform) ValidInputs() []string { return nil }

func (t *Transform) BoundedValues(token.Input) ([]string, bool) { return nil, false }

func (t *Transform) BoundedRangeValues(token.Input) (int, int, bool) { return 0, 0, false }

func (t *Transform) Values(in token.Input) []string {
	return []string{t.fn(in.Raw())}
}
