package token

// ScopeSeparator joins a scope and a token name into a qualified name.
const ScopeSeparator = "/"

// Token adapts a ValueProvider to the uniform surface the engine consumes.
//
// Identity (name, scope) is fixed at construction. The adapter keeps no
// dynamic state: every query goes straight to the provider, so readiness
// and values are always the provider's current truth.
type Token struct {
	name     string
	scope    string
	provider ValueProvider
}

// New wraps a provider into a Token. scope may be empty for global
// tokens; nameOverride, when non-empty, replaces the provider's own name.
func New(p ValueProvider, scope, nameOverride string) *Token {
	name := nameOverride
	if name == "" {
		name = p.Name()
	}
	return &Token{name: name, scope: scope, provider: p}
}

// Name returns the token name without scope.
func (t *Token) Name() string { return t.name }

// Scope returns the optional namespace, "" for global tokens.
func (t *Token) Scope() string { return t.scope }

// QualifiedName returns "scope/name" for scoped tokens, the bare name
// otherwise.
func (t *Token) QualifiedName() string {
	if t.scope == "" {
		return t.name
	}
	return t.scope + ScopeSeparator + t.name
}

// IsMutable reports whether the token's values may change on context
// updates.
func (t *Token) IsMutable() bool { return t.provider.IsMutable() }

// IsReady reports whether the token is usable in the current context.
func (t *Token) IsReady() bool { return t.provider.IsReady() }

// AllowsInput reports whether an input argument may be supplied.
func (t *Token) AllowsInput() bool { return t.provider.AllowsInput() }

// RequiresInput reports whether an input argument must be supplied.
func (t *Token) RequiresInput() bool { return t.provider.RequiresInput() }

// CanHaveMultipleValues reports whether the input may yield more than one
// value.
func (t *Token) CanHaveMultipleValues(input Input) bool {
	return t.provider.CanHaveMultipleValues(input)
}

// UpdateContext forwards the context refresh to the provider and
// propagates its change report unchanged. The provider is the sole
// source of truth for change detection; the adapter compares nothing.
func (t *Token) UpdateContext(ctx *Context) bool {
	return t.provider.UpdateContext(ctx)
}

// TokensUsed lists the tokens this token reads, for dependency ordering.
func (t *Token) TokensUsed() []string { return t.provider.TokensUsed() }

// State returns the provider's diagnostic state.
func (t *Token) State() State { return t.provider.State() }

// ValidateInput checks an author-supplied input argument.
func (t *Token) ValidateInput(input Input) error {
	return t.provider.ValidateInput(input)
}

// ValidateValues checks candidate values against an input argument.
// The input itself is validated first; the provider's value validation
// runs only if that succeeds, so at most one failure is reported.
func (t *Token) ValidateValues(input Input, values []string) error {
	if err := t.provider.ValidateInput(input); err != nil {
		return err
	}
	return t.provider.ValidateValues(input, values)
}

// ValidInputs lists the allowed input arguments, nil when unrestricted.
func (t *Token) ValidInputs() []string { return t.provider.ValidInputs() }

// BoundedValues returns the complete value set for the input, when
// enumerable.
func (t *Token) BoundedValues(input Input) ([]string, bool) {
	return t.provider.BoundedValues(input)
}

// BoundedRangeValues returns the inclusive numeric bounds for the input,
// when the values form a range.
func (t *Token) BoundedRangeValues(input Input) (min, max int, ok bool) {
	return t.provider.BoundedRangeValues(input)
}

// Values returns the token's current values for the input.
//
// Input legality is asserted first: a meaningful input against a token
// that accepts none, or an absent input against a token that requires
// one, fails with *UsageError instead of silently returning an empty
// sequence.
func (t *Token) Values(input Input) ([]string, error) {
	if err := t.assertInput(input); err != nil {
		return nil, err
	}
	return t.provider.Values(input), nil
}

func (t *Token) assertInput(input Input) error {
	if !t.AllowsInput() && input.HasValue() {
		return &UsageError{Token: t.QualifiedName(), Rule: UsageInputNotAllowed, Input: input.Raw()}
	}
	if t.RequiresInput() && !input.HasValue() {
		return &UsageError{Token: t.QualifiedName(), Rule: UsageInputRequired}
	}
	return nil
}
