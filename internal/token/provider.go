package token

// ValueProvider owns the actual logic for producing, validating, and
// describing a token's values. Concrete implementations live in
// internal/provider; tests use small fakes.
//
// Validation methods return nil for success and a descriptive error for
// author-caused failures; they never panic. BoundedValues and
// BoundedRangeValues are mutually exclusive: a provider reports at most
// one of "enumerable value set" and "numeric range" for any input.
type ValueProvider interface {
	// Name is the provider's default token name, without scope.
	Name() string

	// IsMutable reports whether values may change between context updates.
	IsMutable() bool

	// IsReady reports whether values are available in the current context.
	IsReady() bool

	// AllowsInput reports whether an input argument may be supplied.
	AllowsInput() bool

	// RequiresInput reports whether an input argument must be supplied.
	// RequiresInput implies AllowsInput; the registry enforces this.
	RequiresInput() bool

	// CanHaveMultipleValues reports whether the given input may yield
	// more than one value.
	CanHaveMultipleValues(input Input) bool

	// UpdateContext refreshes the provider from ctx and reports whether
	// any observable value changed.
	UpdateContext(ctx *Context) bool

	// TokensUsed lists the names of tokens this provider reads, for
	// dependency ordering.
	TokensUsed() []string

	// State returns the provider's diagnostic state.
	State() State

	// ValidateInput checks an input argument supplied by a content author.
	ValidateInput(input Input) error

	// ValidateValues checks candidate values against the given input.
	ValidateValues(input Input, values []string) error

	// ValidInputs lists the allowed input arguments, nil when
	// unrestricted.
	ValidInputs() []string

	// BoundedValues returns the complete value set for the input, when
	// enumerable.
	BoundedValues(input Input) ([]string, bool)

	// BoundedRangeValues returns the inclusive numeric bounds for the
	// input, when the values form a range.
	BoundedRangeValues(input Input) (min, max int, ok bool)

	// Values returns the current values for the input. Input legality is
	// the adapter's job; providers may assume a legal input.
	Values(input Input) []string
}

// State is a provider's diagnostic record, carried to the reporting layer.
type State struct {
	Ready  bool
	Errors []string
}

// IsValid reports whether the provider recorded no errors.
func (s State) IsValid() bool { return len(s.Errors) == 0 }
