// Package provider ships the value providers behind quilt's tokens.
//
// Each type covers a distinct capability shape of the ValueProvider
// contract: Static (immutable, enumerable), ContextValue (mutable,
// context-backed), Range (mutable, numeric bounds), Transform (input
// required, pure), and Dynamic (content-author defined, condition
// driven).
package provider

import (
	"fmt"
	"strings"

	"quilt/internal/token"
)

// rejectInput is the shared input validation for tokens that accept none.
func rejectInput(name string, in token.Input) error {
	if in.HasValue() {
		return fmt.Errorf("token %q does not accept an input argument (got %q)", name, in.Raw())
	}
	return nil
}

// containsFold reports whether set contains v, ignoring case.
func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// validateAgainstSet checks every candidate against an allowed set.
func validateAgainstSet(name string, allowed, values []string) error {
	for _, v := range values {
		if !containsFold(allowed, v) {
			return fmt.Errorf("%q is not a valid value for token %q (expected one of: %s)",
				v, name, strings.Join(allowed, ", "))
		}
	}
	return nil
}
