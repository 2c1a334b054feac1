package token

import "fmt"

// UsageRule identifies which part of the input-argument contract a caller
// violated.
type UsageRule uint8

const (
	// UsageInputNotAllowed: input supplied to a token that accepts none.
	UsageInputNotAllowed UsageRule = iota
	// UsageInputRequired: no input supplied to a token that requires one.
	UsageInputRequired
)

func (r UsageRule) String() string {
	switch r {
	case UsageInputNotAllowed:
		return "input-not-allowed"
	case UsageInputRequired:
		return "input-required"
	}
	return "unknown"
}

// UsageError marks invalid usage by the calling engine: the caller was
// expected to check AllowsInput/RequiresInput before asking for values.
// It is not a recoverable validation failure.
type UsageError struct {
	Token string
	Rule  UsageRule
	Input string
}

func (e *UsageError) Error() string {
	switch e.Rule {
	case UsageInputNotAllowed:
		return fmt.Sprintf("token %q does not accept an input argument, but %q was supplied", e.Token, e.Input)
	case UsageInputRequired:
		return fmt.Sprintf("token %q requires an input argument, but none was supplied", e.Token)
	}
	return fmt.Sprintf("invalid usage of token %q", e.Token)
}
