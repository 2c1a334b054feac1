// Package token defines the token surface of the quilt engine.
//
// A token is a named placeholder whose current values come from a
// ValueProvider. The Token adapter presents a uniform query surface over
// heterogeneous providers and owns exactly one piece of logic of its own:
// the input-argument legality check guarding Values. Everything dynamic
// (readiness, values, change detection) lives in the provider and is
// observed, never cached, by the adapter.
package token
