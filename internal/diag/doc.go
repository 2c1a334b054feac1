// Package diag carries structured diagnostics through the quilt pipeline.
//
// Loading, validation, and application phases never print directly: they
// report coded diagnostics into a Bag through the Reporter contract, and
// the CLI decides how to render them. Errors returned as plain `error`
// values are reserved for I/O and programmer mistakes; anything a content
// author can cause ends up here.
package diag
