// Package diagfmt renders diagnostic bags for humans and machines.
package diagfmt

// PrettyOpts controls the human-readable output.
type PrettyOpts struct {
	Color bool
	Max   int // 0 = unlimited
}

// JSONOpts controls the machine-readable output.
type JSONOpts struct {
	Max          int // 0 = unlimited
	IncludeNotes bool
}
