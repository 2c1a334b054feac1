package diag

// Origin locates a diagnostic inside authored content.
//
// Pack manifests are structured documents, so diagnostics point at a file
// plus a field path like "patches[2].when" rather than a byte range.
// Either part may be empty: engine-level diagnostics carry no file, and
// file-level diagnostics carry no field.
type Origin struct {
	Path  string // file the diagnostic refers to, "" for engine-level
	Field string // field path within the file, e.g. "tokens.Mood.entries[0]"
}

func (o Origin) IsZero() bool {
	return o.Path == "" && o.Field == ""
}

func (o Origin) String() string {
	switch {
	case o.Path == "" && o.Field == "":
		return ""
	case o.Field == "":
		return o.Path
	case o.Path == "":
		return "(" + o.Field + ")"
	}
	return o.Path + " (" + o.Field + ")"
}
