package diag

type Note struct {
	Origin Origin
	Msg    string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Origin   Origin
	Notes    []Note
}

// WithNote returns a copy of the diagnostic with an extra note appended.
func (d Diagnostic) WithNote(origin Origin, msg string) Diagnostic {
	d.Notes = append(append([]Note(nil), d.Notes...), Note{Origin: origin, Msg: msg})
	return d
}
