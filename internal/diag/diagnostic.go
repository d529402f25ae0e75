package diag

import "fmt"

// Locus identifies where in the IR a diagnostic points: a function by
// name and the raw block/op handles involved. Zero handles mean the
// diagnostic is not tied to that level.
type Locus struct {
	Func  string
	Block uint32
	Op    uint32
}

func (l Locus) String() string {
	out := l.Func
	if out == "" {
		out = "<module>"
	}
	if l.Block != 0 {
		out += fmt.Sprintf("/block%d", l.Block)
	}
	if l.Op != 0 {
		out += fmt.Sprintf("/op%d", l.Op)
	}
	return out
}

type Note struct {
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Locus
	Notes    []Note
}

// WithNote returns a copy of the diagnostic with an extra note.
func (d Diagnostic) WithNote(msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Msg: msg})
	return d
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%s] %s: %s", d.Severity, d.Code, d.Primary, d.Message)
}
