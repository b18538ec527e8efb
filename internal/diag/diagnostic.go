package diag

import (
	"genarity/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// New builds a diagnostic with the code's fixed severity.
func New(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: code.Severity(),
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], Note{Span: sp, Msg: msg})
	return d
}

// Fatal reports whether d blocks generation of whatever raised it.
func (d Diagnostic) Fatal() bool {
	return d.Severity >= SevError
}
