package diag

import (
	"fmt"
	"sort"
	"strings"

	"genarity/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics one per line in a stable order:
//
//	<severity> <ID> <path>:<line>:<col> <message>
//
// Notes follow as "note" lines when includeNotes is set.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		rendered = append(rendered, makeGolden(strings.ToLower(d.Severity.String()), d.Code, d.Primary, d.Message, fs))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			rendered = append(rendered, makeGolden("note", d.Code, n.Span, n.Msg, fs))
		}
	}

	if !includeNotes {
		sort.SliceStable(rendered, func(i, j int) bool {
			di, dj := rendered[i], rendered[j]
			if di.Path != dj.Path {
				return di.Path < dj.Path
			}
			if di.Line != dj.Line {
				return di.Line < dj.Line
			}
			if di.Column != dj.Column {
				return di.Column < dj.Column
			}
			return di.Code < dj.Code
		})
	}

	lines := make([]string, 0, len(rendered))
	for _, r := range rendered {
		lines = append(lines, fmt.Sprintf("%s %s %s:%d:%d %s", r.Severity, r.Code, r.Path, r.Line, r.Column, r.Message))
	}
	return strings.Join(lines, "\n")
}

func makeGolden(sev string, code Code, sp source.Span, msg string, fs *source.FileSet) goldenDiagnostic {
	g := goldenDiagnostic{
		Severity: sev,
		Code:     code.ID(),
		Path:     "<unknown>",
		Message:  strings.Join(strings.Fields(msg), " "),
	}
	if fs == nil {
		return g
	}
	if f := fs.Get(sp.File); f != nil {
		g.Path = f.Path
		start, _ := fs.Resolve(sp)
		g.Line, g.Column = start.Line, start.Col
	}
	return g
}
