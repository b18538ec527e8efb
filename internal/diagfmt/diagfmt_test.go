package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"genarity/internal/diag"
	"genarity/internal/source"
)

func sample() (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	content := []byte("namespace App;\npartial class Box<T, U, V> { }\n")
	id := fs.AddVirtual("/home/user/project/src/Box.cs", content)
	bag := diag.NewBag(0)
	// U on line 2
	bag.Add(diag.New(diag.GenNonTrailingDefault, source.Span{File: id, Start: 36, End: 37}, "default on U is followed by V"))
	bag.Add(diag.New(diag.GenInvalidTargetNamespace, source.Span{File: id, Start: 0, End: 9}, "bad namespace").
		WithNote(source.Span{File: id, Start: 10, End: 13}, "declared here"))
	return bag, fs
}

func TestPretty(t *testing.T) {
	bag, fs := sample()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative, ShowNotes: true})
	out := buf.String()

	for _, want := range []string{
		"src/Box.cs:2:22: ERROR GEN1001: default on U is followed by V",
		"2 | partial class Box<T, U, V> { }",
		"src/Box.cs:1:1: WARNING GEN1201: bad namespace",
		"note: src/Box.cs:1:11: declared here",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, "2 | partial") {
			caret := lines[i+1]
			if idx := strings.Index(caret, "^"); idx != strings.Index(l, "U,") {
				t.Fatalf("caret misaligned:\n%s\n%s", l, caret)
			}
			return
		}
	}
	t.Fatalf("snippet not found:\n%s", out)
}

func TestPrettyPathModesAndMax(t *testing.T) {
	bag, fs := sample()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Max: 1})
	out := buf.String()
	if !strings.HasPrefix(out, "Box.cs:2:22:") || !strings.Contains(out, "1 more diagnostics") {
		t.Fatalf("got:\n%s", out)
	}
	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAbsolute})
	if !strings.Contains(buf.String(), "/home/user/project/src/Box.cs") {
		t.Fatalf("absolute path missing:\n%s", buf.String())
	}
}

func TestWidthTruncates(t *testing.T) {
	bag, fs := sample()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Width: 10})
	if strings.Contains(buf.String(), "Box<T, U, V>") {
		t.Fatalf("line not truncated:\n%s", buf.String())
	}
}

func TestShort(t *testing.T) {
	bag, fs := sample()
	var buf bytes.Buffer
	Short(&buf, bag, fs, PathModeBasename)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[0] != "Box.cs:2:22: ERROR GEN1001: default on U is followed by V" {
		t.Fatalf("got %q", lines)
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sample()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 || out.Total != 2 {
		t.Fatalf("count = %d total = %d", out.Count, out.Total)
	}
	d := out.Diagnostics[0]
	if d.Code != "GEN1001" || d.Severity != "ERROR" || d.Location.StartLine != 2 || d.Location.StartCol != 22 || d.Location.File != "Box.cs" {
		t.Fatalf("first = %+v", d)
	}
	if len(out.Diagnostics[1].Notes) != 1 {
		t.Fatalf("notes dropped")
	}
}
