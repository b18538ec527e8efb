package source

import "testing"

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.Add("decls.cs", []byte("class A {}"), 0)
	id2 := fs.Add("decls.cs", []byte("class B {}"), 0)
	if id1 == id2 {
		t.Fatalf("re-adding a path must create a new version")
	}
	latest, ok := fs.GetLatest("decls.cs")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "class A {}" {
		t.Fatalf("old version lost, got %q", got)
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("ab\ncd\r\nef"))
	if fs.Get(id).Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected CRLF normalization flag")
	}
	start, end := fs.Resolve(Span{File: id, Start: 3, End: 7})
	if start != (LineCol{Line: 2, Col: 1}) {
		t.Fatalf("start = %+v", start)
	}
	if end != (LineCol{Line: 3, Col: 2}) {
		t.Fatalf("end = %+v", end)
	}
	if end.String() != "3:2" || !fs.Get(id).Virtual() {
		t.Fatalf("end = %s, virtual = %v", end, fs.Get(id).Virtual())
	}
	if line := fs.Get(id).GetLine(2); line != "cd" {
		t.Fatalf("GetLine(2) = %q", line)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("cross-file Cover must be a no-op, got %v", got)
	}
	if !a.Contains(Span{File: 1, Start: 11, End: 20}) {
		t.Fatalf("Contains failed")
	}
}
