package collect

import (
	"context"
	"errors"
	"testing"

	"genarity/internal/decl"
	"genarity/internal/testkit"
)

func TestScanOrderAndNesting(t *testing.T) {
	b := testkit.New("App")
	intT := b.Builtin("int")
	outer := b.Class("Outer")
	m := b.Method(outer, "Run", testkit.T("T"), testkit.D("U", intT))
	b.Local(m, "Helper", testkit.D("V", intT))
	b.Nested(outer, decl.TypeClass, "Inner", testkit.D("W", intT))
	b.Delegate(nil, "Fn", intT, testkit.D("X", intT))
	b.Class("Plain", testkit.T("T"))
	comp := b.Compile()

	got, err := Scan(context.Background(), comp, 4)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	var names []string
	for _, c := range got {
		names = append(names, c.Decl.Name)
	}
	want := []string{"Run", "Helper", "Inner", "Fn"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestScanMultipleFilesDeterministic(t *testing.T) {
	b := testkit.New("App")
	intT := b.Builtin("int")
	b.Class("A", testkit.D("T", intT))
	comp := b.Compile()
	// same declarations in a second file
	comp.Files = append(comp.Files, &decl.File{ID: comp.Files[0].ID, Path: "copy.cs", Decls: comp.Files[0].Decls})

	for range 10 {
		got, err := Scan(context.Background(), comp, 2)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if len(got) != 2 || got[0].File.Path != "test.cs" || got[1].File.Path != "copy.cs" {
			t.Fatalf("unexpected order: %+v", got)
		}
	}
}

func TestScanCancelled(t *testing.T) {
	b := testkit.New("App")
	b.Class("A", testkit.D("T", b.Builtin("int")))
	comp := b.Compile()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Scan(ctx, comp, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
