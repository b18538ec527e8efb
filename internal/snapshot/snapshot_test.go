package snapshot_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"genarity/internal/decl"
	"genarity/internal/engine"
	"genarity/internal/snapshot"
	"genarity/internal/testkit"
	"genarity/internal/types"
)

const boxDoc = `{
  "version": 1,
  "name": "App",
  "assembly": {"apply_new": true},
  "symbols": [
    {"id": "Lib.IThing", "namespace": "Lib", "kind": "interface", "access": "public",
     "members": [{"kind": "method", "name": "Touch", "access": "public"}]}
  ],
  "files": [{
    "path": "Box.cs",
    "content": "partial class Box<T, U> : IThing { U item; }\nclass Plain { }\n",
    "decls": [
      {"id": "App.Box` + "`" + `2", "kind": "type", "type_kind": "class", "name": "Box", "access": "public",
       "modifiers": ["partial"], "namespace": "App",
       "span": {"start": 0, "end": 44}, "name_span": {"start": 14, "end": 17},
       "type_params": [
         {"name": "T", "span": {"start": 18, "end": 19}},
         {"name": "U", "span": {"start": 21, "end": 22}, "default": {"type": {"named": "int"}}}
       ],
       "fragments": [{
         "span": {"start": 0, "end": 44}, "partial": true,
         "bases": [{"named": "Lib.IThing"}],
         "members": [
           {"id": "App.Box.item", "kind": "field", "name": "item", "access": "private",
            "result": {"param": "U"},
            "span": {"start": 35, "end": 42}, "name_span": {"start": 37, "end": 41}}
         ]
       }]},
      {"id": "App.Plain", "kind": "type", "type_kind": "class", "name": "Plain", "namespace": "App",
       "span": {"start": 45, "end": 60}, "name_span": {"start": 51, "end": 56}}
    ]
  }]
}`

func load(t *testing.T, doc string) *decl.Compilation {
	t.Helper()
	comp, err := snapshot.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return comp
}

func TestDecodeBindsDeclarations(t *testing.T) {
	comp := load(t, boxDoc)
	if err := testkit.CheckSpanInvariants(comp); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	if comp.Name != "App" || comp.Assembly == nil || comp.Assembly.ApplyNew == nil || !*comp.Assembly.ApplyNew {
		t.Fatalf("assembly config lost")
	}

	box := comp.Files[0].Decls[0]
	if !box.IsCandidate() || box.Namespace != "App" {
		t.Fatalf("box = %s (namespace %q)", box, box.Namespace)
	}
	if got := box.TypeParams[1].Default.Type.String(); got != "int" {
		t.Fatalf("default = %s", got)
	}
	field := box.Members()[0]
	if field.Parent != box || field.Result.Kind != types.KindParam || field.Result.Owner != box.ID {
		t.Fatalf("field type not bound to Box: %+v", field.Result)
	}

	sym, ok := comp.Table.Lookup("App.Box`2")
	if !ok || sym != box.Sym {
		t.Fatalf("Box symbol not registered")
	}
	if len(sym.Interfaces) != 1 || sym.Interfaces[0].Sym.ID != "Lib.IThing" {
		t.Fatalf("interfaces = %v", sym.Interfaces)
	}
	if sym.Base == nil || sym.Base.Sym != comp.Table.Builtins().Object {
		t.Fatalf("class base must default to object")
	}
	if len(sym.Members) != 1 || sym.Members[0].Name != "item" {
		t.Fatalf("source members not declared: %+v", sym.Members)
	}
	thing, _ := comp.Table.Lookup("Lib.IThing")
	if thing.Name != "IThing" || len(thing.Members) != 1 {
		t.Fatalf("metadata symbol = %+v", thing)
	}
}

func TestSnapshotThroughEngine(t *testing.T) {
	comp := load(t, boxDoc)
	res, err := engine.Run(context.Background(), comp, engine.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Outputs) != 1 {
		t.Fatalf("outputs = %d, diagnostics %v", len(res.Outputs), res.Diagnostics.Items())
	}
	text := res.Outputs[0].Text
	if !strings.Contains(text, "class Box<T> : global::Lib.IThing") || !strings.Contains(text, "int item;") {
		t.Fatalf("unexpected sibling:\n%s", text)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	if err := os.WriteFile(path, []byte(boxDoc), 0o600); err != nil {
		t.Fatal(err)
	}
	comp, err := snapshot.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(comp.Files) != 1 || len(comp.Files[0].Decls) != 2 {
		t.Fatalf("files = %+v", comp.Files)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"version":       `{"version": 2, "files": []}`,
		"unknown field": `{"version": 1, "files": [], "extra": 1}`,
		"span":          `{"version": 1, "files": [{"path": "a.cs", "content": "x", "decls": [{"id": "A", "kind": "type", "name": "A", "span": {"start": 0, "end": 5}, "name_span": {"start": 0, "end": 1}}]}]}`,
		"unknown type":  `{"version": 1, "files": [{"path": "a.cs", "content": "class A", "decls": [{"id": "A", "kind": "field", "name": "A", "result": {"named": "Nope"}, "span": {"start": 0, "end": 7}, "name_span": {"start": 6, "end": 7}}]}]}`,
		"param scope":   `{"version": 1, "files": [{"path": "a.cs", "content": "class A", "decls": [{"id": "A", "kind": "field", "name": "A", "result": {"param": "T"}, "span": {"start": 0, "end": 7}, "name_span": {"start": 6, "end": 7}}]}]}`,
		"duplicate id":  `{"version": 1, "files": [{"path": "a.cs", "content": "class A", "decls": [{"id": "A", "kind": "type", "name": "A", "span": {"start": 0, "end": 3}, "name_span": {"start": 0, "end": 1}}, {"id": "A", "kind": "type", "name": "A", "span": {"start": 4, "end": 7}, "name_span": {"start": 6, "end": 7}}]}]}`,
	}
	for name, doc := range cases {
		if _, err := snapshot.Decode(strings.NewReader(doc)); err == nil {
			t.Fatalf("%s: want error", name)
		}
	}
	_, err := snapshot.Decode(strings.NewReader(`{"version": 3, "files": []}`))
	if !errors.Is(err, snapshot.ErrVersion) {
		t.Fatalf("err = %v", err)
	}
}
