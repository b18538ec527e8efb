package emit

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"genarity/internal/config"
	"genarity/internal/decl"
	"genarity/internal/filter"
	"genarity/internal/reduce"
	"genarity/internal/testkit"
)

func targetOf(d *decl.Decl) *filter.Target {
	tg := &filter.Target{Decl: d, Chain: d.Enclosing()}
	for _, tp := range d.TypeParams {
		if tp.Default != nil {
			tg.Slots = append(tg.Slots, tp)
		}
	}
	return tg
}

func overloads(t *testing.T, d *decl.Decl, comp *decl.Compilation, eff config.Effective) []*reduce.Overload {
	t.Helper()
	ovs, err := reduce.Reduce(context.Background(), comp.Table, targetOf(d), eff)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	return ovs
}

func TestRenderTypeInNamespace(t *testing.T) {
	b := testkit.New("App")
	c := b.Class("Box", testkit.T("T"), testkit.D("U", b.Builtin("int")))
	b.Field(c, "item", testkit.P(c, "U"))
	comp := b.Compile()

	ovs := overloads(t, c, comp, config.Effective{})
	text := Render(ovs[0])

	for _, want := range []string{
		"namespace App\n{",
		`[global::Genarity.ReducedFrom("App.Box<T, U>")]`,
		"partial class Box<T>",
		"int item;",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Box<T, U>\n") || strings.Contains(text, " U item") {
		t.Fatalf("substituted parameter leaked:\n%s", text)
	}
}

func TestRenderGlobalNamespaceHasNoWrapper(t *testing.T) {
	b := testkit.New("")
	c := b.Class("Box", testkit.T("T"), testkit.D("U", b.Builtin("int")))
	comp := b.Compile()

	text := Render(overloads(t, c, comp, config.Effective{})[0])
	if strings.Contains(text, "namespace") {
		t.Fatalf("global sibling wrapped in a namespace:\n%s", text)
	}
}

func TestRenderNestedMethodWrapsEnclosingTypes(t *testing.T) {
	b := testkit.New("App")
	outer := b.Class("Outer")
	m := b.Method(outer, "Run", testkit.T("T"), testkit.D("U", b.Builtin("string")))
	comp := b.Compile()

	text := Render(overloads(t, m, comp, config.Effective{})[0])
	outerAt := strings.Index(text, "partial class Outer")
	runAt := strings.Index(text, "Run<T>(")
	if outerAt < 0 || runAt < outerAt {
		t.Fatalf("method must sit inside its partial container:\n%s", text)
	}
	if strings.Count(text, "{") != strings.Count(text, "}") {
		t.Fatalf("unbalanced braces:\n%s", text)
	}
}

func TestEmitKeysAndCache(t *testing.T) {
	b := testkit.New("App")
	c := b.Class("Box", testkit.T("T"), testkit.D("U", b.Builtin("int")), testkit.D("V", b.Builtin("string")))
	comp := b.Compile()
	ovs := overloads(t, c, comp, config.Effective{})

	cache := NewCache()
	em := New(cache)
	first := []Output{em.Emit(ovs[0]), em.Emit(ovs[1])}
	if first[0].Key == first[1].Key || first[0].HintName == first[1].HintName {
		t.Fatalf("outputs of different arity share a key")
	}
	if !strings.HasPrefix(first[0].HintName, "App.Box`2.") || !strings.HasSuffix(first[0].HintName, ".g.cs") {
		t.Fatalf("hint name = %q", first[0].HintName)
	}
	if first[0].Reused || !cache.Dirty() || cache.Len() != 2 {
		t.Fatalf("first emission must populate the cache")
	}

	again := em.Emit(ovs[0])
	if !again.Reused || again.Text != first[0].Text || again.Digest != first[0].Digest {
		t.Fatalf("re-emission must be byte-identical and reused")
	}

	changed := first[0]
	changed.Text += "// edit\n"
	changed.Digest[0] ^= 1
	if !cache.Put(changed) {
		t.Fatalf("changed digest must overwrite")
	}
	if e, _ := cache.Get(changed.Key); e.Text != changed.Text {
		t.Fatalf("entry not overwritten")
	}

	if n := cache.Retain(map[string]bool{first[1].Key: true}); n != 1 || cache.Len() != 1 {
		t.Fatalf("Retain dropped %d, len %d", n, cache.Len())
	}
}

func TestLocalFunctionIsSplice(t *testing.T) {
	b := testkit.New("App")
	outer := b.Class("Outer")
	host := b.Method(outer, "Host")
	l := b.Local(host, "Helper", testkit.T("T"), testkit.D("U", b.Builtin("int")))
	comp := b.Compile()

	out := New(nil).Emit(overloads(t, l, comp, config.Effective{})[0])
	if !out.Splice {
		t.Fatalf("local function output must be a splice")
	}
	if strings.Contains(out.Text, "namespace") {
		t.Fatalf("splice must not carry a namespace:\n%s", out.Text)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	dc, err := OpenDiskCache(dir)
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	c, err := dc.Load("app")
	if err != nil || c.Len() != 0 {
		t.Fatalf("fresh load: %v, len %d", err, c.Len())
	}
	c.Put(Output{Key: "App|Box|1", HintName: "App.Box`1.g.cs", Text: "class Box<T> {}"})
	if err := dc.Save("app", c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if c.Dirty() {
		t.Fatalf("saved cache must be clean")
	}

	loaded, err := dc.Load("app")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e, ok := loaded.Get("App|Box|1")
	if !ok || e.Text != "class Box<T> {}" || loaded.Dirty() {
		t.Fatalf("round trip lost entry: %+v %v", e, ok)
	}
	if other, _ := dc.Load("other"); other.Len() != 0 {
		t.Fatalf("caches of different compilations must not mix")
	}

	if err := dc.Clean(); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if after, _ := dc.Load("app"); after.Len() != 0 {
		t.Fatalf("Clean left entries behind")
	}
}
