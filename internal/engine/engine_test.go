package engine

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"genarity/internal/decl"
	"genarity/internal/diag"
	"genarity/internal/emit"
	"genarity/internal/filter"
	"genarity/internal/testkit"
	"genarity/internal/trace"
	"genarity/internal/types"
)

// App.C<T, [int]U, [string]V> with a field per parameter
func threeParamClass(b *testkit.Builder) *decl.Decl {
	c := b.Class("C", testkit.T("T"), testkit.D("U", b.Builtin("int")), testkit.D("V", b.Builtin("string")))
	b.Field(c, "t", testkit.P(c, "T"))
	b.Field(c, "u", testkit.P(c, "U"))
	b.Field(c, "v", testkit.P(c, "V"))
	return c
}

func mustRun(t *testing.T, comp *decl.Compilation, opts Options) *Result {
	t.Helper()
	res, err := Run(context.Background(), comp, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestDescendingArities(t *testing.T) {
	b := testkit.New("App")
	threeParamClass(b)
	res := mustRun(t, b.Compile(), Options{})

	if len(res.Outputs) != 2 {
		t.Fatalf("want 2 outputs, got %d: %v", len(res.Outputs), res.Diagnostics.Items())
	}
	if !strings.HasPrefix(res.Outputs[0].HintName, "App.C`2.") || !strings.HasPrefix(res.Outputs[1].HintName, "App.C`1.") {
		t.Fatalf("outputs out of order: %s, %s", res.Outputs[0].HintName, res.Outputs[1].HintName)
	}
	arity2, arity1 := res.Outputs[0].Text, res.Outputs[1].Text
	if !strings.Contains(arity2, "class C<T, U>") || !strings.Contains(arity2, "string v;") {
		t.Fatalf("arity 2 sibling:\n%s", arity2)
	}
	if !strings.Contains(arity1, "class C<T>") || !strings.Contains(arity1, "int u;") || !strings.Contains(arity1, "string v;") {
		t.Fatalf("arity 1 sibling:\n%s", arity1)
	}
	if res.Stats.Candidates != 1 || res.Stats.Targets != 1 || res.Stats.Accepted != 2 || res.Stats.Rejected != 0 {
		t.Fatalf("stats = %+v", res.Stats)
	}
}

func TestIdempotent(t *testing.T) {
	b := testkit.New("App")
	threeParamClass(b)
	host := b.Class("Host")
	m := b.Method(host, "Run", testkit.T("T"), testkit.D("U", b.Builtin("int")))
	m.Params = []decl.Param{testkit.Arg("x", testkit.P(m, "U"))}
	comp := b.Compile()

	cache := emit.NewCache()
	first := mustRun(t, comp, Options{Cache: cache})
	keys := cache.Keys()
	entries := make(map[string]emit.Entry)
	for _, k := range keys {
		entries[k], _ = cache.Get(k)
	}

	second := mustRun(t, comp, Options{Cache: cache, Jobs: 1})
	if len(first.Outputs) != len(second.Outputs) || len(first.Outputs) == 0 {
		t.Fatalf("output counts differ: %d vs %d", len(first.Outputs), len(second.Outputs))
	}
	for i := range first.Outputs {
		if first.Outputs[i].Text != second.Outputs[i].Text || first.Outputs[i].Key != second.Outputs[i].Key {
			t.Fatalf("output %d differs between runs", i)
		}
		if !second.Outputs[i].Reused {
			t.Fatalf("output %d must be served from the cache", i)
		}
	}
	if !slices.Equal(keys, cache.Keys()) {
		t.Fatalf("cache keys changed")
	}
	for _, k := range keys {
		if e, _ := cache.Get(k); e != entries[k] {
			t.Fatalf("cache entry %s changed", k)
		}
	}
	if second.Stats.Reused != len(second.Outputs) {
		t.Fatalf("stats = %+v", second.Stats)
	}
}

func TestContiguityViolation(t *testing.T) {
	b := testkit.New("App")
	c := b.Class("Bad", testkit.T("T"), testkit.D("U", b.Builtin("int")), testkit.T("V"))
	res := mustRun(t, b.Compile(), Options{})

	if len(res.Outputs) != 0 {
		t.Fatalf("non-trailing default must not generate anything")
	}
	if res.Diagnostics.Count(diag.GenNonTrailingDefault) != 1 {
		t.Fatalf("diagnostics = %v", res.Diagnostics.Items())
	}
	if res.Diagnostics.Items()[0].Primary != c.TypeParams[1].Span {
		t.Fatalf("diagnostic must point at the slot")
	}
}

func TestTargetsAreIsolated(t *testing.T) {
	b := testkit.New("App")
	b.Class("Bad", testkit.T("T"), testkit.D("U", b.Builtin("int")), testkit.T("V"))
	threeParamClass(b)
	res := mustRun(t, b.Compile(), Options{Jobs: 4})

	if len(res.Outputs) != 2 || !res.Diagnostics.HasErrors() {
		t.Fatalf("good target must still emit: %d outputs, %v", len(res.Outputs), res.Diagnostics.Items())
	}
	if len(res.Targets) != 2 || res.Targets[0].Target != nil || res.Targets[1].Target == nil {
		t.Fatalf("per-candidate results out of order")
	}
}

func TestInaccessibleDefaultDropsArity(t *testing.T) {
	b := testkit.New("App")
	hidden := b.Class("Hidden")
	hidden.Access = types.AccessInternal
	pub := b.Class("Pub", testkit.T("T"), testkit.D("U", b.Builtin("int")), testkit.D("V", testkit.Ref(hidden)))
	res := mustRun(t, b.Compile(), Options{})

	if res.Diagnostics.Count(diag.GenInaccessibleSignature) != 2 {
		t.Fatalf("both arities substitute V: %v", res.Diagnostics.Items())
	}
	if len(res.Outputs) != 0 || res.Stats.Rejected != 2 {
		t.Fatalf("outputs = %d, stats = %+v", len(res.Outputs), res.Stats)
	}
	if res.Diagnostics.Items()[0].Primary != pub.TypeParams[2].Span {
		t.Fatalf("diagnostic must point at the slot of the hidden type")
	}
}

func TestBaseShadowing(t *testing.T) {
	build := func(applyNew bool) *decl.Compilation {
		b := testkit.New("App")
		b.Assembly(&decl.Config{ApplyNew: testkit.Bool(applyNew)})
		base := b.Class("Base")
		e := b.Method(base, "M", testkit.T("X"))
		e.Params = []decl.Param{testkit.Arg("a", testkit.P(e, "X")), testkit.Arg("b", b.Builtin("int"))}
		derived := b.Class("Derived")
		b.Extends(derived, testkit.Ref(base))
		m := b.Method(derived, "M", testkit.T("T"), testkit.D("U", b.Builtin("int")))
		m.Params = []decl.Param{testkit.Arg("a", testkit.P(m, "T")), testkit.Arg("b", testkit.P(m, "U"))}
		return b.Compile()
	}

	res := mustRun(t, build(true), Options{})
	if len(res.Outputs) != 1 || !strings.Contains(res.Outputs[0].Text, "public new void M<T>(T a, int b)") {
		t.Fatalf("expected shadowing sibling, got %v", res.Diagnostics.Items())
	}

	res = mustRun(t, build(false), Options{})
	if len(res.Outputs) != 0 || res.Diagnostics.Count(diag.GenBaseCollision) != 1 {
		t.Fatalf("disabled shadowing must be fatal: %v", res.Diagnostics.Items())
	}
}

func TestDisabled(t *testing.T) {
	b := testkit.New("App")
	threeParamClass(b)
	res := mustRun(t, b.Compile(), Options{Disabled: true})
	if len(res.Outputs) != 0 || res.Diagnostics.Len() != 0 || res.Stats.Candidates != 0 {
		t.Fatalf("disabled generator must be inert")
	}
}

func TestUnknownStage(t *testing.T) {
	b := testkit.New("App")
	_, err := Run(context.Background(), b.Compile(), Options{Stages: filter.Options{Disabled: []string{"nope"}}})
	if err == nil {
		t.Fatalf("want error for unknown stage")
	}
}

func TestCancelled(t *testing.T) {
	b := testkit.New("App")
	threeParamClass(b)
	cache := emit.NewCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, b.Compile(), Options{Cache: cache})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if len(res.Outputs) != 0 || cache.Len() != 0 {
		t.Fatalf("cancelled run must not commit anything")
	}
}

func TestDeterministicAcrossJobs(t *testing.T) {
	b := testkit.New("App")
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		b.Class(name, testkit.T("T"), testkit.D("U", b.Builtin("int")))
	}
	comp := b.Compile()

	keys := func(res *Result) []string {
		var out []string
		for _, o := range res.Outputs {
			out = append(out, o.Key)
		}
		return out
	}
	serial := keys(mustRun(t, comp, Options{Jobs: 1}))
	parallel := keys(mustRun(t, comp, Options{Jobs: 8}))
	if len(serial) != 5 || !slices.Equal(serial, parallel) {
		t.Fatalf("serial %v vs parallel %v", serial, parallel)
	}
}

func TestProgressAndTrace(t *testing.T) {
	b := testkit.New("App")
	threeParamClass(b)
	var mu sync.Mutex
	var events []Event
	sink := SinkFunc(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)

	if _, err := Run(ctx, b.Compile(), Options{Progress: sink}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if last := events[len(events)-1]; last.Stage != StageEmit || last.Status != StatusDone {
		t.Fatalf("last event = %+v", last)
	}
	var targetSpans, points int
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Scope == trace.ScopeTarget && ev.Kind == trace.KindSpanBegin:
			targetSpans++
		case ev.Scope == trace.ScopeOverload:
			points++
		}
	}
	if targetSpans != 1 || points != 2 {
		t.Fatalf("target spans %d, overload points %d", targetSpans, points)
	}
}
