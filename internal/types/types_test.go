package types

import "testing"

func TestAccessLattice(t *testing.T) {
	cases := []struct {
		a, b Access
		want Access
	}{
		{AccessPublic, AccessInternal, AccessInternal},
		{AccessProtected, AccessInternal, AccessProtectedAndInternal},
		{AccessProtectedOrInternal, AccessProtected, AccessProtected},
		{AccessPrivate, AccessPublic, AccessPrivate},
		{AccessNone, AccessInternal, AccessInternal},
	}
	for _, tc := range cases {
		if got := tc.a.Intersect(tc.b); got != tc.want {
			t.Fatalf("%s ∩ %s = %s, want %s", tc.a, tc.b, got, tc.want)
		}
		if got := tc.b.Intersect(tc.a); got != tc.want {
			t.Fatalf("intersection not symmetric for %s, %s", tc.a, tc.b)
		}
	}
	if AccessProtected.Includes(AccessInternal) || AccessInternal.Includes(AccessProtected) {
		t.Fatalf("protected and internal must be incomparable")
	}
	if !AccessPublic.Includes(AccessProtectedOrInternal) {
		t.Fatalf("public must include protected internal")
	}
}

func TestParseAccess(t *testing.T) {
	a, err := ParseAccess("Protected  Internal")
	if err != nil || a != AccessProtectedOrInternal {
		t.Fatalf("got %v, %v", a, err)
	}
	if _, err := ParseAccess("friend"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSubstSharesUnchanged(t *testing.T) {
	tab := NewTable()
	list, _ := tab.Lookup("System.Collections.Generic.List`1")
	intT := Named(tab.Builtins().Int)

	tParam := Param("C", "T")
	uParam := Param("C", "U")
	foreign := Param("Outer", "T")
	in := TupleOf(Named(list, tParam), foreign, ArrayOf(uParam, 1))

	s := Subst{Owner: "C", Map: map[string]*Type{"T": intT}}
	out := s.Apply(in)
	if out == in {
		t.Fatalf("expected a new tuple")
	}
	if got := out.String(); got != "(List<int>, T, U[])" {
		t.Fatalf("unexpected result %q", got)
	}
	if out.Args[1] != foreign || out.Args[2] != in.Args[2] {
		t.Fatalf("unchanged components must be shared")
	}
	if s.Apply(uParam) != uParam {
		t.Fatalf("unmapped parameter must be returned as-is")
	}
	if got := in.String(); got != "(List<T>, T, U[])" {
		t.Fatalf("input mutated: %q", got)
	}
}

func TestQualifiedRendering(t *testing.T) {
	tab := NewTable()
	dict, _ := tab.Lookup("System.Collections.Generic.Dictionary`2")
	outer := &Symbol{ID: "App.Outer", Name: "Outer", Namespace: "App", Access: AccessPublic}
	inner := &Symbol{ID: "App.Outer+Inner", Name: "Inner", Container: outer, Access: AccessInternal}

	ty := Named(dict, Named(tab.Builtins().String), NullableOf(Named(inner)))
	want := "global::System.Collections.Generic.Dictionary<string, global::App.Outer.Inner?>"
	if got := ty.Qualified(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := UnboundOf(dict).String(); got != "Dictionary<,>" {
		t.Fatalf("unbound: %q", got)
	}
	if got := FuncPointer(Unit(), PointerTo(Named(tab.Builtins().Int))).String(); got != "delegate*<int*, void>" {
		t.Fatalf("funcptr: %q", got)
	}
	if ty.EffectiveAccess() != AccessInternal {
		t.Fatalf("effective access = %s", ty.EffectiveAccess())
	}
	if ty.LeastAccessible(AccessPublic) != inner {
		t.Fatalf("culprit not found")
	}
}

func TestMethodKeyIgnoresParamNames(t *testing.T) {
	tab := NewTable()
	intT := Named(tab.Builtins().Int)
	a := MethodKey("M", []string{"T"}, []*Type{Param("m1", "T"), intT}, nil)
	b := MethodKey("M", []string{"U"}, []*Type{Param("m2", "U"), intT}, []bool{false, false})
	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
	c := MethodKey("M", nil, []*Type{intT, intT}, nil)
	if a == c {
		t.Fatalf("generic and non-generic keys must differ")
	}
	byRef := MethodKey("M", []string{"X"}, []*Type{Param("m3", "X"), intT}, []bool{false, true})
	if a == byRef {
		t.Fatalf("ref parameter must change the key: %q", byRef)
	}
	out := Member{Kind: MemberMethod, Name: "M", Arity: 1, TypeParams: []string{"Y"}, Params: []*Type{Param("m4", "Y"), intT}, ByRef: []bool{false, true}}
	if out.Key() != byRef {
		t.Fatalf("ref and out share a key: %q vs %q", out.Key(), byRef)
	}
	if TypeKey("C", 2) != "C`2" || TypeKey("C", 0) != "C" {
		t.Fatalf("TypeKey")
	}
}

func TestTableAndDerivation(t *testing.T) {
	tab := NewTable()
	b := tab.Builtins()
	if err := tab.Add(&Symbol{ID: "System.Object"}); err == nil {
		t.Fatalf("duplicate id must fail")
	}
	if !b.Int.DerivesFrom(b.ValueType) || b.String.DerivesFrom(b.ValueType) {
		t.Fatalf("derivation broken")
	}
	if !b.Int.IsValueType() {
		t.Fatalf("int must be a value type")
	}
	for _, s := range tab.Namespace("System") {
		if s.Namespace != "System" {
			t.Fatalf("namespace index leaked %s", s)
		}
	}
	if !Equal(Named(b.Int), Named(b.Int)) || Equal(Param("a", "T"), Param("b", "T")) {
		t.Fatalf("Equal")
	}
}
