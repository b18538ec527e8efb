package defaults

import (
	"testing"

	"genarity/internal/decl"
	"genarity/internal/diag"
	"genarity/internal/filter"
	"genarity/internal/testkit"
	"genarity/internal/types"
)

func check(d *decl.Decl) (bool, *diag.Bag) {
	tg := &filter.Target{Decl: d, Chain: d.Enclosing()}
	for _, tp := range d.TypeParams {
		if tp.Default != nil {
			tg.Slots = append(tg.Slots, tp)
		}
	}
	bag := diag.NewBag(0)
	ok := Check(tg, diag.BagReporter{Bag: bag})
	return ok, bag
}

func TestForbiddenKinds(t *testing.T) {
	b := testkit.New("App")
	intT := b.Builtin("int")
	span := types.Named(b.Lookup("System.Span`1"), intT)
	list := b.Lookup("System.Collections.Generic.List`1")

	cases := []struct {
		name string
		def  *types.Type
		code diag.Code
	}{
		{"pointer", types.PointerTo(intT), diag.GenDefaultPointer},
		{"function pointer", types.FuncPointer(types.Unit(), intT), diag.GenDefaultFunctionPointer},
		{"unbound", types.UnboundOf(list), diag.GenDefaultUnboundGeneric},
		{"nested unbound", types.ArrayOf(types.UnboundOf(list), 1), diag.GenDefaultUnboundGeneric},
		{"void", types.Unit(), diag.GenDefaultUnit},
		{"stack only", span, diag.GenDefaultStackOnly},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := testkit.New("App")
			d := b.Class("C", testkit.T("T"), testkit.D("U", tc.def))
			b.Compile()
			ok, bag := check(d)
			if ok {
				t.Fatalf("expected rejection")
			}
			if bag.Len() != 1 || bag.Items()[0].Code != tc.code {
				t.Fatalf("got %v, want %s", bag.Items(), tc.code.ID())
			}
			if bag.Items()[0].Primary != d.TypeParams[1].Span {
				t.Fatalf("diagnostic must be attached to the slot")
			}
		})
	}
}

func TestForwardReference(t *testing.T) {
	b := testkit.New("App")
	list := b.Lookup("System.Collections.Generic.List`1")
	d := b.Class("C", testkit.T("T"), testkit.T("U"), testkit.T("V"))
	b.SetDefault(d, "U", types.Named(list, testkit.P(d, "T")))
	b.SetDefault(d, "V", types.Named(list, testkit.P(d, "V")))
	b.Compile()

	ok, bag := check(d)
	if ok || bag.Count(diag.GenDefaultForwardReference) != 1 {
		t.Fatalf("self reference must be rejected: %v", bag.Items())
	}
	if bag.Items()[0].Primary != d.TypeParams[2].Span {
		t.Fatalf("reported on the wrong slot")
	}
}

func TestConstraintPosition(t *testing.T) {
	b := testkit.New("App")
	fn := b.Delegate(nil, "Fn", b.Builtin("int"))
	hidden := b.Class("Hidden")
	hidden.Access = types.AccessInternal
	open := b.Class("Open")

	cases := []struct {
		name string
		def  *types.Type
		code diag.Code
	}{
		{"array", types.ArrayOf(b.Builtin("int"), 1), diag.GenConstraintArray},
		{"delegate", testkit.Ref(fn), diag.GenConstraintDelegate},
		{"object", b.Builtin("object"), diag.GenConstraintRootType},
		{"value type root", b.Builtin("ValueType"), diag.GenConstraintRootType},
		{"sealed", b.Builtin("string"), diag.GenConstraintSealed},
		{"struct", b.Builtin("int"), diag.GenConstraintSealed},
		{"less accessible", testkit.Ref(hidden), diag.GenConstraintLessAccessible},
		{"fine", testkit.Ref(open), diag.UnknownCode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := b.Class("C"+tc.name, testkit.T("U"), testkit.D("T", tc.def))
			b.Where(d, "U", testkit.Is(testkit.P(d, "T")))
			b.Compile()
			ok, bag := check(d)
			if tc.code == diag.UnknownCode {
				if !ok || bag.Len() != 0 {
					t.Fatalf("unexpected diagnostics: %v", bag.Items())
				}
				return
			}
			if ok || bag.Count(tc.code) != 1 {
				t.Fatalf("got %v, want %s", bag.Items(), tc.code.ID())
			}
		})
	}
}

func TestSlotWithoutConstraintUseIsFree(t *testing.T) {
	b := testkit.New("App")
	hidden := b.Class("Hidden")
	hidden.Access = types.AccessInternal
	d := b.Class("C", testkit.T("U"), testkit.D("T", testkit.Ref(hidden)))
	b.Compile()
	if ok, bag := check(d); !ok || bag.Len() != 0 {
		t.Fatalf("only constraint positions are access-checked here: %v", bag.Items())
	}
}

func TestOwnConstraintSatisfied(t *testing.T) {
	b := testkit.New("App")
	base := b.Class("Base")
	derived := b.Class("Derived")
	b.Extends(derived, testkit.Ref(base))
	other := b.Class("Other")
	noCtor := b.Class("NoCtor")
	b.Ctor(noCtor, testkit.Arg("x", b.Builtin("int")))
	iface := b.Interface("IThing")

	cases := []struct {
		name string
		item decl.ConstraintItem
		def  *types.Type
		ok   bool
	}{
		{"class ok", decl.ConstraintItem{Kind: decl.ConstraintClass}, b.Builtin("string"), true},
		{"class bad", decl.ConstraintItem{Kind: decl.ConstraintClass}, b.Builtin("int"), false},
		{"struct ok", decl.ConstraintItem{Kind: decl.ConstraintStruct}, b.Builtin("int"), true},
		{"struct bad", decl.ConstraintItem{Kind: decl.ConstraintStruct}, b.Builtin("string"), false},
		{"notnull bad", decl.ConstraintItem{Kind: decl.ConstraintNotNull}, types.NullableOf(b.Builtin("int")), false},
		{"new ok", decl.ConstraintItem{Kind: decl.ConstraintNew}, testkit.Ref(other), true},
		{"new no ctor", decl.ConstraintItem{Kind: decl.ConstraintNew}, testkit.Ref(noCtor), false},
		{"new interface", decl.ConstraintItem{Kind: decl.ConstraintNew}, testkit.Ref(iface), false},
		{"base ok", testkit.Is(testkit.Ref(base)), testkit.Ref(derived), true},
		{"base bad", testkit.Is(testkit.Ref(base)), testkit.Ref(other), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := b.Class("C"+tc.name, testkit.D("T", tc.def))
			b.Where(d, "T", tc.item)
			b.Compile()
			ok, bag := check(d)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v (%v)", ok, tc.ok, bag.Items())
			}
			if !tc.ok && bag.Count(diag.GenDefaultConstraintUnsatisfied) != 1 {
				t.Fatalf("expected unsatisfied diagnostic: %v", bag.Items())
			}
		})
	}
}

func TestMetadataStackOnlyDefault(t *testing.T) {
	b := testkit.New("App")
	ref := b.External(&types.Symbol{
		ID:        "Vendor.Buffers.RefCursor",
		Name:      "RefCursor",
		Namespace: "Vendor.Buffers",
		Kind:      types.SymStruct,
		Access:    types.AccessPublic,
		StackOnly: true,
	})
	d := b.Class("Reader", testkit.T("T"), testkit.D("TCursor", types.Named(ref)))
	b.Compile()
	ok, bag := check(d)
	if ok || bag.Count(diag.GenDefaultStackOnly) != 1 {
		t.Fatalf("got ok=%v %v", ok, bag.Items())
	}
}
