package filter

import (
	"testing"

	"genarity/internal/collect"
	"genarity/internal/decl"
	"genarity/internal/diag"
	"genarity/internal/testkit"
)

func validate(t *testing.T, d *decl.Decl, opts Options) (*Target, *diag.Bag) {
	t.Helper()
	p, err := NewPipeline(opts)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	bag := diag.NewBag(0)
	tg := p.Validate(collect.Candidate{Decl: d}, diag.BagReporter{Bag: bag})
	return tg, bag
}

func TestContiguity(t *testing.T) {
	cases := []struct {
		name  string
		slots []bool
		ok    bool
		k     int
		bad   int
	}{
		{"last only", []bool{false, false, true}, true, 1, -1},
		{"trailing pair", []bool{false, true, true}, true, 2, -1},
		{"all", []bool{true, true, true}, true, 3, -1},
		{"middle", []bool{false, true, false}, false, 0, 1},
		{"gap", []bool{true, false, true}, false, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := testkit.New("App")
			intT := b.Builtin("int")
			tps := make([]decl.TypeParam, len(tc.slots))
			for i, has := range tc.slots {
				name := string(rune('T' + i))
				if has {
					tps[i] = testkit.D(name, intT)
				} else {
					tps[i] = testkit.T(name)
				}
			}
			d := b.Class("C", tps...)
			b.Compile()

			tg, bag := validate(t, d, Options{})
			if tc.ok {
				if tg == nil || tg.K() != tc.k || bag.Len() != 0 {
					t.Fatalf("expected target with k=%d, got %+v diags=%v", tc.k, tg, bag.Items())
				}
				return
			}
			if tg != nil {
				t.Fatalf("expected rejection")
			}
			if bag.Len() != 1 || bag.Items()[0].Code != diag.GenNonTrailingDefault {
				t.Fatalf("expected one contiguity diagnostic, got %v", bag.Items())
			}
			if bag.Items()[0].Primary != d.TypeParams[tc.bad].Span {
				t.Fatalf("diagnostic must point at slot %d", tc.bad)
			}
		})
	}
}

func TestEnclosingMustBePartial(t *testing.T) {
	b := testkit.New("App")
	outer := b.Class("Outer")
	outer.Fragments[0].Partial = false
	m := b.Method(outer, "M", testkit.D("T", b.Builtin("int")))
	b.Compile()

	tg, bag := validate(t, m, Options{})
	if tg != nil || bag.Count(diag.GenEnclosingNotPartial) != 1 {
		t.Fatalf("expected non-partial rejection, got %v", bag.Items())
	}

	// local functions look through their method to the enclosing types
	b = testkit.New("App")
	outer = b.Class("Outer")
	host := b.Method(outer, "Host")
	local := b.Local(host, "L", testkit.D("T", b.Builtin("int")))
	b.Fragment(outer, false)
	b.Compile()
	if tg, bag := validate(t, local, Options{}); tg != nil || bag.Count(diag.GenEnclosingNotPartial) != 1 {
		t.Fatalf("every fragment must be partial, got %v", bag.Items())
	}
}

func TestNestingViolation(t *testing.T) {
	b := testkit.New("App")
	intT := b.Builtin("int")
	outer := b.Class("Outer", testkit.D("X", intT))
	m := b.Method(outer, "M", testkit.D("T", intT))
	gen := b.Class("Gen")
	gen.Marker = "Genarity.ReducedFrom"
	inner := b.Method(gen, "N", testkit.D("T", intT))
	b.Compile()

	if tg, bag := validate(t, m, Options{}); tg != nil || bag.Count(diag.GenNestingViolation) != 1 {
		t.Fatalf("member of a candidate must be rejected: %v", bag.Items())
	}
	if tg, bag := validate(t, inner, Options{}); tg != nil || bag.Count(diag.GenNestingViolation) != 1 {
		t.Fatalf("member of generated type must be rejected: %v", bag.Items())
	}
	if tg, _ := validate(t, outer, Options{}); tg == nil {
		t.Fatalf("outer itself is a valid target")
	}
}

func TestUnsupportedMember(t *testing.T) {
	b := testkit.New("App")
	iface := b.Interface("I")
	cls := b.Class("C")
	m := b.Method(cls, "M", testkit.D("T", b.Builtin("int")))
	m.ExplicitInterface = testkit.Ref(iface)
	b.Compile()

	if tg, bag := validate(t, m, Options{}); tg != nil || bag.Count(diag.GenUnsupportedMember) != 1 {
		t.Fatalf("explicit implementation must be rejected: %v", bag.Items())
	}
}

func TestShortCircuitAndStageOptions(t *testing.T) {
	b := testkit.New("App")
	intT := b.Builtin("int")
	outer := b.Class("Outer")
	outer.Fragments[0].Partial = false
	m := b.Method(outer, "M", testkit.D("T", intT), testkit.T("U"))
	b.Compile()

	_, bag := validate(t, m, Options{})
	if bag.Len() != 1 || bag.Items()[0].Code != diag.GenNonTrailingDefault {
		t.Fatalf("first failing stage must stop the pipeline: %v", bag.Items())
	}

	_, bag = validate(t, m, Options{Order: []string{StageFragmentable, StageContiguity}})
	if bag.Len() != 1 || bag.Items()[0].Code != diag.GenEnclosingNotPartial {
		t.Fatalf("reordered stages: %v", bag.Items())
	}

	tg, bag := validate(t, m, Options{Disabled: []string{StageContiguity, StageFragmentable}})
	if tg != nil || bag.Len() != 0 {
		t.Fatalf("no trailing run means no target and no diagnostic: %+v %v", tg, bag.Items())
	}

	if _, err := NewPipeline(Options{Disabled: []string{"bogus"}}); err == nil {
		t.Fatalf("unknown stage must fail")
	}
	if _, err := NewPipeline(Options{Order: []string{StageNesting, StageNesting}}); err == nil {
		t.Fatalf("duplicate stage must fail")
	}
}
