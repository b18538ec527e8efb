// Package reduce derives the reduced-arity siblings of a validated target.
package reduce

import (
	"context"
	"fmt"
	"strings"

	"genarity/internal/config"
	"genarity/internal/decl"
	"genarity/internal/filter"
	"genarity/internal/types"
)

// Reduce produces the overloads of t for i = k..1, most generic first.
// Cancellation is checked before every iteration; on cancellation nothing
// is returned.
func Reduce(ctx context.Context, tab *types.Table, t *filter.Target, eff config.Effective) ([]*Overload, error) {
	k := t.K()
	if k == 0 {
		return nil, nil
	}
	out := make([]*Overload, 0, k)
	for i := k; i >= 1; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		o, err := build(tab, t, eff, i)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// Resolve builds the substitution for overload i: slots s_i..s_k map to
// their defaults with earlier substituted slots already replaced inside them.
func Resolve(t *filter.Target, i int) types.Subst {
	s := types.Subst{Owner: t.ID(), Map: make(map[string]*types.Type, t.K()-i+1)}
	for _, slot := range t.Slots[i-1:] {
		s.Map[slot.Name] = s.Apply(slot.Default.Type)
	}
	return s
}

func build(tab *types.Table, t *filter.Target, eff config.Effective, i int) (*Overload, error) {
	orig := t.Decl
	keep := t.Prefix() + i - 1
	s := Resolve(t, i)

	args := make([]*types.Type, len(orig.TypeParams))
	for j, tp := range orig.TypeParams {
		if j < keep {
			args[j] = orig.ParamType(tp.Name)
			continue
		}
		args[j] = s.Map[tp.Name]
	}

	o := &Overload{
		Target:    t,
		Index:     i,
		Arity:     keep,
		Args:      args,
		Subst:     s,
		Namespace: orig.RootNamespace(),
	}
	if orig.IsNamespaceLevel() {
		o.Namespace = eff.Namespace(orig.Namespace)
	}

	ds := declSubst{s}
	d := &decl.Decl{
		ID:         fmt.Sprintf("%s/%d", orig.ID, keep),
		Kind:       orig.Kind,
		TypeKind:   orig.TypeKind,
		Name:       orig.Name,
		Access:     orig.Access,
		Mods:       orig.Mods,
		TypeParams: keptParams(orig, keep),
		Marker:     GeneratedMarker,
		Parent:     orig.Parent,
		Namespace:  o.Namespace,
		Span:       orig.Span,
		NameSpan:   orig.NameSpan,
	}

	switch orig.Kind {
	case decl.KindType:
		frag := &decl.Fragment{
			Span:        orig.Span,
			Partial:     true,
			Constraints: ds.constraints(orig.AllConstraints()),
		}
		d.Mods |= decl.ModPartial
		d.Fragments = []*decl.Fragment{frag}
		if eff.TypeConvention == decl.TypeInherit {
			o.Convention = ConvInherit
			frag.Bases = []*types.Type{types.Named(orig.Sym, args...)}
			frag.Members = forwardCtors(orig, d, ds)
		} else {
			o.Convention = ConvCopy
			frag.Bases = ds.typeList(orig.Bases())
			for _, m := range orig.Members() {
				frag.Members = append(frag.Members, ds.member(m, d))
			}
		}
		d.Sym = decl.NewSymbol(tab, d)
		o.Sym = d.Sym

	case decl.KindDelegate:
		o.Convention = ConvCopy
		d.Params = ds.params(orig.Params)
		d.Result = ds.Apply(orig.Result)
		d.Constraints = ds.constraints(orig.Constraints)
		d.Sym = decl.NewSymbol(tab, d)
		o.Sym = d.Sym

	case decl.KindMethod, decl.KindLocalFunc:
		d.Params = ds.params(orig.Params)
		d.Result = ds.Apply(orig.Result)
		d.Constraints = ds.constraints(orig.Constraints)
		d.ExplicitInterface = orig.ExplicitInterface
		if eff.MethodConvention == decl.MethodCall && orig.Body != nil {
			o.Convention = ConvCall
			d.Mods &^= decl.ModAsync
			d.Body = forwardCall(orig, d, args)
		} else {
			o.Convention = ConvCopy
			d.Body = orig.Body.Subst(s)
			for _, l := range orig.Locals {
				d.Locals = append(d.Locals, ds.member(l, d))
			}
		}

	default:
		return nil, fmt.Errorf("cannot reduce %s", orig)
	}
	o.Decl = d
	return o, nil
}

func keptParams(orig *decl.Decl, keep int) []decl.TypeParam {
	if keep == 0 {
		return nil
	}
	out := make([]decl.TypeParam, keep)
	copy(out, orig.TypeParams[:keep])
	for j := range out {
		out[j].Default = nil
	}
	return out
}

// forwardCall builds "return M<args>(a, ref b);".
func forwardCall(orig, d *decl.Decl, args []*types.Type) *decl.Body {
	b := &decl.Body{}
	text := func(s string) { b.Segments = append(b.Segments, decl.Segment{Text: s}) }
	if d.Result != nil && d.Result.Kind != types.KindUnit {
		text("return ")
	}
	text(orig.Name + "<")
	for j, a := range args {
		if j > 0 {
			text(", ")
		}
		b.Segments = append(b.Segments, decl.Segment{Type: a})
	}
	text(">(")
	text(callArgs(d.Params))
	text(");")
	return b
}

func callArgs(ps []decl.Param) string {
	parts := make([]string, len(ps))
	for j, p := range ps {
		switch p.Modifier {
		case decl.ParamRef, decl.ParamOut, decl.ParamIn:
			parts[j] = p.Modifier.Keyword() + " " + p.Name
		default:
			parts[j] = p.Name
		}
	}
	return strings.Join(parts, ", ")
}

// forwardCtors gives an inheriting stub one constructor per non-private
// constructor of the original, each chaining to base.
func forwardCtors(orig, stub *decl.Decl, ds declSubst) []*decl.Decl {
	var out []*decl.Decl
	for _, m := range orig.Members() {
		if m.Kind != decl.KindConstructor || m.Access == types.AccessPrivate || m.IsStatic() {
			continue
		}
		out = append(out, &decl.Decl{
			ID:          stub.ID + "." + m.ID,
			Kind:        decl.KindConstructor,
			Name:        stub.Name,
			Access:      m.Access,
			Params:      ds.params(m.Params),
			Initializer: decl.Text("base(" + callArgs(m.Params) + ")"),
			Body:        decl.Text(),
			Parent:      stub,
			Namespace:   stub.Namespace,
			Span:        m.Span,
			NameSpan:    m.NameSpan,
		})
	}
	return out
}
