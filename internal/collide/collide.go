// Package collide decides whether generated siblings can be declared, and
// whether they need the shadow modifier.
package collide

import (
	"fmt"

	"genarity/internal/config"
	"genarity/internal/decl"
	"genarity/internal/diag"
	"genarity/internal/reduce"
	"genarity/internal/source"
	"genarity/internal/types"
)

// Resolver checks overloads against one compilation.
type Resolver struct {
	table *types.Table
}

// New creates a resolver over the symbols of tab.
func New(tab *types.Table) *Resolver {
	return &Resolver{table: tab}
}

// Resolve checks the overloads of one target in order and returns the
// accepted ones together with a record per input overload. A rejected
// overload does not affect its siblings.
func (r *Resolver) Resolve(ovs []*reduce.Overload, eff config.Effective, rep diag.Reporter) ([]*reduce.Overload, []Record) {
	accepted := make([]*reduce.Overload, 0, len(ovs))
	records := make([]Record, 0, len(ovs))
	var siblings []types.Member
	for _, o := range ovs {
		rec := r.resolveOne(o, eff, siblings, rep)
		records = append(records, rec)
		if rec.Outcome.Accepted() {
			accepted = append(accepted, rec.Overload)
			siblings = append(siblings, rec.Overload.Decl.Member())
		}
	}
	return accepted, records
}

func (r *Resolver) resolveOne(o *reduce.Overload, eff config.Effective, siblings []types.Member, rep diag.Reporter) Record {
	orig := o.Target.Decl
	slot := o.Target.Slots[o.Index-1]
	me := o.Decl.Member()
	rec := Record{Overload: o}

	conflict := func(scope Scope, m types.Member, owner string) {
		rec.Scope = scope
		rec.Existing = &m
		rec.Owner = owner
	}

	// same scope: already accepted siblings, the container, the namespace
	if m, ok := find(me, siblings); ok {
		conflict(ScopeSibling, m, orig.Name)
	} else if orig.IsNamespaceLevel() {
		if m, owner, ok := r.inNamespace(me, o.Namespace); ok {
			conflict(ScopeNamespace, m, owner)
		}
	} else if m, ok := find(me, containerMembers(orig)); ok {
		conflict(ScopeContainer, m, orig.Parent.Name)
	}
	if rec.Scope != ScopeNone {
		rec.Outcome = RejectSameScope
		where := rec.Owner
		if rec.Scope == ScopeNamespace {
			where = "namespace " + displayNamespace(o.Namespace)
		}
		diag.Report(rep, diag.GenSameScopeCollision, slot.Span,
			fmt.Sprintf("cannot generate %s: %s already declares %s", o.Decl.Signature(), where, rec.Existing.Key())).
			WithNote(orig.NameSpan, "generated from this declaration").
			Emit()
		return rec
	}

	// base chain
	if m, owner, ok := r.inBase(me, orig); ok {
		conflict(ScopeBase, m, owner)
		shadow := eff.ApplyNew
		if slot.Default != nil && slot.Default.ApplyNew != nil {
			shadow = *slot.Default.ApplyNew
		}
		reason := ""
		switch {
		case orig.Mods.Has(decl.ModOverride):
			reason = "override members cannot be shadowed"
		case orig.Kind == decl.KindLocalFunc:
			reason = "local functions cannot be shadowed"
		case orig.Parent != nil && orig.Parent.IsStatic():
			reason = "members of static types cannot be shadowed"
		case !shadow:
			reason = "shadowing is disabled"
		}
		if reason != "" {
			rec.Outcome = RejectBase
			diag.Report(rep, diag.GenBaseCollision, slot.Span,
				fmt.Sprintf("cannot generate %s: it hides %s inherited from %s (%s)", o.Decl.Signature(), m.Key(), owner, reason)).Emit()
			return rec
		}
		rec.Overload = o.WithShadow(true)
		rec.Outcome = AcceptShadow
	} else {
		rec.Outcome = Accept
		if orig.Mods.Has(decl.ModNew) {
			rec.Overload = o.WithShadow(false)
		}
	}

	if culprit, sp := inaccessible(rec.Overload); culprit != nil {
		rec.Outcome = RejectAccess
		if sp.Empty() {
			sp = slot.Span
		}
		diag.Report(rep, diag.GenInaccessibleSignature, sp,
			fmt.Sprintf("cannot generate %s: %s %s is less accessible than the member (%s)",
				o.Decl.Signature(), culprit.EffectiveAccess(), culprit.Name, o.Decl.EffectiveAccess())).Emit()
		return rec
	}
	if rec.Outcome == Accept && orig.Mods.Has(decl.ModNew) {
		diag.Report(rep, diag.GenRedundantShadow, slot.Span,
			fmt.Sprintf("%s hides nothing; the new modifier is dropped", o.Decl.Signature())).Emit()
	}
	return rec
}

func displayNamespace(ns string) string {
	if ns == "" {
		return "<global>"
	}
	return ns
}

// clashes reports whether declaring a next to b is illegal in one scope.
func clashes(a, b types.Member) bool {
	if a.Name != b.Name {
		return false
	}
	switch {
	case a.Kind == types.MemberMethod && b.Kind == types.MemberMethod:
		return a.Key() == b.Key()
	case a.Kind == types.MemberMethod || b.Kind == types.MemberMethod:
		other := b
		if b.Kind == types.MemberMethod {
			other = a
		}
		return other.Kind != types.MemberType || other.Arity == 0
	default:
		return a.Arity == b.Arity
	}
}

func find(me types.Member, in []types.Member) (types.Member, bool) {
	for _, m := range in {
		if clashes(me, m) {
			return m, true
		}
	}
	return types.Member{}, false
}

// containerMembers lists what the target's container declares: source
// members of every fragment, members known only from metadata, or the
// local functions of the host method.
func containerMembers(orig *decl.Decl) []types.Member {
	parent := orig.Parent
	var out []types.Member
	seen := make(map[string]bool)
	add := func(m types.Member) {
		if !seen[m.Key()] {
			seen[m.Key()] = true
			out = append(out, m)
		}
	}
	if parent.Kind == decl.KindType {
		for _, m := range parent.Members() {
			if m == orig || m.Kind == decl.KindConstructor || m.Kind == decl.KindAccessor {
				continue
			}
			add(m.Member())
		}
		if parent.Sym != nil {
			for _, m := range parent.Sym.Members {
				add(m)
			}
		}
		return out
	}
	for _, l := range parent.Locals {
		if l != orig {
			add(l.Member())
		}
	}
	return out
}

func (r *Resolver) inNamespace(me types.Member, ns string) (types.Member, string, bool) {
	if r.table == nil {
		return types.Member{}, "", false
	}
	for _, sym := range r.table.Namespace(ns) {
		m := types.Member{Kind: types.MemberType, Name: sym.Name, Arity: sym.Arity, Access: sym.Access}
		if clashes(me, m) {
			return m, sym.ID, true
		}
	}
	return types.Member{}, "", false
}

// inBase searches the base chain of the target's enclosing type. Private
// members are invisible; interfaces count only for interface containers.
func (r *Resolver) inBase(me types.Member, orig *decl.Decl) (types.Member, string, bool) {
	if orig.Kind == decl.KindLocalFunc {
		return types.Member{}, "", false
	}
	owner := orig.EnclosingType()
	if owner == nil {
		return types.Member{}, "", false
	}
	var bases []*types.Type
	if owner.Sym != nil {
		if owner.Sym.Base != nil {
			bases = append(bases, owner.Sym.Base)
		}
		if owner.Sym.Kind == types.SymInterface {
			bases = append(bases, owner.Sym.Interfaces...)
		}
	}
	seen := make(map[*types.Symbol]bool)
	for len(bases) > 0 {
		b := bases[0]
		bases = bases[1:]
		if b == nil || b.Sym == nil || seen[b.Sym] {
			continue
		}
		sym := b.Sym
		seen[sym] = true
		for _, m := range sym.Members {
			if m.Access == types.AccessPrivate {
				continue
			}
			if clashes(me, m) {
				return m, sym.ID, true
			}
		}
		if sym.Base != nil {
			bases = append(bases, sym.Base)
		}
		if sym.Kind == types.SymInterface {
			bases = append(bases, sym.Interfaces...)
		}
	}
	return types.Member{}, "", false
}

// inaccessible finds a type in the externally visible signature of o, or
// among the substituted defaults, that is less accessible than o itself.
func inaccessible(o *reduce.Overload) (*types.Symbol, source.Span) {
	d := o.Decl
	if d.Kind == decl.KindLocalFunc {
		return nil, source.Span{}
	}
	want := d.EffectiveAccess()
	check := func(t *types.Type) *types.Symbol {
		if t == nil {
			return nil
		}
		return t.LeastAccessible(want)
	}
	sigTypes := append([]*types.Type(nil), o.Args[o.Arity:]...)
	for _, p := range d.Params {
		sigTypes = append(sigTypes, p.Type)
	}
	sigTypes = append(sigTypes, d.Result)
	sigTypes = append(sigTypes, d.Bases()...)
	for _, c := range d.AllConstraints() {
		for _, it := range c.Items {
			if it.Kind == decl.ConstraintType {
				sigTypes = append(sigTypes, it.Type)
			}
		}
	}
	for _, t := range sigTypes {
		if culprit := check(t); culprit != nil {
			return culprit, slotSpanFor(o, culprit)
		}
	}
	return nil, source.Span{}
}

// slotSpanFor points at the substituted slot whose default introduced sym.
func slotSpanFor(o *reduce.Overload, sym *types.Symbol) source.Span {
	for _, slot := range o.Target.Slots[o.Index-1:] {
		if slot.Default == nil || slot.Default.Type == nil {
			continue
		}
		found := false
		slot.Default.Type.Walk(func(n *types.Type) bool {
			if n.Sym == sym {
				found = true
				return false
			}
			return true
		})
		if found {
			return slot.Span
		}
	}
	return source.Span{}
}
