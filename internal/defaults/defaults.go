// Package defaults checks the default type arguments of a target before any
// sibling is generated. Every failure is fatal for the whole target.
package defaults

import (
	"fmt"

	"genarity/internal/decl"
	"genarity/internal/diag"
	"genarity/internal/filter"
	"genarity/internal/source"
	"genarity/internal/types"
)

// Check validates every annotated slot of t. It reports one diagnostic per
// failed rule and returns false when t must not be reduced.
func Check(t *filter.Target, r diag.Reporter) bool {
	ok := true
	for _, slot := range t.Slots {
		if !checkSlot(t, slot, r) {
			ok = false
		}
	}
	return ok
}

func at(slot decl.TypeParam) source.Span {
	if slot.Default != nil && !slot.Default.Span.Empty() {
		return slot.Default.Span
	}
	return slot.Span
}

func checkSlot(t *filter.Target, slot decl.TypeParam, r diag.Reporter) bool {
	def := slot.Default.Type
	if def == nil {
		diag.Report(r, diag.GenDefaultUnit, at(slot),
			fmt.Sprintf("type parameter %s has a default annotation without a type", slot.Name)).Emit()
		return false
	}
	ok := checkKind(slot, def, r)
	if !checkForward(t, slot, def, r) {
		ok = false
	}
	if !ok {
		return false
	}
	if !checkConstraintPosition(t, slot, def, r) {
		ok = false
	}
	if !checkSatisfies(t, slot, def, r) {
		ok = false
	}
	return ok
}

// checkKind rejects types that can never be type arguments.
func checkKind(slot decl.TypeParam, def *types.Type, r diag.Reporter) bool {
	var code diag.Code
	var what string
	switch {
	case def.Kind == types.KindPointer:
		code, what = diag.GenDefaultPointer, "a pointer type"
	case def.Kind == types.KindFuncPointer:
		code, what = diag.GenDefaultFunctionPointer, "a function pointer type"
	case def.Kind == types.KindUnit:
		code, what = diag.GenDefaultUnit, "void"
	case hasUnbound(def):
		code, what = diag.GenDefaultUnboundGeneric, "an unbound generic type"
	case def.Kind == types.KindNamed && def.Sym != nil && def.Sym.StackOnly:
		code, what = diag.GenDefaultStackOnly, "a stack-only type"
	default:
		return true
	}
	diag.Report(r, code, at(slot),
		fmt.Sprintf("default type %s of %s is %s", def, slot.Name, what)).Emit()
	return false
}

func hasUnbound(t *types.Type) bool {
	found := false
	t.Walk(func(n *types.Type) bool {
		if n.Kind == types.KindNamed && n.Unbound {
			found = true
			return false
		}
		return true
	})
	return found
}

// checkForward: a default may only mention type parameters that stay
// generic whenever it is substituted, i.e. parameters before the slot.
func checkForward(t *filter.Target, slot decl.TypeParam, def *types.Type, r diag.Reporter) bool {
	owner := t.Decl.ID
	for _, name := range def.ParamNames(owner) {
		tp, ok := t.Decl.TypeParam(name)
		if !ok || tp.Ordinal < slot.Ordinal {
			continue
		}
		msg := fmt.Sprintf("default type %s of %s refers to %s, which is declared after it", def, slot.Name, name)
		if tp.Ordinal == slot.Ordinal {
			msg = fmt.Sprintf("default type %s of %s refers to the parameter itself", def, slot.Name)
		}
		diag.Report(r, diag.GenDefaultForwardReference, at(slot), msg).
			WithNote(tp.Span, "declared here").
			Emit()
		return false
	}
	return true
}

// constrainedBy returns the clauses of other parameters that are bound to
// slot directly (where U : T).
func constrainedBy(d *decl.Decl, slot decl.TypeParam) []decl.Constraint {
	var out []decl.Constraint
	for _, c := range d.AllConstraints() {
		if c.Param == slot.Name {
			continue
		}
		for _, it := range c.Items {
			if it.Kind == decl.ConstraintType && it.Type.Kind == types.KindParam &&
				it.Type.Owner == d.ID && it.Type.Name == slot.Name {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// checkConstraintPosition applies the rules for slots other parameters are
// constrained to: after substitution the default becomes a constraint type.
func checkConstraintPosition(t *filter.Target, slot decl.TypeParam, def *types.Type, r diag.Reporter) bool {
	clauses := constrainedBy(t.Decl, slot)
	if len(clauses) == 0 {
		return true
	}
	user := clauses[0].Param
	note := func(b *diag.ReportBuilder) *diag.ReportBuilder {
		return b.WithNote(clauses[0].Span, fmt.Sprintf("%s is constrained to %s here", user, slot.Name))
	}

	ok := true
	var code diag.Code
	var what string
	sym := def.Sym
	switch {
	case def.Kind == types.KindArray:
		code, what = diag.GenConstraintArray, "an array type"
	case def.Kind == types.KindNamed && sym != nil && (sym.Kind == types.SymDelegate || sym.Special == types.SpecialDelegate):
		code, what = diag.GenConstraintDelegate, "a delegate type"
	case def.Kind == types.KindNamed && sym != nil && (sym.Special == types.SpecialObject || sym.Special == types.SpecialValueType):
		code, what = diag.GenConstraintRootType, "a root type"
	case isSealedLike(def):
		code, what = diag.GenConstraintSealed, "sealed or a value type"
	}
	if code != diag.UnknownCode {
		note(diag.Report(r, code, at(slot),
			fmt.Sprintf("default type %s of %s is %s and cannot be used as a constraint of %s", def, slot.Name, what, user))).Emit()
		ok = false
	}

	member := t.Decl.EffectiveAccess()
	if culprit := def.LeastAccessible(member); culprit != nil {
		note(diag.Report(r, diag.GenConstraintLessAccessible, at(slot),
			fmt.Sprintf("default type %s of %s is less accessible (%s) than %s (%s)",
				def, slot.Name, culprit.EffectiveAccess(), t.Decl.Name, member))).Emit()
		ok = false
	}
	return ok
}

func isSealedLike(def *types.Type) bool {
	switch def.Kind {
	case types.KindTuple:
		return true
	case types.KindNullable:
		return isSealedLike(def.Elem) || (def.Elem.Kind == types.KindNamed && def.Elem.Sym != nil && def.Elem.Sym.IsValueType())
	case types.KindNamed:
		return def.Sym != nil && (def.Sym.Sealed || def.Sym.Static || def.Sym.IsValueType())
	}
	return false
}

// checkSatisfies verifies the slot's own where clause where the answer
// does not depend on other type arguments.
func checkSatisfies(t *filter.Target, slot decl.TypeParam, def *types.Type, r diag.Reporter) bool {
	c, ok := t.Decl.ConstraintFor(slot.Name)
	if !ok || def.Kind == types.KindParam {
		return true
	}
	for _, it := range c.Items {
		if reason := unsatisfied(it, def); reason != "" {
			diag.Report(r, diag.GenDefaultConstraintUnsatisfied, at(slot),
				fmt.Sprintf("default type %s of %s %s", def, slot.Name, reason)).
				WithNote(c.Span, "constraint declared here").
				Emit()
			return false
		}
	}
	return true
}

func unsatisfied(it decl.ConstraintItem, def *types.Type) string {
	sym := def.Sym
	named := def.Kind == types.KindNamed && sym != nil
	valueType := def.Kind == types.KindTuple || (named && sym.IsValueType())
	switch it.Kind {
	case decl.ConstraintClass:
		if valueType || (def.Kind == types.KindNullable && isSealedLike(def)) {
			return "is not a reference type"
		}
	case decl.ConstraintStruct:
		if !valueType {
			return "is not a non-nullable value type"
		}
	case decl.ConstraintUnmanaged:
		if !valueType {
			return "is not an unmanaged type"
		}
	case decl.ConstraintNotNull:
		if def.Kind == types.KindNullable {
			return "is nullable"
		}
	case decl.ConstraintNew:
		switch {
		case def.Kind == types.KindArray:
			return "has no parameterless constructor"
		case named && sym.Kind == types.SymInterface:
			return "is an interface and has no constructor"
		case named && !valueType && (sym.Abstract || !sym.DefaultCtor):
			return "has no accessible parameterless constructor"
		}
	case decl.ConstraintType:
		want := it.Type
		if want == nil || want.Kind != types.KindNamed || want.Sym == nil || !named {
			return ""
		}
		if want.Sym.Special == types.SpecialObject {
			return ""
		}
		if !sym.DerivesFrom(want.Sym) {
			return fmt.Sprintf("does not derive from %s", want)
		}
	}
	return ""
}
