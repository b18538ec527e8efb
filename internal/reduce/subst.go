package reduce

import (
	"genarity/internal/decl"
	"genarity/internal/types"
)

// declSubst rewrites declarations with a type substitution. It never touches
// its input: every rewritten declaration is a fresh value.
type declSubst struct {
	types.Subst
}

func (s declSubst) params(ps []decl.Param) []decl.Param {
	if len(ps) == 0 {
		return nil
	}
	out := make([]decl.Param, len(ps))
	for i, p := range ps {
		p.Type = s.Apply(p.Type)
		out[i] = p
	}
	return out
}

func (s declSubst) typeList(ts []*types.Type) []*types.Type {
	if len(ts) == 0 {
		return nil
	}
	return append([]*types.Type(nil), s.ApplyAll(ts)...)
}

// constraints drops clauses of substituted parameters and rewrites the rest.
// Only the target's own clauses may be passed here.
func (s declSubst) constraints(cs []decl.Constraint) []decl.Constraint {
	var kept []decl.Constraint
	for _, c := range cs {
		if _, gone := s.Map[c.Param]; !gone {
			kept = append(kept, c)
		}
	}
	return s.rewrite(kept)
}

// rewrite substitutes inside constraint items without dropping clauses.
// Nested declarations constrain their own parameters, which may share a
// name with a slot of the target.
func (s declSubst) rewrite(cs []decl.Constraint) []decl.Constraint {
	var out []decl.Constraint
	for _, c := range cs {
		items := make([]decl.ConstraintItem, len(c.Items))
		for i, it := range c.Items {
			if it.Kind == decl.ConstraintType {
				it.Type = s.Apply(it.Type)
			}
			items[i] = it
		}
		c.Items = items
		out = append(out, c)
	}
	return out
}

// member rewrites a nested declaration and everything below it.
func (s declSubst) member(m *decl.Decl, parent *decl.Decl) *decl.Decl {
	out := *m
	out.Parent = parent
	out.Params = s.params(m.Params)
	out.Result = s.Apply(m.Result)
	out.Constraints = s.rewrite(m.Constraints)
	out.Body = m.Body.Subst(s.Subst)
	out.Initializer = m.Initializer.Subst(s.Subst)
	out.ExplicitInterface = s.Apply(m.ExplicitInterface)
	out.TypeParams = append([]decl.TypeParam(nil), m.TypeParams...)
	if len(m.Locals) > 0 {
		out.Locals = make([]*decl.Decl, len(m.Locals))
		for i, l := range m.Locals {
			out.Locals[i] = s.member(l, &out)
		}
	}
	if len(m.Fragments) > 0 {
		out.Fragments = make([]*decl.Fragment, len(m.Fragments))
		for i, f := range m.Fragments {
			nf := *f
			nf.Bases = s.typeList(f.Bases)
			nf.Constraints = s.rewrite(f.Constraints)
			nf.Members = make([]*decl.Decl, len(f.Members))
			for j, mm := range f.Members {
				nf.Members[j] = s.member(mm, &out)
			}
			out.Fragments[i] = &nf
		}
	}
	return &out
}
