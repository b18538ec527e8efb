package types

// Subst replaces type parameters declared by Owner. Parameters of other
// owners (an enclosing type, a nested generic method) are left alone even
// when they share a name.
type Subst struct {
	Owner string
	Map   map[string]*Type
}

// Apply returns t with every mapped parameter replaced. Unchanged subtrees
// are returned as-is, so callers can compare pointers to detect a no-op.
func (s Subst) Apply(t *Type) *Type {
	if t == nil || len(s.Map) == 0 {
		return t
	}
	switch t.Kind {
	case KindParam:
		if t.Owner != s.Owner {
			return t
		}
		if repl, ok := s.Map[t.Name]; ok && repl != nil {
			return repl
		}
		return t

	case KindArray, KindPointer, KindNullable:
		elem := s.Apply(t.Elem)
		if elem == t.Elem {
			return t
		}
		clone := *t
		clone.Elem = elem
		return &clone

	case KindNamed, KindTuple, KindFuncPointer:
		args, changed := s.applyAll(t.Args)
		elem := s.Apply(t.Elem)
		if !changed && elem == t.Elem {
			return t
		}
		clone := *t
		clone.Args = args
		clone.Elem = elem
		return &clone

	default:
		return t
	}
}

// ApplyAll maps Apply over ts, sharing the input slice when nothing changed.
func (s Subst) ApplyAll(ts []*Type) []*Type {
	out, _ := s.applyAll(ts)
	return out
}

func (s Subst) applyAll(ts []*Type) ([]*Type, bool) {
	if len(ts) == 0 {
		return ts, false
	}
	var out []*Type
	for i, t := range ts {
		n := s.Apply(t)
		if n != t && out == nil {
			out = make([]*Type, len(ts))
			copy(out, ts[:i])
		}
		if out != nil {
			out[i] = n
		}
	}
	if out == nil {
		return ts, false
	}
	return out, true
}
