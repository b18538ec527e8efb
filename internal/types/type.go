package types

import (
	"fmt"
	"strings"
)

// Kind enumerates the shapes of a type reference.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindParam
	KindNamed
	KindArray
	KindPointer
	KindFuncPointer
	KindNullable
	KindTuple
	KindUnit
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindParam:
		return "param"
	case KindNamed:
		return "named"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	case KindFuncPointer:
		return "funcptr"
	case KindNullable:
		return "nullable"
	case KindTuple:
		return "tuple"
	case KindUnit:
		return "unit"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is an immutable reference to a type as bound by the host compiler.
// Values are shared freely; nothing in this module mutates a Type after it
// has been built.
type Type struct {
	Kind    Kind
	Name    string  // KindParam: parameter name
	Owner   string  // KindParam: ID of the declaring symbol or member
	Sym     *Symbol // KindNamed
	Args    []*Type // KindNamed type arguments, KindTuple elements, KindFuncPointer parameters
	Elem    *Type   // KindArray, KindPointer, KindNullable element; KindFuncPointer result
	Rank    int     // KindArray
	Unbound bool    // KindNamed: open generic reference such as List<>
}

var unitType = &Type{Kind: KindUnit}

// Unit returns the shared void type.
func Unit() *Type { return unitType }

// Param references type parameter name declared by owner.
func Param(owner, name string) *Type {
	return &Type{Kind: KindParam, Owner: owner, Name: name}
}

// Named references sym with the given type arguments.
func Named(sym *Symbol, args ...*Type) *Type {
	return &Type{Kind: KindNamed, Sym: sym, Args: args}
}

// UnboundOf references the open generic form of sym.
func UnboundOf(sym *Symbol) *Type {
	return &Type{Kind: KindNamed, Sym: sym, Unbound: true}
}

// ArrayOf builds elem[] (rank 1) or elem[,..] for higher ranks.
func ArrayOf(elem *Type, rank int) *Type {
	if rank < 1 {
		rank = 1
	}
	return &Type{Kind: KindArray, Elem: elem, Rank: rank}
}

// PointerTo builds elem*.
func PointerTo(elem *Type) *Type {
	return &Type{Kind: KindPointer, Elem: elem}
}

// NullableOf builds elem?.
func NullableOf(elem *Type) *Type {
	return &Type{Kind: KindNullable, Elem: elem}
}

// TupleOf builds (a, b, ...).
func TupleOf(elems ...*Type) *Type {
	return &Type{Kind: KindTuple, Args: elems}
}

// FuncPointer builds delegate*<params..., result>.
func FuncPointer(result *Type, params ...*Type) *Type {
	return &Type{Kind: KindFuncPointer, Elem: result, Args: params}
}

// Walk visits t and its components depth-first until fn returns false.
func (t *Type) Walk(fn func(*Type) bool) bool {
	if t == nil {
		return true
	}
	if !fn(t) {
		return false
	}
	for _, a := range t.Args {
		if !a.Walk(fn) {
			return false
		}
	}
	return t.Elem.Walk(fn)
}

// References reports whether t mentions the type parameter owner/name.
func (t *Type) References(owner, name string) bool {
	found := false
	t.Walk(func(n *Type) bool {
		if n.Kind == KindParam && n.Name == name && n.Owner == owner {
			found = true
			return false
		}
		return true
	})
	return found
}

// ParamNames lists the distinct parameters of owner referenced by t in
// first-occurrence order.
func (t *Type) ParamNames(owner string) []string {
	var out []string
	seen := make(map[string]bool)
	t.Walk(func(n *Type) bool {
		if n.Kind == KindParam && n.Owner == owner && !seen[n.Name] {
			seen[n.Name] = true
			out = append(out, n.Name)
		}
		return true
	})
	return out
}

// EffectiveAccess is the accessibility of the least accessible symbol t names.
func (t *Type) EffectiveAccess() Access {
	acc := AccessPublic
	t.Walk(func(n *Type) bool {
		if n.Kind == KindNamed && n.Sym != nil {
			acc = acc.Intersect(n.Sym.EffectiveAccess())
		}
		return true
	})
	return acc
}

// LeastAccessible returns the named symbol that limits t's accessibility
// below want, or nil when t is at least as accessible as want.
func (t *Type) LeastAccessible(want Access) *Symbol {
	var culprit *Symbol
	t.Walk(func(n *Type) bool {
		if n.Kind == KindNamed && n.Sym != nil && !n.Sym.EffectiveAccess().Includes(want) {
			culprit = n.Sym
			return false
		}
		return true
	})
	return culprit
}

// Equal compares two references structurally. Named types compare by symbol ID.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindParam:
		return a.Name == b.Name && a.Owner == b.Owner
	case KindNamed:
		if a.Sym == nil || b.Sym == nil || a.Sym.ID != b.Sym.ID || a.Unbound != b.Unbound {
			return false
		}
	case KindArray:
		if a.Rank != b.Rank {
			return false
		}
	}
	if len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !Equal(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return Equal(a.Elem, b.Elem)
}

// String renders the short display form used in messages.
func (t *Type) String() string {
	var sb strings.Builder
	t.write(&sb, false)
	return sb.String()
}

// Qualified renders the form used in generated code: keywords stay
// keywords, every other named type is written as global::Ns.Outer.Name.
func (t *Type) Qualified() string {
	var sb strings.Builder
	t.write(&sb, true)
	return sb.String()
}

func (t *Type) write(sb *strings.Builder, qualified bool) {
	if t == nil {
		sb.WriteString("?")
		return
	}
	switch t.Kind {
	case KindParam:
		sb.WriteString(t.Name)
	case KindNamed:
		writeNamed(sb, t, qualified)
	case KindArray:
		t.Elem.write(sb, qualified)
		sb.WriteByte('[')
		sb.WriteString(strings.Repeat(",", t.Rank-1))
		sb.WriteByte(']')
	case KindPointer:
		t.Elem.write(sb, qualified)
		sb.WriteByte('*')
	case KindNullable:
		t.Elem.write(sb, qualified)
		sb.WriteByte('?')
	case KindTuple:
		sb.WriteByte('(')
		for i, e := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb, qualified)
		}
		sb.WriteByte(')')
	case KindFuncPointer:
		sb.WriteString("delegate*<")
		for _, p := range t.Args {
			p.write(sb, qualified)
			sb.WriteString(", ")
		}
		t.Elem.write(sb, qualified)
		sb.WriteByte('>')
	case KindUnit:
		sb.WriteString("void")
	default:
		sb.WriteString("<invalid>")
	}
}

func writeNamed(sb *strings.Builder, t *Type, qualified bool) {
	sym := t.Sym
	if sym == nil {
		sb.WriteString("<unbound>")
		return
	}
	if sym.Keyword != "" && len(t.Args) == 0 && !t.Unbound {
		sb.WriteString(sym.Keyword)
		return
	}
	if qualified {
		sb.WriteString("global::")
		sb.WriteString(sym.QualifiedName())
	} else {
		sb.WriteString(sym.Name)
	}
	switch {
	case t.Unbound && sym.Arity > 0:
		sb.WriteByte('<')
		sb.WriteString(strings.Repeat(",", sym.Arity-1))
		sb.WriteByte('>')
	case len(t.Args) > 0:
		sb.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.write(sb, qualified)
		}
		sb.WriteByte('>')
	}
}

// keyString is the signature form used by MethodKey.
func keyString(t *Type, ordinals map[string]int) string {
	if t == nil {
		return "?"
	}
	switch t.Kind {
	case KindParam:
		if i, ok := ordinals[t.Name]; ok {
			return fmt.Sprintf("!!%d", i)
		}
		return "!" + t.Owner + "." + t.Name
	case KindNamed:
		if t.Sym == nil {
			return "?"
		}
		if len(t.Args) == 0 {
			return t.Sym.ID
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = keyString(a, ordinals)
		}
		return t.Sym.ID + "<" + strings.Join(args, ",") + ">"
	case KindArray:
		return keyString(t.Elem, ordinals) + "[" + strings.Repeat(",", t.Rank-1) + "]"
	case KindPointer:
		return keyString(t.Elem, ordinals) + "*"
	case KindNullable:
		return keyString(t.Elem, ordinals) + "?"
	case KindTuple, KindFuncPointer:
		parts := make([]string, 0, len(t.Args)+1)
		for _, a := range t.Args {
			parts = append(parts, keyString(a, ordinals))
		}
		if t.Kind == KindFuncPointer {
			parts = append(parts, keyString(t.Elem, ordinals))
			return "fn<" + strings.Join(parts, ",") + ">"
		}
		return "(" + strings.Join(parts, ",") + ")"
	case KindUnit:
		return "void"
	}
	return "?"
}
