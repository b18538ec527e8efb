package decl

import (
	"strings"

	"genarity/internal/source"
	"genarity/internal/types"
)

// Fragment is one syntactic part of a type declaration. Non-partial types
// have exactly one fragment.
type Fragment struct {
	Span        source.Span
	Partial     bool
	Bases       []*types.Type
	Constraints []Constraint
	Members     []*Decl
	Config      *Config
}

// Decl is a declaration as parsed and bound by the host compiler.
type Decl struct {
	// ID is unique within a compilation and owns the decl's type parameters.
	ID         string
	Kind       Kind
	TypeKind   TypeKind
	Name       string
	Access     types.Access
	Mods       Modifiers
	TypeParams []TypeParam
	Params     []Param
	// Result is the return type of callables and delegates and the value
	// type of fields and properties.
	Result *types.Type

	// KindType only.
	Fragments []*Fragment

	Constraints []Constraint
	Body        *Body
	// Initializer is the constructor initializer, e.g. base(a, b).
	Initializer *Body
	Locals      []*Decl
	Config      *Config

	ExplicitInterface *types.Type
	// Marker is the generation marker of a declaration emitted by a generator.
	Marker string

	Sym       *types.Symbol
	Parent    *Decl
	Namespace string
	Span      source.Span
	NameSpan  source.Span
}

// IsCandidate reports whether any type parameter carries a default annotation.
func (d *Decl) IsCandidate() bool {
	for _, tp := range d.TypeParams {
		if tp.Default != nil {
			return true
		}
	}
	return false
}

// Arity is the number of type parameters.
func (d *Decl) Arity() int {
	return len(d.TypeParams)
}

// IsNamespaceLevel reports whether d is declared directly in a namespace.
func (d *Decl) IsNamespaceLevel() bool {
	return d.Parent == nil
}

// IsPartial reports whether every fragment is declared partial.
func (d *Decl) IsPartial() bool {
	if d.Kind != KindType || len(d.Fragments) == 0 {
		return false
	}
	for _, f := range d.Fragments {
		if !f.Partial {
			return false
		}
	}
	return true
}

// IsStatic reports the static modifier.
func (d *Decl) IsStatic() bool {
	return d.Mods.Has(ModStatic)
}

// EffectiveAccess intersects the accessibility of d with its enclosing
// declarations. Local functions have no accessibility of their own.
func (d *Decl) EffectiveAccess() types.Access {
	acc := types.AccessPublic
	for cur := d; cur != nil; cur = cur.Parent {
		if cur.Kind == KindLocalFunc {
			continue
		}
		acc = acc.Intersect(cur.Access)
	}
	return acc
}

// Enclosing returns the enclosing declarations innermost first.
func (d *Decl) Enclosing() []*Decl {
	var out []*Decl
	for p := d.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// EnclosingType returns the nearest enclosing type, skipping methods.
func (d *Decl) EnclosingType() *Decl {
	for p := d.Parent; p != nil; p = p.Parent {
		if p.Kind == KindType {
			return p
		}
	}
	return nil
}

// TypeParam finds a type parameter by name.
func (d *Decl) TypeParam(name string) (TypeParam, bool) {
	for _, tp := range d.TypeParams {
		if tp.Name == name {
			return tp, true
		}
	}
	return TypeParam{}, false
}

// ParamType returns a reference to d's type parameter name.
func (d *Decl) ParamType(name string) *types.Type {
	return types.Param(d.ID, name)
}

// Members returns the members of all fragments in fragment order.
func (d *Decl) Members() []*Decl {
	if len(d.Fragments) == 1 {
		return d.Fragments[0].Members
	}
	var out []*Decl
	for _, f := range d.Fragments {
		out = append(out, f.Members...)
	}
	return out
}

// Bases returns the base list merged across fragments without duplicates.
func (d *Decl) Bases() []*types.Type {
	var out []*types.Type
	for _, f := range d.Fragments {
	next:
		for _, b := range f.Bases {
			for _, seen := range out {
				if types.Equal(seen, b) {
					continue next
				}
			}
			out = append(out, b)
		}
	}
	return out
}

// AllConstraints returns the where clauses of d. For types the first
// fragment declaring a clause for a parameter wins.
func (d *Decl) AllConstraints() []Constraint {
	if d.Kind != KindType {
		return d.Constraints
	}
	var out []Constraint
	seen := make(map[string]bool)
	for _, f := range d.Fragments {
		for _, c := range f.Constraints {
			if seen[c.Param] {
				continue
			}
			seen[c.Param] = true
			out = append(out, c)
		}
	}
	return out
}

// ConstraintFor returns the where clause of param, if any.
func (d *Decl) ConstraintFor(param string) (Constraint, bool) {
	for _, c := range d.AllConstraints() {
		if c.Param == param {
			return c, true
		}
	}
	return Constraint{}, false
}

// Configs returns the configuration annotations of d: the decl's own
// followed by every fragment's, in fragment order.
func (d *Decl) Configs() []*Config {
	var out []*Config
	if d.Config != nil {
		out = append(out, d.Config)
	}
	for _, f := range d.Fragments {
		if f.Config != nil {
			out = append(out, f.Config)
		}
	}
	return out
}

// Member converts d into the signature used for clash detection.
func (d *Decl) Member() types.Member {
	m := types.Member{
		Name:   d.Name,
		Arity:  len(d.TypeParams),
		Access: d.Access,
		Static: d.IsStatic(),
	}
	switch d.Kind {
	case KindMethod, KindLocalFunc:
		m.Kind = types.MemberMethod
		m.TypeParams = d.TypeParamNames()
		m.Params = make([]*types.Type, len(d.Params))
		for i, p := range d.Params {
			m.Params[i] = p.Type
			if p.Modifier != ParamNone {
				if m.ByRef == nil {
					m.ByRef = make([]bool, len(d.Params))
				}
				m.ByRef[i] = true
			}
		}
	case KindField:
		m.Kind = types.MemberField
	case KindProperty:
		m.Kind = types.MemberProperty
	default:
		m.Kind = types.MemberType
	}
	return m
}

// TypeParamNames lists the type parameter names in order.
func (d *Decl) TypeParamNames() []string {
	out := make([]string, len(d.TypeParams))
	for i, tp := range d.TypeParams {
		out[i] = tp.Name
	}
	return out
}

// ContainerPath is the dotted path of the namespace and enclosing
// declarations, e.g. App.Outer.Run.
func (d *Decl) ContainerPath() string {
	parts := make([]string, 0, 4)
	for p := d.Parent; p != nil; p = p.Parent {
		parts = append(parts, p.Name)
	}
	var sb strings.Builder
	sb.WriteString(d.rootNamespace())
	for i := len(parts) - 1; i >= 0; i-- {
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(parts[i])
	}
	return sb.String()
}

func (d *Decl) rootNamespace() string {
	cur := d
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur.Namespace
}

// RootNamespace returns the namespace of the outermost enclosing declaration.
func (d *Decl) RootNamespace() string {
	return d.rootNamespace()
}

// Signature renders the fully qualified signature, e.g.
// App.Outer.M<T, U>(int, T) or App.Box<T, U>.
func (d *Decl) Signature() string {
	var sb strings.Builder
	if cp := d.ContainerPath(); cp != "" {
		sb.WriteString(cp)
		sb.WriteByte('.')
	}
	sb.WriteString(d.Name)
	if len(d.TypeParams) > 0 {
		sb.WriteByte('<')
		sb.WriteString(strings.Join(d.TypeParamNames(), ", "))
		sb.WriteByte('>')
	}
	if d.Kind.Callable() {
		sb.WriteByte('(')
		for i, p := range d.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			if kw := p.Modifier.Keyword(); kw != "" {
				sb.WriteString(kw)
				sb.WriteByte(' ')
			}
			sb.WriteString(p.Type.String())
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

func (d *Decl) String() string {
	if d == nil {
		return "<nil>"
	}
	return d.Kind.String() + " " + d.Signature()
}
