package types

import (
	"fmt"
	"strings"
)

// SymbolKind classifies bound type symbols.
type SymbolKind uint8

const (
	SymClass SymbolKind = iota
	SymStruct
	SymInterface
	SymDelegate
	SymEnum
)

func (k SymbolKind) String() string {
	switch k {
	case SymClass:
		return "class"
	case SymStruct:
		return "struct"
	case SymInterface:
		return "interface"
	case SymDelegate:
		return "delegate"
	case SymEnum:
		return "enum"
	default:
		return fmt.Sprintf("SymbolKind(%d)", k)
	}
}

// ParseSymbolKind accepts the spelling produced by String.
func ParseSymbolKind(s string) (SymbolKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "class", "":
		return SymClass, nil
	case "struct":
		return SymStruct, nil
	case "interface":
		return SymInterface, nil
	case "delegate":
		return SymDelegate, nil
	case "enum":
		return SymEnum, nil
	default:
		return SymClass, fmt.Errorf("unknown symbol kind %q", s)
	}
}

// Special marks symbols the language treats specially in constraints.
type Special uint8

const (
	SpecialNone Special = iota
	// SpecialObject is the universal reference root.
	SpecialObject
	// SpecialValueType is the universal value root.
	SpecialValueType
	SpecialArray
	SpecialDelegate
	SpecialEnum
)

// MemberKind classifies Member entries.
type MemberKind uint8

const (
	MemberType MemberKind = iota
	MemberMethod
	MemberField
	MemberProperty
	MemberEvent
)

// Member is the bound signature of a declared member, enough to detect
// name/arity/signature clashes.
type Member struct {
	Kind       MemberKind
	Name       string
	Arity      int
	TypeParams []string // own type parameter names, in order
	Params     []*Type  // parameter types (methods only)
	ByRef      []bool   // ref, out or in per parameter; nil means all by value
	Access     Access
	Static     bool
}

// Key is the identity used for clash detection: name, arity and, for
// methods, the parameter list with own type parameters replaced by ordinals.
func (m Member) Key() string {
	if m.Kind == MemberMethod {
		return MethodKey(m.Name, m.TypeParams, m.Params, m.ByRef)
	}
	return TypeKey(m.Name, m.Arity)
}

// TypeKey is the clash key of a type-like member.
func TypeKey(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return fmt.Sprintf("%s`%d", name, arity)
}

// MethodKey renders a method clash key. Own type parameters are written
// as ordinals so that M<T>(T) and M<U>(U) produce the same key. By-reference
// parameters get one shared marker: ref, out and in cannot overload each
// other, but each differs from by-value.
//
//	M``1(!!0, &System.Int32)
func MethodKey(name string, typeParams []string, params []*Type, byRef []bool) string {
	ordinals := make(map[string]int, len(typeParams))
	for i, tp := range typeParams {
		ordinals[tp] = i
	}
	var sb strings.Builder
	sb.WriteString(name)
	if len(typeParams) > 0 {
		fmt.Fprintf(&sb, "``%d", len(typeParams))
	}
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if i < len(byRef) && byRef[i] {
			sb.WriteByte('&')
		}
		sb.WriteString(keyString(p, ordinals))
	}
	sb.WriteByte(')')
	return sb.String()
}

// Symbol is a bound named type as produced by the host compiler.
type Symbol struct {
	ID          string // fully qualified metadata name, unique in a Table
	Name        string
	Namespace   string
	Container   *Symbol
	Kind        SymbolKind
	Access      Access
	Arity       int
	Keyword     string // language alias such as "int"
	Special     Special
	Sealed      bool
	Static      bool
	Abstract    bool
	StackOnly   bool // by-ref-like, cannot live on the heap
	DefaultCtor bool // has an accessible parameterless constructor
	Base        *Type
	Interfaces  []*Type
	Members     []Member
}

func (s *Symbol) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.ID
}

// IsValueType reports whether values of the symbol are copied by value.
func (s *Symbol) IsValueType() bool {
	return s != nil && (s.Kind == SymStruct || s.Kind == SymEnum)
}

// EffectiveAccess intersects the symbol's accessibility with every container.
func (s *Symbol) EffectiveAccess() Access {
	acc := AccessPublic
	for cur := s; cur != nil; cur = cur.Container {
		acc = acc.Intersect(cur.Access)
	}
	return acc
}

// QualifiedName returns Namespace.Outer.Name without type arguments.
func (s *Symbol) QualifiedName() string {
	parts := make([]string, 0, 4)
	for cur := s; cur != nil; cur = cur.Container {
		parts = append(parts, cur.Name)
	}
	var sb strings.Builder
	if ns := s.rootNamespace(); ns != "" {
		sb.WriteString(ns)
		sb.WriteByte('.')
	}
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteString(parts[i])
		if i > 0 {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func (s *Symbol) rootNamespace() string {
	cur := s
	for cur.Container != nil {
		cur = cur.Container
	}
	return cur.Namespace
}

// DerivesFrom reports whether s equals target or reaches it through its base
// class or interfaces.
func (s *Symbol) DerivesFrom(target *Symbol) bool {
	seen := make(map[*Symbol]bool)
	var walk func(*Symbol) bool
	walk = func(cur *Symbol) bool {
		if cur == nil || seen[cur] {
			return false
		}
		seen[cur] = true
		if cur == target || (cur.ID != "" && cur.ID == target.ID) {
			return true
		}
		if cur.Base != nil && walk(cur.Base.Sym) {
			return true
		}
		for _, it := range cur.Interfaces {
			if it != nil && walk(it.Sym) {
				return true
			}
		}
		return false
	}
	return target != nil && walk(s)
}
