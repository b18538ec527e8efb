package decl

import (
	"fmt"
	"strings"
)

// Kind classifies declarations.
type Kind uint8

const (
	KindType Kind = iota
	KindDelegate
	KindMethod
	KindLocalFunc
	KindField
	KindProperty
	KindConstructor
	KindAccessor
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindDelegate:
		return "delegate"
	case KindMethod:
		return "method"
	case KindLocalFunc:
		return "local function"
	case KindField:
		return "field"
	case KindProperty:
		return "property"
	case KindConstructor:
		return "constructor"
	case KindAccessor:
		return "accessor"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind accepts the spelling produced by String ("local" is accepted
// for local functions).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "type":
		return KindType, nil
	case "delegate":
		return KindDelegate, nil
	case "method":
		return KindMethod, nil
	case "local", "local function", "localfunc":
		return KindLocalFunc, nil
	case "field":
		return KindField, nil
	case "property":
		return KindProperty, nil
	case "constructor", "ctor":
		return KindConstructor, nil
	case "accessor":
		return KindAccessor, nil
	default:
		return KindType, fmt.Errorf("unknown declaration kind %q", s)
	}
}

// Callable reports whether declarations of this kind have a parameter list.
func (k Kind) Callable() bool {
	return k == KindMethod || k == KindLocalFunc || k == KindDelegate || k == KindConstructor
}

// TypeKind is the keyword of a KindType declaration.
type TypeKind uint8

const (
	TypeClass TypeKind = iota
	TypeStruct
	TypeInterface
)

func (k TypeKind) String() string {
	switch k {
	case TypeStruct:
		return "struct"
	case TypeInterface:
		return "interface"
	default:
		return "class"
	}
}

// ParseTypeKind accepts class, struct or interface.
func ParseTypeKind(s string) (TypeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "class":
		return TypeClass, nil
	case "struct":
		return TypeStruct, nil
	case "interface":
		return TypeInterface, nil
	default:
		return TypeClass, fmt.Errorf("unknown type kind %q", s)
	}
}

// Variance of a type parameter.
type Variance uint8

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// Keyword returns "out", "in" or "".
func (v Variance) Keyword() string {
	switch v {
	case Covariant:
		return "out"
	case Contravariant:
		return "in"
	default:
		return ""
	}
}

// ParseVariance accepts "", "out" and "in".
func ParseVariance(s string) (Variance, error) {
	switch strings.TrimSpace(s) {
	case "":
		return Invariant, nil
	case "out":
		return Covariant, nil
	case "in":
		return Contravariant, nil
	default:
		return Invariant, fmt.Errorf("unknown variance %q", s)
	}
}
