package decl

import (
	"fmt"
	"strings"

	"genarity/internal/source"
	"genarity/internal/types"
)

// DefaultAnnotation is the per-type-parameter marker carrying the default
// type argument.
type DefaultAnnotation struct {
	Type *types.Type
	// ApplyNew overrides the "apply shadow modifier" option for the overload
	// in which this parameter is the first substituted one.
	ApplyNew *bool
	Span     source.Span
}

// TypeParam is one type parameter slot.
type TypeParam struct {
	Name     string
	Ordinal  int
	Variance Variance
	Default  *DefaultAnnotation
	Span     source.Span
}

// ConstraintKind enumerates constraint items.
type ConstraintKind uint8

const (
	ConstraintType ConstraintKind = iota
	ConstraintClass
	ConstraintStruct
	ConstraintUnmanaged
	ConstraintNotNull
	ConstraintNew
)

// ParseConstraintKind accepts the keyword spelling; "type" is a type constraint.
func ParseConstraintKind(s string) (ConstraintKind, error) {
	switch strings.TrimSpace(s) {
	case "", "type":
		return ConstraintType, nil
	case "class":
		return ConstraintClass, nil
	case "struct":
		return ConstraintStruct, nil
	case "unmanaged":
		return ConstraintUnmanaged, nil
	case "notnull":
		return ConstraintNotNull, nil
	case "new", "new()":
		return ConstraintNew, nil
	default:
		return ConstraintType, fmt.Errorf("unknown constraint %q", s)
	}
}

// ConstraintItem is one entry of a where clause.
type ConstraintItem struct {
	Kind ConstraintKind
	Type *types.Type // ConstraintType only
}

func (it ConstraintItem) render(qualified bool) string {
	switch it.Kind {
	case ConstraintClass:
		return "class"
	case ConstraintStruct:
		return "struct"
	case ConstraintUnmanaged:
		return "unmanaged"
	case ConstraintNotNull:
		return "notnull"
	case ConstraintNew:
		return "new()"
	}
	if qualified {
		return it.Type.Qualified()
	}
	return it.Type.String()
}

// Constraint is a where clause on a single type parameter.
type Constraint struct {
	Param string
	Items []ConstraintItem
	Span  source.Span
}

// Render writes "where T : ...".
func (c Constraint) Render(qualified bool) string {
	parts := make([]string, len(c.Items))
	for i, it := range c.Items {
		parts[i] = it.render(qualified)
	}
	return "where " + c.Param + " : " + strings.Join(parts, ", ")
}

// References reports whether any type constraint of c mentions owner's name.
func (c Constraint) References(owner, name string) bool {
	for _, it := range c.Items {
		if it.Kind == ConstraintType && it.Type.References(owner, name) {
			return true
		}
	}
	return false
}

// ParamModifier is the passing mode of a value parameter.
type ParamModifier uint8

const (
	ParamNone ParamModifier = iota
	ParamRef
	ParamOut
	ParamIn
	ParamParams
	ParamThis
)

func (m ParamModifier) Keyword() string {
	switch m {
	case ParamRef:
		return "ref"
	case ParamOut:
		return "out"
	case ParamIn:
		return "in"
	case ParamParams:
		return "params"
	case ParamThis:
		return "this"
	default:
		return ""
	}
}

// ParseParamModifier accepts the keyword spelling.
func ParseParamModifier(s string) (ParamModifier, error) {
	switch strings.TrimSpace(s) {
	case "":
		return ParamNone, nil
	case "ref":
		return ParamRef, nil
	case "out":
		return ParamOut, nil
	case "in":
		return ParamIn, nil
	case "params":
		return ParamParams, nil
	case "this":
		return ParamThis, nil
	default:
		return ParamNone, fmt.Errorf("unknown parameter modifier %q", s)
	}
}

// Param is a value parameter.
type Param struct {
	Name     string
	Type     *types.Type
	Modifier ParamModifier
	Default  string // default value expression text, verbatim
	Span     source.Span
}
