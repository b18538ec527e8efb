package decl

import (
	"fmt"
	"strings"

	"genarity/internal/source"
)

// TypeConvention selects how reduced types are realised.
type TypeConvention uint8

const (
	TypeCopy TypeConvention = iota
	TypeInherit
)

func (c TypeConvention) String() string {
	if c == TypeInherit {
		return "inherit"
	}
	return "copy"
}

// ParseTypeConvention accepts copy or inherit.
func ParseTypeConvention(s string) (TypeConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy":
		return TypeCopy, nil
	case "inherit":
		return TypeInherit, nil
	default:
		return TypeCopy, fmt.Errorf("unknown type convention %q", s)
	}
}

// MethodConvention selects how reduced callables are realised.
type MethodConvention uint8

const (
	MethodCopy MethodConvention = iota
	MethodCall
)

func (c MethodConvention) String() string {
	if c == MethodCall {
		return "call"
	}
	return "copy"
}

// ParseMethodConvention accepts copy or call.
func ParseMethodConvention(s string) (MethodConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy":
		return MethodCopy, nil
	case "call":
		return MethodCall, nil
	default:
		return MethodCopy, fmt.Errorf("unknown method convention %q", s)
	}
}

// Config is the configuration annotation of one scope. Nil fields are unset
// and inherit from the enclosing scope.
type Config struct {
	TargetNamespace  *string
	ApplyNew         *bool
	TypeConvention   *TypeConvention
	MethodConvention *MethodConvention
	Span             source.Span
}

// Empty reports whether no option is set.
func (c *Config) Empty() bool {
	return c == nil || (c.TargetNamespace == nil && c.ApplyNew == nil && c.TypeConvention == nil && c.MethodConvention == nil)
}
