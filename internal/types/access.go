package types

import (
	"fmt"
	"strings"
)

// Access is declared accessibility of a symbol or member.
type Access uint8

const (
	// AccessNone is used for things that have no accessibility of their own
	// (type parameters, builtins); it behaves like public.
	AccessNone Access = iota
	AccessPrivate
	AccessProtectedAndInternal
	AccessProtected
	AccessInternal
	AccessProtectedOrInternal
	AccessPublic
)

func (a Access) String() string {
	switch a {
	case AccessPrivate:
		return "private"
	case AccessProtectedAndInternal:
		return "private protected"
	case AccessProtected:
		return "protected"
	case AccessInternal:
		return "internal"
	case AccessProtectedOrInternal:
		return "protected internal"
	case AccessPublic, AccessNone:
		return "public"
	default:
		return fmt.Sprintf("Access(%d)", a)
	}
}

// ParseAccess accepts the keyword spelling produced by String.
func ParseAccess(s string) (Access, error) {
	switch strings.Join(strings.Fields(strings.ToLower(s)), " ") {
	case "", "none":
		return AccessNone, nil
	case "private":
		return AccessPrivate, nil
	case "private protected", "protected private":
		return AccessProtectedAndInternal, nil
	case "protected":
		return AccessProtected, nil
	case "internal":
		return AccessInternal, nil
	case "protected internal", "internal protected":
		return AccessProtectedOrInternal, nil
	case "public":
		return AccessPublic, nil
	default:
		return AccessNone, fmt.Errorf("unknown accessibility %q", s)
	}
}

func (a Access) norm() Access {
	if a == AccessNone {
		return AccessPublic
	}
	return a
}

// Includes reports whether every site that can see b can also see a.
// Protected and internal are incomparable.
func (a Access) Includes(b Access) bool {
	a, b = a.norm(), b.norm()
	if a == b {
		return true
	}
	switch a {
	case AccessPublic:
		return true
	case AccessProtectedOrInternal:
		return b != AccessPublic
	case AccessProtected, AccessInternal:
		return b == AccessProtectedAndInternal || b == AccessPrivate
	case AccessProtectedAndInternal:
		return b == AccessPrivate
	default:
		return false
	}
}

// Intersect returns the accessibility domain shared by a and b.
func (a Access) Intersect(b Access) Access {
	a, b = a.norm(), b.norm()
	switch {
	case a.Includes(b):
		return b
	case b.Includes(a):
		return a
	default:
		// protected ∩ internal
		return AccessProtectedAndInternal
	}
}
