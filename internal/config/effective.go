// Package config resolves the effective generator options of a target by
// walking its scope chain from the member outwards.
package config

import (
	"fmt"

	"genarity/internal/decl"
)

// Effective is the resolved configuration of one target. It is a value and
// is never mutated after resolution.
type Effective struct {
	// TargetNamespace is nil when siblings stay next to the target; "" is
	// the global namespace.
	TargetNamespace  *string
	ApplyNew         bool
	TypeConvention   decl.TypeConvention
	MethodConvention decl.MethodConvention
}

// Namespace returns the namespace siblings of a namespace-level target go to.
func (e Effective) Namespace(enclosing string) string {
	if e.TargetNamespace == nil {
		return enclosing
	}
	return *e.TargetNamespace
}

func (e Effective) String() string {
	ns := "<enclosing>"
	if e.TargetNamespace != nil {
		ns = *e.TargetNamespace
		if ns == "" {
			ns = "global"
		}
	}
	return fmt.Sprintf("namespace=%s new=%t type=%s method=%s", ns, e.ApplyNew, e.TypeConvention, e.MethodConvention)
}

// Hard defaults used when no scope sets an option.
var hardDefaults = Effective{
	TypeConvention:   decl.TypeCopy,
	MethodConvention: decl.MethodCopy,
}
