package collide

import (
	"genarity/internal/reduce"
	"genarity/internal/types"
)

// Outcome of resolving one overload.
type Outcome uint8

const (
	Accept Outcome = iota
	AcceptShadow
	RejectSameScope
	RejectBase
	RejectAccess
)

func (o Outcome) String() string {
	switch o {
	case Accept:
		return "accept"
	case AcceptShadow:
		return "accept+new"
	case RejectSameScope:
		return "reject(same scope)"
	case RejectBase:
		return "reject(base)"
	case RejectAccess:
		return "reject(access)"
	default:
		return "?"
	}
}

// Accepted reports whether the overload is emitted.
func (o Outcome) Accepted() bool {
	return o == Accept || o == AcceptShadow
}

// Scope tells where a conflicting member was found.
type Scope uint8

const (
	ScopeNone Scope = iota
	ScopeContainer
	ScopeSibling
	ScopeNamespace
	ScopeBase
)

func (s Scope) String() string {
	switch s {
	case ScopeContainer:
		return "container"
	case ScopeSibling:
		return "sibling"
	case ScopeNamespace:
		return "namespace"
	case ScopeBase:
		return "base"
	default:
		return "none"
	}
}

// Record is the ephemeral result for one overload.
type Record struct {
	Overload *reduce.Overload
	Scope    Scope
	// Existing is the conflicting member, if any.
	Existing *types.Member
	// Owner names the declaration Existing belongs to.
	Owner   string
	Outcome Outcome
}
