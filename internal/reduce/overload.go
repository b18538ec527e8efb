package reduce

import (
	"fmt"

	"genarity/internal/decl"
	"genarity/internal/filter"
	"genarity/internal/types"
)

// GeneratedMarker tags every emitted sibling.
const GeneratedMarker = "Genarity.ReducedFrom"

// Convention is the realisation chosen for one overload.
type Convention uint8

const (
	ConvCopy Convention = iota
	ConvInherit
	ConvCall
)

func (c Convention) String() string {
	switch c {
	case ConvInherit:
		return "inherit"
	case ConvCall:
		return "call"
	default:
		return "copy"
	}
}

// Overload is one generated sibling. Values are immutable; WithShadow
// returns a modified copy.
type Overload struct {
	Target *filter.Target
	// Index is i: slots s_i..s_k are substituted.
	Index int
	Arity int
	Decl  *decl.Decl
	// Args instantiate the original target to the same meaning as this
	// sibling: kept parameters followed by resolved defaults.
	Args       []*types.Type
	Subst      types.Subst
	Convention Convention
	// Namespace is where a namespace-level sibling is declared.
	Namespace string
	// Sym is the bound symbol of a type or delegate sibling.
	Sym    *types.Symbol
	Shadow bool
}

// Substituted returns the names of the substituted slots.
func (o *Overload) Substituted() []string {
	out := make([]string, 0, len(o.Target.Slots)-o.Index+1)
	for _, s := range o.Target.Slots[o.Index-1:] {
		out = append(out, s.Name)
	}
	return out
}

// WithShadow returns a copy of o whose declaration carries (or drops) the
// shadow modifier.
func (o *Overload) WithShadow(shadow bool) *Overload {
	c := *o
	d := *o.Decl
	if shadow {
		d.Mods |= decl.ModNew
	} else {
		d.Mods &^= decl.ModNew
	}
	c.Decl = &d
	c.Shadow = shadow
	return &c
}

// Key identifies the sibling among all outputs: container path, original
// target id and arity.
func (o *Overload) Key() string {
	return fmt.Sprintf("%s|%s|%d", o.Container(), o.Target.ID(), o.Arity)
}

// Container is the dotted path of the scope the sibling is declared in.
func (o *Overload) Container() string {
	if o.Target.Decl.IsNamespaceLevel() {
		return o.Namespace
	}
	return o.Target.Decl.ContainerPath()
}

func (o *Overload) String() string {
	return fmt.Sprintf("%s (arity %d, %s)", o.Decl.Signature(), o.Arity, o.Convention)
}
