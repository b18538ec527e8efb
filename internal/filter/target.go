package filter

import (
	"genarity/internal/decl"
)

// Target is a candidate that passed structural validation.
type Target struct {
	Decl *decl.Decl
	File *decl.File
	// Slots are the annotated trailing type parameters s_1..s_k.
	Slots []decl.TypeParam
	// Chain holds the enclosing declarations, innermost first.
	Chain []*decl.Decl
}

// ID is the identity of the target within its compilation.
func (t *Target) ID() string {
	return t.Decl.ID
}

// Kind is the declaration kind of the target.
func (t *Target) Kind() decl.Kind {
	return t.Decl.Kind
}

// K is the number of annotated slots.
func (t *Target) K() int {
	return len(t.Slots)
}

// Prefix is the number of type parameters without a default.
func (t *Target) Prefix() int {
	return len(t.Decl.TypeParams) - len(t.Slots)
}

// Container is the declaration generated siblings are placed into, nil for
// namespace-level targets.
func (t *Target) Container() *decl.Decl {
	return t.Decl.Parent
}

// trailingSlots returns the maximal run of annotated parameters at the end.
func trailingSlots(d *decl.Decl) []decl.TypeParam {
	n := len(d.TypeParams)
	start := n
	for start > 0 && d.TypeParams[start-1].Default != nil {
		start--
	}
	return d.TypeParams[start:]
}
