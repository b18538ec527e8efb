package decl

import (
	"fmt"
	"strings"
)

// Modifiers is the set of declaration modifiers other than accessibility.
type Modifiers uint16

const (
	ModNew Modifiers = 1 << iota
	ModStatic
	ModAbstract
	ModVirtual
	ModOverride
	ModSealed
	ModReadonly
	ModUnsafe
	ModAsync
	ModExtern
	ModPartial
)

// keyword order follows the conventional source order; partial is always last.
var modifierKeywords = []struct {
	mod Modifiers
	kw  string
}{
	{ModNew, "new"},
	{ModStatic, "static"},
	{ModAbstract, "abstract"},
	{ModVirtual, "virtual"},
	{ModOverride, "override"},
	{ModSealed, "sealed"},
	{ModReadonly, "readonly"},
	{ModUnsafe, "unsafe"},
	{ModAsync, "async"},
	{ModExtern, "extern"},
	{ModPartial, "partial"},
}

func (m Modifiers) Has(x Modifiers) bool {
	return m&x == x
}

// Keywords lists the modifiers in source order.
func (m Modifiers) Keywords() []string {
	out := make([]string, 0, 4)
	for _, e := range modifierKeywords {
		if m.Has(e.mod) {
			out = append(out, e.kw)
		}
	}
	return out
}

func (m Modifiers) String() string {
	return strings.Join(m.Keywords(), " ")
}

// ParseModifiers builds a set from keywords.
func ParseModifiers(kws []string) (Modifiers, error) {
	var m Modifiers
	for _, kw := range kws {
		found := false
		for _, e := range modifierKeywords {
			if e.kw == kw {
				m |= e.mod
				found = true
				break
			}
		}
		if !found {
			return m, fmt.Errorf("unknown modifier %q", kw)
		}
	}
	return m, nil
}
