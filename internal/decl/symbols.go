package decl

import (
	"fmt"

	"genarity/internal/types"
)

// DeclareSymbols binds every source type and delegate that has no symbol yet
// and records source members on the symbols, so clash checks see source and
// metadata members the same way. Call after Link.
func (c *Compilation) DeclareSymbols() error {
	if c.Table == nil {
		c.Table = types.NewTable()
	}
	var err error
	for _, f := range c.Files {
		WalkFile(f, func(d *Decl) bool {
			if d.Kind != KindType && d.Kind != KindDelegate {
				return true
			}
			if d.Sym == nil {
				d.Sym = NewSymbol(c.Table, d)
				if addErr := c.Table.Add(d.Sym); addErr != nil {
					err = fmt.Errorf("%s: %w", f.Path, addErr)
					return false
				}
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	for _, f := range c.Files {
		WalkFile(f, func(d *Decl) bool {
			if d.Kind == KindType && d.Sym != nil && len(d.Sym.Members) == 0 {
				for _, m := range d.Members() {
					if m.Kind == KindConstructor || m.Kind == KindAccessor {
						continue
					}
					d.Sym.Members = append(d.Sym.Members, m.Member())
				}
			}
			return true
		})
	}
	return nil
}

// SymbolID returns the metadata name the host would give d.
func SymbolID(d *Decl) string {
	name := types.TypeKey(d.Name, len(d.TypeParams))
	if outer := d.EnclosingType(); outer != nil {
		return SymbolID(outer) + "+" + name
	}
	if ns := d.rootNamespace(); ns != "" {
		return ns + "." + name
	}
	return name
}

// NewSymbol derives the bound symbol of a source type or delegate. Parent
// pointers must already be set.
func NewSymbol(tab *types.Table, d *Decl) *types.Symbol {
	sym := &types.Symbol{
		ID:       SymbolID(d),
		Name:     d.Name,
		Access:   d.Access,
		Arity:    len(d.TypeParams),
		Sealed:   d.Mods.Has(ModSealed),
		Static:   d.IsStatic(),
		Abstract: d.Mods.Has(ModAbstract),
	}
	if outer := d.EnclosingType(); outer != nil {
		sym.Container = outer.Sym
	} else {
		sym.Namespace = d.rootNamespace()
	}
	b := tab.Builtins()
	if d.Kind == KindDelegate {
		sym.Kind = types.SymDelegate
		sym.Sealed = true
		sym.Base = types.Named(b.Delegate)
		return sym
	}
	switch d.TypeKind {
	case TypeStruct:
		sym.Kind = types.SymStruct
		sym.Sealed = true
		sym.DefaultCtor = true
		sym.Base = types.Named(b.ValueType)
	case TypeInterface:
		sym.Kind = types.SymInterface
		sym.Abstract = true
	default:
		sym.Kind = types.SymClass
		sym.Base = types.Named(b.Object)
		sym.DefaultCtor = !sym.Abstract && !sym.Static
	}
	for _, base := range d.Bases() {
		if base.Kind == types.KindNamed && base.Sym != nil && base.Sym.Kind == types.SymClass && sym.Kind == types.SymClass {
			sym.Base = base
			continue
		}
		sym.Interfaces = append(sym.Interfaces, base)
	}
	if sym.Kind == types.SymClass && !sym.Abstract && !sym.Static {
		for _, m := range d.Members() {
			if m.Kind == KindConstructor {
				// only the implicit constructor is parameterless by default
				sym.DefaultCtor = len(m.Params) == 0 && m.Access != types.AccessPrivate
				if sym.DefaultCtor {
					break
				}
			}
		}
	}
	return sym
}
