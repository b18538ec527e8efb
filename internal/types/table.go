package types

import (
	"fmt"
	"sort"
)

// Table indexes the bound symbols of one compilation snapshot.
type Table struct {
	byID        map[string]*Symbol
	byNamespace map[string][]*Symbol
	order       []*Symbol
	builtins    Builtins
}

// Builtins stores the symbols the validators need by role.
type Builtins struct {
	Object    *Symbol
	ValueType *Symbol
	Array     *Symbol
	Delegate  *Symbol
	Enum      *Symbol
	Int       *Symbol
	Bool      *Symbol
	String    *Symbol
	Double    *Symbol
}

// NewTable creates a table seeded with the core library symbols.
func NewTable() *Table {
	t := &Table{
		byID:        make(map[string]*Symbol, 64),
		byNamespace: make(map[string][]*Symbol, 8),
	}
	t.seedBuiltins()
	return t
}

func (t *Table) seedBuiltins() {
	obj := &Symbol{ID: "System.Object", Name: "Object", Namespace: "System", Kind: SymClass, Access: AccessPublic, Keyword: "object", Special: SpecialObject, DefaultCtor: true}
	t.mustAdd(obj)
	objRef := Named(obj)
	vt := &Symbol{ID: "System.ValueType", Name: "ValueType", Namespace: "System", Kind: SymClass, Access: AccessPublic, Abstract: true, Special: SpecialValueType, Base: objRef}
	t.mustAdd(vt)
	vtRef := Named(vt)
	prim := func(id, name, kw string) *Symbol {
		s := &Symbol{ID: id, Name: name, Namespace: "System", Kind: SymStruct, Access: AccessPublic, Keyword: kw, Sealed: true, DefaultCtor: true, Base: vtRef}
		t.mustAdd(s)
		return s
	}
	t.builtins = Builtins{
		Object:    obj,
		ValueType: vt,
		Int:       prim("System.Int32", "Int32", "int"),
		Bool:      prim("System.Boolean", "Boolean", "bool"),
		Double:    prim("System.Double", "Double", "double"),
	}
	prim("System.Int64", "Int64", "long")
	prim("System.Byte", "Byte", "byte")
	prim("System.Char", "Char", "char")
	prim("System.Single", "Single", "float")
	prim("System.Decimal", "Decimal", "decimal")

	t.builtins.String = &Symbol{ID: "System.String", Name: "String", Namespace: "System", Kind: SymClass, Access: AccessPublic, Keyword: "string", Sealed: true, Base: objRef}
	t.mustAdd(t.builtins.String)
	t.builtins.Array = &Symbol{ID: "System.Array", Name: "Array", Namespace: "System", Kind: SymClass, Access: AccessPublic, Abstract: true, Special: SpecialArray, Base: objRef}
	t.mustAdd(t.builtins.Array)
	t.builtins.Delegate = &Symbol{ID: "System.Delegate", Name: "Delegate", Namespace: "System", Kind: SymClass, Access: AccessPublic, Abstract: true, Special: SpecialDelegate, Base: objRef}
	t.mustAdd(t.builtins.Delegate)
	t.builtins.Enum = &Symbol{ID: "System.Enum", Name: "Enum", Namespace: "System", Kind: SymClass, Access: AccessPublic, Abstract: true, Special: SpecialEnum, Base: vtRef}
	t.mustAdd(t.builtins.Enum)
	t.mustAdd(&Symbol{ID: "System.Span`1", Name: "Span", Namespace: "System", Kind: SymStruct, Access: AccessPublic, Arity: 1, Sealed: true, StackOnly: true, DefaultCtor: true, Base: vtRef})
	t.mustAdd(&Symbol{ID: "System.Collections.Generic.List`1", Name: "List", Namespace: "System.Collections.Generic", Kind: SymClass, Access: AccessPublic, Arity: 1, DefaultCtor: true, Base: objRef})
	t.mustAdd(&Symbol{ID: "System.Collections.Generic.Dictionary`2", Name: "Dictionary", Namespace: "System.Collections.Generic", Kind: SymClass, Access: AccessPublic, Arity: 2, DefaultCtor: true, Base: objRef})
	t.mustAdd(&Symbol{ID: "System.Action", Name: "Action", Namespace: "System", Kind: SymDelegate, Access: AccessPublic, Sealed: true, Base: Named(t.builtins.Delegate)})
}

func (t *Table) mustAdd(sym *Symbol) {
	if err := t.Add(sym); err != nil {
		panic(err)
	}
}

// Builtins returns the core library symbols.
func (t *Table) Builtins() Builtins {
	return t.builtins
}

// Add registers sym. IDs must be unique.
func (t *Table) Add(sym *Symbol) error {
	if sym == nil || sym.ID == "" {
		return fmt.Errorf("symbol without id")
	}
	if _, dup := t.byID[sym.ID]; dup {
		return fmt.Errorf("duplicate symbol %q", sym.ID)
	}
	t.byID[sym.ID] = sym
	t.order = append(t.order, sym)
	if sym.Container == nil {
		t.byNamespace[sym.Namespace] = append(t.byNamespace[sym.Namespace], sym)
	}
	return nil
}

// Lookup finds a symbol by ID.
func (t *Table) Lookup(id string) (*Symbol, bool) {
	sym, ok := t.byID[id]
	return sym, ok
}

// Namespace returns the top-level symbols of ns ("" is the global namespace),
// sorted by ID.
func (t *Table) Namespace(ns string) []*Symbol {
	syms := append([]*Symbol(nil), t.byNamespace[ns]...)
	sort.Slice(syms, func(i, j int) bool { return syms[i].ID < syms[j].ID })
	return syms
}

// Symbols returns every symbol in registration order.
func (t *Table) Symbols() []*Symbol {
	return t.order
}
