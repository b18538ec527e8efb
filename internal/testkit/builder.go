package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"genarity/internal/decl"
	"genarity/internal/source"
	"genarity/internal/types"
)

// Builder assembles a small compilation for tests. Every declaration gets its
// own line in a virtual file so diagnostics resolve to distinct positions.
type Builder struct {
	Table *types.Table
	NS    string

	fs     *source.FileSet
	file   *decl.File
	text   strings.Builder
	fileID source.FileID
	ids    map[string]int
	owned  []*decl.Decl
	asm    *decl.Config
}

// New creates a builder whose namespace-level declarations live in ns.
func New(ns string) *Builder {
	fs := source.NewFileSet()
	id, err := safecast.Conv[uint32](fs.Len())
	if err != nil {
		panic(err)
	}
	b := &Builder{
		Table:  types.NewTable(),
		NS:     ns,
		fs:     fs,
		fileID: source.FileID(id),
		ids:    make(map[string]int),
	}
	b.file = &decl.File{ID: b.fileID, Path: "test.cs"}
	return b
}

// Assembly sets the assembly-level configuration.
func (b *Builder) Assembly(cfg *decl.Config) {
	b.asm = cfg
}

// Builtin returns a reference to a core type by keyword or ID, e.g. "int".
func (b *Builder) Builtin(name string) *types.Type {
	for _, s := range b.Table.Symbols() {
		if s.Keyword == name || s.ID == name || s.ID == "System."+name {
			return types.Named(s)
		}
	}
	panic(fmt.Sprintf("testkit: unknown builtin %q", name))
}

// Lookup returns a symbol registered in the table.
func (b *Builder) Lookup(id string) *types.Symbol {
	s, ok := b.Table.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("testkit: unknown symbol %q", id))
	}
	return s
}

// External registers a metadata symbol that has no source declaration.
func (b *Builder) External(sym *types.Symbol) *types.Symbol {
	if err := b.Table.Add(sym); err != nil {
		panic(err)
	}
	return sym
}

// line appends text as a new line and returns its span.
func (b *Builder) line(text string) source.Span {
	start := b.offset()
	b.text.WriteString(text)
	end := b.offset()
	b.text.WriteByte('\n')
	return source.Span{File: b.fileID, Start: start, End: end}
}

func (b *Builder) offset() uint32 {
	off, err := safecast.Conv[uint32](b.text.Len())
	if err != nil {
		panic(err)
	}
	return off
}

func (b *Builder) uniqueID(base string) string {
	n := b.ids[base]
	b.ids[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s#%d", base, n)
}

// place writes the header line of d and gives its type parameters spans
// inside that line.
func (b *Builder) place(d *decl.Decl, keyword string) {
	var sb strings.Builder
	sb.WriteString(keyword)
	sb.WriteByte(' ')
	sb.WriteString(d.Name)
	type rel struct{ start, end int }
	rels := make([]rel, len(d.TypeParams))
	if len(d.TypeParams) > 0 {
		sb.WriteByte('<')
		for i, tp := range d.TypeParams {
			if i > 0 {
				sb.WriteString(", ")
			}
			rels[i].start = sb.Len()
			sb.WriteString(tp.Name)
			rels[i].end = sb.Len()
		}
		sb.WriteByte('>')
	}
	d.Span = b.line(sb.String())
	nameStart := d.Span.Start + uint32(len(keyword)) + 1
	d.NameSpan = source.Span{File: b.fileID, Start: nameStart, End: nameStart + uint32(len(d.Name))}
	for i := range d.TypeParams {
		d.TypeParams[i].Ordinal = i
		d.TypeParams[i].Span = source.Span{
			File:  b.fileID,
			Start: d.Span.Start + uint32(rels[i].start),
			End:   d.Span.Start + uint32(rels[i].end),
		}
		if def := d.TypeParams[i].Default; def != nil {
			def.Span = d.TypeParams[i].Span
		}
	}
}

func (b *Builder) newType(parent *decl.Decl, kind decl.TypeKind, name string, tps []decl.TypeParam) *decl.Decl {
	d := &decl.Decl{
		Kind:       decl.KindType,
		TypeKind:   kind,
		Name:       name,
		Access:     types.AccessPublic,
		Mods:       decl.ModPartial,
		TypeParams: tps,
		Namespace:  b.NS,
		Parent:     parent,
	}
	if parent == nil {
		d.ID = b.uniqueID(decl.SymbolID(d))
	} else {
		d.ID = b.uniqueID(parent.ID + "+" + types.TypeKey(name, len(tps)))
	}
	b.place(d, kind.String())
	d.Fragments = []*decl.Fragment{{Span: d.Span, Partial: true}}
	b.attach(parent, d)
	d.Sym = decl.NewSymbol(b.Table, d)
	if err := b.Table.Add(d.Sym); err != nil {
		panic(err)
	}
	b.owned = append(b.owned, d)
	return d
}

func (b *Builder) attach(parent, d *decl.Decl) {
	if parent == nil {
		b.file.Decls = append(b.file.Decls, d)
		return
	}
	switch parent.Kind {
	case decl.KindType:
		f := parent.Fragments[len(parent.Fragments)-1]
		f.Members = append(f.Members, d)
	default:
		parent.Locals = append(parent.Locals, d)
	}
}

// Class declares a public partial class in the builder namespace.
func (b *Builder) Class(name string, tps ...decl.TypeParam) *decl.Decl {
	return b.newType(nil, decl.TypeClass, name, tps)
}

// Struct declares a public partial struct.
func (b *Builder) Struct(name string, tps ...decl.TypeParam) *decl.Decl {
	return b.newType(nil, decl.TypeStruct, name, tps)
}

// Interface declares a public partial interface.
func (b *Builder) Interface(name string, tps ...decl.TypeParam) *decl.Decl {
	return b.newType(nil, decl.TypeInterface, name, tps)
}

// Nested declares a public partial type inside outer.
func (b *Builder) Nested(outer *decl.Decl, kind decl.TypeKind, name string, tps ...decl.TypeParam) *decl.Decl {
	return b.newType(outer, kind, name, tps)
}

// Fragment adds another fragment to a type and returns it. Members declared
// afterwards go into the new fragment.
func (b *Builder) Fragment(d *decl.Decl, partial bool) *decl.Fragment {
	f := &decl.Fragment{Span: b.line("partial " + d.Name), Partial: partial}
	d.Fragments = append(d.Fragments, f)
	return f
}

// Delegate declares a public delegate in the builder namespace, or inside
// outer when outer is non-nil.
func (b *Builder) Delegate(outer *decl.Decl, name string, result *types.Type, tps ...decl.TypeParam) *decl.Decl {
	d := &decl.Decl{
		Kind:       decl.KindDelegate,
		Name:       name,
		Access:     types.AccessPublic,
		TypeParams: tps,
		Result:     result,
		Namespace:  b.NS,
		Parent:     outer,
	}
	if outer == nil {
		d.ID = b.uniqueID(decl.SymbolID(d))
	} else {
		d.ID = b.uniqueID(outer.ID + "+" + types.TypeKey(name, len(tps)))
	}
	b.place(d, "delegate")
	b.attach(outer, d)
	d.Sym = decl.NewSymbol(b.Table, d)
	if err := b.Table.Add(d.Sym); err != nil {
		panic(err)
	}
	return d
}

func (b *Builder) callable(owner *decl.Decl, kind decl.Kind, name string, tps []decl.TypeParam) *decl.Decl {
	d := &decl.Decl{
		Kind:       kind,
		Name:       name,
		Access:     types.AccessPublic,
		TypeParams: tps,
		Result:     types.Unit(),
		Body:       decl.Text(),
		Namespace:  owner.Namespace,
		Parent:     owner,
	}
	if kind == decl.KindLocalFunc {
		d.Access = types.AccessNone
	}
	d.ID = b.uniqueID(owner.ID + "." + name + "``" + fmt.Sprint(len(tps)))
	b.place(d, kind.String())
	b.attach(owner, d)
	return d
}

// Method declares a public method with an empty body.
func (b *Builder) Method(owner *decl.Decl, name string, tps ...decl.TypeParam) *decl.Decl {
	return b.callable(owner, decl.KindMethod, name, tps)
}

// Local declares a local function inside host.
func (b *Builder) Local(host *decl.Decl, name string, tps ...decl.TypeParam) *decl.Decl {
	return b.callable(host, decl.KindLocalFunc, name, tps)
}

// Ctor declares a public constructor.
func (b *Builder) Ctor(owner *decl.Decl, params ...decl.Param) *decl.Decl {
	d := b.callable(owner, decl.KindConstructor, owner.Name, nil)
	d.Result = nil
	d.Params = params
	return d
}

// Field declares a public field.
func (b *Builder) Field(owner *decl.Decl, name string, ty *types.Type) *decl.Decl {
	d := &decl.Decl{
		Kind:      decl.KindField,
		Name:      name,
		Access:    types.AccessPublic,
		Result:    ty,
		Namespace: owner.Namespace,
		Parent:    owner,
	}
	d.ID = b.uniqueID(owner.ID + "." + name)
	b.place(d, "field")
	b.attach(owner, d)
	return d
}

// Extends appends bases to the last fragment of d and rebinds its symbol.
func (b *Builder) Extends(d *decl.Decl, bases ...*types.Type) {
	f := d.Fragments[len(d.Fragments)-1]
	f.Bases = append(f.Bases, bases...)
	b.rebind(d)
}

// Where adds a where clause to d (last fragment for types).
func (b *Builder) Where(d *decl.Decl, param string, items ...decl.ConstraintItem) {
	c := decl.Constraint{Param: param, Items: items, Span: d.Span}
	if d.Kind == decl.KindType {
		f := d.Fragments[len(d.Fragments)-1]
		f.Constraints = append(f.Constraints, c)
		return
	}
	d.Constraints = append(d.Constraints, c)
}

// SetDefault annotates the type parameter name of d with a default type.
func (b *Builder) SetDefault(d *decl.Decl, name string, ty *types.Type) {
	for i := range d.TypeParams {
		if d.TypeParams[i].Name == name {
			d.TypeParams[i].Default = &decl.DefaultAnnotation{Type: ty, Span: d.TypeParams[i].Span}
			return
		}
	}
	panic(fmt.Sprintf("testkit: %s has no type parameter %q", d.Name, name))
}

func (b *Builder) rebind(d *decl.Decl) {
	fresh := decl.NewSymbol(b.Table, d)
	d.Sym.Base = fresh.Base
	d.Sym.Interfaces = fresh.Interfaces
	d.Sym.DefaultCtor = fresh.DefaultCtor
	d.Sym.Access = fresh.Access
	d.Sym.Sealed = fresh.Sealed
	d.Sym.Static = fresh.Static
	d.Sym.Abstract = fresh.Abstract
	d.Sym.Members = nil
}

// Compile links the declarations and returns the compilation. It may be
// called again after more declarations were added.
func (b *Builder) Compile() *decl.Compilation {
	for _, d := range b.owned {
		b.rebind(d)
	}
	// a fresh file set per call so the builder can be compiled repeatedly
	b.fs = source.NewFileSet()
	if id := b.fs.AddVirtual(b.file.Path, []byte(b.text.String())); id != b.fileID {
		panic("testkit: unexpected file id")
	}
	c := &decl.Compilation{
		Name:     "test",
		Files:    []*decl.File{b.file},
		Assembly: b.asm,
		Table:    b.Table,
		FileSet:  b.fs,
	}
	if err := c.Link(); err != nil {
		panic(err)
	}
	if err := c.DeclareSymbols(); err != nil {
		panic(err)
	}
	return c
}

// T is a plain type parameter.
func T(name string) decl.TypeParam {
	return decl.TypeParam{Name: name}
}

// D is a type parameter defaulting to def.
func D(name string, def *types.Type) decl.TypeParam {
	return decl.TypeParam{Name: name, Default: &decl.DefaultAnnotation{Type: def}}
}

// Ref references a source type or delegate.
func Ref(d *decl.Decl, args ...*types.Type) *types.Type {
	return types.Named(d.Sym, args...)
}

// P references a type parameter of d.
func P(d *decl.Decl, name string) *types.Type {
	return d.ParamType(name)
}

// Arg is a value parameter.
func Arg(name string, ty *types.Type) decl.Param {
	return decl.Param{Name: name, Type: ty}
}

// Is is a type constraint item.
func Is(ty *types.Type) decl.ConstraintItem {
	return decl.ConstraintItem{Kind: decl.ConstraintType, Type: ty}
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Str returns a pointer to s.
func Str(s string) *string { return &s }
