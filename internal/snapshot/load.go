package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/safecast"

	"genarity/internal/decl"
	"genarity/internal/source"
	"genarity/internal/types"
)

// ErrVersion is returned for documents of an unsupported version.
var ErrVersion = errors.New("unsupported snapshot version")

// Load reads and builds the snapshot at path.
func Load(path string) (*decl.Compilation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads one JSON document from r and builds the compilation.
func Decode(r io.Reader) (*decl.Compilation, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return Build(&doc)
}

// Build turns a decoded document into a linked compilation with bound
// symbols.
func Build(doc *Document) (*decl.Compilation, error) {
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("snapshot: %w %d (want %d)", ErrVersion, doc.Version, FormatVersion)
	}
	l := &loader{
		tab:      types.NewTable(),
		fs:       source.NewFileSet(),
		keywords: make(map[string]*types.Symbol),
		decls:    make(map[string]*decl.Decl),
	}
	for _, s := range l.tab.Symbols() {
		if s.Keyword != "" {
			l.keywords[s.Keyword] = s
		}
	}
	comp, err := l.build(doc)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return comp, nil
}

type loader struct {
	tab      *types.Table
	fs       *source.FileSet
	keywords map[string]*types.Symbol
	decls    map[string]*decl.Decl

	// type references are bound once every declaration and symbol exists
	pending []func() error

	file    source.FileID
	fileLen int
	path    string
}

func (l *loader) build(doc *Document) (*decl.Compilation, error) {
	if err := l.symbols(doc.Symbols); err != nil {
		return nil, err
	}
	comp := &decl.Compilation{Name: doc.Name, Table: l.tab, FileSet: l.fs}
	asm, err := l.config(doc.Assembly)
	if err != nil {
		return nil, fmt.Errorf("assembly: %w", err)
	}
	comp.Assembly = asm

	for _, fd := range doc.Files {
		if fd.Path == "" {
			return nil, errors.New("file without path")
		}
		l.file = l.fs.AddVirtual(fd.Path, []byte(fd.Content))
		l.fileLen = len(l.fs.Get(l.file).Content)
		l.path = fd.Path
		f := &decl.File{ID: l.file, Path: fd.Path}
		for i := range fd.Decls {
			d, err := l.decl(&fd.Decls[i])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fd.Path, err)
			}
			d.Namespace = fd.Decls[i].Namespace
			f.Decls = append(f.Decls, d)
		}
		comp.Files = append(comp.Files, f)
	}
	if err := comp.Link(); err != nil {
		return nil, err
	}

	// placeholders first so that bases may refer to any source type
	var placeholders []*decl.Decl
	for _, f := range comp.Files {
		decl.WalkFile(f, func(d *decl.Decl) bool {
			if d.Kind == decl.KindType || d.Kind == decl.KindDelegate {
				placeholders = append(placeholders, d)
			}
			return true
		})
	}
	for _, d := range placeholders {
		d.Sym = decl.NewSymbol(l.tab, d)
		if err := l.tab.Add(d.Sym); err != nil {
			return nil, err
		}
	}
	for _, fn := range l.pending {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	// rebind now that bases are known; the pointer stays the same
	for _, d := range placeholders {
		*d.Sym = *decl.NewSymbol(l.tab, d)
	}
	if err := comp.DeclareSymbols(); err != nil {
		return nil, err
	}
	return comp, nil
}

func (l *loader) span(sd SpanDoc) (source.Span, error) {
	if sd.Start < 0 || sd.End < sd.Start || sd.End > l.fileLen {
		return source.Span{}, fmt.Errorf("span %d-%d outside %s (%d bytes)", sd.Start, sd.End, l.path, l.fileLen)
	}
	start, err := safecast.Conv[uint32](sd.Start)
	if err != nil {
		return source.Span{}, err
	}
	end, err := safecast.Conv[uint32](sd.End)
	if err != nil {
		return source.Span{}, err
	}
	return source.Span{File: l.file, Start: start, End: end}, nil
}

func (l *loader) optSpan(sd *SpanDoc) (source.Span, error) {
	if sd == nil {
		return source.Span{File: l.file}, nil
	}
	return l.span(*sd)
}

func (l *loader) config(cd *ConfigDoc) (*decl.Config, error) {
	if cd == nil {
		return nil, nil
	}
	cfg := &decl.Config{TargetNamespace: cd.TargetNamespace, ApplyNew: cd.ApplyNew}
	if cd.TypeConvention != "" {
		tc, err := decl.ParseTypeConvention(cd.TypeConvention)
		if err != nil {
			return nil, err
		}
		cfg.TypeConvention = &tc
	}
	if cd.MethodConvention != "" {
		mc, err := decl.ParseMethodConvention(cd.MethodConvention)
		if err != nil {
			return nil, err
		}
		cfg.MethodConvention = &mc
	}
	if cd.Span != nil {
		sp, err := l.span(*cd.Span)
		if err != nil {
			return nil, err
		}
		cfg.Span = sp
	}
	return cfg, nil
}

// later queues a type resolution in the scope of d.
func (l *loader) later(d *decl.Decl, td *TypeDoc, set func(*types.Type)) {
	if td == nil {
		return
	}
	l.pending = append(l.pending, func() error {
		t, err := l.typeRef(d, td)
		if err != nil {
			return fmt.Errorf("%s: %w", d.ID, err)
		}
		set(t)
		return nil
	})
}

func (l *loader) decl(dd *DeclDoc) (*decl.Decl, error) {
	kind, err := decl.ParseKind(dd.Kind)
	if err != nil {
		return nil, err
	}
	if dd.ID == "" || dd.Name == "" {
		return nil, fmt.Errorf("%s declaration without id or name", kind)
	}
	if _, dup := l.decls[dd.ID]; dup {
		return nil, fmt.Errorf("duplicate declaration id %q", dd.ID)
	}
	d := &decl.Decl{ID: dd.ID, Kind: kind, Name: dd.Name, Marker: dd.Marker}
	l.decls[dd.ID] = d
	if d.Access, err = types.ParseAccess(dd.Access); err != nil {
		return nil, err
	}
	if d.Mods, err = decl.ParseModifiers(dd.Modifiers); err != nil {
		return nil, err
	}
	if d.Span, err = l.span(dd.Span); err != nil {
		return nil, err
	}
	if d.NameSpan, err = l.span(dd.NameSpan); err != nil {
		return nil, err
	}
	if d.Config, err = l.config(dd.Config); err != nil {
		return nil, err
	}

	for i, tp := range dd.TypeParams {
		p := decl.TypeParam{Name: tp.Name, Ordinal: i}
		if p.Variance, err = decl.ParseVariance(tp.Variance); err != nil {
			return nil, err
		}
		if p.Span, err = l.span(tp.Span); err != nil {
			return nil, err
		}
		if tp.Default != nil {
			ann := &decl.DefaultAnnotation{ApplyNew: tp.Default.ApplyNew, Span: p.Span}
			if tp.Default.Span != nil {
				if ann.Span, err = l.span(*tp.Default.Span); err != nil {
					return nil, err
				}
			}
			l.later(d, &tp.Default.Type, func(t *types.Type) { ann.Type = t })
			p.Default = ann
		}
		d.TypeParams = append(d.TypeParams, p)
	}

	d.Params = make([]decl.Param, len(dd.Params))
	for i, pd := range dd.Params {
		d.Params[i] = decl.Param{Name: pd.Name, Default: pd.Default}
		if d.Params[i].Modifier, err = decl.ParseParamModifier(pd.Modifier); err != nil {
			return nil, err
		}
		l.later(d, &dd.Params[i].Type, func(t *types.Type) { d.Params[i].Type = t })
	}
	if len(d.Params) == 0 {
		d.Params = nil
	}
	if dd.Result != nil {
		l.later(d, dd.Result, func(t *types.Type) { d.Result = t })
	} else if kind.Callable() && kind != decl.KindConstructor {
		d.Result = types.Unit()
	}
	l.later(d, dd.ExplicitInterface, func(t *types.Type) { d.ExplicitInterface = t })

	if d.Constraints, err = l.constraints(d, dd.Constraints); err != nil {
		return nil, err
	}
	if len(dd.Body) > 0 || dd.HasBody {
		d.Body = l.body(d, dd.Body)
	}
	if len(dd.Initializer) > 0 {
		d.Initializer = l.body(d, dd.Initializer)
	}
	for i := range dd.Locals {
		loc, err := l.decl(&dd.Locals[i])
		if err != nil {
			return nil, err
		}
		d.Locals = append(d.Locals, loc)
	}

	if kind == decl.KindType {
		if d.TypeKind, err = decl.ParseTypeKind(dd.TypeKind); err != nil {
			return nil, err
		}
		if len(dd.Fragments) == 0 {
			d.Fragments = []*decl.Fragment{{Span: d.Span, Partial: d.Mods.Has(decl.ModPartial)}}
		}
		for i := range dd.Fragments {
			frag, err := l.fragment(d, &dd.Fragments[i])
			if err != nil {
				return nil, err
			}
			d.Fragments = append(d.Fragments, frag)
		}
	}
	return d, nil
}

func (l *loader) fragment(d *decl.Decl, fd *FragmentDoc) (*decl.Fragment, error) {
	var err error
	frag := &decl.Fragment{Partial: fd.Partial}
	if frag.Span, err = l.span(fd.Span); err != nil {
		return nil, err
	}
	if frag.Config, err = l.config(fd.Config); err != nil {
		return nil, err
	}
	frag.Bases = make([]*types.Type, len(fd.Bases))
	for i := range fd.Bases {
		l.later(d, &fd.Bases[i], func(t *types.Type) { frag.Bases[i] = t })
	}
	if frag.Constraints, err = l.constraints(d, fd.Constraints); err != nil {
		return nil, err
	}
	for i := range fd.Members {
		m, err := l.decl(&fd.Members[i])
		if err != nil {
			return nil, err
		}
		frag.Members = append(frag.Members, m)
	}
	return frag, nil
}

func (l *loader) constraints(d *decl.Decl, cds []ConstraintDoc) ([]decl.Constraint, error) {
	if len(cds) == 0 {
		return nil, nil
	}
	out := make([]decl.Constraint, len(cds))
	for i, cd := range cds {
		sp, err := l.optSpan(cd.Span)
		if err != nil {
			return nil, err
		}
		out[i] = decl.Constraint{Param: cd.Param, Span: sp, Items: make([]decl.ConstraintItem, len(cd.Items))}
		items := out[i].Items
		for j, it := range cd.Items {
			k, err := decl.ParseConstraintKind(it.Kind)
			if err != nil {
				return nil, err
			}
			items[j].Kind = k
			if k == decl.ConstraintType {
				if it.Type == nil {
					return nil, fmt.Errorf("type constraint on %s without a type", cd.Param)
				}
				l.later(d, it.Type, func(t *types.Type) { items[j].Type = t })
			}
		}
	}
	return out, nil
}

func (l *loader) body(d *decl.Decl, segs []SegmentDoc) *decl.Body {
	b := &decl.Body{Segments: make([]decl.Segment, len(segs))}
	for i, s := range segs {
		b.Segments[i].Text = s.Text
		l.later(d, s.Type, func(t *types.Type) { b.Segments[i].Type = t })
	}
	return b
}

// typeRef binds td. Type parameters are looked up from scope outwards.
func (l *loader) typeRef(scope *decl.Decl, td *TypeDoc) (*types.Type, error) {
	list := func(tds []TypeDoc) ([]*types.Type, error) {
		out := make([]*types.Type, len(tds))
		for i := range tds {
			t, err := l.typeRef(scope, &tds[i])
			if err != nil {
				return nil, err
			}
			out[i] = t
		}
		return out, nil
	}
	switch {
	case td.Void:
		return types.Unit(), nil
	case td.Param != "":
		return l.param(scope, td)
	case td.Named != "":
		sym, err := l.symbol(td.Named)
		if err != nil {
			return nil, err
		}
		if td.Unbound {
			return types.UnboundOf(sym), nil
		}
		args, err := list(td.Args)
		if err != nil {
			return nil, err
		}
		if len(args) != sym.Arity {
			return nil, fmt.Errorf("%s takes %d type arguments, got %d", sym.ID, sym.Arity, len(args))
		}
		return types.Named(sym, args...), nil
	case td.Array != nil:
		elem, err := l.typeRef(scope, td.Array)
		if err != nil {
			return nil, err
		}
		return types.ArrayOf(elem, max(td.Rank, 1)), nil
	case td.Pointer != nil:
		elem, err := l.typeRef(scope, td.Pointer)
		if err != nil {
			return nil, err
		}
		return types.PointerTo(elem), nil
	case td.Nullable != nil:
		elem, err := l.typeRef(scope, td.Nullable)
		if err != nil {
			return nil, err
		}
		return types.NullableOf(elem), nil
	case len(td.Tuple) > 0:
		elems, err := list(td.Tuple)
		if err != nil {
			return nil, err
		}
		return types.TupleOf(elems...), nil
	case td.FuncPtr != nil:
		res, err := l.typeRef(scope, &td.FuncPtr.Result)
		if err != nil {
			return nil, err
		}
		ps, err := list(td.FuncPtr.Params)
		if err != nil {
			return nil, err
		}
		return types.FuncPointer(res, ps...), nil
	default:
		return nil, errors.New("empty type reference")
	}
}

func (l *loader) param(scope *decl.Decl, td *TypeDoc) (*types.Type, error) {
	if td.Owner != "" {
		owner, ok := l.decls[td.Owner]
		if !ok {
			// metadata members own their parameters by id only
			if scope == nil {
				return types.Param(td.Owner, td.Param), nil
			}
			return nil, fmt.Errorf("type parameter %s: unknown owner %q", td.Param, td.Owner)
		}
		if _, ok := owner.TypeParam(td.Param); !ok {
			return nil, fmt.Errorf("%s declares no type parameter %s", td.Owner, td.Param)
		}
		return types.Param(owner.ID, td.Param), nil
	}
	for cur := scope; cur != nil; cur = cur.Parent {
		if _, ok := cur.TypeParam(td.Param); ok {
			return types.Param(cur.ID, td.Param), nil
		}
	}
	return nil, fmt.Errorf("type parameter %s is not in scope", td.Param)
}

func (l *loader) symbol(name string) (*types.Symbol, error) {
	if s, ok := l.keywords[name]; ok {
		return s, nil
	}
	if s, ok := l.tab.Lookup(name); ok {
		return s, nil
	}
	if !strings.Contains(name, ".") {
		if s, ok := l.tab.Lookup("System." + name); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown type %q", name)
}
