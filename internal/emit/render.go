package emit

import (
	"strconv"
	"strings"

	"genarity/internal/decl"
	"genarity/internal/reduce"
	"genarity/internal/types"
)

const indentUnit = "    "

// ProvenanceAttribute is the attribute placed on every sibling.
const ProvenanceAttribute = "global::Genarity.ReducedFrom"

type writer struct {
	sb     strings.Builder
	indent int
}

func (w *writer) line(s string) {
	if s == "" {
		w.sb.WriteByte('\n')
		return
	}
	w.sb.WriteString(strings.Repeat(indentUnit, w.indent))
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

func (w *writer) open(header string) {
	w.line(header)
	w.line("{")
	w.indent++
}

func (w *writer) close(trailer string) {
	w.indent--
	w.line("}" + trailer)
}

// block writes multi-line body text at the current indentation.
func (w *writer) block(text string) {
	text = strings.Trim(text, "\n")
	if strings.TrimSpace(text) == "" {
		return
	}
	for _, l := range strings.Split(text, "\n") {
		w.line(strings.TrimRight(l, " \t"))
	}
}

// Render turns an accepted overload into a self-contained source file.
// Local function siblings are rendered bare, ready to be spliced into their
// host method.
func Render(o *reduce.Overload) string {
	w := &writer{}
	orig := o.Target.Decl
	w.line("// <auto-generated/>")
	if orig.Kind == decl.KindLocalFunc {
		w.line("// local function of " + orig.ContainerPath())
		renderDecl(w, o.Decl, provenance(orig))
		return w.sb.String()
	}

	ns := o.Namespace
	if ns != "" {
		w.line("")
		w.open("namespace " + ns)
	}
	// enclosing types, outermost first
	var chain []*decl.Decl
	if !orig.IsNamespaceLevel() {
		for _, enc := range orig.Enclosing() {
			if enc.Kind == decl.KindType {
				chain = append(chain, enc)
			}
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		enc := chain[i]
		w.open(join(staticKeyword(enc), "partial", enc.TypeKind.String(), enc.Name+typeParamList(enc.TypeParams)))
	}
	renderDecl(w, o.Decl, provenance(orig))
	for range chain {
		w.close("")
	}
	if ns != "" {
		w.close("")
	}
	return w.sb.String()
}

func provenance(orig *decl.Decl) string {
	return "[" + ProvenanceAttribute + "(" + strconv.Quote(orig.Signature()) + ")]"
}

func staticKeyword(d *decl.Decl) string {
	if d.IsStatic() {
		return "static"
	}
	return ""
}

func join(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func accessKeyword(a types.Access) string {
	if a == types.AccessNone {
		return ""
	}
	return a.String()
}

func typeParamList(tps []decl.TypeParam) string {
	if len(tps) == 0 {
		return ""
	}
	parts := make([]string, len(tps))
	for i, tp := range tps {
		parts[i] = join(tp.Variance.Keyword(), tp.Name)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func paramList(ps []decl.Param) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		s := join(p.Modifier.Keyword(), p.Type.Qualified(), p.Name)
		if p.Default != "" {
			s += " = " + p.Default
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func whereClauses(cs []decl.Constraint) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.Render(true)
	}
	return strings.Join(parts, " ")
}

func resultType(d *decl.Decl) string {
	if d.Result == nil {
		return "void"
	}
	return d.Result.Qualified()
}

// renderDecl writes d; attr is written above it when non-empty.
func renderDecl(w *writer, d *decl.Decl, attr string) {
	if attr != "" {
		w.line(attr)
	}
	mods := d.Mods.String()
	switch d.Kind {
	case decl.KindType:
		header := join(accessKeyword(d.Access), mods, d.TypeKind.String(), d.Name+typeParamList(d.TypeParams))
		if bases := d.Bases(); len(bases) > 0 {
			names := make([]string, len(bases))
			for i, b := range bases {
				names[i] = b.Qualified()
			}
			header += " : " + strings.Join(names, ", ")
		}
		header = join(header, whereClauses(d.AllConstraints()))
		w.open(header)
		for i, m := range d.Members() {
			if i > 0 {
				w.line("")
			}
			renderDecl(w, m, "")
		}
		w.close("")

	case decl.KindDelegate:
		w.line(join(accessKeyword(d.Access), mods, "delegate", resultType(d),
			d.Name+typeParamList(d.TypeParams)+paramList(d.Params), whereClauses(d.Constraints)) + ";")

	case decl.KindMethod, decl.KindLocalFunc:
		sig := join(accessKeyword(d.Access), mods, resultType(d))
		if d.ExplicitInterface != nil {
			sig = join(sig, d.ExplicitInterface.Qualified()+"."+d.Name+typeParamList(d.TypeParams)+paramList(d.Params))
		} else {
			sig = join(sig, d.Name+typeParamList(d.TypeParams)+paramList(d.Params))
		}
		sig = join(sig, whereClauses(d.Constraints))
		renderBody(w, sig, d)

	case decl.KindConstructor:
		sig := join(accessKeyword(d.Access), mods, d.Name+paramList(d.Params))
		if d.Initializer != nil {
			sig += " : " + d.Initializer.Render(true)
		}
		renderBody(w, sig, d)

	case decl.KindField:
		w.line(join(accessKeyword(d.Access), mods, resultType(d), d.Name) + ";")

	case decl.KindProperty:
		head := join(accessKeyword(d.Access), mods, resultType(d), d.Name)
		if d.Body == nil {
			w.line(head + " { get; set; }")
			return
		}
		w.open(head)
		w.block(d.Body.Render(true))
		w.close("")

	case decl.KindAccessor:
		renderBody(w, join(accessKeyword(d.Access), d.Name), d)
	}
}

func renderBody(w *writer, sig string, d *decl.Decl) {
	if d.Body == nil {
		w.line(sig + ";")
		return
	}
	w.open(sig)
	w.block(d.Body.Render(true))
	for _, l := range d.Locals {
		w.line("")
		renderDecl(w, l, "")
	}
	w.close("")
}
