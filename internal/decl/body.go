package decl

import (
	"strings"

	"genarity/internal/types"
)

// Segment is a piece of a body: either verbatim text or a bound type reference.
type Segment struct {
	Text string
	Type *types.Type
}

// Body is the inner text of a block body as bound by the host. Type
// references are kept separately so substitution never has to re-parse text.
type Body struct {
	Segments []Segment
}

// Text builds a body from alternating strings and *types.Type values.
func Text(parts ...any) *Body {
	b := &Body{Segments: make([]Segment, 0, len(parts))}
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			b.Segments = append(b.Segments, Segment{Text: v})
		case *types.Type:
			b.Segments = append(b.Segments, Segment{Type: v})
		}
	}
	return b
}

// Render joins the segments using qualified type names when asked.
func (b *Body) Render(qualified bool) string {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	for _, s := range b.Segments {
		if s.Type != nil {
			if qualified {
				sb.WriteString(s.Type.Qualified())
			} else {
				sb.WriteString(s.Type.String())
			}
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Types returns the type references in order.
func (b *Body) Types() []*types.Type {
	if b == nil {
		return nil
	}
	var out []*types.Type
	for _, s := range b.Segments {
		if s.Type != nil {
			out = append(out, s.Type)
		}
	}
	return out
}

// Subst returns b with s applied to every type reference, or b itself when
// nothing changed.
func (b *Body) Subst(s types.Subst) *Body {
	if b == nil {
		return nil
	}
	var out []Segment
	for i, seg := range b.Segments {
		if seg.Type == nil {
			continue
		}
		n := s.Apply(seg.Type)
		if n == seg.Type {
			continue
		}
		if out == nil {
			out = append([]Segment(nil), b.Segments...)
		}
		out[i].Type = n
	}
	if out == nil {
		return b
	}
	return &Body{Segments: out}
}
