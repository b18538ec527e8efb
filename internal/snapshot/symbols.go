package snapshot

import (
	"fmt"
	"strings"

	"genarity/internal/types"
)

// symbols registers the metadata types of the document. Members and bases
// are bound after every symbol exists.
func (l *loader) symbols(docs []SymbolDoc) error {
	syms := make([]*types.Symbol, len(docs))
	for i, sd := range docs {
		if sd.ID == "" {
			return fmt.Errorf("symbol %q without id", sd.Name)
		}
		s := &types.Symbol{
			ID:          sd.ID,
			Name:        sd.Name,
			Namespace:   sd.Namespace,
			Arity:       sd.Arity,
			Sealed:      sd.Sealed,
			Static:      sd.Static,
			Abstract:    sd.Abstract,
			StackOnly:   sd.StackOnly,
			DefaultCtor: sd.DefaultCtor,
		}
		if s.Name == "" {
			s.Name = shortName(sd.ID)
		}
		var err error
		if s.Kind, err = types.ParseSymbolKind(sd.Kind); err != nil {
			return fmt.Errorf("symbol %s: %w", sd.ID, err)
		}
		if s.Access, err = types.ParseAccess(sd.Access); err != nil {
			return fmt.Errorf("symbol %s: %w", sd.ID, err)
		}
		if sd.Container != "" {
			c, ok := l.tab.Lookup(sd.Container)
			if !ok {
				return fmt.Errorf("symbol %s: container %q must be listed before it", sd.ID, sd.Container)
			}
			s.Container = c
			s.Namespace = ""
		}
		if err := l.tab.Add(s); err != nil {
			return err
		}
		syms[i] = s
	}

	b := l.tab.Builtins()
	for i, sd := range docs {
		s := syms[i]
		switch {
		case sd.Base != nil:
			base, err := l.typeRef(nil, sd.Base)
			if err != nil {
				return fmt.Errorf("symbol %s: %w", sd.ID, err)
			}
			s.Base = base
		case s.Kind == types.SymStruct || s.Kind == types.SymEnum:
			s.Base = types.Named(b.ValueType)
		case s.Kind == types.SymDelegate:
			s.Base = types.Named(b.Delegate)
		case s.Kind == types.SymClass:
			s.Base = types.Named(b.Object)
		}
		for j := range sd.Interfaces {
			it, err := l.typeRef(nil, &sd.Interfaces[j])
			if err != nil {
				return fmt.Errorf("symbol %s: %w", sd.ID, err)
			}
			s.Interfaces = append(s.Interfaces, it)
		}
		for _, md := range sd.Members {
			m, err := l.member(s, md)
			if err != nil {
				return fmt.Errorf("symbol %s: %w", sd.ID, err)
			}
			s.Members = append(s.Members, m)
		}
	}
	return nil
}

func (l *loader) member(owner *types.Symbol, md MemberDoc) (types.Member, error) {
	m := types.Member{Name: md.Name, Arity: md.Arity, TypeParams: md.TypeParams, Static: md.Static}
	switch strings.ToLower(md.Kind) {
	case "type":
		m.Kind = types.MemberType
	case "method":
		m.Kind = types.MemberMethod
		m.Arity = len(md.TypeParams)
	case "field":
		m.Kind = types.MemberField
	case "property":
		m.Kind = types.MemberProperty
	case "event":
		m.Kind = types.MemberEvent
	default:
		return m, fmt.Errorf("unknown member kind %q", md.Kind)
	}
	if len(md.ByRef) > len(md.Params) {
		return m, fmt.Errorf("member %s: by_ref has %d entries for %d params", md.Name, len(md.ByRef), len(md.Params))
	}
	m.ByRef = md.ByRef
	var err error
	if m.Access, err = types.ParseAccess(md.Access); err != nil {
		return m, err
	}
	for i := range md.Params {
		p := md.Params[i]
		if p.Param != "" && p.Owner == "" {
			p.Owner = owner.ID + "." + md.Name
		}
		t, err := l.typeRef(nil, &p)
		if err != nil {
			return m, err
		}
		m.Params = append(m.Params, t)
	}
	return m, nil
}

func shortName(id string) string {
	if i := strings.LastIndexAny(id, ".+"); i >= 0 {
		id = id[i+1:]
	}
	if i := strings.IndexByte(id, '`'); i >= 0 {
		id = id[:i]
	}
	return id
}
