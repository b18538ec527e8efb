package config

import (
	"fmt"
	"strconv"
	"sync"

	"genarity/internal/decl"
	"genarity/internal/diag"
	"genarity/internal/filter"
	"genarity/internal/project"
)

// scope is one configuration annotation on the chain.
type scope struct {
	owner string
	cfg   *decl.Config
}

type resolved struct {
	eff   Effective
	diags []diag.Diagnostic
}

// Resolver computes Effective values. It is safe for concurrent use; chain
// results are memoised by a digest of the chain contents.
type Resolver struct {
	assembly *decl.Config
	defaults *decl.Config

	mu     sync.Mutex
	memo   map[project.Digest]resolved
	hits   int
	misses int
}

// NewResolver creates a resolver with the assembly-level annotation and the
// project defaults (both may be nil).
func NewResolver(assembly, defaults *decl.Config) *Resolver {
	return &Resolver{
		assembly: assembly,
		defaults: defaults,
		memo:     make(map[project.Digest]resolved),
	}
}

// Stats returns memo hits and misses.
func (r *Resolver) Stats() (hits, misses int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits, r.misses
}

// Resolve returns the effective configuration of t and reports advisories.
func (r *Resolver) Resolve(t *filter.Target, rep diag.Reporter) Effective {
	scopes := r.chain(t)
	key := chainDigest(scopes)

	r.mu.Lock()
	res, ok := r.memo[key]
	if ok {
		r.hits++
	}
	r.mu.Unlock()
	if !ok {
		res = resolveChain(scopes)
		r.mu.Lock()
		r.memo[key] = res
		r.misses++
		r.mu.Unlock()
	}
	for _, d := range res.diags {
		rep.Report(d)
	}
	return applicable(t, res.eff, rep)
}

// chain lists the scopes innermost first: member, enclosing declarations,
// assembly, project defaults.
func (r *Resolver) chain(t *filter.Target) []scope {
	var out []scope
	add := func(owner string, cfgs ...*decl.Config) {
		for _, c := range cfgs {
			if c != nil {
				out = append(out, scope{owner: owner, cfg: c})
			}
		}
	}
	add(t.Decl.ID, t.Decl.Configs()...)
	for _, enc := range t.Chain {
		add(enc.ID, enc.Configs()...)
	}
	add("<assembly>", r.assembly)
	add("<project>", r.defaults)
	return out
}

func resolveChain(scopes []scope) resolved {
	eff := hardDefaults
	var diags []diag.Diagnostic

	nearestNS := true
	for _, s := range scopes {
		raw := s.cfg.TargetNamespace
		if raw == nil {
			continue
		}
		ns, ok := ParseNamespace(*raw)
		if ok {
			eff.TargetNamespace = &ns
			break
		}
		if nearestNS {
			diags = append(diags, diag.New(diag.GenInvalidTargetNamespace, s.cfg.Span,
				fmt.Sprintf("%q is not a valid target namespace; the setting is ignored", *raw)))
		}
		nearestNS = false
	}
	for _, s := range scopes {
		if s.cfg.ApplyNew != nil {
			eff.ApplyNew = *s.cfg.ApplyNew
			break
		}
	}
	for _, s := range scopes {
		if s.cfg.TypeConvention != nil {
			eff.TypeConvention = *s.cfg.TypeConvention
			break
		}
	}
	for _, s := range scopes {
		if s.cfg.MethodConvention != nil {
			eff.MethodConvention = *s.cfg.MethodConvention
			break
		}
	}
	return resolved{eff: eff, diags: diags}
}

// applicable drops options that cannot apply to this particular target.
func applicable(t *filter.Target, eff Effective, rep diag.Reporter) Effective {
	d := t.Decl
	if !d.IsNamespaceLevel() {
		eff.TargetNamespace = nil
	}
	switch d.Kind {
	case decl.KindType:
		if eff.TypeConvention != decl.TypeInherit {
			break
		}
		reason := ""
		switch {
		case d.TypeKind == decl.TypeStruct:
			reason = "structs cannot be inherited"
		case d.TypeKind == decl.TypeInterface:
			reason = "interfaces are extended, not inherited"
		case d.IsStatic():
			reason = "static classes cannot be inherited"
		case d.Mods.Has(decl.ModSealed):
			reason = "sealed classes cannot be inherited"
		}
		if reason != "" {
			diag.Report(rep, diag.GenConventionUnsupported, d.NameSpan,
				fmt.Sprintf("inherit convention ignored for %s: %s; using copy", d.Name, reason)).Emit()
			eff.TypeConvention = decl.TypeCopy
		}
	case decl.KindMethod, decl.KindLocalFunc:
		if eff.MethodConvention == decl.MethodCall && d.Body == nil {
			diag.Report(rep, diag.GenConventionUnsupported, d.NameSpan,
				fmt.Sprintf("call convention ignored for %s: it has no body to forward to; using copy", d.Name)).Emit()
			eff.MethodConvention = decl.MethodCopy
		}
	}
	return eff
}

func chainDigest(scopes []scope) project.Digest {
	parts := make([]string, 0, len(scopes)*6)
	for _, s := range scopes {
		c := s.cfg
		parts = append(parts, s.owner, c.Span.String())
		if c.TargetNamespace != nil {
			parts = append(parts, "ns="+*c.TargetNamespace)
		} else {
			parts = append(parts, "ns?")
		}
		if c.ApplyNew != nil {
			parts = append(parts, "new="+strconv.FormatBool(*c.ApplyNew))
		} else {
			parts = append(parts, "new?")
		}
		if c.TypeConvention != nil {
			parts = append(parts, "type="+c.TypeConvention.String())
		} else {
			parts = append(parts, "type?")
		}
		if c.MethodConvention != nil {
			parts = append(parts, "method="+c.MethodConvention.String())
		} else {
			parts = append(parts, "method?")
		}
	}
	return project.Sum(parts...)
}
