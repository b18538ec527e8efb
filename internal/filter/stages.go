package filter

import (
	"fmt"

	"genarity/internal/decl"
	"genarity/internal/diag"
)

// Stage names accepted by Options.
const (
	StageContiguity   = "contiguity"
	StageFragmentable = "fragmentable"
	StageNesting      = "nesting"
	StageShadowable   = "shadowable"
)

// DefaultOrder is the order stages run in unless reordered.
var DefaultOrder = []string{StageContiguity, StageFragmentable, StageNesting, StageShadowable}

// StageFunc checks one rule. It reports at most one diagnostic and returns
// false when the candidate is rejected.
type StageFunc func(t *Target, r diag.Reporter) bool

// Stage is a named validation step.
type Stage struct {
	Name string
	Run  StageFunc
}

var builtinStages = map[string]StageFunc{
	StageContiguity:   checkContiguity,
	StageFragmentable: checkFragmentable,
	StageNesting:      checkNesting,
	StageShadowable:   checkShadowable,
}

// checkContiguity: annotated parameters must be exactly a trailing run.
func checkContiguity(t *Target, r diag.Reporter) bool {
	tps := t.Decl.TypeParams
	for i := 0; i+1 < len(tps); i++ {
		if tps[i].Default != nil && tps[i+1].Default == nil {
			diag.Report(r, diag.GenNonTrailingDefault, tps[i].Span,
				fmt.Sprintf("type parameter %s has a default but %s after it does not", tps[i].Name, tps[i+1].Name)).
				WithNote(tps[i+1].Span, "parameters after a defaulted parameter must have defaults too").
				Emit()
			return false
		}
	}
	return true
}

// checkFragmentable: every enclosing type must be partial in all fragments.
func checkFragmentable(t *Target, r diag.Reporter) bool {
	for _, enc := range t.Chain {
		if enc.Kind != decl.KindType {
			continue
		}
		for _, f := range enc.Fragments {
			if f.Partial {
				continue
			}
			diag.Report(r, diag.GenEnclosingNotPartial, t.Decl.NameSpan,
				fmt.Sprintf("%s %s must be partial to hold generated members", enc.TypeKind, enc.Name)).
				WithNote(f.Span, "declared here without partial").
				Emit()
			return false
		}
	}
	return true
}

// checkNesting: neither the target nor anything around it may be generated
// or a candidate itself.
func checkNesting(t *Target, r diag.Reporter) bool {
	if t.Decl.Marker != "" {
		diag.Report(r, diag.GenNestingViolation, t.Decl.NameSpan,
			fmt.Sprintf("%s is generated code (%s) and cannot be reduced again", t.Decl.Name, t.Decl.Marker)).Emit()
		return false
	}
	for _, enc := range t.Chain {
		switch {
		case enc.Marker != "":
			diag.Report(r, diag.GenNestingViolation, t.Decl.NameSpan,
				fmt.Sprintf("%s is declared inside generated %s %s", t.Decl.Name, enc.Kind, enc.Name)).
				WithNote(enc.NameSpan, "generated declaration").
				Emit()
			return false
		case enc.IsCandidate():
			diag.Report(r, diag.GenNestingViolation, t.Decl.NameSpan,
				fmt.Sprintf("%s is declared inside %s, which has default type arguments itself", t.Decl.Name, enc.Name)).
				WithNote(enc.NameSpan, "enclosing declaration with defaults").
				Emit()
			return false
		}
	}
	return true
}

// checkShadowable rejects members siblings cannot be declared next to.
func checkShadowable(t *Target, r diag.Reporter) bool {
	d := t.Decl
	switch {
	case d.ExplicitInterface != nil:
		diag.Report(r, diag.GenUnsupportedMember, d.NameSpan,
			fmt.Sprintf("%s is an explicit implementation of %s", d.Name, d.ExplicitInterface)).Emit()
		return false
	case d.Kind == decl.KindAccessor:
		diag.Report(r, diag.GenUnsupportedMember, d.NameSpan,
			fmt.Sprintf("accessor %s cannot have generated siblings", d.Name)).Emit()
		return false
	case d.Kind != decl.KindType && d.Kind != decl.KindDelegate && d.Kind != decl.KindMethod && d.Kind != decl.KindLocalFunc:
		diag.Report(r, diag.GenUnsupportedMember, d.NameSpan,
			fmt.Sprintf("%s %s cannot have generated siblings", d.Kind, d.Name)).Emit()
		return false
	}
	return true
}
