package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Target validation (one code per structural rule)
	GenNonTrailingDefault  Code = 1001
	GenEnclosingNotPartial Code = 1002
	GenNestingViolation    Code = 1003
	GenUnsupportedMember   Code = 1004

	// Default type argument validation
	GenDefaultPointer               Code = 1101
	GenDefaultFunctionPointer       Code = 1102
	GenDefaultUnboundGeneric        Code = 1103
	GenDefaultUnit                  Code = 1104
	GenDefaultStackOnly             Code = 1105
	GenDefaultForwardReference      Code = 1106
	GenDefaultConstraintUnsatisfied Code = 1107
	GenConstraintArray              Code = 1111 // default of a slot used as a constraint is an array
	GenConstraintDelegate           Code = 1112
	GenConstraintRootType           Code = 1113
	GenConstraintSealed             Code = 1114
	GenConstraintLessAccessible     Code = 1115

	// Configuration (advisory)
	GenInvalidTargetNamespace Code = 1201
	GenConventionUnsupported  Code = 1202

	// Collision and accessibility
	GenSameScopeCollision    Code = 1301
	GenBaseCollision         Code = 1302
	GenInaccessibleSignature Code = 1303
	GenRedundantShadow       Code = 1304
)

var codeDescription = map[Code]string{
	UnknownCode:                     "Unknown error",
	GenNonTrailingDefault:           "Default type parameters must form a trailing run",
	GenEnclosingNotPartial:          "Enclosing declaration is not partial",
	GenNestingViolation:             "Declaration is nested in a reduced or generated declaration",
	GenUnsupportedMember:            "Member cannot carry generated siblings",
	GenDefaultPointer:               "Default type is a pointer",
	GenDefaultFunctionPointer:       "Default type is a function pointer",
	GenDefaultUnboundGeneric:        "Default type is an unbound generic type",
	GenDefaultUnit:                  "Default type is void",
	GenDefaultStackOnly:             "Default type is stack-only",
	GenDefaultForwardReference:      "Default type refers to a parameter that is not available",
	GenDefaultConstraintUnsatisfied: "Default type does not satisfy the parameter's constraints",
	GenConstraintArray:              "Default type of a constraining parameter is an array",
	GenConstraintDelegate:           "Default type of a constraining parameter is a delegate",
	GenConstraintRootType:           "Default type of a constraining parameter is a root type",
	GenConstraintSealed:             "Default type of a constraining parameter is sealed",
	GenConstraintLessAccessible:     "Default type of a constraining parameter is less accessible than the member",
	GenInvalidTargetNamespace:       "Invalid target namespace",
	GenConventionUnsupported:        "Reduction convention is not applicable",
	GenSameScopeCollision:           "Generated member already exists",
	GenBaseCollision:                "Generated member hides an inherited member",
	GenInaccessibleSignature:        "Generated member exposes a less accessible type",
	GenRedundantShadow:              "Shadow modifier is not needed on a generated member",
}

var codeSeverity = map[Code]Severity{
	GenInvalidTargetNamespace: SevWarning,
	GenConventionUnsupported:  SevWarning,
	GenRedundantShadow:        SevWarning,
}

func (c Code) ID() string {
	if ic := int(c); ic >= 1000 && ic < 2000 {
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

// Severity returns the fixed severity of the code. Unlisted codes are errors.
func (c Code) Severity() Severity {
	if sev, ok := codeSeverity[c]; ok {
		return sev
	}
	return SevError
}

// Fatal reports whether diagnostics with this code block generation.
func (c Code) Fatal() bool {
	return c.Severity() == SevError
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
