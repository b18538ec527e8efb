package diag

import (
	"fmt"
	"strings"
)

// Severity orders diagnostics from advisory to blocking.
type Severity uint8

const (
	SevInfo Severity = iota
	// SevWarning never blocks generation.
	SevWarning
	// SevError rejects the target or the overload it is attached to.
	SevError
)

var severityNames = [...]string{SevInfo: "INFO", SevWarning: "WARNING", SevError: "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// ParseSeverity accepts the String form in any case, plus "warn".
func ParseSeverity(s string) (Severity, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "WARN" {
		return SevWarning, nil
	}
	for i, name := range severityNames {
		if v == name {
			return Severity(i), nil
		}
	}
	return SevInfo, fmt.Errorf("unknown severity %q (expected info|warning|error)", s)
}
