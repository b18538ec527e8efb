package config

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// GlobalSentinel selects the global namespace.
const GlobalSentinel = "global"

var reservedWords = map[string]struct{}{
	"abstract": {}, "as": {}, "base": {}, "bool": {}, "break": {}, "byte": {}, "case": {}, "catch": {},
	"char": {}, "checked": {}, "class": {}, "const": {}, "continue": {}, "decimal": {}, "default": {},
	"delegate": {}, "do": {}, "double": {}, "else": {}, "enum": {}, "event": {}, "explicit": {},
	"extern": {}, "false": {}, "finally": {}, "fixed": {}, "float": {}, "for": {}, "foreach": {},
	"goto": {}, "if": {}, "implicit": {}, "in": {}, "int": {}, "interface": {}, "internal": {}, "is": {},
	"lock": {}, "long": {}, "namespace": {}, "new": {}, "null": {}, "object": {}, "operator": {},
	"out": {}, "override": {}, "params": {}, "private": {}, "protected": {}, "public": {},
	"readonly": {}, "ref": {}, "return": {}, "sbyte": {}, "sealed": {}, "short": {}, "sizeof": {},
	"stackalloc": {}, "static": {}, "string": {}, "struct": {}, "switch": {}, "this": {}, "throw": {},
	"true": {}, "try": {}, "typeof": {}, "uint": {}, "ulong": {}, "unchecked": {}, "unsafe": {},
	"ushort": {}, "using": {}, "virtual": {}, "void": {}, "volatile": {}, "while": {},
}

// ParseNamespace validates a target namespace value. It returns the
// normalised namespace ("" for global) and false for blank, malformed or
// reserved values.
func ParseNamespace(raw string) (string, bool) {
	s := norm.NFC.String(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	if s == GlobalSentinel {
		return "", true
	}
	for _, part := range strings.Split(s, ".") {
		if !isIdentifier(part) {
			return "", false
		}
		if _, reserved := reservedWords[part]; reserved {
			return "", false
		}
	}
	return s, true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)):
		default:
			return false
		}
	}
	return true
}
