package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the value of gen's --ui flag. It satisfies pflag.Value so
// cobra rejects bad values while parsing arguments.
type uiMode int

const (
	uiAuto uiMode = iota
	uiOn
	uiOff
)

var uiModeNames = map[string]uiMode{
	"":      uiAuto,
	"auto":  uiAuto,
	"on":    uiOn,
	"true":  uiOn,
	"off":   uiOff,
	"false": uiOff,
}

func (m uiMode) String() string {
	switch m {
	case uiOn:
		return "on"
	case uiOff:
		return "off"
	default:
		return "auto"
	}
}

func (m *uiMode) Set(value string) error {
	v, ok := uiModeNames[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return fmt.Errorf("expected auto, on or off, got %q", value)
	}
	*m = v
	return nil
}

func (m *uiMode) Type() string { return "mode" }

// enabled reports whether the bubbletea progress view should run.
func (m uiMode) enabled(quiet bool) bool {
	switch m {
	case uiOn:
		return true
	case uiOff:
		return false
	}
	return !quiet && isTerminal(os.Stdout)
}
