package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColoredPlain(t *testing.T) {
	prevNoColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prevNoColor }()

	orig := Version
	defer func() { Version = orig }()

	cases := map[string]string{
		"1.2.3":                "1.2.3",
		"0.3.0-dev":            "0.3.0-dev",
		"1.2.3-rc.1+build.123": "1.2.3-rc.1+build.123",
		"weird":                "weird",
		"":                     "dev",
	}
	for in, want := range cases {
		Version = in
		if got := Colored(); got != want {
			t.Errorf("Colored(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestColoredPaintsSegments(t *testing.T) {
	prevNoColor := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prevNoColor }()

	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.3-dev"
	got := Colored()
	if got == Version {
		t.Fatalf("expected escape codes in %q", got)
	}
	if got[len(got)-4:] != "-dev" {
		t.Fatalf("suffix lost: %q", got)
	}
}
