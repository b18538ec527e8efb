package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the genarity CLI.
// These variables can be overridden at build time via -ldflags.

var (
	// Version is the semantic version of the CLI.
	Version = "0.3.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var segmentColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored returns Version with major, minor and patch painted separately.
// Anything after the patch number (pre-release, build metadata) stays plain.
func Colored() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		return "dev"
	}
	core, rest := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, rest = v[:i], v[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != len(segmentColors) {
		return v
	}
	for i, p := range parts {
		parts[i] = segmentColors[i].Sprint(p)
	}
	return strings.Join(parts, ".") + rest
}
