package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"genarity/internal/engine"
	"genarity/internal/filter"
	"genarity/internal/project"
)

// runSettings is the manifest merged with command-line overrides.
type runSettings struct {
	manifest     *project.Manifest
	opts         engine.Options
	cacheEnabled bool
	cacheDir     string
	useColor     bool
	quiet        bool
	timings      bool
}

func loadManifestFor(cmd *cobra.Command) (*project.Manifest, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("manifest")
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	m, _, err := project.LoadManifest(explicit, ".")
	return m, err
}

func resolveSettings(cmd *cobra.Command, m *project.Manifest) (runSettings, error) {
	pf := cmd.Root().PersistentFlags()
	s := runSettings{manifest: m, cacheDir: project.DefaultCacheDir}

	if m != nil {
		g := m.Config.Generator
		s.opts.Disabled = g.Disabled
		s.opts.Jobs = g.Jobs
		s.opts.MaxDiagnostics = g.MaxDiagnostics
		s.opts.Stages = filter.Options{Disabled: g.DisabledStages, Order: g.StageOrder}
		s.opts.Defaults = m.Defaults
		s.cacheEnabled = m.Config.Cache.Enabled
		s.cacheDir = m.Config.Cache.Dir
	}

	if pf.Changed("jobs") {
		jobs, err := pf.GetInt("jobs")
		if err != nil {
			return s, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		if jobs < 0 {
			return s, fmt.Errorf("--jobs must not be negative")
		}
		s.opts.Jobs = jobs
	}
	if pf.Changed("max-diagnostics") {
		maxDiags, err := pf.GetInt("max-diagnostics")
		if err != nil {
			return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		if maxDiags < 0 {
			return s, fmt.Errorf("--max-diagnostics must not be negative")
		}
		s.opts.MaxDiagnostics = maxDiags
	}

	flags := cmd.Flags()
	if flags.Lookup("disable-stage") != nil && flags.Changed("disable-stage") {
		disabled, err := flags.GetStringSlice("disable-stage")
		if err != nil {
			return s, fmt.Errorf("failed to get disable-stage flag: %w", err)
		}
		s.opts.Stages.Disabled = disabled
	}
	if flags.Lookup("no-cache") != nil {
		noCache, err := flags.GetBool("no-cache")
		if err != nil {
			return s, fmt.Errorf("failed to get no-cache flag: %w", err)
		}
		if noCache {
			s.cacheEnabled = false
		}
	}

	colorFlag, err := pf.GetString("color")
	if err != nil {
		return s, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(colorFlag) {
	case "on":
		s.useColor = true
	case "off":
		s.useColor = false
	case "auto", "":
		s.useColor = isTerminal(os.Stdout)
	default:
		return s, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	color.NoColor = !s.useColor

	if s.quiet, err = pf.GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = pf.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return s, nil
}
