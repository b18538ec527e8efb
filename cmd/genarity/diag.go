package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"genarity/internal/diag"
	"genarity/internal/diagfmt"
	"genarity/internal/engine"
	"genarity/internal/snapshot"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <snapshot.json>",
	Short: "Report diagnostics for a declaration snapshot without writing outputs",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiag,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().String("path-mode", "auto", "file path style (auto|absolute|relative|basename)")
	diagCmd.Flags().Int("context", 1, "source lines shown around each diagnostic")
	diagCmd.Flags().Bool("warnings-as-errors", false, "exit with status 1 on warnings")
	diagCmd.Flags().String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")
	diagCmd.Flags().StringSlice("disable-stage", nil, "validation stages to skip (contiguity|fragmentable|nesting|shadowable)")
}

// runDiag runs a generation pass without a cache and prints only the
// diagnostics. The process exits with status 1 when errors were reported.
func runDiag(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	manifest, err := loadManifestFor(cmd)
	if err != nil {
		return err
	}
	s, err := resolveSettings(cmd, manifest)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := flags.GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	pathFlag, err := flags.GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathFlag)
	if !ok {
		return fmt.Errorf("unknown path mode: %s", pathFlag)
	}
	contextLines, err := flags.GetInt("context")
	if err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}
	strict, err := flags.GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}

	minSevFlag, err := flags.GetString("min-severity")
	if err != nil {
		return fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	minSev, err := diag.ParseSeverity(minSevFlag)
	if err != nil {
		return err
	}

	comp, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}
	s.opts.Cache = nil
	res, err := engine.Run(cmd.Context(), comp, s.opts)
	if err != nil {
		dumpRingOnError(cmd)
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	bag := res.Diagnostics
	shown := bag.AtLeast(minSev)
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		diagfmt.Pretty(out, shown, comp.FileSet, diagfmt.PrettyOpts{
			Color:     s.useColor,
			Context:   contextLines,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
	case "short":
		diagfmt.Short(out, shown, comp.FileSet, pathMode)
	case "json":
		if err := diagfmt.JSON(out, shown, comp.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if bag.HasErrors() || (strict && bag.HasWarnings()) {
		stopProfiling()
		cleanup()
		os.Exit(1)
	}
	return nil
}
