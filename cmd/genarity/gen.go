package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"genarity/internal/diagfmt"
	"genarity/internal/emit"
	"genarity/internal/engine"
	"genarity/internal/observ"
	"genarity/internal/snapshot"
	"genarity/internal/trace"
	"genarity/internal/ui"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] <snapshot.json>",
	Short: "Generate reduced-arity overloads from a declaration snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runGen,
}

func init() {
	genCmd.Flags().StringP("out", "o", "generated", "directory for generated sources")
	genCmd.Flags().Bool("stdout", false, "print generated sources instead of writing files")
	genCmd.Flags().Bool("prune", true, "remove stale *.g.cs files from the output directory")
	genCmd.Flags().Bool("no-cache", false, "ignore the on-disk output cache")
	genCmd.Flags().StringSlice("disable-stage", nil, "validation stages to skip (contiguity|fragmentable|nesting|shadowable)")
	ui := uiAuto
	genCmd.Flags().Var(&ui, "ui", "progress display (auto|on|off)")
}

func runGen(cmd *cobra.Command, args []string) error {
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
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return fmt.Errorf("failed to get stdout flag: %w", err)
	}
	prune, err := cmd.Flags().GetBool("prune")
	if err != nil {
		return fmt.Errorf("failed to get prune flag: %w", err)
	}
	mode, ok := cmd.Flags().Lookup("ui").Value.(*uiMode)
	if !ok {
		return fmt.Errorf("ui flag has unexpected type")
	}

	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "gen", 0)
	defer span.End("")

	timer := observ.NewTimer()
	s.opts.Timer = timer

	idx := timer.Begin("load")
	comp, err := snapshot.Load(args[0])
	timer.End(idx, args[0])
	if err != nil {
		return err
	}

	var disk *emit.DiskCache
	if s.cacheEnabled {
		disk, err = emit.OpenDiskCache(s.cacheDir)
		if err != nil {
			return err
		}
		cache, err := disk.Load(comp.Name)
		if err != nil {
			return err
		}
		s.opts.Cache = cache
	} else {
		s.opts.Cache = emit.NewCache()
	}

	var res *engine.Result
	if mode.enabled(s.quiet) && !toStdout {
		res, err = runWithUI(ctx, "genarity "+comp.Name, comp, s.opts)
	} else {
		res, err = engine.Run(ctx, comp, s.opts)
	}
	if err != nil {
		dumpRingOnError(cmd)
		return fmt.Errorf("generation failed: %w", err)
	}

	if disk != nil {
		idx = timer.Begin("cache")
		err = disk.Save(comp.Name, s.opts.Cache)
		timer.End(idx, "")
		if err != nil {
			return err
		}
	}

	if res.Diagnostics.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Diagnostics, comp.FileSet, diagfmt.PrettyOpts{
			Color:     s.useColor,
			Context:   1,
			PathMode:  diagfmt.PathModeAuto,
			ShowNotes: true,
		})
	}

	if toStdout {
		printOutputs(cmd.OutOrStdout(), res.Outputs)
	} else {
		idx = timer.Begin("write")
		written, removed, err := writeOutputs(outDir, res.Outputs, prune)
		timer.End(idx, fmt.Sprintf("%d written, %d removed", written, removed))
		if err != nil {
			return err
		}
		if !s.quiet {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Summary(res.Stats, len(res.Outputs)))
			fmt.Fprintf(cmd.OutOrStdout(), "%d written, %d removed in %s\n", written, removed, outDir)
			if n := countSplices(res.Outputs); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d local function siblings must be placed inside their host body; see --stdout\n", n)
			}
		}
	}
	if s.timings {
		fmt.Fprintln(cmd.ErrOrStderr(), timer.Summary())
	}
	return nil
}

func printOutputs(w io.Writer, outs []emit.Output) {
	for i, out := range outs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "// ---- %s\n", out.HintName)
		fmt.Fprint(w, out.Text)
	}
}

// writeOutputs stores every output under dir by hint name. Files whose
// content is already current are left alone; with prune, generated files
// that no longer correspond to an output are removed. Local function
// siblings only compile inside their host body and are never written.
func writeOutputs(dir string, outs []emit.Output, prune bool) (written, removed int, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("failed to create %q: %w", dir, err)
	}
	live := make(map[string]bool, len(outs))
	for _, out := range outs {
		if out.Splice {
			continue
		}
		live[out.HintName] = true
		path := filepath.Join(dir, out.HintName)
		if out.Reused {
			if cur, err := os.ReadFile(path); err == nil && string(cur) == out.Text {
				continue
			}
		}
		if err := os.WriteFile(path, []byte(out.Text), 0o600); err != nil {
			return written, removed, fmt.Errorf("failed to write %q: %w", path, err)
		}
		written++
	}
	if !prune {
		return written, removed, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return written, removed, fmt.Errorf("failed to list %q: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".g.cs") || live[name] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return written, removed, fmt.Errorf("failed to remove stale %q: %w", name, err)
		}
		removed++
	}
	return written, removed, nil
}

func countSplices(outs []emit.Output) int {
	n := 0
	for _, out := range outs {
		if out.Splice {
			n++
		}
	}
	return n
}
