package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/cobra"

	"genarity/internal/emit"
	"genarity/internal/project"
)

func newTestCommand(t *testing.T) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "genarity"}
	registerGlobalFlags(root)
	sub := &cobra.Command{Use: "gen"}
	sub.Flags().Bool("no-cache", false, "")
	sub.Flags().StringSlice("disable-stage", nil, "")
	root.AddCommand(sub)
	if err := root.PersistentFlags().Set("color", "off"); err != nil {
		t.Fatal(err)
	}
	return sub
}

func writeManifest(t *testing.T, body string) *project.Manifest {
	t.Helper()
	path := filepath.Join(t.TempDir(), project.ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err := project.Load(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	return m
}

func TestFlagsOverrideManifest(t *testing.T) {
	m := writeManifest(t, `[generator]
jobs = 2
max_diagnostics = 10
disabled_stages = ["nesting"]

[cache]
enabled = true
dir = "cache"
`)
	cmd := newTestCommand(t)
	if err := cmd.Root().PersistentFlags().Set("jobs", "3"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("no-cache", "true"); err != nil {
		t.Fatal(err)
	}

	s, err := resolveSettings(cmd, m)
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if s.opts.Jobs != 3 {
		t.Fatalf("jobs = %d, want 3", s.opts.Jobs)
	}
	if s.opts.MaxDiagnostics != 10 {
		t.Fatalf("max diagnostics = %d, want 10", s.opts.MaxDiagnostics)
	}
	if !slices.Equal(s.opts.Stages.Disabled, []string{"nesting"}) {
		t.Fatalf("disabled stages = %v", s.opts.Stages.Disabled)
	}
	if s.cacheEnabled {
		t.Fatalf("--no-cache should disable the cache")
	}
	if s.cacheDir != filepath.Join(m.Root, "cache") {
		t.Fatalf("cache dir = %q", s.cacheDir)
	}
	if s.useColor {
		t.Fatalf("color should be off")
	}
}

func TestSettingsWithoutManifest(t *testing.T) {
	cmd := newTestCommand(t)
	if err := cmd.Flags().Set("disable-stage", "contiguity,shadowable"); err != nil {
		t.Fatal(err)
	}
	s, err := resolveSettings(cmd, nil)
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if s.cacheEnabled || s.cacheDir != project.DefaultCacheDir {
		t.Fatalf("cache = %v %q", s.cacheEnabled, s.cacheDir)
	}
	if !slices.Equal(s.opts.Stages.Disabled, []string{"contiguity", "shadowable"}) {
		t.Fatalf("disabled stages = %v", s.opts.Stages.Disabled)
	}
}

func TestNegativeJobsRejected(t *testing.T) {
	cmd := newTestCommand(t)
	if err := cmd.Root().PersistentFlags().Set("jobs", "-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveSettings(cmd, nil); err == nil {
		t.Fatalf("expected error for negative jobs")
	}
}

func TestUIModeFlag(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiAuto, "ON": uiOn, " off ": uiOff, "true": uiOn} {
		var m uiMode
		if err := m.Set(in); err != nil || m != want {
			t.Fatalf("Set(%q) = %v, %v; want %v", in, m, err, want)
		}
	}
	var m uiMode
	if err := m.Set("sometimes"); err == nil {
		t.Fatalf("expected error")
	}
	if !uiOn.enabled(true) || uiOff.enabled(false) {
		t.Fatalf("explicit modes must ignore quiet")
	}
	if err := genCmd.ParseFlags([]string{"--ui=maybe"}); err == nil {
		t.Fatalf("expected --ui=maybe to be rejected")
	}
}

func TestWriteOutputsPrunesStale(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "Old`2.deadbeef.g.cs")
	keep := filepath.Join(dir, "notes.txt")
	for _, p := range []string{stale, keep} {
		if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	outs := []emit.Output{
		{Key: "a", HintName: "Box`2.00000001.g.cs", Text: "// a\n"},
		{Key: "b", HintName: "Box`3.00000002.g.cs", Text: "// b\n"},
	}
	written, removed, err := writeOutputs(dir, outs, true)
	if err != nil {
		t.Fatalf("writeOutputs: %v", err)
	}
	if written != 2 || removed != 1 {
		t.Fatalf("written %d removed %d", written, removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale file survived: %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("non-generated file removed: %v", err)
	}

	// unchanged outputs are not rewritten
	outs[0].Reused, outs[1].Reused = true, true
	written, removed, err = writeOutputs(dir, outs, true)
	if err != nil || written != 0 || removed != 0 {
		t.Fatalf("second pass: written %d removed %d err %v", written, removed, err)
	}
}

func TestWriteOutputsSkipsLocalFunctions(t *testing.T) {
	dir := t.TempDir()
	outs := []emit.Output{
		{Key: "a", HintName: "Host`0.00000001.g.cs", Text: "// a\n"},
		{Key: "b", HintName: "Host`0.00000002.g.cs", Text: "// local\n", Splice: true},
	}
	written, _, err := writeOutputs(dir, outs, true)
	if err != nil {
		t.Fatalf("writeOutputs: %v", err)
	}
	if written != 1 || countSplices(outs) != 1 {
		t.Fatalf("written %d splices %d", written, countSplices(outs))
	}
	if _, err := os.Stat(filepath.Join(dir, outs[1].HintName)); !os.IsNotExist(err) {
		t.Fatalf("local function sibling written to disk: %v", err)
	}
}
