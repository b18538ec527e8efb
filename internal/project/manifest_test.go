package project

import (
	"os"
	"path/filepath"
	"testing"

	"genarity/internal/decl"
)

func writeManifest(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadDefaultManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, DefaultManifest())

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Config.Generator.Disabled || !m.Config.Cache.Enabled {
		t.Fatalf("unexpected generator/cache flags: %+v", m.Config)
	}
	if m.Defaults.TargetNamespace != nil {
		t.Fatalf("commented target_namespace must stay unset")
	}
	if m.Defaults.ApplyNew == nil || *m.Defaults.ApplyNew {
		t.Fatalf("apply_new must be set to false")
	}
	if m.Defaults.TypeConvention == nil || *m.Defaults.TypeConvention != decl.TypeCopy {
		t.Fatalf("type convention")
	}
	if want := filepath.Join(dir, ".genarity", "cache"); m.Config.Cache.Dir != want {
		t.Fatalf("cache dir = %q, want %q", m.Config.Cache.Dir, want)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"convention": "[defaults]\ntype_convention = \"call\"\n",
		"jobs":       "[generator]\njobs = -1\n",
		"unknown":    "[generator]\nthreads = 2\n",
		"syntax":     "[generator\n",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), text)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadManifestWalksUp(t *testing.T) {
	t.Setenv(EnvManifest, "")
	root := t.TempDir()
	writeManifest(t, root, "[defaults]\ntarget_namespace = \"global\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	m, ok, err := LoadManifest("", nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if m.Root != root {
		t.Fatalf("root = %q, want %q", m.Root, root)
	}
	if m.Defaults.TargetNamespace == nil || *m.Defaults.TargetNamespace != "global" {
		t.Fatalf("target namespace not loaded")
	}
	if _, ok, err := LoadManifest("", t.TempDir()); ok || err != nil {
		t.Fatalf("no manifest expected, got ok=%v err=%v", ok, err)
	}
}

func TestExplicitManifest(t *testing.T) {
	t.Setenv(EnvManifest, "")
	dir := t.TempDir()
	path := writeManifest(t, dir, "[generator]\njobs = 4\n")

	for _, explicit := range []string{path, dir} {
		m, ok, err := LoadManifest(explicit, t.TempDir())
		if err != nil || !ok {
			t.Fatalf("LoadManifest(%q): ok=%v err=%v", explicit, ok, err)
		}
		if m.Config.Generator.Jobs != 4 {
			t.Fatalf("jobs = %d", m.Config.Generator.Jobs)
		}
	}
	if _, _, err := LoadManifest(filepath.Join(dir, "missing.toml"), ""); err == nil {
		t.Fatalf("a missing explicit manifest must be an error")
	}

	t.Setenv(EnvManifest, dir)
	if got, ok, err := FindManifest("", t.TempDir()); err != nil || !ok || got != path {
		t.Fatalf("env manifest: %q %v %v", got, ok, err)
	}
}

func TestDigest(t *testing.T) {
	if Sum("ab", "c") == Sum("a", "bc") {
		t.Fatalf("parts must be length-prefixed")
	}
	a := Sum("x")
	if Combine(a, Sum("y")) == Combine(a, Sum("z")) {
		t.Fatalf("Combine ignores deps")
	}
	if len(a.String()) != 64 {
		t.Fatalf("hex length = %d", len(a.String()))
	}
}
