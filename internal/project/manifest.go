package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"genarity/internal/decl"
)

// Manifest is a loaded genarity.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
	// Defaults is the [defaults] table as the outermost configuration scope.
	Defaults *decl.Config
}

// Config mirrors genarity.toml.
type Config struct {
	Generator GeneratorConfig `toml:"generator"`
	Defaults  DefaultsConfig  `toml:"defaults"`
	Cache     CacheConfig     `toml:"cache"`
}

type GeneratorConfig struct {
	Disabled       bool     `toml:"disabled"`
	Jobs           int      `toml:"jobs"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	DisabledStages []string `toml:"disabled_stages"`
	StageOrder     []string `toml:"stage_order"`
}

type DefaultsConfig struct {
	TargetNamespace  string `toml:"target_namespace"`
	ApplyNew         bool   `toml:"apply_new"`
	TypeConvention   string `toml:"type_convention"`
	MethodConvention string `toml:"method_convention"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// DefaultCacheDir is used when [cache].dir is not set.
const DefaultCacheDir = ".genarity/cache"

// LoadManifest loads the manifest chosen by FindManifest.
func LoadManifest(explicit, startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(explicit, startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Load parses one manifest file.
func Load(path string) (*Manifest, error) {
	cfg := Config{Cache: CacheConfig{Enabled: true}}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if cfg.Generator.Jobs < 0 {
		return nil, fmt.Errorf("%s: [generator].jobs must not be negative", path)
	}
	if cfg.Generator.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: [generator].max_diagnostics must not be negative", path)
	}
	if !meta.IsDefined("cache", "dir") || strings.TrimSpace(cfg.Cache.Dir) == "" {
		cfg.Cache.Dir = DefaultCacheDir
	}

	defaults := &decl.Config{}
	if meta.IsDefined("defaults", "target_namespace") {
		ns := cfg.Defaults.TargetNamespace
		defaults.TargetNamespace = &ns
	}
	if meta.IsDefined("defaults", "apply_new") {
		v := cfg.Defaults.ApplyNew
		defaults.ApplyNew = &v
	}
	if meta.IsDefined("defaults", "type_convention") {
		conv, err := decl.ParseTypeConvention(cfg.Defaults.TypeConvention)
		if err != nil {
			return nil, fmt.Errorf("%s: [defaults].type_convention: %w", path, err)
		}
		defaults.TypeConvention = &conv
	}
	if meta.IsDefined("defaults", "method_convention") {
		conv, err := decl.ParseMethodConvention(cfg.Defaults.MethodConvention)
		if err != nil {
			return nil, fmt.Errorf("%s: [defaults].method_convention: %w", path, err)
		}
		defaults.MethodConvention = &conv
	}

	root := filepath.Dir(path)
	if !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(root, filepath.FromSlash(cfg.Cache.Dir))
	}
	return &Manifest{
		Path:     path,
		Root:     root,
		Config:   cfg,
		Defaults: defaults,
	}, nil
}

// DefaultManifest is the file written by genarity init.
func DefaultManifest() string {
	return `[generator]
disabled = false
jobs = 0
max_diagnostics = 0
# disabled_stages = ["nesting"]
# stage_order = ["contiguity", "fragmentable", "nesting", "shadowable"]

[defaults]
# target_namespace = "global"
apply_new = false
type_convention = "copy"
method_convention = "copy"

[cache]
enabled = true
dir = "` + DefaultCacheDir + `"
`
}
