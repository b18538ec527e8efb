package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the project configuration file name.
const ManifestName = "genarity.toml"

// EnvManifest names a manifest when no --manifest flag is given.
const EnvManifest = "GENARITY_MANIFEST"

// FindManifest picks the manifest for a run. An explicit path (flag or
// $GENARITY_MANIFEST) may name the file itself or a directory holding
// genarity.toml and must exist. Without one, directories are searched
// upwards from startDir; ok is false when none has a manifest.
func FindManifest(explicit, startDir string) (path string, ok bool, err error) {
	if explicit == "" {
		explicit = os.Getenv(EnvManifest)
	}
	if explicit != "" {
		return explicitManifest(explicit)
	}
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		switch _, err := os.Stat(candidate); {
		case err == nil:
			return candidate, true, nil
		case !errors.Is(err, os.ErrNotExist):
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func explicitManifest(path string) (string, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", false, fmt.Errorf("manifest %q: %w", path, err)
	}
	if st.IsDir() {
		abs = filepath.Join(abs, ManifestName)
		if _, err := os.Stat(abs); err != nil {
			return "", false, fmt.Errorf("manifest %q: %w", abs, err)
		}
	}
	return abs, true, nil
}
