package emit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"genarity/internal/project"
)

// Current schema version - increment when diskPayload format changes
const cacheSchemaVersion uint16 = 1

// DiskCache persists one output cache per compilation under dir.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type diskEntry struct {
	Key      string
	Digest   project.Digest
	HintName string
	Text     string
}

type diskPayload struct {
	Schema      uint16
	Compilation string
	Entries     []diskEntry
}

func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		return nil, errors.New("cache: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (d *DiskCache) Dir() string {
	if d == nil {
		return ""
	}
	return d.dir
}

func (d *DiskCache) pathFor(compilation string) string {
	return filepath.Join(d.dir, "outputs", project.Sum(compilation).String()+".mp")
}

// Load returns the cache stored for compilation. A missing file, a file of
// another schema version or another compilation yields an empty cache.
func (d *DiskCache) Load(compilation string) (*Cache, error) {
	c := NewCache()
	if d == nil {
		return c, nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	f, err := os.Open(d.pathFor(compilation))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("cache: %w", err)
	}
	defer f.Close()

	var p diskPayload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("cache: decode %s: %w", f.Name(), err)
	}
	if p.Schema != cacheSchemaVersion || p.Compilation != compilation {
		return c, nil
	}
	for _, e := range p.Entries {
		c.entries[e.Key] = Entry{Digest: e.Digest, HintName: e.HintName, Text: e.Text}
	}
	return c, nil
}

// Save writes c when it changed since Load.
func (d *DiskCache) Save(compilation string, c *Cache) error {
	if d == nil || c == nil || !c.Dirty() {
		return nil
	}
	p := diskPayload{Schema: cacheSchemaVersion, Compilation: compilation}
	for _, k := range c.Keys() {
		e, _ := c.Get(k)
		p.Entries = append(p.Entries, diskEntry{Key: k, Digest: e.Digest, HintName: e.HintName, Text: e.Text})
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	path := d.pathFor(compilation)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := msgpack.NewEncoder(f).Encode(&p); err != nil {
		f.Close()
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	// Атомарная замена
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	c.markClean()
	return nil
}

// Clean removes every stored cache.
func (d *DiskCache) Clean() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	tmp := d.dir + ".old"
	_ = os.RemoveAll(tmp)
	if err := os.Rename(d.dir, tmp); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("cache: %w", err)
	}
	if err := os.RemoveAll(tmp); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return os.MkdirAll(d.dir, 0o755)
}
