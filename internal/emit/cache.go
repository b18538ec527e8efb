package emit

import (
	"slices"
	"sync"

	"genarity/internal/project"
)

// Entry is what the cache remembers about one output.
type Entry struct {
	Digest   project.Digest
	HintName string
	Text     string
}

// Cache maps output keys to the last emitted text. Writes only happen when
// a key is new or its digest changed. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	dirty   bool
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Put stores out unless an identical entry is present. It reports whether
// the cache changed.
func (c *Cache) Put(out Output) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.entries[out.Key]; ok && prev.Digest == out.Digest {
		return false
	}
	c.entries[out.Key] = Entry{Digest: out.Digest, HintName: out.HintName, Text: out.Text}
	c.dirty = true
	return true
}

// Retain drops every key not in live and returns how many were dropped.
func (c *Cache) Retain(live map[string]bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if !live[k] {
			delete(c.entries, k)
			n++
		}
	}
	if n > 0 {
		c.dirty = true
	}
	return n
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the keys in sorted order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Dirty reports whether the cache changed since it was created or loaded.
func (c *Cache) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

func (c *Cache) markClean() {
	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()
}
