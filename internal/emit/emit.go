// Package emit renders accepted overloads and tracks the generated outputs
// across runs.
package emit

import (
	"strconv"
	"strings"

	"genarity/internal/decl"
	"genarity/internal/project"
	"genarity/internal/reduce"
)

// Output is one generated source file.
type Output struct {
	// Key is stable across runs: container path, target id and arity.
	Key      string
	HintName string
	Text     string
	Digest   project.Digest
	// Splice is set for local function siblings, whose text belongs inside
	// the host method rather than in a file of its own.
	Splice bool
	// Reused is set when the cache already held identical text.
	Reused bool
}

// Emitter renders overloads and records them in a cache. A nil cache is
// allowed.
type Emitter struct {
	cache *Cache
}

func New(cache *Cache) *Emitter {
	return &Emitter{cache: cache}
}

// Render renders o without touching the cache.
func (e *Emitter) Render(o *reduce.Overload) Output {
	key := o.Key()
	text := Render(o)
	return Output{
		Key:      key,
		HintName: HintName(o),
		Text:     text,
		Digest:   project.Sum(key, text),
		Splice:   o.Target.Decl.Kind == decl.KindLocalFunc,
	}
}

// Commit records outs in the cache and marks the ones that were already
// present with identical text.
func (e *Emitter) Commit(outs []Output) []Output {
	if e.cache == nil {
		return outs
	}
	for i := range outs {
		outs[i].Reused = !e.cache.Put(outs[i])
	}
	return outs
}

// Emit renders and commits a single overload. Safe for concurrent use.
func (e *Emitter) Emit(o *reduce.Overload) Output {
	return e.Commit([]Output{e.Render(o)})[0]
}

// HintName is the file name of a sibling: Container.Name`arity.hash.g.cs.
func HintName(o *reduce.Overload) string {
	var sb strings.Builder
	if c := o.Container(); c != "" {
		sb.WriteString(c)
		sb.WriteByte('.')
	}
	sb.WriteString(o.Target.Decl.Name)
	sb.WriteByte('`')
	sb.WriteString(strconv.Itoa(o.Arity))
	sb.WriteByte('.')
	sb.WriteString(project.Sum(o.Key()).String()[:8])
	sb.WriteString(".g.cs")
	return sb.String()
}
