package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"genarity/internal/decl"
	"genarity/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a compilation:
// 1) every declaration span is non-empty and within its file's content
// 2) type parameter and constraint spans lie inside their declaration span
// 3) a file's declarations either nest or follow each other without overlap
func CheckSpanInvariants(c *decl.Compilation) error {
	if c == nil || c.FileSet == nil {
		return fmt.Errorf("nil compilation or file set")
	}
	for _, f := range c.Files {
		sf := c.FileSet.Get(f.ID)
		if sf == nil {
			return fmt.Errorf("file %q not in file set", f.Path)
		}
		lenContent, err := safecast.Conv[uint32](len(sf.Content))
		if err != nil {
			return fmt.Errorf("len content overflow: %w", err)
		}

		var prev source.Span
		havePrev := false
		var walkErr error
		decl.WalkFile(f, func(d *decl.Decl) bool {
			sp := d.Span
			if sp.End <= sp.Start {
				walkErr = fmt.Errorf("%s: empty span %v", d, sp)
				return false
			}
			if sp.File != f.ID {
				walkErr = fmt.Errorf("%s: span file mismatch: got=%d want=%d", d, sp.File, f.ID)
				return false
			}
			if sp.End > lenContent {
				walkErr = fmt.Errorf("%s: span end beyond content: %d > %d", d, sp.End, lenContent)
				return false
			}
			for _, tp := range d.TypeParams {
				if !sp.Contains(tp.Span) {
					walkErr = fmt.Errorf("%s: type parameter %s span %v outside %v", d, tp.Name, tp.Span, sp)
					return false
				}
			}
			// declarations are visited in source order
			if havePrev && sp.Start < prev.End && !prev.Contains(sp) {
				walkErr = fmt.Errorf("%s: span %v overlaps previous %v", d, sp, prev)
				return false
			}
			prev, havePrev = sp, true
			return true
		})
		if walkErr != nil {
			return walkErr
		}
	}
	return nil
}
