package decl

import (
	"fmt"

	"genarity/internal/source"
	"genarity/internal/types"
)

// File holds the top-level declarations of one source file.
type File struct {
	ID    source.FileID
	Path  string
	Decls []*Decl
}

// Compilation is one immutable snapshot handed over by the host.
type Compilation struct {
	Name     string
	Files    []*File
	Assembly *Config
	Table    *types.Table
	FileSet  *source.FileSet
}

// Link sets parent pointers and propagates namespaces. It must be called
// once after the declarations are built and before the snapshot is shared.
func (c *Compilation) Link() error {
	ids := make(map[string]*Decl)
	var visit func(d, parent *Decl) error
	visit = func(d, parent *Decl) error {
		if d.ID == "" {
			return fmt.Errorf("declaration %q has no id", d.Name)
		}
		if prev, dup := ids[d.ID]; dup && prev != d {
			return fmt.Errorf("duplicate declaration id %q", d.ID)
		}
		ids[d.ID] = d
		d.Parent = parent
		if parent != nil {
			d.Namespace = parent.Namespace
		}
		for i := range d.TypeParams {
			d.TypeParams[i].Ordinal = i
		}
		for _, m := range d.Members() {
			if err := visit(m, d); err != nil {
				return err
			}
		}
		for _, l := range d.Locals {
			if err := visit(l, d); err != nil {
				return err
			}
		}
		return nil
	}
	for _, f := range c.Files {
		for _, d := range f.Decls {
			if err := visit(d, nil); err != nil {
				return fmt.Errorf("%s: %w", f.Path, err)
			}
		}
	}
	return nil
}

// WalkFile visits every declaration of f depth-first in source order until
// fn returns false.
func WalkFile(f *File, fn func(*Decl) bool) bool {
	for _, d := range f.Decls {
		if !Walk(d, fn) {
			return false
		}
	}
	return true
}

// Walk visits d, its members and its local functions depth-first.
func Walk(d *Decl, fn func(*Decl) bool) bool {
	if !fn(d) {
		return false
	}
	for _, m := range d.Members() {
		if !Walk(m, fn) {
			return false
		}
	}
	for _, l := range d.Locals {
		if !Walk(l, fn) {
			return false
		}
	}
	return true
}

// Lookup finds a declaration by id.
func (c *Compilation) Lookup(id string) *Decl {
	var found *Decl
	for _, f := range c.Files {
		WalkFile(f, func(d *Decl) bool {
			if d.ID == id {
				found = d
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}

// NamespaceDecls returns the namespace-level declarations of ns across files.
func (c *Compilation) NamespaceDecls(ns string) []*Decl {
	var out []*Decl
	for _, f := range c.Files {
		for _, d := range f.Decls {
			if d.Namespace == ns {
				out = append(out, d)
			}
		}
	}
	return out
}
