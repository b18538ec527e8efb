// Package collect finds declarations that carry default type argument
// annotations. It does no semantic work.
package collect

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"genarity/internal/decl"
)

// Candidate is an annotated declaration in source order.
type Candidate struct {
	Decl *decl.Decl
	File *decl.File
}

// Scan walks every file of comp in parallel and returns the candidates in
// deterministic order: files in compilation order, declarations in
// depth-first source order within a file.
func Scan(ctx context.Context, comp *decl.Compilation, jobs int) ([]Candidate, error) {
	if comp == nil || len(comp.Files) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	perFile := make([][]Candidate, len(comp.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(comp.Files)))
	for i, f := range comp.Files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			perFile[i] = scanFile(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, c := range perFile {
		total += len(c)
	}
	out := make([]Candidate, 0, total)
	for _, c := range perFile {
		out = append(out, c...)
	}
	return out, nil
}

func scanFile(f *decl.File) []Candidate {
	var out []Candidate
	decl.WalkFile(f, func(d *decl.Decl) bool {
		if d.IsCandidate() {
			out = append(out, Candidate{Decl: d, File: f})
		}
		return true
	})
	return out
}
