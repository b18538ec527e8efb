// Package filter turns candidates into validated targets through an ordered
// list of named stages.
package filter

import (
	"fmt"
	"slices"

	"genarity/internal/collect"
	"genarity/internal/diag"
)

// Options select and order the stages. Empty Order means DefaultOrder.
type Options struct {
	Disabled []string
	Order    []string
}

// Pipeline runs the stages in order and stops at the first rejection.
type Pipeline struct {
	stages []Stage
}

// NewPipeline builds the stage list. Unknown stage names are an error.
func NewPipeline(opts Options) (*Pipeline, error) {
	order := opts.Order
	if len(order) == 0 {
		order = DefaultOrder
	}
	for _, name := range opts.Disabled {
		if _, ok := builtinStages[name]; !ok {
			return nil, fmt.Errorf("unknown stage %q", name)
		}
	}
	seen := make(map[string]bool, len(order))
	p := &Pipeline{}
	for _, name := range order {
		run, ok := builtinStages[name]
		if !ok {
			return nil, fmt.Errorf("unknown stage %q", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("stage %q listed twice", name)
		}
		seen[name] = true
		if slices.Contains(opts.Disabled, name) {
			continue
		}
		p.stages = append(p.stages, Stage{Name: name, Run: run})
	}
	return p, nil
}

// Stages returns the active stage names in order.
func (p *Pipeline) Stages() []string {
	out := make([]string, len(p.stages))
	for i, s := range p.stages {
		out[i] = s.Name
	}
	return out
}

// Validate checks c and returns its target. A nil target means the
// candidate was rejected (a diagnostic was reported) or, with contiguity
// disabled, has no trailing defaults to reduce.
func (p *Pipeline) Validate(c collect.Candidate, r diag.Reporter) *Target {
	t := &Target{
		Decl:  c.Decl,
		File:  c.File,
		Chain: c.Decl.Enclosing(),
	}
	for _, s := range p.stages {
		if !s.Run(t, r) {
			return nil
		}
	}
	t.Slots = trailingSlots(c.Decl)
	if len(t.Slots) == 0 {
		return nil
	}
	return t
}
