// Package engine drives one generation pass over a compilation: it collects
// candidates, then validates, configures, reduces, resolves collisions and
// emits each target independently.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"genarity/internal/collect"
	"genarity/internal/collide"
	"genarity/internal/config"
	"genarity/internal/decl"
	"genarity/internal/defaults"
	"genarity/internal/diag"
	"genarity/internal/emit"
	"genarity/internal/filter"
	"genarity/internal/observ"
	"genarity/internal/reduce"
	"genarity/internal/trace"
)

// Options configure a run. The zero value runs every stage with
// GOMAXPROCS workers and no cache.
type Options struct {
	// Disabled turns the generator off: nothing is collected or emitted.
	Disabled bool
	Stages   filter.Options
	Jobs     int
	// MaxDiagnostics caps the merged diagnostic bag (0 = unbounded).
	MaxDiagnostics int
	// Defaults are project-level option values below the assembly scope.
	Defaults *decl.Config
	Cache    *emit.Cache
	Progress ProgressSink
	Timer    *observ.Timer
}

// TargetResult is everything one candidate produced.
type TargetResult struct {
	Candidate collect.Candidate
	// Target is nil when validation rejected the candidate.
	Target    *filter.Target
	Effective config.Effective
	Records   []collide.Record
	Outputs   []emit.Output
	Diags     *diag.Bag
}

// Stats summarise a run.
type Stats struct {
	Candidates int
	Targets    int
	Overloads  int
	Accepted   int
	Rejected   int
	Reused     int
	MemoHits   int
}

// Result of Run. Outputs and Targets are in candidate order.
type Result struct {
	Targets     []*TargetResult
	Outputs     []emit.Output
	Diagnostics *diag.Bag
	Stats       Stats
}

// Run executes one generation pass. On cancellation it returns the targets
// committed so far together with the context error; a target interrupted
// half-way contributes nothing.
func Run(ctx context.Context, comp *decl.Compilation, opts Options) (*Result, error) {
	res := &Result{Diagnostics: diag.NewBag(opts.MaxDiagnostics)}
	if opts.Disabled || comp == nil {
		return res, nil
	}
	pipe, err := filter.NewPipeline(opts.Stages)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	tr := trace.FromContext(ctx)
	parent := trace.ParentSpan(ctx)

	phase := opts.Timer.Begin("collect")
	span := trace.Begin(tr, trace.ScopePass, "collect", parent)
	notify(opts.Progress, Event{Stage: StageCollect, Status: StatusWorking})
	cands, err := collect.Scan(ctx, comp, jobs)
	span.End(fmt.Sprintf("%d candidates", len(cands)))
	opts.Timer.End(phase, fmt.Sprintf("%d candidates", len(cands)))
	if err != nil {
		notify(opts.Progress, Event{Stage: StageCollect, Status: StatusError, Err: err})
		return res, fmt.Errorf("engine: collect: %w", err)
	}
	notify(opts.Progress, Event{Stage: StageCollect, Status: StatusDone, Total: len(cands)})
	res.Stats.Candidates = len(cands)

	p := &processor{
		pipe:     pipe,
		resolver: config.NewResolver(comp.Assembly, opts.Defaults),
		collider: collide.New(comp.Table),
		emitter:  emit.New(opts.Cache),
		comp:     comp,
		sink:     opts.Progress,
		total:    len(cands),
	}

	phase = opts.Timer.Begin("process")
	span = trace.Begin(tr, trace.ScopePass, "process", parent)
	pctx := trace.WithSpan(ctx, span)

	// индексы уникальны для каждой горутины, мьютекс не нужен
	slots := make([]*TargetResult, len(cands))
	g := new(errgroup.Group)
	g.SetLimit(jobs)
	for i, c := range cands {
		if pctx.Err() != nil {
			break
		}
		g.Go(func() error {
			slots[i] = p.process(pctx, i, c)
			return nil
		})
	}
	_ = g.Wait()

	for _, tres := range slots {
		if tres == nil {
			continue
		}
		res.Targets = append(res.Targets, tres)
		res.Outputs = append(res.Outputs, tres.Outputs...)
		for _, d := range tres.Diags.Items() {
			res.Diagnostics.Add(d)
		}
		if tres.Target != nil {
			res.Stats.Targets++
		}
		for _, rec := range tres.Records {
			res.Stats.Overloads++
			if rec.Outcome.Accepted() {
				res.Stats.Accepted++
			} else {
				res.Stats.Rejected++
			}
		}
		for _, o := range tres.Outputs {
			if o.Reused {
				res.Stats.Reused++
			}
		}
	}
	res.Diagnostics.Sort()
	res.Diagnostics.Dedup()
	res.Stats.MemoHits, _ = p.resolver.Stats()

	note := fmt.Sprintf("%d targets, %d outputs", res.Stats.Targets, len(res.Outputs))
	span.WithExtra("accepted", fmt.Sprint(res.Stats.Accepted)).
		WithExtra("rejected", fmt.Sprint(res.Stats.Rejected)).
		End(note)
	opts.Timer.End(phase, note)

	if err := ctx.Err(); err != nil {
		notify(opts.Progress, Event{Stage: StageEmit, Status: StatusError, Err: err})
		return res, err
	}
	if opts.Cache != nil {
		live := make(map[string]bool, len(res.Outputs))
		for _, o := range res.Outputs {
			live[o.Key] = true
		}
		opts.Cache.Retain(live)
	}
	notify(opts.Progress, Event{Stage: StageEmit, Status: StatusDone, Total: len(cands)})
	return res, nil
}

type processor struct {
	pipe     *filter.Pipeline
	resolver *config.Resolver
	collider *collide.Resolver
	emitter  *emit.Emitter
	comp     *decl.Compilation
	sink     ProgressSink
	total    int
}

// process runs one candidate through every step. It returns nil when ctx
// is cancelled before the target's outputs are committed.
func (p *processor) process(ctx context.Context, idx int, c collect.Candidate) *TargetResult {
	if ctx.Err() != nil {
		return nil
	}
	start := time.Now()
	name := c.Decl.Signature()
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeTarget, "target:"+name, trace.ParentSpan(ctx))
	ev := Event{Target: name, Index: idx, Total: p.total}
	progress := func(st Stage, status Status, err error) {
		e := ev
		e.Stage, e.Status, e.Err, e.Elapsed = st, status, err, time.Since(start)
		notify(p.sink, e)
	}

	res := &TargetResult{Candidate: c, Diags: diag.NewBag(0)}
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Diags})

	progress(StageValidate, StatusWorking, nil)
	t := p.pipe.Validate(c, rep)
	if t == nil {
		span.End("rejected")
		progress(StageValidate, StatusSkipped, nil)
		return res
	}
	res.Target = t
	res.Effective = p.resolver.Resolve(t, rep)
	if !defaults.Check(t, rep) {
		span.End("invalid defaults")
		progress(StageValidate, StatusSkipped, nil)
		return res
	}

	progress(StageReduce, StatusWorking, nil)
	ovs, err := reduce.Reduce(ctx, p.comp.Table, t, res.Effective)
	if err != nil {
		// cancellation or an unreducible declaration; either way nothing of
		// this target is committed
		span.End(err.Error())
		if ctx.Err() != nil {
			return nil
		}
		progress(StageReduce, StatusError, err)
		return res
	}
	accepted, records := p.collider.Resolve(ovs, res.Effective, rep)
	res.Records = records
	for _, rec := range records {
		trace.Point(tr, trace.ScopeOverload, rec.Outcome.String(), rec.Overload.String(), span.ID())
	}

	outs := make([]emit.Output, 0, len(accepted))
	for _, o := range accepted {
		outs = append(outs, p.emitter.Render(o))
	}
	if ctx.Err() != nil {
		span.End("cancelled")
		return nil
	}
	res.Outputs = p.emitter.Commit(outs)
	span.WithExtra("outputs", fmt.Sprint(len(outs))).End("")
	progress(StageEmit, StatusDone, nil)
	return res
}
