// Package trace records what the generator does while it runs.
//
// Events are grouped by scope: one driver span per command, pass spans for
// collection and target processing, target spans for each candidate and
// points for individual overload decisions. The level decides which scopes
// reach the output:
//
//	genarity gen --trace=- --trace-level=detail snapshot.json
//
// Tracers travel through the pipeline in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tr)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "collect", 0)
//	defer sp.End("")
package trace
