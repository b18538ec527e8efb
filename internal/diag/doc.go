// Package diag defines the diagnostic model shared by every generator stage.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning (advisory, never blocks emission) or Error
//     (fatal for the target or the overload that raised it).
//   - Code – compact numeric identifier with a stable string form (GEN1001).
//   - Message – short human text.
//   - Primary – the most specific span: the type parameter when a rule is
//     slot-specific, the declaration name otherwise.
//   - Notes – optional secondary spans, e.g. "enclosing declaration here".
//
// Every code has a fixed default severity (see Code.Severity), so callers
// normally use Report/ReportError helpers that look it up.
//
// # Emitting diagnostics
//
// Stages report through a Reporter. BagReporter collects into a Bag, which
// supports deterministic sorting and deduplication; DedupReporter drops
// repeated findings before they reach the next reporter.
//
// Package diag performs no formatting or IO. Rendering lives in
// internal/diagfmt.
package diag
