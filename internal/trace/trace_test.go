package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	pass := Begin(tr, ScopePass, "collect", 0)
	target := Begin(tr, ScopeTarget, "target:App.Box", pass.ID())
	target.End("")
	pass.End("3 candidates")

	out := buf.String()
	if !strings.Contains(out, "→ collect") || !strings.Contains(out, "(3 candidates)") {
		t.Fatalf("pass span missing:\n%s", out)
	}
	if strings.Contains(out, "target:") {
		t.Fatalf("target span leaked at phase level:\n%s", out)
	}
	if target.ID() != 0 {
		t.Fatalf("filtered span must be disabled")
	}
}

func TestFailureBypassesLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatText)
	Point(tr, ScopeOverload, "accept", "", 0)
	Failure(tr, ScopeOverload, "reject", "GEN1201", 0)
	if out := buf.String(); strings.Contains(out, "accept") || !strings.Contains(out, "! reject (GEN1201)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Begin(tr, ScopeDriver, "gen", 0).WithExtra("targets", "2").End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d", len(lines))
	}
	var ev struct {
		Kind  string            `json:"kind"`
		Scope string            `json:"scope"`
		Extra map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != "end" || ev.Scope != "driver" || ev.Extra["targets"] != "2" {
		t.Fatalf("got %+v", ev)
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeTarget, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
	r := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	sp := Begin(FromContext(ctx), ScopePass, "process", 0)
	ctx = WithSpan(ctx, sp)
	if ParentSpan(ctx) != sp.ID() {
		t.Fatalf("parent span not propagated")
	}
}

func TestParse(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel: %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("want error")
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat: %v %v", f, err)
	}
	if tr, err := New(Config{Level: LevelOff}); err != nil || tr.Enabled() {
		t.Fatalf("off must yield a disabled tracer")
	}
}
