package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeDriver   Scope = iota + 1 // one command invocation
	ScopePass                      // collect, process, persist
	ScopeTarget                    // one candidate declaration
	ScopeOverload                  // one generated sibling
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeTarget:
		return "target"
	case ScopeOverload:
		return "overload"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64
	Name     string // e.g. "collect", "target:App.Box`2"
	Detail   string
	Extra    map[string]string
}

// always reports whether ev bypasses level filtering.
func (ev *Event) always() bool {
	return ev.Kind == KindHeartbeat || ev.Kind == KindFailure
}
