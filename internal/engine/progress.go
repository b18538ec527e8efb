package engine

import "time"

// Stage is a step of target processing reported to progress sinks.
type Stage string

const (
	StageCollect  Stage = "collect"
	StageValidate Stage = "validate"
	StageReduce   Stage = "reduce"
	StageEmit     Stage = "emit"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Event reports progress for one target, or for the whole run when Target
// is empty.
type Event struct {
	Target  string
	Index   int
	Total   int
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent may be called from several
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

func notify(s ProgressSink, evt Event) {
	if s != nil {
		s.OnEvent(evt)
	}
}
