package generate

import (
	"context"
	"sync"
	"time"
)

// EventKind names a stream event type.
type EventKind string

const (
	EventPreamble  EventKind = "preamble"
	EventHeartbeat EventKind = "heartbeat"
	EventTerminal  EventKind = "terminal"
)

// Event is one NDJSON line of a streamed generation.
type Event struct {
	Kind      EventKind `json:"kind"`
	TraceID   string    `json:"trace_id"`
	Timestamp int64     `json:"ts"` // unix milliseconds
	Result    *Result   `json:"result,omitempty"`
}

const defaultHeartbeat = 8 * time.Second

// Emitter streams one generation run as events: exactly one preamble,
// zero or more heartbeats while the work runs, and exactly one
// terminal. A single goroutine owns the channel, so there is nothing
// to lock; closing is naturally idempotent because only that goroutine
// closes, and an Emitter refuses to run twice.
type Emitter struct {
	interval time.Duration
	once     sync.Once
}

// NewEmitter creates an Emitter. A non-positive interval uses the
// default heartbeat period.
func NewEmitter(interval time.Duration) *Emitter {
	if interval <= 0 {
		interval = defaultHeartbeat
	}
	return &Emitter{interval: interval}
}

// Run starts the stream and returns its event channel. The channel is
// closed after the terminal event. An Emitter is single-use: a second
// Run returns an already-closed channel.
func (e *Emitter) Run(ctx context.Context, traceID string, work func(context.Context) Result) <-chan Event {
	out := make(chan Event, 16)

	first := false
	e.once.Do(func() { first = true })
	if !first {
		close(out)
		return out
	}

	go func() {
		defer close(out)

		out <- Event{Kind: EventPreamble, TraceID: traceID, Timestamp: nowMillis()}

		done := make(chan Result, 1)
		go func() { done <- work(ctx) }()

		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		for {
			select {
			case res := <-done:
				out <- Event{Kind: EventTerminal, TraceID: traceID, Timestamp: nowMillis(), Result: &res}
				return
			case <-ticker.C:
				out <- Event{Kind: EventHeartbeat, TraceID: traceID, Timestamp: nowMillis()}
			case <-ctx.Done():
				res := Result{
					ErrorKind: ErrKindCancelled,
					Message:   "generation cancelled",
					TraceID:   traceID,
				}
				out <- Event{Kind: EventTerminal, TraceID: traceID, Timestamp: nowMillis(), Result: &res}
				return
			}
		}
	}()

	return out
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
