package generate

import (
	"context"
	"testing"
	"time"
)

func collectEvents(ch <-chan Event) []Event {
	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestEmitter_PreambleHeartbeatsTerminal(t *testing.T) {
	em := NewEmitter(10 * time.Millisecond)
	ch := em.Run(context.Background(), "trace-1", func(ctx context.Context) Result {
		time.Sleep(60 * time.Millisecond)
		return Result{OK: true, TraceID: "trace-1"}
	})

	events := collectEvents(ch)
	if len(events) < 3 {
		t.Fatalf("got %d events, want preamble + heartbeats + terminal", len(events))
	}
	if events[0].Kind != EventPreamble {
		t.Errorf("first event = %s, want preamble", events[0].Kind)
	}
	last := events[len(events)-1]
	if last.Kind != EventTerminal {
		t.Errorf("last event = %s, want terminal", last.Kind)
	}
	if last.Result == nil || !last.Result.OK {
		t.Errorf("terminal should carry the result: %+v", last.Result)
	}
	for _, ev := range events[1 : len(events)-1] {
		if ev.Kind != EventHeartbeat {
			t.Errorf("interior event = %s, want heartbeat", ev.Kind)
		}
	}
	for _, ev := range events {
		if ev.TraceID != "trace-1" {
			t.Errorf("event trace id = %q", ev.TraceID)
		}
		if ev.Timestamp == 0 {
			t.Error("event timestamp missing")
		}
	}
}

func TestEmitter_FastWorkSkipsHeartbeats(t *testing.T) {
	em := NewEmitter(time.Minute)
	ch := em.Run(context.Background(), "trace-2", func(ctx context.Context) Result {
		return Result{OK: true}
	})

	events := collectEvents(ch)
	if len(events) != 2 {
		t.Fatalf("got %d events, want exactly preamble + terminal", len(events))
	}
	if events[0].Kind != EventPreamble || events[1].Kind != EventTerminal {
		t.Errorf("events = %s, %s", events[0].Kind, events[1].Kind)
	}
}

func TestEmitter_ContextCancelProducesCancelledTerminal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	em := NewEmitter(10 * time.Millisecond)
	ch := em.Run(ctx, "trace-3", func(ctx context.Context) Result {
		<-ctx.Done()
		time.Sleep(time.Second)
		return Result{OK: true}
	})

	time.Sleep(25 * time.Millisecond)
	cancel()

	events := collectEvents(ch)
	last := events[len(events)-1]
	if last.Kind != EventTerminal {
		t.Fatalf("last event = %s, want terminal", last.Kind)
	}
	if last.Result == nil || last.Result.OK || last.Result.ErrorKind != ErrKindCancelled {
		t.Errorf("terminal result = %+v, want cancelled", last.Result)
	}
}

func TestEmitter_SingleUse(t *testing.T) {
	em := NewEmitter(time.Minute)
	first := em.Run(context.Background(), "t", func(ctx context.Context) Result {
		return Result{OK: true}
	})
	collectEvents(first)

	second := em.Run(context.Background(), "t", func(ctx context.Context) Result {
		t.Error("work must not run on a reused emitter")
		return Result{}
	})
	if _, open := <-second; open {
		t.Error("second Run should return a closed channel")
	}
}
