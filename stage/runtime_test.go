package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mwindsor/feedline/queue"
)

// hookObserver records phase events for assertions.
type hookObserver struct {
	mu     sync.Mutex
	events []string
}

func (h *hookObserver) PhaseStart(runID, stage, phase string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, fmt.Sprintf("%s:%s:start", stage, phase))
}

func (h *hookObserver) PhaseEnd(runID, stage, phase string, elapsed time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, fmt.Sprintf("%s:%s:end", stage, phase))
}

func newTestRuntime(t *testing.T, cfg Config, inputs, outputs []queue.Queue) *Runtime {
	t.Helper()
	rt, err := NewRuntime(cfg, "test")
	if err != nil {
		t.Fatal(err)
	}
	rt.Bind(inputs, outputs)
	return rt
}

func fill(t *testing.T, q queue.Queue, records ...queue.Record) {
	t.Helper()
	ctx := context.Background()
	for _, r := range records {
		if err := q.Push(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
}

func drain(t *testing.T, q *queue.Buffered) []queue.Record {
	t.Helper()
	ctx := context.Background()
	out := make([]queue.Record, 0, q.Len())
	for q.Len() > 0 {
		r, err := q.Get(ctx)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, r)
	}
	return out
}

// --- Construction and state machine ---

func TestNewRuntime_MissingName(t *testing.T) {
	_, err := NewRuntime(Config{}, "test")
	if err == nil {
		t.Fatal("expected error for missing stage name")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T: %v", err, err)
	}
}

func TestRuntime_RunBeforePrepare(t *testing.T) {
	in := queue.NewBuffered("in", 1)
	rt := newTestRuntime(t, Config{Name: "pass"}, []queue.Queue{in}, nil)
	if err := rt.Run(context.Background()); err == nil {
		t.Fatal("expected error running before prepare")
	}
}

func TestRuntime_PrepareTwice(t *testing.T) {
	rt := newTestRuntime(t, Config{Name: "pass"}, nil, nil)
	ctx := context.Background()
	if err := rt.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rt.Prepare(ctx); err == nil {
		t.Fatal("expected error on second prepare")
	} else if !strings.Contains(err.Error(), "prepare in state prepared") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRuntime_QualifiedName(t *testing.T) {
	rt := newTestRuntime(t, Config{Name: "dataset"}, nil, nil)
	if rt.Name() != "test.dataset" {
		t.Errorf("got %q, want test.dataset", rt.Name())
	}
	bare, err := NewRuntime(Config{Name: "dataset"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if bare.Name() != "dataset" {
		t.Errorf("got %q, want dataset", bare.Name())
	}
}

// --- Pass-through loop ---

func TestRuntime_PassThroughOrderAndTermination(t *testing.T) {
	ctx := context.Background()
	in := queue.NewBuffered("in", 4)
	out := queue.NewBuffered("out", 4)
	rt := newTestRuntime(t, Config{Name: "pass"}, []queue.Queue{in}, []queue.Queue{out})

	fill(t, in, "A", "B", queue.EndOfStream)
	if err := rt.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rt.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if rt.State() != Terminated {
		t.Errorf("state: got %v, want terminated", rt.State())
	}

	got := drain(t, out)
	if len(got) != 3 {
		t.Fatalf("output: got %d records, want 3: %v", len(got), got)
	}
	if got[0] != "A" || got[1] != "B" || !queue.IsEnd(got[2]) {
		t.Errorf("output order wrong: %v", got)
	}
}

func TestRuntime_FirstSentinelWins(t *testing.T) {
	ctx := context.Background()
	q1 := queue.NewBuffered("q1", 2)
	q2 := queue.NewBuffered("q2", 4)
	out := queue.NewBuffered("out", 4)
	rt := newTestRuntime(t, Config{Name: "join"}, []queue.Queue{q1, q2}, []queue.Queue{out})

	fill(t, q1, queue.EndOfStream)
	fill(t, q2, "pending-1", "pending-2", "pending-3")

	if err := rt.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rt.Run(ctx); err != nil {
		t.Fatal(err)
	}

	// The sentinel in the first queue's slot is forwarded and the stage
	// halts; q2's remaining records are never consumed.
	got := drain(t, out)
	if len(got) != 1 || !queue.IsEnd(got[0]) {
		t.Fatalf("output: got %v, want just the sentinel", got)
	}
	if q2.Len() != 2 {
		t.Errorf("q2 pending: got %d, want 2 (one record fetched, rest untouched)", q2.Len())
	}
	if rt.State() != Terminated {
		t.Errorf("state: got %v, want terminated", rt.State())
	}
}

func TestRuntime_ForwardsFirstQueueRecord(t *testing.T) {
	ctx := context.Background()
	q1 := queue.NewBuffered("q1", 4)
	q2 := queue.NewBuffered("q2", 4)
	out := queue.NewBuffered("out", 4)
	rt := newTestRuntime(t, Config{Name: "join"}, []queue.Queue{q1, q2}, []queue.Queue{out})

	fill(t, q1, "first-1", "first-2", queue.EndOfStream)
	fill(t, q2, "second-1", "second-2", queue.EndOfStream)

	if err := rt.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rt.Run(ctx); err != nil {
		t.Fatal(err)
	}

	got := drain(t, out)
	if len(got) != 3 {
		t.Fatalf("output: got %d records, want 3: %v", len(got), got)
	}
	if got[0] != "first-1" || got[1] != "first-2" || !queue.IsEnd(got[2]) {
		t.Errorf("expected first queue's records only, got %v", got)
	}
}

func TestRuntime_FanOut(t *testing.T) {
	ctx := context.Background()
	in := queue.NewBuffered("in", 2)
	out1 := queue.NewBuffered("out1", 2)
	out2 := queue.NewBuffered("out2", 2)
	rt := newTestRuntime(t, Config{Name: "fan"}, []queue.Queue{in}, []queue.Queue{out1, out2})

	fill(t, in, "A", queue.EndOfStream)
	if err := rt.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rt.Run(ctx); err != nil {
		t.Fatal(err)
	}

	for _, out := range []*queue.Buffered{out1, out2} {
		got := drain(t, out)
		if len(got) != 2 || got[0] != "A" || !queue.IsEnd(got[1]) {
			t.Errorf("%s: got %v, want [A, sentinel]", out.Name(), got)
		}
	}
}

func TestRuntime_NoInputs(t *testing.T) {
	rt := newTestRuntime(t, Config{Name: "orphan"}, nil, nil)
	ctx := context.Background()
	if err := rt.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rt.Run(ctx); err == nil {
		t.Fatal("expected error for stage with no input queues")
	}
}

// --- Observability ---

func TestRuntime_RunPhaseEvents(t *testing.T) {
	ctx := context.Background()
	in := queue.NewBuffered("in", 4)
	out := queue.NewBuffered("out", 4)
	rt := newTestRuntime(t, Config{Name: "pass"}, []queue.Queue{in}, []queue.Queue{out})
	obs := &hookObserver{}
	rt.SetObserver(obs)

	fill(t, in, "A", "B", queue.EndOfStream)
	if err := rt.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rt.Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"test.pass:run:start", "test.pass:run:end",
		"test.pass:run:start", "test.pass:run:end",
	}
	if len(obs.events) != len(want) {
		t.Fatalf("events: got %d, want %d: %v", len(obs.events), len(want), obs.events)
	}
	for i := range want {
		if obs.events[i] != want[i] {
			t.Errorf("events[%d]: got %q, want %q", i, obs.events[i], want[i])
		}
	}
}

func TestRuntime_DisableLogs(t *testing.T) {
	ctx := context.Background()
	in := queue.NewBuffered("in", 4)
	out := queue.NewBuffered("out", 4)
	rt := newTestRuntime(t, Config{Name: "quiet", DisableLogs: true}, []queue.Queue{in}, []queue.Queue{out})
	obs := &hookObserver{}
	rt.SetObserver(obs)

	fill(t, in, "A", queue.EndOfStream)
	if err := rt.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rt.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if len(obs.events) != 0 {
		t.Errorf("expected no run events with disable_logs, got %v", obs.events)
	}
}

func TestRuntime_ObservePhase(t *testing.T) {
	rt := newTestRuntime(t, Config{Name: "ds"}, nil, nil)
	obs := &hookObserver{}
	rt.SetObserver(obs)

	err := rt.Observe("prepare", func() error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"test.ds:prepare:start", "test.ds:prepare:end"}
	if len(obs.events) != 2 || obs.events[0] != want[0] || obs.events[1] != want[1] {
		t.Errorf("events: got %v, want %v", obs.events, want)
	}
}
