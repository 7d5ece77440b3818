package observer

import (
	"sync"
	"time"

	"github.com/mwindsor/feedline/stage"
)

// Event is one recorded phase transition.
type Event struct {
	RunID   string
	Stage   string
	Phase   string
	Kind    string // "start" or "end"
	Elapsed time.Duration
}

// Recorder is a stage.Observer that appends events to an in-memory list.
// Safe for concurrent use (stages run on separate goroutines).
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// PhaseStart implements stage.Observer.
func (r *Recorder) PhaseStart(runID, stageName, phase string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{RunID: runID, Stage: stageName, Phase: phase, Kind: "start"})
}

// PhaseEnd implements stage.Observer.
func (r *Recorder) PhaseEnd(runID, stageName, phase string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{RunID: runID, Stage: stageName, Phase: phase, Kind: "end", Elapsed: elapsed})
}

// Events returns a copy of everything recorded so far, in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

var _ stage.Observer = (*Recorder)(nil)
