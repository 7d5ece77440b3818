package stage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mwindsor/feedline/queue"
)

// Binder is implemented by stages that accept queue wiring and an observer
// from a pipeline builder. Every stage embedding *Runtime satisfies it.
type Binder interface {
	Bind(inputs, outputs []queue.Queue)
	SetObserver(Observer)
}

// Runtime is the generic engine embedded by every concrete stage. It owns the
// stage's state machine and its interaction with the queue fabric; concrete
// stages add their own Prepare on top (calling Runtime.Prepare to advance the
// state) and either reuse the Runtime Run loop or build their own from
// FetchInputs / IsDone / PushOutputs.
type Runtime struct {
	name        string
	parent      string
	runID       string
	disableLogs bool

	obs     Observer
	inputs  []queue.Queue
	outputs []queue.Queue

	state State
}

// NewRuntime validates cfg and returns a Runtime in the Created state.
// parent is the owning pipeline's name, used to qualify the stage name in
// observer events.
func NewRuntime(cfg Config, parent string) (*Runtime, error) {
	if cfg.Name == "" {
		return nil, NewConfigError(parent, "missing stage name")
	}
	return &Runtime{
		name:        cfg.Name,
		parent:      parent,
		runID:       uuid.New().String(),
		disableLogs: cfg.DisableLogs,
		obs:         NopObserver{},
		state:       Created,
	}, nil
}

// Name returns the fully qualified stage name (parent.name).
func (r *Runtime) Name() string {
	if r.parent == "" {
		return r.name
	}
	return r.parent + "." + r.name
}

// RunID returns the identifier attached to this runtime's observer events.
func (r *Runtime) RunID() string { return r.runID }

// State returns the current life-cycle state.
func (r *Runtime) State() State { return r.state }

// Bind attaches the stage's input and output queues. Called by the pipeline
// builder before Prepare; queues must not change afterwards.
func (r *Runtime) Bind(inputs, outputs []queue.Queue) {
	r.inputs = inputs
	r.outputs = outputs
}

// SetObserver replaces the phase observer (NopObserver by default).
func (r *Runtime) SetObserver(obs Observer) {
	if obs == nil {
		obs = NopObserver{}
	}
	r.obs = obs
}

// Prepare advances Created → Prepared. Stages with real setup override this,
// do their work, then call Runtime.Prepare last. Calling it twice is an
// error: the contract is exactly one Prepare per stage.
func (r *Runtime) Prepare(ctx context.Context) error {
	if r.state != Created {
		return fmt.Errorf("stage %s: prepare in state %s", r.Name(), r.state)
	}
	r.state = Prepared
	return nil
}

// Observe runs fn bracketed by PhaseStart/PhaseEnd events for the named
// phase. Unlike the per-record run events, phase events are always emitted;
// disable_logs only silences the steady-state loop.
func (r *Runtime) Observe(phase string, fn func() error) error {
	r.obs.PhaseStart(r.runID, r.Name(), phase)
	start := time.Now()
	err := fn()
	r.obs.PhaseEnd(r.runID, r.Name(), phase, time.Since(start))
	return err
}

// FetchInputs fetches the next record from every input queue, one per queue,
// in configured order. It blocks until each queue yields a record.
func (r *Runtime) FetchInputs(ctx context.Context) ([]queue.Record, error) {
	if len(r.inputs) == 0 {
		return nil, fmt.Errorf("stage %s: no input queues bound", r.Name())
	}
	batch := make([]queue.Record, len(r.inputs))
	for i, q := range r.inputs {
		rec, err := q.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("stage %s: get from %s: %w", r.Name(), q.Name(), err)
		}
		batch[i] = rec
	}
	return batch, nil
}

// IsDone reports whether any record in the batch is the end-of-stream
// sentinel. One finished upstream ends the whole stage; remaining queues are
// not drained.
func (r *Runtime) IsDone(batch []queue.Record) bool {
	for _, rec := range batch {
		if queue.IsEnd(rec) {
			return true
		}
	}
	return false
}

// PushOutputs forwards rec to every output queue in configured order,
// blocking on backpressure. With no output queues it is a no-op (terminal
// stage).
func (r *Runtime) PushOutputs(ctx context.Context, rec queue.Record) error {
	for _, q := range r.outputs {
		if err := q.Push(ctx, rec); err != nil {
			return fmt.Errorf("stage %s: push to %s: %w", r.Name(), q.Name(), err)
		}
	}
	return nil
}

// Run executes the pass-through loop: fetch one record per input queue,
// stop as soon as any input has ended (forwarding the first queue's record
// for that iteration verbatim), otherwise forward the first queue's record
// to every output. Records are never inspected or modified, and they leave
// in the exact order they arrived. Run may only be called once, after
// Prepare; on return the stage is Terminated.
func (r *Runtime) Run(ctx context.Context) error {
	if r.state != Prepared {
		return fmt.Errorf("stage %s: run in state %s", r.Name(), r.state)
	}
	r.state = Running
	for {
		batch, err := r.FetchInputs(ctx)
		if err != nil {
			return err
		}
		if r.IsDone(batch) {
			if err := r.PushOutputs(ctx, batch[0]); err != nil {
				return err
			}
			r.state = Terminated
			return nil
		}
		var start time.Time
		if !r.disableLogs {
			r.obs.PhaseStart(r.runID, r.Name(), "run")
			start = time.Now()
		}
		err = r.PushOutputs(ctx, batch[0])
		if !r.disableLogs {
			r.obs.PhaseEnd(r.runID, r.Name(), "run", time.Since(start))
		}
		if err != nil {
			return err
		}
	}
}
