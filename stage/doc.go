// Package stage provides the generic execution engine every pipeline stage
// participates in. A Stage has a fixed life cycle (Created → Prepared →
// Running → Terminated): construction validates configuration and fails fast,
// Prepare performs all expensive one-shot setup (downloads, cache
// materialization) before streaming starts, and Run is the steady-state loop
// that multiplexes the stage's input queues and forwards records downstream.
//
// Runtime implements the loop shared by all stages: fetch one record from
// every input queue, terminate as soon as any of them yields the
// queue.EndOfStream sentinel (forwarding the first queue's record and
// stopping), otherwise forward the first queue's record to every output
// queue. Concrete stages embed *Runtime and override Prepare with their own
// setup; pass-through stages use the Runtime loop as-is.
//
// Optional pre/post hooks (Observer) surface phase start/end events for
// monitoring; they never alter control flow. A Pipeline prepares its stages
// in order, then runs each on its own goroutine with the queues as the only
// coupling between them.
package stage
