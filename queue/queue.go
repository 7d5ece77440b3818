package queue

import "context"

// Record is a single unit flowing through the pipeline. Payloads are opaque
// to the fabric; stages agree on concrete types out of band.
type Record interface{}

// endOfStream is the unexported sentinel type. Being unexported, no payload
// outside this package can ever compare equal to EndOfStream.
type endOfStream struct{}

// EndOfStream is the singleton record meaning "no more data; this stream has
// ended". Producers push it exactly once as their final record.
var EndOfStream Record = endOfStream{}

// IsEnd reports whether r is the end-of-stream sentinel.
func IsEnd(r Record) bool {
	_, ok := r.(endOfStream)
	return ok
}

// Queue is one named edge of the pipeline graph. Get and Push may block; the
// context is the only way to abandon a blocked call (the core itself never
// cancels — see EndOfStream for in-band termination).
type Queue interface {
	// Name identifies the queue in configuration and observer events.
	Name() string
	// Get returns the next record, blocking until one is available or ctx is done.
	Get(ctx context.Context) (Record, error)
	// Push appends a record, blocking on backpressure until the consumer has
	// capacity or ctx is done.
	Push(ctx context.Context, r Record) error
}

// Buffered is an in-memory channel-backed Queue.
type Buffered struct {
	name string
	ch   chan Record
}

// NewBuffered returns a Buffered queue with the given name and capacity.
// A capacity of 0 yields a rendezvous queue: every Push blocks until the
// matching Get.
func NewBuffered(name string, capacity int) *Buffered {
	return &Buffered{name: name, ch: make(chan Record, capacity)}
}

// Name implements Queue.
func (q *Buffered) Name() string { return q.name }

// Get implements Queue.
func (q *Buffered) Get(ctx context.Context) (Record, error) {
	select {
	case r := <-q.ch:
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Push implements Queue.
func (q *Buffered) Push(ctx context.Context, r Record) error {
	select {
	case q.ch <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of records currently buffered. Intended for tests
// and diagnostics; the value is stale as soon as it is read.
func (q *Buffered) Len() int { return len(q.ch) }
