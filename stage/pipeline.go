package stage

import (
	"context"
	"fmt"
	"sync"
)

// Pipeline owns an ordered set of stages connected by queues. Prepare runs
// each stage's one-shot setup sequentially, in declaration order; Run then
// starts every stage on its own goroutine and waits for all of them. Queues
// are the only coupling between running stages, so a stage blocks only on
// its own Get/Push calls.
type Pipeline struct {
	Name   string
	Stages []Stage
}

// Prepare calls Prepare on every stage in order, stopping at the first
// error. Call exactly once, before Run.
func (p *Pipeline) Prepare(ctx context.Context) error {
	for _, s := range p.Stages {
		if err := s.Prepare(ctx); err != nil {
			return fmt.Errorf("pipeline %s: prepare %s: %w", p.Name, s.Name(), err)
		}
	}
	return nil
}

// Run starts every stage concurrently and blocks until all have returned.
// The first stage error is returned; remaining stages keep running until
// their own streams end (termination flows through the queues via the
// end-of-stream sentinel, there is no out-of-band cancel in the core).
func (p *Pipeline) Run(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, s := range p.Stages {
		wg.Add(1)
		go func(s Stage) {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("pipeline %s: run %s: %w", p.Name, s.Name(), err)
				}
				mu.Unlock()
			}
		}(s)
	}
	wg.Wait()
	return firstErr
}
