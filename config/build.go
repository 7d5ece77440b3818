package config

import (
	"context"
	"fmt"

	"github.com/mwindsor/feedline/queue"
	"github.com/mwindsor/feedline/stage"
)

// BuildOptions configures how a pipeline is built from config.
type BuildOptions struct {
	// Observer is attached to every built stage. Nil means no observing.
	Observer stage.Observer

	// DefaultQueueCapacity applies to queues declared without a capacity.
	DefaultQueueCapacity int
}

// Built is the result of BuildPipeline: the runnable pipeline plus the
// queues by name, so the caller can feed the pipeline's entry queues and
// drain its exits.
type Built struct {
	Pipeline *stage.Pipeline
	Queues   map[string]queue.Queue
}

// BuildPipeline builds a runnable pipeline from cfg. Queue names are
// declared in cfg.Queues; every stage's kind must be registered and every
// input/output must reference a declared queue. All errors are fatal: a
// misconfigured pipeline never starts.
func BuildPipeline(ctx context.Context, reg *Registry, cfg *PipelineConfig, opts *BuildOptions) (*Built, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if opts == nil {
		opts = &BuildOptions{}
	}

	queues := make(map[string]queue.Queue, len(cfg.Queues))
	for i, qc := range cfg.Queues {
		if qc.Name == "" {
			return nil, fmt.Errorf("queue %d: name required", i)
		}
		if _, exists := queues[qc.Name]; exists {
			return nil, fmt.Errorf("queue %d: %q declared twice", i, qc.Name)
		}
		capacity := qc.Capacity
		if capacity == 0 {
			capacity = opts.DefaultQueueCapacity
		}
		queues[qc.Name] = queue.NewBuffered(qc.Name, capacity)
	}

	stages := make([]stage.Stage, 0, len(cfg.Stages))
	for i, ref := range cfg.Stages {
		if ref.Name == "" {
			return nil, fmt.Errorf("stage %d: name required", i)
		}
		kind := ref.Kind
		if kind == "" {
			kind = ref.Name
		}
		factory, ok := reg.Get(kind)
		if !ok {
			return nil, fmt.Errorf("stage %d (%q): kind %q not in registry", i, ref.Name, kind)
		}
		s, err := factory(ctx, ref.StageConfig(), cfg.Name)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%q): %w", i, ref.Name, err)
		}
		inputs, err := lookupQueues(queues, ref.Inputs)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%q): inputs: %w", i, ref.Name, err)
		}
		outputs, err := lookupQueues(queues, ref.Outputs)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%q): outputs: %w", i, ref.Name, err)
		}
		binder, ok := s.(stage.Binder)
		if !ok {
			return nil, fmt.Errorf("stage %d (%q): %T does not accept queue wiring", i, ref.Name, s)
		}
		binder.Bind(inputs, outputs)
		if opts.Observer != nil {
			binder.SetObserver(opts.Observer)
		}
		stages = append(stages, s)
	}

	return &Built{
		Pipeline: &stage.Pipeline{Name: cfg.Name, Stages: stages},
		Queues:   queues,
	}, nil
}

func lookupQueues(queues map[string]queue.Queue, names []string) ([]queue.Queue, error) {
	out := make([]queue.Queue, 0, len(names))
	for _, name := range names {
		q, ok := queues[name]
		if !ok {
			return nil, fmt.Errorf("queue %q not declared", name)
		}
		out = append(out, q)
	}
	return out, nil
}

// BuildAllPipelines builds a pipeline for each entry in multi. Keys are
// pipeline names; if an entry's Name is empty, the map key is used.
func BuildAllPipelines(ctx context.Context, reg *Registry, multi *MultiPipelineConfig, opts *BuildOptions) (map[string]*Built, error) {
	if multi == nil {
		return nil, fmt.Errorf("MultiPipelineConfig is nil")
	}
	out := make(map[string]*Built, len(multi.Pipelines))
	for name, cfg := range multi.Pipelines {
		if cfg.Name == "" {
			cfg.Name = name
		}
		b, err := BuildPipeline(ctx, reg, &cfg, opts)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q: %w", name, err)
		}
		out[name] = b
	}
	return out, nil
}
