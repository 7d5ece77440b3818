package config

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mwindsor/feedline/dataset"
	"github.com/mwindsor/feedline/datastage"
	"github.com/mwindsor/feedline/queue"
	"github.com/mwindsor/feedline/stage"
)

func testRegistry() *Registry {
	providers := dataset.NewProviderRegistry()
	samples := make(dataset.SliceCollection, 10)
	for i := range samples {
		samples[i] = dataset.Example{Input: float32(i), Label: i}
	}
	providers.Register("Example", &dataset.SliceProvider{
		Name:   "Example",
		Splits: map[string]dataset.SliceCollection{"val": samples},
	})

	reg := NewRegistry()
	reg.Register("passthrough", PassThroughFactory)
	reg.Register("dataset", datastage.Factory(datastage.Registries{
		Providers: providers,
		Weights:   dataset.NewWeightsRegistry(),
	}))
	return reg
}

func TestBuildPipeline_WiresQueuesAndStages(t *testing.T) {
	ctx := context.Background()
	cfg, err := ParsePipelineConfig([]byte(`
name: inference
queues:
  - source
  - name: sink
    capacity: 16
stages:
  - name: dataset
    kind: dataset
    inputs: [source]
    outputs: [sink]
    config:
      dataset_name: Example
      preload: true
      batch_size: 4
`))
	if err != nil {
		t.Fatal(err)
	}
	built, err := BuildPipeline(ctx, testRegistry(), cfg, &BuildOptions{DefaultQueueCapacity: 4})
	if err != nil {
		t.Fatal(err)
	}
	if built.Pipeline.Name != "inference" {
		t.Errorf("pipeline name: got %q", built.Pipeline.Name)
	}
	if len(built.Pipeline.Stages) != 1 {
		t.Fatalf("stages: got %d, want 1", len(built.Pipeline.Stages))
	}
	if _, ok := built.Queues["source"]; !ok {
		t.Error("source queue missing")
	}

	// The built pipeline is runnable end to end.
	if err := built.Pipeline.Prepare(ctx); err != nil {
		t.Fatal(err)
	}
	source := built.Queues["source"]
	for _, r := range []queue.Record{"A", "B", queue.EndOfStream} {
		if err := source.Push(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	if err := built.Pipeline.Run(ctx); err != nil {
		t.Fatal(err)
	}
	sink := built.Queues["sink"].(*queue.Buffered)
	if sink.Len() != 3 {
		t.Errorf("sink: got %d records, want 3", sink.Len())
	}

	ds, ok := built.Pipeline.Stages[0].(*datastage.Dataset)
	if !ok {
		t.Fatalf("stage type: got %T", built.Pipeline.Stages[0])
	}
	if got := ds.NumBatches()["val"]; got != 2 {
		t.Errorf("num batches: got %d, want 2", got)
	}
}

func TestBuildPipeline_KindDefaultsToName(t *testing.T) {
	cfg, err := ParsePipelineConfig([]byte(`
name: p
queues: [a, b]
stages:
  - name: passthrough
    inputs: [a]
    outputs: [b]
`))
	if err != nil {
		t.Fatal(err)
	}
	built, err := BuildPipeline(context.Background(), testRegistry(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := built.Pipeline.Stages[0].Name(); got != "p.passthrough" {
		t.Errorf("stage name: got %q", got)
	}
}

func TestBuildPipeline_UnknownKind(t *testing.T) {
	cfg := &PipelineConfig{
		Name:   "p",
		Stages: []StageRef{{Name: "mystery"}},
	}
	_, err := BuildPipeline(context.Background(), testRegistry(), cfg, nil)
	if err == nil || !strings.Contains(err.Error(), `kind "mystery" not in registry`) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildPipeline_UnknownQueue(t *testing.T) {
	cfg := &PipelineConfig{
		Name:   "p",
		Stages: []StageRef{{Name: "passthrough", Inputs: []string{"ghost"}}},
	}
	_, err := BuildPipeline(context.Background(), testRegistry(), cfg, nil)
	if err == nil || !strings.Contains(err.Error(), `queue "ghost" not declared`) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildPipeline_DuplicateQueue(t *testing.T) {
	cfg := &PipelineConfig{
		Name:   "p",
		Queues: []QueueConfig{{Name: "a"}, {Name: "a"}},
	}
	_, err := BuildPipeline(context.Background(), testRegistry(), cfg, nil)
	if err == nil || !strings.Contains(err.Error(), `declared twice`) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildPipeline_ConfigErrorAborts(t *testing.T) {
	cfg := &PipelineConfig{
		Name:   "p",
		Stages: []StageRef{{Name: "dataset", Kind: "dataset"}},
	}
	_, err := BuildPipeline(context.Background(), testRegistry(), cfg, nil)
	if err == nil {
		t.Fatal("expected build to fail on missing dataset name")
	}
	var cfgErr *stage.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %v", err)
	}
}

func TestBuildAllPipelines(t *testing.T) {
	multi, err := ParseMultiPipelineConfig([]byte(`
pipelines:
  first:
    queues: [a, b]
    stages:
      - name: passthrough
        inputs: [a]
        outputs: [b]
  second:
    queues: [c, d]
    stages:
      - name: passthrough
        inputs: [c]
        outputs: [d]
`))
	if err != nil {
		t.Fatal(err)
	}
	built, err := BuildAllPipelines(context.Background(), testRegistry(), multi, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(built) != 2 {
		t.Fatalf("built: got %d, want 2", len(built))
	}
	if built["first"].Pipeline.Name != "first" {
		t.Errorf("name fallback: got %q", built["first"].Pipeline.Name)
	}
}
