package datastage

import (
	"context"
	"path/filepath"

	"github.com/mwindsor/feedline/dataset"
	"github.com/mwindsor/feedline/stage"
)

// Config is the dataset stage's own configuration section.
type Config struct {
	// DatasetName selects the provider in the injected registry. Required.
	DatasetName string `yaml:"dataset_name"`
	// Split lists the partitions to materialize. Defaults to ["val"].
	Split []string `yaml:"split"`
	// Weights optionally names a pretrained-weights entry; its preprocessing
	// recipe replaces the default to-tensor transform.
	Weights string `yaml:"weights"`
	// Preload enables one-shot in-memory materialization during Prepare.
	Preload bool `yaml:"preload"`
	// BatchSize is used only for NumBatches reporting. Defaults to 1.
	BatchSize int `yaml:"batch_size"`
	// DataRoot is the directory datasets are stored under. Defaults to "data";
	// a dataset's storage path is <data_root>/<dataset_name>.
	DataRoot string `yaml:"data_root"`
}

// Registries are the injected lookup tables the stage resolves names
// against. Both are required (Weights may be nil only if no stage config
// names a weights identifier).
type Registries struct {
	Providers *dataset.ProviderRegistry
	Weights   *dataset.WeightsRegistry
}

// Dataset is the dataset stage. At run time it forwards records untouched;
// its real work happens at construction (resolving collections) and in
// Prepare (optional preloading).
type Dataset struct {
	*stage.Runtime

	cfg       Config
	transform dataset.Transform

	// raw holds the provider's collections without any transform attached;
	// exposed pairs raw with the transform, either as a read-time view or,
	// after a preloading Prepare, as the in-memory cache. exposed is mutated
	// exactly once, by Prepare, and never again.
	raw     map[string]dataset.Collection
	exposed map[string]dataset.Collection
}

// New resolves the stage configuration into per-split collections.
// Configuration errors (missing dataset name, non-positive batch size) are
// reported before any provider I/O; unknown dataset or weights names fail
// with dataset.NotFoundError; provider failures propagate unwrapped inside a
// dataset.ProviderError.
func New(ctx context.Context, cfg stage.Config, parent string, regs Registries) (*Dataset, error) {
	rt, err := stage.NewRuntime(cfg, parent)
	if err != nil {
		return nil, err
	}

	c := Config{Split: []string{"val"}, BatchSize: 1, DataRoot: "data"}
	if err := cfg.DecodeExtra(&c); err != nil {
		return nil, stage.NewConfigError(cfg.Name, "decode config: %v", err)
	}
	if c.DatasetName == "" {
		return nil, stage.NewConfigError(cfg.Name, "missing dataset name")
	}
	if c.BatchSize <= 0 {
		return nil, stage.NewConfigError(cfg.Name, "batch_size must be positive, got %d", c.BatchSize)
	}
	if c.DataRoot == "" {
		c.DataRoot = "data"
	}
	if len(c.Split) == 0 {
		c.Split = []string{"val"}
	}

	provider, err := regs.Providers.Get(c.DatasetName)
	if err != nil {
		return nil, err
	}

	transform := dataset.ToTensor()
	if c.Weights != "" {
		w, err := regs.Weights.Get(c.Weights)
		if err != nil {
			return nil, err
		}
		transform = w.Transforms()
	}

	// Existence probe only: a present directory counts as downloaded, with
	// no content validation.
	root := filepath.Join(c.DataRoot, c.DatasetName)
	download := !dataset.Downloaded(root)

	ds := &Dataset{
		Runtime:   rt,
		cfg:       c,
		transform: transform,
		raw:       make(map[string]dataset.Collection, len(c.Split)),
		exposed:   make(map[string]dataset.Collection, len(c.Split)),
	}
	for _, split := range c.Split {
		col, err := provider.Load(ctx, root, split, download)
		if err != nil {
			return nil, err
		}
		ds.raw[split] = col
		ds.exposed[split] = dataset.WithTransform(col, transform)
	}
	return ds, nil
}

// Datasets returns the live split → collection mapping. The same map is
// returned on every call; entries change identity exactly once, when a
// preloading Prepare swaps a transform view for its cache. Callers must
// treat the map as read-only.
func (d *Dataset) Datasets() map[string]dataset.Collection {
	return d.exposed
}

// NumBatches returns split → floor(len(collection) / batch_size).
func (d *Dataset) NumBatches() map[string]int {
	out := make(map[string]int, len(d.exposed))
	for split, col := range d.exposed {
		out[split] = col.Len() / d.cfg.BatchSize
	}
	return out
}

// Prepare materializes every split into a dataset.Preloaded cache when
// preload is configured, replacing the exposed entry for that split. The
// raw collection and transform are consumed as an explicit pair, so no
// collection state is mutated. No-op (beyond the state transition) when
// preload is false.
func (d *Dataset) Prepare(ctx context.Context) error {
	return d.Observe("prepare", func() error {
		if d.cfg.Preload {
			for split, raw := range d.raw {
				cache, err := dataset.Preload(raw, d.transform)
				if err != nil {
					return err
				}
				d.exposed[split] = cache
			}
		}
		return d.Runtime.Prepare(ctx)
	})
}

var _ stage.Stage = (*Dataset)(nil)
