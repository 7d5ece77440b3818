package config

import (
	"context"

	"github.com/mwindsor/feedline/stage"
)

// PassThroughFactory builds a stage that forwards records untouched: the
// bare stage.Runtime loop. Useful as a no-op, an observer boundary, or a
// placeholder while a pipeline is being assembled.
func PassThroughFactory(ctx context.Context, cfg stage.Config, parent string) (stage.Stage, error) {
	return stage.NewRuntime(cfg, parent)
}
