package datastage

import (
	"context"

	"github.com/mwindsor/feedline/stage"
)

// Factory returns a stage factory bound to the given registries, suitable
// for registration in a config.Registry:
//
//	reg.Register("dataset", datastage.Factory(regs))
func Factory(regs Registries) func(ctx context.Context, cfg stage.Config, parent string) (stage.Stage, error) {
	return func(ctx context.Context, cfg stage.Config, parent string) (stage.Stage, error) {
		return New(ctx, cfg, parent, regs)
	}
}
