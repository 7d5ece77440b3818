package dataset

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// ToTensor returns the default transform: it converts a raw sample (a Go
// numeric scalar or (multi-dimensional) slice, e.g. []float32 feature
// vectors or [][]float32 images) into a gomlx *tensors.Tensor. Values that
// are already tensors pass through unchanged.
//
// Used when a dataset is resolved without a pretrained-weights identifier.
func ToTensor() Transform {
	return func(input interface{}) (interface{}, error) {
		if t, ok := input.(*tensors.Tensor); ok {
			return t, nil
		}
		return tensors.FromAnyValue(input), nil
	}
}
