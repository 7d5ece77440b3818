package dataset

import "fmt"

// Preloaded is an in-memory snapshot of a source Collection. Construction
// reads every example out of the source exactly once and copies the raw
// (input, label) pairs verbatim; the transform runs lazily, fresh on each At
// call. The source may be discarded after construction.
//
// Memory cost is O(n) raw examples; that is the point of the optimization:
// repeated epochs pay the transform only, never the upstream fetch or decode.
type Preloaded struct {
	data      []Example
	transform Transform
}

// Preload copies src fully, index 0 through Len-1, and returns the snapshot.
// The transform is not applied during the copy.
func Preload(src Collection, t Transform) (*Preloaded, error) {
	if t == nil {
		t = Identity()
	}
	data := make([]Example, src.Len())
	for i := range data {
		ex, err := src.At(i)
		if err != nil {
			return nil, fmt.Errorf("preload at %d: %w", i, err)
		}
		data[i] = ex
	}
	return &Preloaded{data: data, transform: t}, nil
}

// Len returns the count captured at construction.
func (p *Preloaded) Len() int { return len(p.data) }

// At returns (transform(input), label) for the i-th snapshot entry.
func (p *Preloaded) At(i int) (Example, error) {
	if i < 0 || i >= len(p.data) {
		return Example{}, &OutOfRangeError{Index: i, Len: len(p.data)}
	}
	ex := p.data[i]
	input, err := p.transform(ex.Input)
	if err != nil {
		return Example{}, fmt.Errorf("transform at %d: %w", i, err)
	}
	return Example{Input: input, Label: ex.Label}, nil
}

var _ Collection = (*Preloaded)(nil)
