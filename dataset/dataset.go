package dataset

import (
	"fmt"
)

// Example is one (input, label) pair. Inputs and labels are opaque to this
// package; providers and transforms agree on concrete types.
type Example struct {
	Input interface{}
	Label interface{}
}

// Transform is a pure mapping applied to an example's input. Transforms are
// stateless from the caller's perspective and shared read-only across all
// accesses; they must be safe to call repeatedly on the same value.
type Transform func(input interface{}) (interface{}, error)

// Identity returns a transform that passes the input through unchanged.
func Identity() Transform {
	return func(input interface{}) (interface{}, error) { return input, nil }
}

// Collection is an ordered, randomly indexable sequence of examples.
// Len is stable for the collection's lifetime.
type Collection interface {
	Len() int
	At(i int) (Example, error)
}

// OutOfRangeError reports an index outside [0, Len). It is a contract error:
// callers are expected to stay within Len.
type OutOfRangeError struct {
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("dataset: index %d out of range [0, %d)", e.Index, e.Len)
}

// NotFoundError reports an unknown dataset or weights identifier. Fatal at
// construction time: pipeline assembly aborts.
type NotFoundError struct {
	Kind string // e.g. "dataset", "weights", "split"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dataset: %s %q not found", e.Kind, e.Name)
}

// ProviderError wraps a failure from an external provider (download,
// storage, parse). It is propagated, not retried; retry policy belongs to
// the provider or an outer supervisor.
type ProviderError struct {
	Dataset string
	Split   string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("dataset: provider %q split %q: %v", e.Dataset, e.Split, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// WithTransform returns a read-time view of c that applies t to every
// example's input. The underlying collection is not touched; the raw
// (collection, transform) pair stays explicit so a cache can consume the
// same pair directly.
func WithTransform(c Collection, t Transform) Collection {
	if t == nil {
		t = Identity()
	}
	return &transformed{src: c, transform: t}
}

type transformed struct {
	src       Collection
	transform Transform
}

func (v *transformed) Len() int { return v.src.Len() }

func (v *transformed) At(i int) (Example, error) {
	ex, err := v.src.At(i)
	if err != nil {
		return Example{}, err
	}
	input, err := v.transform(ex.Input)
	if err != nil {
		return Example{}, fmt.Errorf("transform at %d: %w", i, err)
	}
	return Example{Input: input, Label: ex.Label}, nil
}
