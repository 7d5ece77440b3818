// Package dataset provides the collection, transform, and preloading
// primitives the dataset stage is built on.
//
// A Collection is an ordered, randomly indexable sequence of (input, label)
// examples with a stable length. Providers materialize a named dataset's
// split into a Collection; transforms are pure functions applied to an
// example's input at read time, either through a WithTransform view or a
// Preloaded cache.
//
// Preloaded trades memory for repeated-access latency: it copies every raw
// example out of the source exactly once at construction, then applies the
// transform fresh on every read. Only the upstream fetch is cached, never
// the transform output, so randomized augmentations keep their semantics.
package dataset
