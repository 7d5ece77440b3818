// Package datastage provides the dataset stage: it resolves a configured
// dataset into per-split collections at construction time, optionally
// preloads them into memory during Prepare, and participates in the pipeline
// run loop purely as a pass-through (its work is already done before
// streaming starts). Downstream consumers such as batch samplers read the
// collections through Datasets and NumBatches.
package datastage
