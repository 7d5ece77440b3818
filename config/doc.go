// Package config provides a stage factory registry and human-readable
// pipeline configuration.
//
// Register stage factories by kind, then define pipelines in YAML that
// declare the queues and reference the registered kinds:
//
//	name: inference
//	queues:
//	  - source
//	  - name: loaded
//	    capacity: 8
//	stages:
//	  - name: dataset
//	    kind: dataset
//	    inputs: [source]
//	    outputs: [loaded]
//	    config:
//	      dataset_name: Example
//	      split: [val]
//	      preload: true
//
// Build a runnable pipeline with BuildPipeline(ctx, registry, config, opts).
// Stage construction fails fast: unknown kinds, unknown queue names, and
// invalid stage configuration abort the build before anything runs.
package config
