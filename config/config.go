package config

import (
	"gopkg.in/yaml.v3"

	"github.com/mwindsor/feedline/stage"
)

// PipelineConfig is the root structure for a pipeline definition (e.g. from
// YAML): a name, the queues connecting the stages, and the stages themselves.
type PipelineConfig struct {
	Name   string        `yaml:"name"`
	Queues []QueueConfig `yaml:"queues"`
	Stages []StageRef    `yaml:"stages"`
}

// QueueConfig declares one named queue. In YAML a queue can be written as a
// plain name or as name + capacity:
//
//	queues:
//	  - source
//	  - name: loaded
//	    capacity: 8
type QueueConfig struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

// UnmarshalYAML allows a queue to be a string (name only) or a struct.
func (q *QueueConfig) UnmarshalYAML(value *yaml.Node) error {
	var nameOnly string
	if err := value.Decode(&nameOnly); err == nil {
		q.Name = nameOnly
		return nil
	}
	type raw QueueConfig
	return value.Decode((*raw)(q))
}

// StageRef is a single stage entry: the factory kind to build it with, the
// queue names it consumes and produces, and its stage-specific config node.
// Kind defaults to Name, so a stage whose kind matches its name can be
// written as just a name.
type StageRef struct {
	Name        string    `yaml:"name"`
	Kind        string    `yaml:"kind"`
	DisableLogs bool      `yaml:"disable_logs"`
	Inputs      []string  `yaml:"inputs"`
	Outputs     []string  `yaml:"outputs"`
	Config      yaml.Node `yaml:"config"`
}

// UnmarshalYAML allows a stage to be a string (name/kind only) or a struct.
func (s *StageRef) UnmarshalYAML(value *yaml.Node) error {
	var nameOnly string
	if err := value.Decode(&nameOnly); err == nil {
		s.Name = nameOnly
		return nil
	}
	type raw StageRef
	return value.Decode((*raw)(s))
}

// StageConfig returns the stage.Config the referenced stage is constructed
// with.
func (s *StageRef) StageConfig() stage.Config {
	return stage.Config{Name: s.Name, DisableLogs: s.DisableLogs, Extra: s.Config}
}

// ParsePipelineConfig parses YAML bytes into a single PipelineConfig.
func ParsePipelineConfig(data []byte) (*PipelineConfig, error) {
	var cfg PipelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MultiPipelineConfig is the root structure for a file that defines multiple
// pipelines. Top-level key is "pipelines"; each value is a pipeline.
type MultiPipelineConfig struct {
	Pipelines map[string]PipelineConfig `yaml:"pipelines"`
}

// ParseMultiPipelineConfig parses YAML bytes that contain a "pipelines" map
// from name to pipeline config.
func ParseMultiPipelineConfig(data []byte) (*MultiPipelineConfig, error) {
	var cfg MultiPipelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
