package stage

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Stage is a single unit of the pipeline. Construction happens in the stage's
// factory (configuration errors are fatal there); Prepare is called exactly
// once before Run; Run blocks until the stage terminates or fails.
type Stage interface {
	// Name returns the stage's fully qualified name (parent.name).
	Name() string
	// Prepare performs one-shot expensive setup. Call exactly once, before Run.
	Prepare(ctx context.Context) error
	// Run executes the steady-state loop until end of stream.
	Run(ctx context.Context) error
}

// Config is the generic configuration shared by every stage. The Extra node
// holds the stage-specific section verbatim; concrete stages decode it into
// their own config struct.
//
//	name: dataset
//	disable_logs: true
//	config:
//	  dataset_name: Example
//	  split: [val]
type Config struct {
	Name        string    `yaml:"name"`
	DisableLogs bool      `yaml:"disable_logs"`
	Extra       yaml.Node `yaml:"config"`
}

// DecodeExtra decodes the stage-specific config section into out. A missing
// section leaves out unchanged so stage defaults apply.
func (c *Config) DecodeExtra(out interface{}) error {
	if c.Extra.IsZero() {
		return nil
	}
	return c.Extra.Decode(out)
}

// ConfigError reports missing or invalid stage configuration. It is fatal at
// construction time: the pipeline build aborts and the runtime never starts.
type ConfigError struct {
	Stage  string // stage name, if known
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("config: %s", e.Reason)
	}
	return fmt.Sprintf("config: stage %q: %s", e.Stage, e.Reason)
}

// NewConfigError returns a ConfigError for the given stage.
func NewConfigError(stage, format string, args ...interface{}) error {
	return &ConfigError{Stage: stage, Reason: fmt.Sprintf(format, args...)}
}

// State is a stage's life-cycle state. Transitions are linear and final:
// Created → Prepared → Running → Terminated.
type State int

const (
	Created State = iota
	Prepared
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Prepared:
		return "prepared"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Observer provides phase hooks around stage execution so you can log or
// persist phase timing (e.g. prepare, per-record run). Implementations must
// not alter control flow; errors are reported by logging, not returned.
type Observer interface {
	PhaseStart(runID, stage, phase string)
	PhaseEnd(runID, stage, phase string, elapsed time.Duration)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) PhaseStart(runID, stage, phase string)                      {}
func (NopObserver) PhaseEnd(runID, stage, phase string, elapsed time.Duration) {}

// MultiObserver fans every event out to each observer in order.
func MultiObserver(obs ...Observer) Observer { return multiObserver(obs) }

type multiObserver []Observer

func (m multiObserver) PhaseStart(runID, stage, phase string) {
	for _, o := range m {
		o.PhaseStart(runID, stage, phase)
	}
}

func (m multiObserver) PhaseEnd(runID, stage, phase string, elapsed time.Duration) {
	for _, o := range m {
		o.PhaseEnd(runID, stage, phase, elapsed)
	}
}
