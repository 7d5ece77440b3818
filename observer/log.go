package observer

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/mwindsor/feedline/stage"
)

// Log is a stage.Observer that writes each phase event as a structured log
// line.
type Log struct {
	logger zerolog.Logger
}

// NewLog returns an observer writing JSON events to w with timestamps.
func NewLog(w io.Writer) *Log {
	return &Log{logger: zerolog.New(w).With().Timestamp().Logger()}
}

// NewLogWith returns an observer using an existing zerolog.Logger, so the
// caller controls level, output, and base context.
func NewLogWith(logger zerolog.Logger) *Log {
	return &Log{logger: logger}
}

// PhaseStart implements stage.Observer.
func (l *Log) PhaseStart(runID, stageName, phase string) {
	l.logger.Info().
		Str("run_id", runID).
		Str("stage", stageName).
		Str("phase", phase).
		Msg("phase start")
}

// PhaseEnd implements stage.Observer.
func (l *Log) PhaseEnd(runID, stageName, phase string, elapsed time.Duration) {
	l.logger.Info().
		Str("run_id", runID).
		Str("stage", stageName).
		Str("phase", phase).
		Dur("elapsed", elapsed).
		Msg("phase end")
}

var _ stage.Observer = (*Log)(nil)
