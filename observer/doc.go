// Package observer provides stage.Observer implementations.
//
//   - Log: writes structured phase start/end events with zerolog, including
//     the run id, qualified stage name, phase, and elapsed time on end.
//   - Recorder: keeps events in memory, for tests and diagnostics.
//
// Observers are passive: they never alter stage control flow.
package observer
