// Package progress tracks long-running operations and renders them as
// live-updating terminal rows. A Progress registry owns a set of tasks,
// each with a sliding-window speed estimate, and renders them through a
// configurable column pipeline on every refresh. Refreshes run either
// on demand or on a fixed cadence from a background worker started by
// the session lifecycle (Start/Stop or Run).
//
// All registry operations are safe for concurrent use; a single mutex
// serializes mutation and rendering, so a renderer pass never observes a
// half-applied update.
package progress
