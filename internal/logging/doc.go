// Package logging assembles structured slog loggers and formatting helpers used
// across wobble.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with the run ID, project file, and stage. Decision helpers give every
// orphan and strategy choice the same attribute shape. A no-op logger is
// available for tests and wiring code that cannot fail.
package logging
