// Package logging assembles structured slog loggers and formatting helpers used
// across reelcut.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and tags every record of a run with its run identifier so the
// per-row, per-group and per-cut diagnostics of one invocation can be pulled
// out of a shared log file. The package also provides a no-op logger for tests
// and wiring code that cannot fail.
package logging
