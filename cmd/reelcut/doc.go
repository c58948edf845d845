// Package main hosts the reelcut CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, applies per-run flag
// overrides, and hands a fixed plan to the pipeline. Planning, preflight and
// history browsing are separate commands so the long-running cut job stays
// a single explicit step.
package main
