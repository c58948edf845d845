// Package pipeline runs one cut job end to end: load the manifest, resolve
// each group to a source file, extract cuts, assemble outputs and release every
// media handle. Work is strictly sequential; no two engine calls overlap.
//
// Only configuration problems found before media I/O starts are returned as
// errors. Everything after that is isolated to its row, group, cut or final
// assembly step and reported through Summary.
package pipeline
