// Package assembly turns extracted cuts into output files.
//
// A Plan fixes the output mode and order before any group is processed.
// Compiled mode accumulates every cut, optionally shuffles them with a seeded
// permutation, then concatenates and writes once. Individual mode writes each
// cut as it arrives to a sequentially numbered file and releases it right
// away, so at most one cut handle is open at a time.
package assembly
