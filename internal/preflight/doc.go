// Package preflight provides readiness checks for the binaries and
// filesystem paths a cut run depends on.
//
// The CLI "reelcut check" command calls RunAll and prints every result.
// "reelcut run" only consults MissingBinaries before it starts.
package preflight
