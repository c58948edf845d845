// Package logs reads the shared reelcut log file for `reelcut logs`.
//
// Last returns the trailing lines with bounded memory, Follow polls for
// appended lines until its context ends, and ForRun narrows either one to a
// single run's records in both console and JSON formats.
package logs
