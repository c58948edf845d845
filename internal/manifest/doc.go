// Package manifest loads the CSV cut list into validated CutSpec records.
//
// The first column of the header is always the group key, whatever it is
// named; the start and end columns are located by name. Rows that cannot
// produce a positive time range are dropped and counted rather than failing
// the load. Only an unreadable file or a header missing a required column is
// fatal.
package manifest
