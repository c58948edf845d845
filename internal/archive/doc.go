// Package archive re-encodes written outputs into compact AV1 archival copies
// with the Drapto library. Archiving is optional and never fails a run.
package archive
