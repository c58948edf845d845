// Package staging finds and removes the partial files an interrupted run
// leaves in the output directories: half-written outputs carrying
// media.PartialPrefix and the temporary audio track of a compiled write.
//
// Sweeping is only safe while the run lock is held, so the pipeline calls
// CleanPartials right after acquiring it.
package staging
