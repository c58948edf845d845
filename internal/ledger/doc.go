// Package ledger tracks every media handle issued during a run and guarantees
// each one is closed exactly once, whichever stage fails.
package ledger
