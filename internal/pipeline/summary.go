package pipeline

import (
	"time"

	"reelcut/internal/assembly"
	"reelcut/internal/failure"
	"reelcut/internal/ledger"
	"reelcut/internal/manifest"
)

// Status is the overall outcome of a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	// StatusEmpty means no cut was extracted, so nothing was written. It is not
	// a failure.
	StatusEmpty Status = "empty"
)

// GroupOutcome summarizes one manifest group.
type GroupOutcome struct {
	Key        string
	SourcePath string
	Resolved   bool
	OpenFailed bool
	Extracted  int
	Failed     int
	Skipped    int
}

// Summary aggregates the per-unit results of a run.
type Summary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Plan       assembly.Plan

	ManifestPath string
	RowsRead     int
	RowsValid    int
	Dropped      map[manifest.DropReason]int

	Groups []GroupOutcome

	CutsExtracted int
	CutsFailed    int
	CutsSkipped   int
	// FailedRows lists manifest rows whose cut could not be extracted.
	FailedRows []int

	// Outputs lists files written successfully, in write order.
	Outputs          []string
	OutputsAttempted int
	CompiledOutput   string
	// CompiledRows is the manifest row order of the compiled output.
	CompiledRows []int

	Ledger   ledger.Stats
	Archived int
	// PartialsRemoved counts leftovers of earlier interrupted runs swept
	// before processing.
	PartialsRemoved int

	Status Status
	Err    error
}

// Failed reports whether the run ended in an assembly failure.
func (s Summary) Failed() bool {
	return s.Status == StatusFailed
}

// ErrorKind classifies Err.
func (s Summary) ErrorKind() failure.Kind {
	return failure.Classify(s.Err)
}

// Duration is the wall time of the run.
func (s Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// RowsDropped totals every dropped manifest row.
func (s Summary) RowsDropped() int {
	n := 0
	for _, count := range s.Dropped {
		n += count
	}
	return n
}

// GroupCounts returns how many groups resolved, missed and failed to open.
func (s Summary) GroupCounts() (resolved, missing, openFailed int) {
	for _, g := range s.Groups {
		switch {
		case !g.Resolved:
			missing++
		case g.OpenFailed:
			resolved++
			openFailed++
		default:
			resolved++
		}
	}
	return resolved, missing, openFailed
}

// OutputsFailed counts write attempts that produced no file.
func (s Summary) OutputsFailed() int {
	return s.OutputsAttempted - len(s.Outputs)
}
