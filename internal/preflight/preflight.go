package preflight

import (
	"context"
	"fmt"
	"path/filepath"

	"reelcut/internal/config"
	"reelcut/internal/deps"
	"reelcut/internal/staging"
)

// MinFreeBytes is the free space below which an output location fails.
const MinFreeBytes = 1 << 30

// Result captures the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Detail   string
	Optional bool
}

// RunAll executes every applicable check for the given config.
// Archive and history checks only run when the feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	var results []Result

	results = append(results,
		CheckReadableFile("Manifest", cfg.Paths.Manifest),
		CheckReadableDirectory("Source directory", cfg.Paths.SourceDir),
		CheckWritableLocation("Compiled output", filepath.Dir(cfg.Paths.CompiledOutput)),
		CheckWritableLocation("Individual output", cfg.Paths.IndividualDir),
		CheckWritableLocation("Log directory", cfg.Paths.LogDir),
		CheckFreeSpace("Output free space", filepath.Dir(cfg.Paths.CompiledOutput), MinFreeBytes),
	)
	if cfg.Archive.Enabled {
		results = append(results, CheckWritableLocation("Archive directory", cfg.Archive.Dir))
	}
	if cfg.History.Enabled {
		results = append(results, CheckWritableLocation("History store", filepath.Dir(cfg.History.Path)))
	}

	results = append(results, CheckPartials(cfg))

	for _, status := range CheckSystemDeps(ctx, cfg) {
		results = append(results, fromStatus(status))
	}
	return results
}

// Failed reports the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}

func fromStatus(s deps.Status) Result {
	detail := s.Command
	if !s.Available {
		detail = s.Detail
	}
	return Result{Name: s.Name, Passed: s.Available, Detail: detail, Optional: s.Optional}
}

// CheckPartials reports leftovers of an interrupted run. They are swept at
// the start of the next run, so finding some is only a warning.
func CheckPartials(cfg *config.Config) Result {
	const name = "Partial outputs"
	dirs := []string{filepath.Dir(cfg.Paths.CompiledOutput), cfg.Paths.IndividualDir}
	partials, errs := staging.ListPartials(dirs, cfg.Output.TempAudioFile)
	switch {
	case len(errs) > 0:
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (error: %v)", errs[0].Path, errs[0].Error)}
	case len(partials) > 0:
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%d left by an interrupted run; removed by the next run", len(partials))}
	}
	return Result{Name: name, Passed: true, Detail: "none"}
}
