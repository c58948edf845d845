package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reelcut/internal/assembly"
	"reelcut/internal/extract"
	"reelcut/internal/failure"
	"reelcut/internal/ledger"
	"reelcut/internal/logging"
	"reelcut/internal/manifest"
	"reelcut/internal/media"
	"reelcut/internal/resolver"
	"reelcut/internal/staging"
)

// Archiver makes archival copies of written outputs.
type Archiver interface {
	Archive(ctx context.Context, outputs []string) (int, error)
}

// Recorder persists a finished run.
type Recorder interface {
	Record(ctx context.Context, summary Summary) error
}

// Deps are the collaborators a run needs. Engine is required.
type Deps struct {
	Engine   media.Engine
	Logger   *slog.Logger
	Archiver Archiver
	Recorder Recorder
	// RunID overrides the generated run identifier.
	RunID string
	Now   func() time.Time
}

// Run executes one cut job. The returned error is non-nil only for fatal
// configuration problems detected before media processing begins; all other
// failures are reported in the Summary.
func Run(ctx context.Context, opts Options, deps Deps) (Summary, error) {
	if deps.Engine == nil {
		return Summary{}, failure.Wrap(failure.ErrFatalConfig, "pipeline", "start", "media engine required", nil)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	runID := deps.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	runLogger := logging.WithRunID(deps.Logger, runID)
	logger := logging.NewComponentLogger(runLogger, "pipeline")

	summary := Summary{
		RunID:        runID,
		StartedAt:    now(),
		Plan:         opts.Plan,
		ManifestPath: opts.ManifestPath,
	}

	m, err := manifest.Load(opts.ManifestPath, opts.Manifest)
	if err != nil {
		return summary, err
	}
	listing, err := resolver.Snapshot(opts.SourceDir)
	if err != nil {
		return summary, err
	}

	unlock, err := acquireLock(opts.LockPath)
	if err != nil {
		return summary, err
	}
	defer unlock()

	sweep := staging.CleanPartials(opts.outputDirs(), opts.TempAudioFile, logger)
	summary.PartialsRemoved = len(sweep.Removed)

	summary.RowsRead = m.RowsRead
	summary.RowsValid = len(m.Valid)
	summary.Dropped = m.DropCounts()
	for _, dropped := range m.Dropped {
		logger.Info("manifest row dropped",
			logging.Int(logging.FieldSourceRow, dropped.SourceRow),
			logging.String(logging.FieldGroup, dropped.GroupKey),
			logging.String("reason", string(dropped.Reason)),
			logging.String("detail", dropped.Detail),
		)
	}
	logger.Info("manifest loaded",
		logging.String("path", opts.ManifestPath),
		logging.Int("rows", m.RowsRead),
		logging.Int("valid", len(m.Valid)),
		logging.Int("dropped", len(m.Dropped)),
		logging.String("plan", opts.Plan.String()),
	)

	if err := process(ctx, opts, deps.Engine, runLogger, m, listing, &summary); err != nil {
		return summary, err
	}

	if deps.Archiver != nil && len(summary.Outputs) > 0 {
		archived, err := deps.Archiver.Archive(ctx, summary.Outputs)
		summary.Archived = archived
		if err != nil {
			logging.WarnWithContext(logger, "archiving incomplete", "archive_failed",
				logging.Error(err),
				logging.Int("archived", archived),
				logging.String(logging.FieldImpact, "outputs are written; some archival copies are missing"),
			)
		}
	}

	summary.FinishedAt = now()
	logger.Info("run finished",
		logging.String("status", string(summary.Status)),
		logging.Int("cuts", summary.CutsExtracted),
		logging.Int("outputs", len(summary.Outputs)),
		logging.Duration("elapsed", summary.Duration()),
	)

	if deps.Recorder != nil {
		if err := deps.Recorder.Record(ctx, summary); err != nil {
			logging.WarnWithContext(logger, "run history not recorded", "history_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run is missing from reelcut history"),
			)
		}
	}
	return summary, nil
}

// process runs the per-group loop and final assembly. The ledger is closed
// before it returns, on every path. runLogger carries no component; each
// collaborator adds its own.
func process(ctx context.Context, opts Options, engine media.Engine, runLogger *slog.Logger, m manifest.Manifest, listing resolver.Listing, summary *Summary) error {
	logger := logging.NewComponentLogger(runLogger, "pipeline")
	led := ledger.New(engine, runLogger)
	defer func() {
		summary.Ledger = led.CloseAll()
	}()

	extractor := extract.New(engine, led, runLogger)
	res := resolver.New(opts.SourceExtension, opts.CaseInsensitive)

	var (
		compiler *assembly.Compiler
		writer   *assembly.IndividualWriter
		sink     func(extract.ExtractedCut)
	)
	switch opts.Plan.Mode {
	case assembly.ModeCompiled:
		compiler = assembly.NewCompiler(engine, led, opts.Plan, opts.CompiledOutput, opts.compiledWriteOptions(), runLogger)
		sink = compiler.Add
	case assembly.ModeIndividual:
		writer = assembly.NewIndividualWriter(engine, led, opts.Naming, opts.Write, runLogger)
		if err := writer.Prepare(); err != nil {
			return err
		}
		logger.Info("writing individual cuts", logging.String("dir", opts.Naming.Dir))
		sink = func(cut extract.ExtractedCut) {
			writer.Write(ctx, cut)
		}
	default:
		return failure.Wrap(failure.ErrFatalConfig, "pipeline", "plan", fmt.Sprintf("unknown output mode %q", opts.Plan.Mode), nil)
	}

	for _, group := range m.Groups() {
		outcome := GroupOutcome{Key: group.Key}
		path, ok := res.Resolve(group.Key, listing)
		if !ok {
			summary.CutsSkipped += len(group.Cuts)
			summary.Groups = append(summary.Groups, outcome)
			logging.WarnWithContext(logger, "source not found", "resolution_miss",
				logging.String(logging.FieldGroup, group.Key),
				logging.Error(resolver.MissError(group, opts.SourceExtension)),
				logging.String(logging.FieldErrorHint, fmt.Sprintf("add a file named %s*%s to %s", group.Key, opts.SourceExtension, opts.SourceDir)),
				logging.String(logging.FieldImpact, fmt.Sprintf("%d cut(s) skipped", len(group.Cuts))),
			)
			continue
		}
		outcome.Resolved = true
		outcome.SourcePath = path

		result := extractor.ExtractGroup(ctx, resolver.ResolvedGroup{GroupKey: group.Key, SourcePath: path, Cuts: group.Cuts}, sink)
		outcome.OpenFailed = result.OpenErr != nil
		outcome.Extracted = result.Count(extract.StatusExtracted)
		outcome.Failed = result.Count(extract.StatusFailed)
		outcome.Skipped = result.Count(extract.StatusSkipped)
		summary.CutsExtracted += outcome.Extracted
		summary.CutsFailed += outcome.Failed
		summary.CutsSkipped += outcome.Skipped
		for _, cut := range result.Cuts {
			if cut.Status == extract.StatusFailed {
				summary.FailedRows = append(summary.FailedRows, cut.Spec.SourceRow)
			}
		}
		summary.Groups = append(summary.Groups, outcome)

		if writer != nil {
			extractor.ReleaseSource(result)
		}
	}

	if compiler != nil {
		summary.CompiledOutput = opts.CompiledOutput
		result := compiler.Finish(ctx)
		summary.CompiledRows = result.Rows
		switch {
		case result.Empty:
			summary.Status = StatusEmpty
		case result.Err != nil:
			summary.OutputsAttempted = 1
			summary.Status = StatusFailed
			summary.Err = result.Err
			logging.ErrorWithContext(logger, "compiled output failed", "assembly_failed",
				logging.Error(result.Err),
				logging.String(logging.FieldErrorHint, "check ffmpeg output in the log and free disk space"),
			)
		default:
			summary.OutputsAttempted = 1
			summary.Outputs = append(summary.Outputs, result.OutputPath)
			summary.Status = StatusSucceeded
		}
		return nil
	}

	for _, r := range writer.Results() {
		if r.Err == nil {
			summary.Outputs = append(summary.Outputs, r.Path)
		}
	}
	summary.OutputsAttempted = writer.Attempted()
	if n := writer.Cancelled(); n > 0 {
		logging.WarnWithContext(logger, "run cancelled", "cancelled",
			logging.Error(ctx.Err()),
			logging.String(logging.FieldImpact, fmt.Sprintf("%d extracted cut(s) not written", n)),
		)
	}
	if writer.Attempted() == 0 {
		summary.Status = StatusEmpty
	} else {
		summary.Status = StatusSucceeded
	}
	return nil
}

func acquireLock(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, failure.Wrap(failure.ErrFatalConfig, "pipeline", "lock", path, err)
	}
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, failure.Wrap(failure.ErrFatalConfig, "pipeline", "lock", path, err)
	}
	if !locked {
		return nil, failure.Wrap(failure.ErrFatalConfig, "pipeline", "lock", "another reelcut run is active ("+path+")", nil)
	}
	return func() { _ = lock.Unlock() }, nil
}
