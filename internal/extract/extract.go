package extract

import (
	"context"
	"fmt"
	"log/slog"

	"reelcut/internal/failure"
	"reelcut/internal/ledger"
	"reelcut/internal/logging"
	"reelcut/internal/manifest"
	"reelcut/internal/media"
	"reelcut/internal/resolver"
)

// Status is the outcome of one cut.
type Status string

const (
	StatusExtracted Status = "extracted"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// ExtractedCut is a successfully trimmed range. Its handle is tracked by the
// run ledger.
type ExtractedCut struct {
	GroupKey  string
	SourceRow int
	Spec      manifest.CutSpec
	Handle    media.Handle
}

// CutResult records what happened to one CutSpec.
type CutResult struct {
	Spec   manifest.CutSpec
	Status Status
	Err    error
}

// GroupResult aggregates the outcome of one group.
type GroupResult struct {
	GroupKey   string
	SourcePath string
	// Source is nil when the open failed.
	Source  media.Handle
	OpenErr error
	Cuts    []CutResult
}

// Count returns the number of cuts with status s.
func (g GroupResult) Count(s Status) int {
	n := 0
	for _, c := range g.Cuts {
		if c.Status == s {
			n++
		}
	}
	return n
}

// Extractor trims cuts through a media engine.
type Extractor struct {
	engine media.Engine
	ledger *ledger.Ledger
	logger *slog.Logger
}

// New constructs an Extractor. Every handle it obtains is tracked by l.
func New(engine media.Engine, l *ledger.Ledger, logger *slog.Logger) *Extractor {
	return &Extractor{
		engine: engine,
		ledger: l,
		logger: logging.NewComponentLogger(logger, "extract"),
	}
}

// ExtractGroup opens group's source and trims each cut in manifest order,
// handing every successful cut to sink before trimming the next one. When the
// source cannot be opened every cut is reported as skipped.
func (e *Extractor) ExtractGroup(ctx context.Context, group resolver.ResolvedGroup, sink func(ExtractedCut)) GroupResult {
	result := GroupResult{GroupKey: group.GroupKey, SourcePath: group.SourcePath}
	logger := e.logger.With(logging.String(logging.FieldGroup, group.GroupKey))

	logger.Info("opening source", logging.String("path", group.SourcePath), logging.Int("cuts", len(group.Cuts)))
	source, err := e.engine.Open(ctx, group.SourcePath)
	if err != nil {
		result.OpenErr = failure.Wrap(failure.ErrExtraction, "extract", "open", group.GroupKey, err)
		logging.WarnWithContext(logger, "source open failed", "source_open_failed",
			logging.String("path", group.SourcePath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify the file is a readable video"),
			logging.String(logging.FieldImpact, fmt.Sprintf("%d cut(s) skipped", len(group.Cuts))),
		)
		for _, spec := range group.Cuts {
			result.Cuts = append(result.Cuts, CutResult{Spec: spec, Status: StatusSkipped, Err: result.OpenErr})
		}
		return result
	}
	e.ledger.Track(source)
	result.Source = source

	for _, spec := range group.Cuts {
		if err := ctx.Err(); err != nil {
			result.Cuts = append(result.Cuts, CutResult{Spec: spec, Status: StatusSkipped, Err: err})
			continue
		}
		cutLogger := logger.With(logging.Int(logging.FieldSourceRow, spec.SourceRow))
		handle, err := e.engine.Trim(ctx, source, spec.Start, spec.End)
		if err != nil {
			wrapped := failure.Wrap(failure.ErrExtraction, "extract", "trim",
				fmt.Sprintf("%s row %d", group.GroupKey, spec.SourceRow), err)
			result.Cuts = append(result.Cuts, CutResult{Spec: spec, Status: StatusFailed, Err: wrapped})
			logging.WarnWithContext(cutLogger, "cut extraction failed", "cut_failed",
				logging.String("start", manifest.FormatTimecode(spec.Start)),
				logging.String("end", manifest.FormatTimecode(spec.End)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the range against the source length"),
				logging.String(logging.FieldImpact, "cut skipped"),
			)
			continue
		}
		e.ledger.Track(handle)
		result.Cuts = append(result.Cuts, CutResult{Spec: spec, Status: StatusExtracted})
		cutLogger.Info("cut extracted",
			logging.String("start", manifest.FormatTimecode(spec.Start)),
			logging.String("end", manifest.FormatTimecode(spec.End)),
		)
		if sink != nil {
			sink(ExtractedCut{GroupKey: group.GroupKey, SourceRow: spec.SourceRow, Spec: spec, Handle: handle})
		}
	}
	return result
}

// ReleaseSource closes the group's source handle early. Individual mode calls
// it once every cut of the group has been written.
func (e *Extractor) ReleaseSource(result GroupResult) {
	if result.Source == nil {
		return
	}
	if err := e.ledger.Release(result.Source); err != nil {
		logging.WarnWithContext(e.logger, "source close failed", "cleanup_failure",
			logging.String(logging.FieldGroup, result.GroupKey),
			logging.Error(err),
			logging.String(logging.FieldImpact, "none; run continues"),
		)
	}
}
