package assembly

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"reelcut/internal/extract"
	"reelcut/internal/failure"
	"reelcut/internal/ledger"
	"reelcut/internal/logging"
	"reelcut/internal/media"
)

// Naming controls individual output file names.
type Naming struct {
	Dir       string
	Prefix    string
	Extension string
	// Width is the zero-padded width of the counter.
	Width int
}

// FileName renders the name of output number n.
func (n Naming) FileName(number int) string {
	width := n.Width
	if width <= 0 {
		width = 4
	}
	return fmt.Sprintf("%s%0*d%s", n.Prefix, width, number, n.Extension)
}

// IndividualResult records one write attempt.
type IndividualResult struct {
	Number    int
	Path      string
	GroupKey  string
	SourceRow int
	Err       error
}

// IndividualWriter writes each cut to its own numbered file.
type IndividualWriter struct {
	engine    media.Engine
	ledger    *ledger.Ledger
	naming    Naming
	opts      media.WriteOptions
	logger    *slog.Logger
	next      int
	results   []IndividualResult
	cancelled int
}

// NewIndividualWriter returns a writer whose counter starts at 1.
func NewIndividualWriter(engine media.Engine, l *ledger.Ledger, naming Naming, opts media.WriteOptions, logger *slog.Logger) *IndividualWriter {
	return &IndividualWriter{
		engine: engine,
		ledger: l,
		naming: naming,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "assembly"),
		next:   1,
	}
}

// Prepare creates the output directory.
func (w *IndividualWriter) Prepare() error {
	if err := os.MkdirAll(w.naming.Dir, 0o755); err != nil {
		return failure.Wrap(failure.ErrFatalConfig, "assembly", "prepare output", w.naming.Dir, err)
	}
	return nil
}

// Write encodes cut to the next numbered file. The counter advances before
// the attempt so a failed write leaves a gap instead of reusing the number.
// The cut is released afterwards whatever the outcome. Once ctx is done the
// cut is released unwritten and no number is used.
func (w *IndividualWriter) Write(ctx context.Context, cut extract.ExtractedCut) IndividualResult {
	if err := ctx.Err(); err != nil {
		w.cancelled++
		w.release(w.logger, cut)
		return IndividualResult{GroupKey: cut.GroupKey, SourceRow: cut.SourceRow, Err: err}
	}
	number := w.next
	w.next++
	path := filepath.Join(w.naming.Dir, w.naming.FileName(number))
	result := IndividualResult{Number: number, Path: path, GroupKey: cut.GroupKey, SourceRow: cut.SourceRow}

	logger := w.logger.With(
		logging.String(logging.FieldGroup, cut.GroupKey),
		logging.Int(logging.FieldSourceRow, cut.SourceRow),
	)
	if err := w.engine.Write(ctx, cut.Handle, path, w.opts); err != nil {
		result.Err = failure.Wrap(failure.ErrAssembly, "assembly", "write", path, err)
		logging.WarnWithContext(logger, "individual write failed", "write_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check disk space and encoder settings"),
			logging.String(logging.FieldImpact, fmt.Sprintf("number %d left unused", number)),
		)
	} else {
		logger.Info("cut written", logging.String("path", path))
	}

	w.release(logger, cut)
	w.results = append(w.results, result)
	return result
}

func (w *IndividualWriter) release(logger *slog.Logger, cut extract.ExtractedCut) {
	if err := w.ledger.Release(cut.Handle); err != nil {
		logging.WarnWithContext(logger, "cut close failed", "cleanup_failure",
			logging.Error(err),
			logging.String(logging.FieldImpact, "none; run continues"),
		)
	}
}

// Results returns every attempt in order.
func (w *IndividualWriter) Results() []IndividualResult {
	return append([]IndividualResult(nil), w.results...)
}

// Written counts successful writes.
func (w *IndividualWriter) Written() int {
	n := 0
	for _, r := range w.results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// Cancelled counts cuts dropped unwritten after cancellation.
func (w *IndividualWriter) Cancelled() int {
	return w.cancelled
}

// Attempted counts every write attempt, successful or not.
func (w *IndividualWriter) Attempted() int {
	return len(w.results)
}
