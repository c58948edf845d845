package ledger

import (
	"fmt"
	"log/slog"

	"reelcut/internal/failure"
	"reelcut/internal/logging"
	"reelcut/internal/media"
)

// Closer is the subset of media.Engine the ledger needs.
type Closer interface {
	Close(h media.Handle) error
}

// KindStats counts handles of one kind.
type KindStats struct {
	Tracked  int
	Released int
	Failed   int
}

// Stats summarizes ledger activity for a run.
type Stats struct {
	Source   KindStats
	Cut      KindStats
	Compiled KindStats
}

// Outstanding is the number of tracked handles not yet released.
func (s Stats) Outstanding() int {
	return s.Source.Tracked - s.Source.Released +
		s.Cut.Tracked - s.Cut.Released +
		s.Compiled.Tracked - s.Compiled.Released
}

// Failed is the number of close calls that returned an error.
func (s Stats) Failed() int {
	return s.Source.Failed + s.Cut.Failed + s.Compiled.Failed
}

func (s *Stats) kind(k media.Kind) *KindStats {
	switch k {
	case media.KindSource:
		return &s.Source
	case media.KindCut:
		return &s.Cut
	default:
		return &s.Compiled
	}
}

type entry struct {
	handle   media.Handle
	released bool
}

// Ledger records handles in acquisition order. It is not safe for concurrent
// use; a run drives it from a single goroutine.
type Ledger struct {
	closer  Closer
	logger  *slog.Logger
	entries []*entry
	index   map[media.Handle]*entry
	stats   Stats
}

// New returns an empty ledger that releases handles through closer.
func New(closer Closer, logger *slog.Logger) *Ledger {
	return &Ledger{
		closer: closer,
		logger: logging.NewComponentLogger(logger, "ledger"),
		index:  make(map[media.Handle]*entry),
	}
}

// Track records h as owned by the run. Tracking the same handle twice is a
// no-op.
func (l *Ledger) Track(h media.Handle) {
	if h == nil {
		return
	}
	if _, ok := l.index[h]; ok {
		return
	}
	e := &entry{handle: h}
	l.entries = append(l.entries, e)
	l.index[h] = e
	l.stats.kind(h.Kind()).Tracked++
}

// Release closes h now. A handle already released, or never tracked, is left
// alone. The returned error is tagged ErrCleanup; callers log it and move on.
func (l *Ledger) Release(h media.Handle) error {
	if h == nil {
		return nil
	}
	e, ok := l.index[h]
	if !ok || e.released {
		return nil
	}
	return l.release(e)
}

func (l *Ledger) release(e *entry) error {
	e.released = true
	ks := l.stats.kind(e.handle.Kind())
	ks.Released++
	if err := l.closer.Close(e.handle); err != nil {
		ks.Failed++
		return failure.Wrap(failure.ErrCleanup, "ledger", "close", e.handle.Label(), err)
	}
	return nil
}

// CloseAll releases every outstanding handle: the compiled handle first, then
// cuts, then sources, each kind in reverse acquisition order. Close failures
// are logged and counted but never returned.
func (l *Ledger) CloseAll() Stats {
	for _, kind := range []media.Kind{media.KindCompiled, media.KindCut, media.KindSource} {
		for i := len(l.entries) - 1; i >= 0; i-- {
			e := l.entries[i]
			if e.released || e.handle.Kind() != kind {
				continue
			}
			if err := l.release(e); err != nil {
				logging.WarnWithContext(l.logger, "handle close failed", "cleanup_failure",
					logging.String("handle", e.handle.Label()),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "the media engine may leave temporary files behind"),
					logging.String(logging.FieldImpact, "none; run result unchanged"),
				)
			}
		}
	}
	stats := l.stats
	l.logger.Debug("ledger closed",
		logging.Int("sources", stats.Source.Released),
		logging.Int("cuts", stats.Cut.Released),
		logging.Int("compiled", stats.Compiled.Released),
		logging.Int("close_failures", stats.Failed()),
	)
	return stats
}

// Stats returns a copy of the current counters.
func (l *Ledger) Stats() Stats {
	return l.stats
}

// String renders the counters for diagnostics.
func (s Stats) String() string {
	return fmt.Sprintf("sources %d/%d cuts %d/%d compiled %d/%d failed %d",
		s.Source.Released, s.Source.Tracked,
		s.Cut.Released, s.Cut.Tracked,
		s.Compiled.Released, s.Compiled.Tracked,
		s.Failed())
}
