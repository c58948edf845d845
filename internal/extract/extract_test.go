package extract_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"reelcut/internal/extract"
	"reelcut/internal/failure"
	"reelcut/internal/ledger"
	"reelcut/internal/logging"
	"reelcut/internal/manifest"
	"reelcut/internal/media"
	"reelcut/internal/resolver"
	"reelcut/internal/testsupport"
)

func group(t *testing.T, dir, key string, ranges ...[2]int) resolver.ResolvedGroup {
	t.Helper()
	path := filepath.Join(dir, key+".mpg")
	testsupport.WriteFile(t, path, 1)
	g := resolver.ResolvedGroup{GroupKey: key, SourcePath: path}
	for i, r := range ranges {
		g.Cuts = append(g.Cuts, manifest.CutSpec{
			GroupKey:  key,
			Start:     time.Duration(r[0]) * time.Second,
			End:       time.Duration(r[1]) * time.Second,
			SourceRow: i + 2,
		})
	}
	return g
}

func TestExtractGroupIsolatesCutFailures(t *testing.T) {
	dir := t.TempDir()
	engine := testsupport.NewFakeEngine()
	engine.TrimErr = func(_ string, start, _ time.Duration) error {
		if start == 10*time.Second {
			return errors.New("past end of stream")
		}
		return nil
	}
	l := ledger.New(engine, logging.NewNop())
	ex := extract.New(engine, l, logging.NewNop())

	var sunk []extract.ExtractedCut
	result := ex.ExtractGroup(context.Background(), group(t, dir, "A", [2]int{0, 2}, [2]int{10, 12}, [2]int{3, 4}),
		func(c extract.ExtractedCut) { sunk = append(sunk, c) })

	if result.OpenErr != nil {
		t.Fatalf("unexpected open error: %v", result.OpenErr)
	}
	if result.Count(extract.StatusExtracted) != 2 || result.Count(extract.StatusFailed) != 1 {
		t.Fatalf("unexpected results %+v", result.Cuts)
	}
	if !errors.Is(result.Cuts[1].Err, failure.ErrExtraction) || result.Cuts[1].Spec.SourceRow != 3 {
		t.Fatalf("expected row 3 extraction failure, got %+v", result.Cuts[1])
	}
	if len(sunk) != 2 || sunk[0].SourceRow != 2 || sunk[1].SourceRow != 4 {
		t.Fatalf("unexpected sunk cuts %+v", sunk)
	}
	if engine.CountIssued(media.KindSource) != 1 {
		t.Fatalf("expected the source opened once, got %d", engine.CountIssued(media.KindSource))
	}
	if stats := l.Stats(); stats.Source.Tracked != 1 || stats.Cut.Tracked != 2 {
		t.Fatalf("unexpected ledger stats %+v", stats)
	}
}

func TestExtractGroupOpenFailureSkipsGroup(t *testing.T) {
	dir := t.TempDir()
	engine := testsupport.NewFakeEngine()
	engine.OpenErr = map[string]error{"A.mpg": errors.New("corrupt header")}
	l := ledger.New(engine, logging.NewNop())
	ex := extract.New(engine, l, logging.NewNop())

	calls := 0
	result := ex.ExtractGroup(context.Background(), group(t, dir, "A", [2]int{0, 2}, [2]int{3, 4}),
		func(extract.ExtractedCut) { calls++ })

	if !errors.Is(result.OpenErr, failure.ErrExtraction) {
		t.Fatalf("expected open error, got %v", result.OpenErr)
	}
	if result.Count(extract.StatusSkipped) != 2 || calls != 0 {
		t.Fatalf("expected all cuts skipped, got %+v (sink calls %d)", result.Cuts, calls)
	}
	if l.Stats().Source.Tracked != 0 {
		t.Fatal("failed open must not be tracked")
	}
	ex.ReleaseSource(result)
}

func TestExtractGroupHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	engine := testsupport.NewFakeEngine()
	l := ledger.New(engine, logging.NewNop())
	ex := extract.New(engine, l, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	result := ex.ExtractGroup(ctx, group(t, dir, "A", [2]int{0, 2}, [2]int{3, 4}), func(extract.ExtractedCut) { cancel() })
	if result.Count(extract.StatusExtracted) != 1 || result.Count(extract.StatusSkipped) != 1 {
		t.Fatalf("expected second cut skipped after cancel, got %+v", result.Cuts)
	}
}

func TestReleaseSourceClosesOnce(t *testing.T) {
	dir := t.TempDir()
	engine := testsupport.NewFakeEngine()
	l := ledger.New(engine, logging.NewNop())
	ex := extract.New(engine, l, logging.NewNop())

	result := ex.ExtractGroup(context.Background(), group(t, dir, "A", [2]int{0, 2}), nil)
	ex.ReleaseSource(result)
	l.CloseAll()
	if err := engine.VerifyClosedOnce(); err != nil {
		t.Fatal(err)
	}
}
