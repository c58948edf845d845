package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"reelcut/internal/assembly"
	"reelcut/internal/manifest"
	"reelcut/internal/pipeline"
	"reelcut/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Cuts", statusError, "2 failed", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Cuts:", "[ERROR] 2 failed")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Result", statusOK, "done", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green colored line, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestSummaryLines(t *testing.T) {
	tests := []struct {
		name    string
		summary pipeline.Summary
		want    string
	}{
		{
			name: "individual",
			summary: pipeline.Summary{
				Plan:             assembly.Plan{Mode: assembly.ModeIndividual, Order: assembly.OrderChronological},
				Status:           pipeline.StatusSucceeded,
				Outputs:          []string{"/out/cut0001.mp4"},
				OutputsAttempted: 2,
			},
			want: "[WARN] saved 1 of 2 individual cuts to /out",
		},
		{
			name: "empty",
			summary: pipeline.Summary{
				Plan:   assembly.Plan{Mode: assembly.ModeCompiled, Order: assembly.OrderChronological},
				Status: pipeline.StatusEmpty,
			},
			want: "[WARN] no cuts were extracted",
		},
		{
			name: "failed",
			summary: pipeline.Summary{
				Plan:   assembly.Plan{Mode: assembly.ModeCompiled, Order: assembly.OrderChronological},
				Status: pipeline.StatusFailed,
				Err:    errors.New("disk full"),
			},
			want: "[ERROR] disk full",
		},
		{
			name: "dropped reasons",
			summary: pipeline.Summary{
				Plan:      assembly.Plan{Mode: assembly.ModeCompiled, Order: assembly.OrderChronological},
				Status:    pipeline.StatusSucceeded,
				RowsRead:  3,
				RowsValid: 1,
				Dropped: map[manifest.DropReason]int{
					manifest.DropBadStart: 1,
					manifest.DropEmptyKey: 1,
				},
			},
			want: "(bad_start=1, empty_key=1)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joined := strings.Join(summaryLines(tt.summary, "/out", false), "\n")
			requireContains(t, joined, tt.want)
		})
	}
}

func TestCheckLines(t *testing.T) {
	lines := checkLines([]preflight.Result{
		{Name: "FFmpeg", Passed: true, Detail: "/usr/bin/ffmpeg"},
		{Name: "Archive", Optional: true, Detail: "skipped"},
		{Name: "Manifest", Detail: "missing"},
	}, false)
	if len(lines) != 5 {
		t.Fatalf("expected header plus 3 lines, got %d", len(lines))
	}
	requireContains(t, lines[2], "[OK] /usr/bin/ffmpeg")
	requireContains(t, lines[3], "[WARN] skipped")
	requireContains(t, lines[4], "[ERROR] missing")
}
