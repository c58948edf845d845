package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"reelcut/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reelcut.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLast(t *testing.T) {
	path := writeLog(t, "a\nb\nc\npartial")

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "two", n: 2, want: []string{"b", "c"}},
		{name: "more than available", n: 10, want: []string{"a", "b", "c"}},
		{name: "none", n: 0, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, offset, err := logs.Last(path, tt.n, nil)
			if err != nil {
				t.Fatalf("Last: %v", err)
			}
			if !slices.Equal(lines, tt.want) {
				t.Fatalf("lines = %#v, want %#v", lines, tt.want)
			}
			if offset != int64(len("a\nb\nc\n")) {
				t.Fatalf("offset = %d, want end of last complete line", offset)
			}
		})
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "none.log"), 5, nil)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("expected empty result, got %v %d %v", lines, offset, err)
	}
}

func TestForRun(t *testing.T) {
	path := writeLog(t, ""+
		"2026-01-02T15:04:05Z INFO pipeline: run finished run_id=run-1\n"+
		"2026-01-02T15:04:06Z INFO pipeline: run finished run_id=run-2\n"+
		`{"level":"info","msg":"manifest loaded","run_id":"run-1"}`+"\n")

	lines, _, err := logs.Last(path, 10, logs.ForRun("run-1"))
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected console and json lines for run-1, got %#v", lines)
	}
	if logs.ForRun("  ") != nil {
		t.Fatal("blank run id should match everything")
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	_, offset, err := logs.Last(path, 1, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 10*time.Millisecond, nil, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
			cancel()
		})
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("next\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Follow: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Follow did not return")
	}
	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(got, []string{"next"}) {
		t.Fatalf("got %#v", got)
	}
}
