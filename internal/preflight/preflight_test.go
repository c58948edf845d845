package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcut/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		path   string
		passed bool
	}{
		{name: "temp dir", path: dir, passed: true},
		{name: "missing", path: filepath.Join(dir, "nope"), passed: false},
		{name: "file", path: file, passed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckDirectoryAccess("test", tt.path)
			if result.Passed != tt.passed {
				t.Fatalf("Passed = %v, want %v (%s)", result.Passed, tt.passed, result.Detail)
			}
			if result.Detail == "" {
				t.Fatal("expected non-empty detail")
			}
		})
	}
}

func TestCheckReadableFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cuts.csv")
	if err := os.WriteFile(file, []byte("a,b,c\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if r := CheckReadableFile("Manifest", file); !r.Passed {
		t.Fatalf("expected readable file to pass: %s", r.Detail)
	}
	if r := CheckReadableFile("Manifest", dir); r.Passed {
		t.Fatal("expected directory to fail")
	}
	if r := CheckReadableFile("Manifest", filepath.Join(dir, "missing.csv")); r.Passed {
		t.Fatal("expected missing file to fail")
	}
}

func TestCheckWritableLocationNotYetCreated(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out", "cuts")

	result := CheckWritableLocation("Individual output", target)
	if !result.Passed {
		t.Fatalf("expected pass for creatable dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected creation note, got %q", result.Detail)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if r := CheckFreeSpace("space", dir, 1); !r.Passed {
		t.Fatalf("expected at least one free byte: %s", r.Detail)
	}
	if r := CheckFreeSpace("space", dir, ^uint64(0)); r.Passed {
		t.Fatal("expected failure for impossible threshold")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[uint64]string{
		512:     "512 B",
		2048:    "2.0 KiB",
		1 << 30: "1.0 GiB",
	}
	for in, want := range tests {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRunAllReportsPathsAndBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	testsupport.WriteManifest(t, cfg.Paths.Manifest, "A,00:00:01,00:00:02")

	results := RunAll(context.Background(), cfg)
	byName := make(map[string]Result, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}

	for _, name := range []string{"Manifest", "Source directory", "Compiled output", "Individual output", "Log directory", "FFmpeg", "FFprobe"} {
		r, ok := byName[name]
		if !ok {
			t.Fatalf("missing result %q in %#v", name, results)
		}
		if !r.Passed {
			t.Errorf("%s failed: %s", name, r.Detail)
		}
	}
	if _, ok := byName["Archive directory"]; ok {
		t.Fatal("archive check should be skipped when archive is disabled")
	}
	// The stub ffmpeg lists no encoders.
	if r, ok := byName["encoder libx264"]; !ok || r.Passed {
		t.Fatalf("expected failing libx264 encoder check, got %#v", r)
	}
}

func TestMissingBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Engine.FFmpegBinary = "reelcut-no-such-ffmpeg"
	cfg.Engine.FFprobeBinary = "reelcut-no-such-ffprobe"

	missing := MissingBinaries(cfg)
	if len(missing) != 2 {
		t.Fatalf("expected both binaries missing, got %#v", missing)
	}
}

func TestFailed(t *testing.T) {
	results := []Result{
		{Name: "ok", Passed: true},
		{Name: "optional", Optional: true},
		{Name: "required"},
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "required" {
		t.Fatalf("unexpected failed set: %#v", failed)
	}
}

func TestCheckPartials(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if r := CheckPartials(cfg); !r.Passed {
		t.Fatalf("expected clean output dirs to pass: %s", r.Detail)
	}

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.IndividualDir, ".reelcut-cut0002.mp4"), 8)
	r := CheckPartials(cfg)
	if r.Passed || !r.Optional {
		t.Fatalf("expected optional warning, got %#v", r)
	}
	if !strings.Contains(r.Detail, "1 left") {
		t.Fatalf("unexpected detail %q", r.Detail)
	}
}
