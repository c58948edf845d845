package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"reelcut/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Manifest = filepath.Join(base, "cuts.csv")
	cfgVal.Paths.SourceDir = filepath.Join(base, "sources")
	cfgVal.Paths.CompiledOutput = filepath.Join(base, "out", "compiled.mp4")
	cfgVal.Paths.IndividualDir = filepath.Join(base, "out", "cuts")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.History.Path = filepath.Join(base, "history", "history.db")
	cfgVal.Archive.Dir = filepath.Join(base, "archive")
	cfgVal.Output.Mode = "compiled"
	cfgVal.Output.Order = "chronological"

	if err := os.MkdirAll(cfgVal.Paths.SourceDir, 0o755); err != nil {
		t.Fatalf("mkdir source dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMode sets the output mode and order.
func WithMode(mode, order string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Mode = mode
		b.cfg.Output.Order = order
	}
}

// WithSeed fixes the random order seed.
func WithSeed(seed int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Seed = seed
	}
}

// WithHistory enables or disables the run history store.
func WithHistory(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = enabled
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SourceDir)
}
