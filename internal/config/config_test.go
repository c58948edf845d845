package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reelcut/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "reelcut", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if !filepath.IsAbs(cfg.Paths.Manifest) || filepath.Base(cfg.Paths.Manifest) != "cuts.csv" {
		t.Fatalf("unexpected manifest path: %q", cfg.Paths.Manifest)
	}
	if cfg.Manifest.StartColumn != "COMEÇO DO CORTE" || cfg.Manifest.EndColumn != "FINAL DO CORTE" {
		t.Fatalf("unexpected default columns: %+v", cfg.Manifest)
	}
	if cfg.Sources.Extension != ".mpg" {
		t.Fatalf("unexpected source extension: %q", cfg.Sources.Extension)
	}
	if cfg.Output.NumberWidth != 4 {
		t.Fatalf("unexpected number width: %d", cfg.Output.NumberWidth)
	}
	if cfg.Output.Mode != "" {
		t.Fatalf("expected empty default mode, got %q", cfg.Output.Mode)
	}
	if cfg.Engine.VideoCodec != "libx264" || cfg.Engine.AudioCodec != "aac" {
		t.Fatalf("unexpected codecs: %+v", cfg.Engine)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.Archive.Enabled {
		t.Fatal("expected archive disabled by default")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.History.Path)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "reelcut.toml")

	type payload struct {
		Paths struct {
			SourceDir string `toml:"source_dir"`
		} `toml:"paths"`
		Sources struct {
			Extension string `toml:"extension"`
		} `toml:"sources"`
		Output struct {
			Mode  string `toml:"mode"`
			Order string `toml:"order"`
			Seed  int64  `toml:"seed"`
		} `toml:"output"`
	}
	custom := payload{}
	custom.Paths.SourceDir = filepath.Join(tempDir, "videos")
	custom.Sources.Extension = "MKV"
	custom.Output.Mode = " Individual "
	custom.Output.Order = "RANDOM"
	custom.Output.Seed = 42

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom path to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.SourceDir != filepath.Join(tempDir, "videos") {
		t.Fatalf("unexpected source dir: %q", cfg.Paths.SourceDir)
	}
	if cfg.Sources.Extension != ".MKV" {
		t.Fatalf("expected extension to gain a dot, got %q", cfg.Sources.Extension)
	}
	if cfg.Output.Mode != "individual" || cfg.Output.Order != "random" {
		t.Fatalf("expected normalized mode/order, got %q/%q", cfg.Output.Mode, cfg.Output.Order)
	}
	if cfg.Output.Seed != 42 {
		t.Fatalf("unexpected seed: %d", cfg.Output.Seed)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad mode", "[output]\nmode = \"both\"\n", "output.mode"},
		{"bad order", "[output]\norder = \"sorted\"\n", "output.order"},
		{"same columns", "[manifest]\nstart_column = \"A\"\nend_column = \"A\"\n", "must differ"},
		{"bad delimiter", "[manifest]\ndelimiter = \";;\"\n", "single character"},
		{"prefix with slash", "[output]\nindividual_prefix = \"a/b\"\n", "individual_prefix"},
		{"crf out of range", "[engine]\ncrf = 99\n", "engine.crf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "reelcut.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestEnvOverridesBinaries(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REELCUT_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("REELCUT_FFPROBE", " /opt/ffmpeg/bin/ffprobe ")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Engine.FFmpegBinary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.Engine.FFmpegBinary)
	}
	if cfg.Engine.FFprobeBinary != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("unexpected ffprobe binary: %q", cfg.Engine.FFprobeBinary)
	}
}

func TestTabDelimiterAlias(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reelcut.toml")
	if err := os.WriteFile(path, []byte("[manifest]\ndelimiter = \"tab\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Manifest.Delimiter != "\t" {
		t.Fatalf("expected tab delimiter, got %q", cfg.Manifest.Delimiter)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	t.Setenv("HOME", t.TempDir())
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load cleanly, exists=%v err=%v", exists, err)
	}
}
