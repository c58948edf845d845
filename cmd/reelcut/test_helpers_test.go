package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reelcut/internal/config"
	"reelcut/internal/media"
	"reelcut/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	engine     *testsupport.FakeEngine
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	t.Setenv("HOME", filepath.Join(testsupport.BaseDir(cfg), "home"))
	testsupport.WriteManifest(t, cfg.Paths.Manifest,
		"A,00:00:01,00:00:05",
		"B,00:00:10,00:00:12",
		"A,00:01:00,00:01:30",
		"C,00:00:05,00:00:01",
	)
	testsupport.TouchSources(t, cfg.Paths.SourceDir, "A_take1.mpg", "B.mpg")

	env := &cliTestEnv{
		cfg:        cfg,
		configPath: filepath.Join(testsupport.BaseDir(cfg), "config.toml"),
		engine:     testsupport.NewFakeEngine(),
	}
	writeTestConfig(t, env.configPath, cfg)
	return env
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, args, e.configPath, withEngineFactory(func(*config.Config, *slog.Logger) (media.Engine, error) {
		return e.engine, nil
	}))
}

func runCLI(t *testing.T, args []string, configPath string, opts ...rootOption) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(opts...)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
