package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcut/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.Paths.Manifest)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestPlanCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteManifest(t, env.cfg.Paths.Manifest,
		"A,00:00:01,00:00:05",
		"Z,00:00:01,00:00:02",
		",00:00:01,00:00:02",
	)

	out, _, err := runCLI(t, []string{"plan", "--dropped"}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "A_take1.mpg")
	requireContains(t, out, "(not found)")
	requireContains(t, out, "empty_key")
	requireContains(t, out, "3 rows read, 2 valid, 1 dropped; 1 cuts from 1 resolved groups, 1 groups missing")
	if len(env.engine.Issued) != 0 {
		t.Fatal("plan must not touch the media engine")
	}
}

func TestCheckCommandReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	// The stub ffmpeg lists no encoders, so the encoder checks fail.
	if err == nil {
		t.Fatalf("expected encoder checks to fail:\n%s", out)
	}
	requireContains(t, out, "Manifest:")
	requireContains(t, out, "FFprobe:")
	requireContains(t, out, "[ERROR]")
}

func TestLogsCommandFiltersByRun(t *testing.T) {
	env := setupCLITestEnv(t)
	logPath := filepath.Join(env.cfg.Paths.LogDir, "reelcut.log")
	content := "INFO pipeline: run finished run_id=aaa\nINFO pipeline: run finished run_id=bbb\n"
	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"logs", "--run", "bbb"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "run_id=bbb")
	if strings.Contains(out, "run_id=aaa") {
		t.Fatalf("unexpected line from another run: %q", out)
	}
}
