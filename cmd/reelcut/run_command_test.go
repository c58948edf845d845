package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"reelcut/internal/assembly"
	"reelcut/internal/testsupport"
)

func TestRunCompiledDefault(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "run")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	requireContains(t, out, "wrote "+env.cfg.Paths.CompiledOutput+" (3 cuts)")
	requireContains(t, out, "4 read, 3 valid, 1 dropped")
	if _, err := os.Stat(env.cfg.Paths.CompiledOutput); err != nil {
		t.Fatalf("expected compiled output: %v", err)
	}
	if err := env.engine.VerifyClosedOnce(); err != nil {
		t.Fatal(err)
	}
}

func TestRunIndividualFromFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(t.TempDir(), "clips")

	out, _, err := env.run(t, "run", "--mode", "individual", "--individual-dir", dir)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	requireContains(t, out, "saved 3 of 3 individual cuts to "+dir)
	for _, name := range []string{"cut0001.mp4", "cut0002.mp4", "cut0003.mp4"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestRunJSONSummary(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "run", "--order", "random", "--seed", "42", "--json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var view summaryView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if view.Status != "succeeded" || view.Order != "random" || view.Seed != 42 {
		t.Fatalf("unexpected summary: %+v", view)
	}
	if view.CutsExtracted != 3 || view.Dropped["non_positive_duration"] != 1 {
		t.Fatalf("unexpected counts: %+v", view)
	}
}

func TestRunAssemblyFailureExitsNonZero(t *testing.T) {
	env := setupCLITestEnv(t)
	env.engine.ConcatErr = errors.New("concat exploded")

	out, _, err := env.run(t, "run")
	if err == nil {
		t.Fatal("expected failure")
	}
	requireContains(t, err.Error(), "run failed")
	requireContains(t, out, "[ERROR]")
	if err := env.engine.VerifyClosedOnce(); err != nil {
		t.Fatal(err)
	}
}

func TestRunMissingColumnsIsNotStarted(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("file,from,to\nA,00:00:01,00:00:02\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	_, _, err := env.run(t, "run", "--manifest", path)
	if err == nil {
		t.Fatal("expected missing columns to fail")
	}
	requireContains(t, err.Error(), "run not started")
	requireContains(t, err.Error(), "missing required column")
	if len(env.engine.Issued) != 0 {
		t.Fatalf("engine used for a run that never started: %d handles", len(env.engine.Issued))
	}
}

func TestRunRejectsBadModeFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := env.run(t, "run", "--mode", "sideways"); err == nil {
		t.Fatal("expected invalid mode to fail")
	}
}

func TestRunRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory(true))

	if _, _, err := env.run(t, "run"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, _, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "succeeded")
	requireContains(t, out, "compiled")
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory(false))
	if _, _, err := env.run(t, "history"); err == nil {
		t.Fatal("expected error when history is disabled")
	}
}

func TestResolvePlanWithoutTerminalDefaultsToCompiled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMode("", ""))

	plan, err := resolvePlan(context.Background(), cfg, bytes.NewReader(nil), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("resolvePlan: %v", err)
	}
	if plan.Mode != assembly.ModeCompiled || plan.Order != assembly.OrderChronological {
		t.Fatalf("unexpected plan %+v", plan)
	}
}

func TestResolvePlanIndividualIgnoresOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMode("individual", "random"))

	plan, err := resolvePlan(context.Background(), cfg, bytes.NewReader(nil), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("resolvePlan: %v", err)
	}
	if plan.Mode != assembly.ModeIndividual || plan.Order != assembly.OrderChronological {
		t.Fatalf("unexpected plan %+v", plan)
	}
}
