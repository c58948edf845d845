package staging

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"reelcut/internal/logging"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIsPartial(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: ".reelcut-compiled.mp4", want: true},
		{name: ".reelcut-", want: false},
		{name: "temp-audio.m4a", want: true},
		{name: "compiled.mp4", want: false},
		{name: ".hidden", want: false},
	}
	for _, tt := range tests {
		if got := IsPartial(tt.name, "temp-audio.m4a"); got != tt.want {
			t.Errorf("IsPartial(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if IsPartial("temp-audio.m4a", "") {
		t.Error("empty temp audio name must not match")
	}
}

func TestCleanPartials(t *testing.T) {
	base := t.TempDir()
	out := filepath.Join(base, "out")
	cuts := filepath.Join(base, "cuts")

	touch(t, filepath.Join(out, ".reelcut-compiled.mp4"))
	touch(t, filepath.Join(out, "temp-audio.m4a"))
	touch(t, filepath.Join(out, "compiled.mp4"))
	touch(t, filepath.Join(cuts, ".reelcut-cut0003.mp4"))
	touch(t, filepath.Join(cuts, "cut0001.mp4"))
	if err := os.MkdirAll(filepath.Join(cuts, ".reelcut-dir"), 0o755); err != nil {
		t.Fatal(err)
	}

	result := CleanPartials([]string{out, cuts, out + "/", filepath.Join(base, "missing")}, "temp-audio.m4a", logging.NewNop())
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	want := []string{
		filepath.Join(out, ".reelcut-compiled.mp4"),
		filepath.Join(out, "temp-audio.m4a"),
		filepath.Join(cuts, ".reelcut-cut0003.mp4"),
	}
	slices.Sort(result.Removed)
	slices.Sort(want)
	if !slices.Equal(result.Removed, want) {
		t.Fatalf("removed %v, want %v", result.Removed, want)
	}
	for _, keep := range []string{filepath.Join(out, "compiled.mp4"), filepath.Join(cuts, "cut0001.mp4"), filepath.Join(cuts, ".reelcut-dir")} {
		if _, err := os.Stat(keep); err != nil {
			t.Fatalf("expected %s to survive: %v", keep, err)
		}
	}
}

func TestListPartialsEmpty(t *testing.T) {
	found, errs := ListPartials([]string{"", t.TempDir()}, "temp-audio.m4a")
	if len(found) != 0 || len(errs) != 0 {
		t.Fatalf("expected nothing, got %v %v", found, errs)
	}
}
