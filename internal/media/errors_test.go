package media_test

import (
	"errors"
	"strings"
	"testing"

	"reelcut/internal/media"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	base := errors.New("exit status 1")
	err := media.Wrap(media.ErrTrim, "/videos/a.mpg", "end beyond duration", base)
	if !errors.Is(err, media.ErrTrim) {
		t.Fatalf("expected trim marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected cause to be wrapped, got %v", err)
	}
	for _, fragment := range []string{"trim failed", "/videos/a.mpg", "end beyond duration", "exit status 1"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %q", fragment, err.Error())
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	if err := media.Wrap(media.ErrOpen, "", "", nil); err != media.ErrOpen {
		t.Fatalf("expected bare marker, got %v", err)
	}
	err := media.Wrap(nil, "", "", errors.New("boom"))
	if !errors.Is(err, media.ErrWrite) {
		t.Fatalf("nil marker should default to ErrWrite, got %v", err)
	}
}

func TestKindString(t *testing.T) {
	cases := map[media.Kind]string{
		media.KindSource:   "source",
		media.KindCut:      "cut",
		media.KindCompiled: "compiled",
		media.Kind(0):      "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
