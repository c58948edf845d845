package testsupport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reelcut/internal/media"
)

// FakeHandle is the handle type issued by FakeEngine.
type FakeHandle struct {
	ID       int
	kind     media.Kind
	Path     string
	Start    time.Duration
	End      time.Duration
	Source   *FakeHandle
	Segments []*FakeHandle
	closed   bool
}

func (h *FakeHandle) Kind() media.Kind { return h.kind }

func (h *FakeHandle) Label() string {
	switch h.kind {
	case media.KindSource:
		return fmt.Sprintf("fake-source#%d(%s)", h.ID, filepath.Base(h.Path))
	case media.KindCut:
		return fmt.Sprintf("fake-cut#%d(%s %s-%s)", h.ID, filepath.Base(h.Source.Path), h.Start, h.End)
	default:
		return fmt.Sprintf("fake-compiled#%d(%d)", h.ID, len(h.Segments))
	}
}

// Describe renders a cut as "<source base>@<start>-<end>".
func (h *FakeHandle) Describe() string {
	if h.kind != media.KindCut {
		return h.Label()
	}
	return fmt.Sprintf("%s@%s-%s", filepath.Base(h.Source.Path), h.Start, h.End)
}

// FakeWrite records one Write call.
type FakeWrite struct {
	Path     string
	Segments []string
	Options  media.WriteOptions
	Err      error
}

// FakeEngine is an in-memory media.Engine with failure injection and close
// accounting. Writes create a small file listing the written segments.
type FakeEngine struct {
	// OpenErr fails Open for the given source base name.
	OpenErr map[string]error
	// TrimErr, when set, is consulted for every trim.
	TrimErr   func(source string, start, end time.Duration) error
	ConcatErr error
	// WriteErr, when set, is consulted for every write by output base name.
	WriteErr func(output string) error
	CloseErr func(h *FakeHandle) error

	Issued []*FakeHandle
	Writes []FakeWrite
	closes map[*FakeHandle]int
	nextID int
}

// NewFakeEngine returns an engine with no injected failures.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{closes: make(map[*FakeHandle]int)}
}

func (f *FakeEngine) issue(h *FakeHandle) *FakeHandle {
	f.nextID++
	h.ID = f.nextID
	f.Issued = append(f.Issued, h)
	return h
}

func (f *FakeEngine) Open(_ context.Context, path string) (media.Handle, error) {
	if err := f.OpenErr[filepath.Base(path)]; err != nil {
		return nil, media.Wrap(media.ErrOpen, path, "", err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, media.Wrap(media.ErrOpen, path, "", err)
	}
	return f.issue(&FakeHandle{kind: media.KindSource, Path: path}), nil
}

func (f *FakeEngine) Trim(_ context.Context, source media.Handle, start, end time.Duration) (media.Handle, error) {
	src, ok := source.(*FakeHandle)
	if !ok || src.kind != media.KindSource {
		return nil, media.Wrap(media.ErrTrim, "", "not a source", nil)
	}
	if src.closed {
		return nil, media.Wrap(media.ErrTrim, src.Path, "", media.ErrClosed)
	}
	if f.TrimErr != nil {
		if err := f.TrimErr(filepath.Base(src.Path), start, end); err != nil {
			return nil, media.Wrap(media.ErrTrim, src.Path, "", err)
		}
	}
	return f.issue(&FakeHandle{kind: media.KindCut, Source: src, Start: start, End: end}), nil
}

func (f *FakeEngine) Concatenate(_ context.Context, cuts []media.Handle) (media.Handle, error) {
	if len(cuts) == 0 {
		return nil, media.Wrap(media.ErrConcat, "", "no segments", nil)
	}
	if f.ConcatErr != nil {
		return nil, media.Wrap(media.ErrConcat, "", "", f.ConcatErr)
	}
	segments := make([]*FakeHandle, 0, len(cuts))
	for _, h := range cuts {
		c, ok := h.(*FakeHandle)
		if !ok || c.kind != media.KindCut {
			return nil, media.Wrap(media.ErrConcat, "", "not a cut", nil)
		}
		if c.closed {
			return nil, media.Wrap(media.ErrConcat, c.Label(), "", media.ErrClosed)
		}
		segments = append(segments, c)
	}
	return f.issue(&FakeHandle{kind: media.KindCompiled, Segments: segments}), nil
}

func (f *FakeEngine) Write(_ context.Context, h media.Handle, outputPath string, opts media.WriteOptions) error {
	fh, ok := h.(*FakeHandle)
	if !ok || fh.kind == media.KindSource {
		return media.Wrap(media.ErrWrite, outputPath, "not writable", nil)
	}
	segments := fh.Segments
	if fh.kind == media.KindCut {
		segments = []*FakeHandle{fh}
	}
	record := FakeWrite{Path: outputPath, Options: opts}
	for _, seg := range segments {
		record.Segments = append(record.Segments, seg.Describe())
	}
	if fh.closed {
		record.Err = media.Wrap(media.ErrWrite, outputPath, "", media.ErrClosed)
	} else if f.WriteErr != nil {
		if err := f.WriteErr(filepath.Base(outputPath)); err != nil {
			record.Err = media.Wrap(media.ErrWrite, outputPath, "", err)
		}
	}
	if record.Err == nil {
		if err := os.WriteFile(outputPath, []byte(strings.Join(record.Segments, "\n")+"\n"), 0o644); err != nil {
			record.Err = media.Wrap(media.ErrWrite, outputPath, "", err)
		}
	}
	f.Writes = append(f.Writes, record)
	return record.Err
}

func (f *FakeEngine) Close(h media.Handle) error {
	fh, ok := h.(*FakeHandle)
	if !ok {
		return fmt.Errorf("close: unexpected handle %T", h)
	}
	if f.closes == nil {
		f.closes = make(map[*FakeHandle]int)
	}
	f.closes[fh]++
	fh.closed = true
	if f.CloseErr != nil {
		return f.CloseErr(fh)
	}
	return nil
}

// CloseCount reports how many times h was closed.
func (f *FakeEngine) CloseCount(h media.Handle) int {
	fh, ok := h.(*FakeHandle)
	if !ok {
		return 0
	}
	return f.closes[fh]
}

// CountIssued returns how many handles of kind were issued.
func (f *FakeEngine) CountIssued(kind media.Kind) int {
	n := 0
	for _, h := range f.Issued {
		if h.kind == kind {
			n++
		}
	}
	return n
}

// VerifyClosedOnce returns an error naming every issued handle that was not
// closed exactly once.
func (f *FakeEngine) VerifyClosedOnce() error {
	var problems []string
	for _, h := range f.Issued {
		if n := f.closes[h]; n != 1 {
			problems = append(problems, fmt.Sprintf("%s closed %d times", h.Label(), n))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

var _ media.Engine = (*FakeEngine)(nil)
