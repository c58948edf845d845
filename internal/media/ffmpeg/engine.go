package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"reelcut/internal/logging"
	"reelcut/internal/media"
	"reelcut/internal/media/ffprobe"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

type probeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Config holds the binaries and encoder tuning used by the engine.
type Config struct {
	FFmpegBinary  string
	FFprobeBinary string
	// Preset and CRF are passed to the video encoder when set.
	Preset string
	CRF    int
}

// Engine implements media.Engine on top of the ffmpeg and ffprobe binaries.
// Trim and Concatenate are lazy: they validate and record ranges, and the
// actual decode/encode happens in a single ffmpeg invocation per Write.
type Engine struct {
	cfg    Config
	logger *slog.Logger
	run    commandRunner
	probe  probeFunc
	nextID int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithCommandRunner allows injecting a custom command runner for tests.
func WithCommandRunner(r commandRunner) Option {
	return func(e *Engine) {
		if r != nil {
			e.run = r
		}
	}
}

// WithProbe replaces the ffprobe invocation used by Open.
func WithProbe(p probeFunc) Option {
	return func(e *Engine) {
		if p != nil {
			e.probe = p
		}
	}
}

// New constructs an ffmpeg engine.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Engine {
	if strings.TrimSpace(cfg.FFmpegBinary) == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(cfg.FFprobeBinary) == "" {
		cfg.FFprobeBinary = "ffprobe"
	}
	e := &Engine{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
		run:    defaultCommandRunner,
		probe:  ffprobe.Inspect,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type source struct {
	id       int
	path     string
	duration time.Duration
	hasAudio bool
	closed   bool
}

func (s *source) Kind() media.Kind { return media.KindSource }
func (s *source) Label() string    { return fmt.Sprintf("source#%d(%s)", s.id, filepath.Base(s.path)) }

type cut struct {
	id     int
	src    *source
	start  time.Duration
	end    time.Duration
	closed bool
}

func (c *cut) Kind() media.Kind { return media.KindCut }
func (c *cut) Label() string {
	return fmt.Sprintf("cut#%d(%s %s-%s)", c.id, filepath.Base(c.src.path), c.start, c.end)
}

type compiled struct {
	id       int
	segments []*cut
	closed   bool
}

func (c *compiled) Kind() media.Kind { return media.KindCompiled }
func (c *compiled) Label() string {
	return fmt.Sprintf("compiled#%d(%d segments)", c.id, len(c.segments))
}

func (e *Engine) allocID() int {
	e.nextID++
	return e.nextID
}

// Open probes path and returns a source handle.
func (e *Engine) Open(ctx context.Context, path string) (media.Handle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, media.Wrap(media.ErrOpen, path, "", err)
	}
	if info.IsDir() {
		return nil, media.Wrap(media.ErrOpen, path, "is a directory", nil)
	}
	result, err := e.probe(ctx, e.cfg.FFprobeBinary, path)
	if err != nil {
		return nil, media.Wrap(media.ErrOpen, path, "probe", err)
	}
	if result.VideoStreamCount() == 0 {
		return nil, media.Wrap(media.ErrOpen, path, "no video stream", nil)
	}
	duration := result.Duration()
	if duration <= 0 {
		return nil, media.Wrap(media.ErrOpen, path, "unknown duration", nil)
	}
	src := &source{
		id:       e.allocID(),
		path:     path,
		duration: duration,
		hasAudio: result.AudioStreamCount() > 0,
	}
	e.logger.Debug("source opened",
		logging.String("path", path),
		logging.Duration("duration", duration),
		logging.Bool("audio", src.hasAudio),
	)
	return src, nil
}

// Trim records the [start, end) range of an open source.
func (e *Engine) Trim(_ context.Context, h media.Handle, start, end time.Duration) (media.Handle, error) {
	src, ok := h.(*source)
	if !ok || src == nil {
		return nil, media.Wrap(media.ErrTrim, "", fmt.Sprintf("handle %T is not an ffmpeg source", h), nil)
	}
	if src.closed {
		return nil, media.Wrap(media.ErrTrim, src.path, "", media.ErrClosed)
	}
	if start < 0 || end <= start {
		return nil, media.Wrap(media.ErrTrim, src.path, fmt.Sprintf("empty range %s-%s", start, end), nil)
	}
	if end > src.duration {
		return nil, media.Wrap(media.ErrTrim, src.path, fmt.Sprintf("range ends at %s after source end %s", end, src.duration), nil)
	}
	return &cut{id: e.allocID(), src: src, start: start, end: end}, nil
}

// Concatenate joins cuts into one compiled handle. All segments must agree on
// whether they carry audio.
func (e *Engine) Concatenate(_ context.Context, cuts []media.Handle) (media.Handle, error) {
	if len(cuts) == 0 {
		return nil, media.Wrap(media.ErrConcat, "", "no segments", nil)
	}
	segments := make([]*cut, 0, len(cuts))
	for i, h := range cuts {
		c, ok := h.(*cut)
		if !ok || c == nil {
			return nil, media.Wrap(media.ErrConcat, "", fmt.Sprintf("segment %d: handle %T is not an ffmpeg cut", i, h), nil)
		}
		if c.closed || c.src.closed {
			return nil, media.Wrap(media.ErrConcat, c.Label(), "", media.ErrClosed)
		}
		if c.src.hasAudio != leadingAudio(segments, c) {
			return nil, media.Wrap(media.ErrConcat, c.Label(), "segments mix sources with and without audio", nil)
		}
		segments = append(segments, c)
	}
	return &compiled{id: e.allocID(), segments: segments}, nil
}

func leadingAudio(segments []*cut, fallback *cut) bool {
	if len(segments) == 0 {
		return fallback.src.hasAudio
	}
	return segments[0].src.hasAudio
}

// Write renders h to outputPath. The file is produced under a temporary name
// in the same directory and renamed once ffmpeg succeeds.
func (e *Engine) Write(ctx context.Context, h media.Handle, outputPath string, opts media.WriteOptions) error {
	segments, err := segmentsOf(h)
	if err != nil {
		return media.Wrap(media.ErrWrite, outputPath, "", err)
	}
	if strings.TrimSpace(outputPath) == "" {
		return media.Wrap(media.ErrWrite, "", "output path required", nil)
	}

	dir := filepath.Dir(outputPath)
	tmpPath := filepath.Join(dir, media.PartialPrefix+filepath.Base(outputPath))
	hasAudio := segments[0].src.hasAudio

	if hasAudio && strings.TrimSpace(opts.TempAudioPath) != "" {
		defer func() {
			if rmErr := os.Remove(opts.TempAudioPath); rmErr != nil && !os.IsNotExist(rmErr) {
				e.logger.Warn("temporary audio not removed", logging.String("path", opts.TempAudioPath), logging.Error(rmErr))
			}
		}()
		if err := e.exec(ctx, audioPassArgs(segments, opts, opts.TempAudioPath)); err != nil {
			return media.Wrap(media.ErrWrite, outputPath, "render audio", err)
		}
		if err := e.exec(ctx, e.muxPassArgs(segments, opts, tmpPath)); err != nil {
			_ = os.Remove(tmpPath)
			return media.Wrap(media.ErrWrite, outputPath, "mux", err)
		}
	} else {
		if err := e.exec(ctx, e.singlePassArgs(segments, hasAudio, opts, tmpPath)); err != nil {
			_ = os.Remove(tmpPath)
			return media.Wrap(media.ErrWrite, outputPath, "encode", err)
		}
	}

	if _, err := os.Stat(tmpPath); err != nil {
		return media.Wrap(media.ErrWrite, outputPath, "ffmpeg did not produce output", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return media.Wrap(media.ErrWrite, outputPath, "rename", err)
	}
	return nil
}

// Close releases a handle. Closing twice is a no-op.
func (e *Engine) Close(h media.Handle) error {
	switch v := h.(type) {
	case *source:
		v.closed = true
	case *cut:
		v.closed = true
	case *compiled:
		v.closed = true
	default:
		return fmt.Errorf("close: handle %T is not an ffmpeg handle", h)
	}
	return nil
}

func segmentsOf(h media.Handle) ([]*cut, error) {
	switch v := h.(type) {
	case *cut:
		if v.closed || v.src.closed {
			return nil, media.ErrClosed
		}
		return []*cut{v}, nil
	case *compiled:
		if v.closed {
			return nil, media.ErrClosed
		}
		for _, seg := range v.segments {
			if seg.closed || seg.src.closed {
				return nil, fmt.Errorf("%s: %w", seg.Label(), media.ErrClosed)
			}
		}
		return v.segments, nil
	default:
		return nil, fmt.Errorf("handle %T cannot be written", h)
	}
}

func (e *Engine) exec(ctx context.Context, args []string) error {
	e.logger.Debug("executing ffmpeg", logging.String("args", strings.Join(args, " ")))
	return e.run(ctx, e.cfg.FFmpegBinary, args...)
}

func inputArgs(segments []*cut) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}
	for _, seg := range segments {
		args = append(args,
			"-ss", formatSeconds(seg.start),
			"-t", formatSeconds(seg.end-seg.start),
			"-i", seg.src.path,
		)
	}
	return args
}

// concatFilter builds the concat filter over every segment input.
func concatFilter(n int, video, audio bool) string {
	var b strings.Builder
	for i := range n {
		if video {
			fmt.Fprintf(&b, "[%d:v:0]", i)
		}
		if audio {
			fmt.Fprintf(&b, "[%d:a:0]", i)
		}
	}
	fmt.Fprintf(&b, "concat=n=%d:v=%d:a=%d", n, boolInt(video), boolInt(audio))
	if video {
		b.WriteString("[v]")
	}
	if audio {
		b.WriteString("[a]")
	}
	return b.String()
}

func (e *Engine) videoCodecArgs(opts media.WriteOptions) []string {
	var args []string
	if codec := strings.TrimSpace(opts.VideoCodec); codec != "" {
		args = append(args, "-c:v", codec)
	}
	if e.cfg.Preset != "" {
		args = append(args, "-preset", e.cfg.Preset)
	}
	if e.cfg.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(e.cfg.CRF))
	}
	return args
}

func (e *Engine) singlePassArgs(segments []*cut, audio bool, opts media.WriteOptions, output string) []string {
	args := inputArgs(segments)
	if len(segments) == 1 {
		args = append(args, "-map", "0:v:0")
		if audio {
			args = append(args, "-map", "0:a:0")
		}
	} else {
		args = append(args, "-filter_complex", concatFilter(len(segments), true, audio), "-map", "[v]")
		if audio {
			args = append(args, "-map", "[a]")
		}
	}
	args = append(args, e.videoCodecArgs(opts)...)
	if audio && strings.TrimSpace(opts.AudioCodec) != "" {
		args = append(args, "-c:a", opts.AudioCodec)
	}
	return append(args, output)
}

func audioPassArgs(segments []*cut, opts media.WriteOptions, output string) []string {
	args := inputArgs(segments)
	if len(segments) == 1 {
		args = append(args, "-map", "0:a:0")
	} else {
		args = append(args, "-filter_complex", concatFilter(len(segments), false, true), "-map", "[a]")
	}
	args = append(args, "-vn")
	if codec := strings.TrimSpace(opts.AudioCodec); codec != "" {
		args = append(args, "-c:a", codec)
	}
	return append(args, output)
}

func (e *Engine) muxPassArgs(segments []*cut, opts media.WriteOptions, output string) []string {
	args := inputArgs(segments)
	args = append(args, "-i", opts.TempAudioPath)
	if len(segments) == 1 {
		args = append(args, "-map", "0:v:0")
	} else {
		args = append(args, "-filter_complex", concatFilter(len(segments), true, false), "-map", "[v]")
	}
	args = append(args, "-map", fmt.Sprintf("%d:a:0", len(segments)))
	args = append(args, e.videoCodecArgs(opts)...)
	args = append(args, "-c:a", "copy", "-shortest")
	return append(args, output)
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

var _ media.Engine = (*Engine)(nil)
