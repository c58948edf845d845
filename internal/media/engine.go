package media

import (
	"context"
	"time"
)

// PartialPrefix marks an output that is still being written. Engines write
// to PartialPrefix+base beside the destination and rename on success.
const PartialPrefix = ".reelcut-"

// Kind classifies a handle issued by an Engine.
type Kind int

const (
	KindSource Kind = iota + 1
	KindCut
	KindCompiled
)

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindCut:
		return "cut"
	case KindCompiled:
		return "compiled"
	default:
		return "unknown"
	}
}

// Handle is an opaque engine resource. Label is only used for diagnostics.
type Handle interface {
	Kind() Kind
	Label() string
}

// WriteOptions carries the encode settings for Engine.Write.
type WriteOptions struct {
	VideoCodec string
	AudioCodec string
	// TempAudioPath, when set, stages the audio track in this file before
	// muxing. The file is removed once the write finishes.
	TempAudioPath string
}

// Engine supplies the media primitives the pipeline orchestrates.
type Engine interface {
	// Open loads a source file and returns a KindSource handle.
	Open(ctx context.Context, path string) (Handle, error)
	// Trim returns a KindCut handle covering [start, end) of source.
	Trim(ctx context.Context, source Handle, start, end time.Duration) (Handle, error)
	// Concatenate joins cuts, in order, into one KindCompiled handle.
	Concatenate(ctx context.Context, cuts []Handle) (Handle, error)
	// Write encodes a cut or compiled handle to outputPath.
	Write(ctx context.Context, h Handle, outputPath string, opts WriteOptions) error
	// Close releases a handle. Closing twice is a no-op.
	Close(h Handle) error
}
