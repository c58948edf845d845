// Package media defines the contract between the cut pipeline and the engine
// that actually decodes, trims, concatenates and encodes video.
//
// The pipeline only orchestrates: it never touches frames itself. Every engine
// call is blocking and returns an opaque Handle that must later be passed to
// Engine.Close exactly once; the ledger package enforces that. Failures are
// tagged with the ErrOpen, ErrTrim, ErrConcat and ErrWrite markers so callers
// can classify them with errors.Is regardless of the engine in use.
//
// The ffmpeg subpackage provides the production engine; ffprobe wraps the
// inspection binary it uses to open sources.
package media
