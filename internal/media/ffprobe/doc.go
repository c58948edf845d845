// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The ffmpeg engine uses it to open sources: a probe tells the engine whether
// the file carries video and audio and how long it runs, which is what trim
// range validation needs.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - Parse: decodes an ffprobe JSON payload
package ffprobe
