// Package deps reports whether the external binaries reelcut shells out to
// are installed, and whether the installed ffmpeg carries the encoders the
// configured codecs need.
package deps
