// Package config loads, normalizes, and validates reelcut configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks for the
// ffmpeg/ffprobe binaries. The Config type centralizes every knob a cut run
// needs so the pipeline receives one value that is built once at startup and
// never mutated afterwards.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
