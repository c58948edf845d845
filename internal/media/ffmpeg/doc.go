// Package ffmpeg implements the media engine by shelling out to ffmpeg and
// ffprobe.
//
// Handles are lightweight descriptors: opening a source probes it once, trims
// record time ranges, and every Write renders its segments in a single ffmpeg
// invocation (two when a temporary audio file is requested). Outputs are
// written beside their destination under a hidden name and renamed into place
// so an interrupted encode never leaves a partial file at the final path.
package ffmpeg
