// Package ffprobe wraps the ffprobe binary for media inspection. The
// composer treats the probed audio duration as ground truth when timing
// scenes against synthesized narration.
package ffprobe
