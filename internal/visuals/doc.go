// Package visuals decomposes a lesson script into timed scenes and
// rasterizes a frame per scene.
//
// Scene decomposition is deterministic: the same script always yields the
// same scene sequence with contiguous start times. Frame rendering uses
// fogleman/gg; when no font file is configured a built-in bitmap face
// keeps rendering working everywhere.
package visuals
