// Package video composes scene frames and narration audio into the lesson
// video. The probed audio duration is the timing ground truth: the basic
// path spreads it uniformly over the scenes, the smooth path keeps the
// planned per-scene timing and adds crossfades, and either way the output
// is trimmed so it never outlasts the narration.
package video
