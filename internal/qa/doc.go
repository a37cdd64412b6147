// Package qa runs the quality gates over generated lesson scripts and
// drives bounded regeneration.
//
// Four checks run concurrently and their findings are joined in a fixed
// order so reports are deterministic. Content problems become errors;
// verification availability problems become warnings; an unreachable
// grading service must never masquerade as a content failure. The
// controller regenerates a failing script a bounded number of times and
// falls back to a deliberately simple safe script when the budget runs out,
// so a script is always produced.
package qa
