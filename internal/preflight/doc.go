// Package preflight provides readiness checks for the external services,
// binaries, and filesystem paths the lesson pipeline depends on.
//
// The daemon runs RunAll and CheckSystemDeps at startup and logs anything
// that fails, so a missing ffmpeg or a bad API key surfaces before the
// first order is picked up rather than mid-pipeline.
package preflight
