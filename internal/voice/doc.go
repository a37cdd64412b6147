// Package voice synthesizes lesson narration through an external
// text-to-speech API.
//
// Long-form synthesis runs under an extended timeout. A throttled response
// is retried exactly once after a fixed cooldown; any other failure
// propagates, since half a narration is useless downstream.
package voice
